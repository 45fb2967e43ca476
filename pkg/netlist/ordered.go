package netlist

import "iter"

// OrderedMap is a map that iterates in insertion order. Re-setting an
// existing key replaces its value without moving it.
type OrderedMap[K comparable, V any] struct {
	keys []K
	m    map[K]V
}

// NewOrderedMap creates an empty ordered map.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{m: make(map[K]V)}
}

// Set stores v under k.
func (om *OrderedMap[K, V]) Set(k K, v V) {
	if _, ok := om.m[k]; !ok {
		om.keys = append(om.keys, k)
	}
	om.m[k] = v
}

// Get returns the value stored under k.
func (om *OrderedMap[K, V]) Get(k K) (V, bool) {
	v, ok := om.m[k]
	return v, ok
}

// Has reports whether k is present.
func (om *OrderedMap[K, V]) Has(k K) bool {
	_, ok := om.m[k]
	return ok
}

// Len returns the number of entries.
func (om *OrderedMap[K, V]) Len() int { return len(om.keys) }

// Keys returns the keys in insertion order. The slice must not be modified.
func (om *OrderedMap[K, V]) Keys() []K { return om.keys }

// Values returns the values in insertion order.
func (om *OrderedMap[K, V]) Values() []V {
	out := make([]V, len(om.keys))
	for i, k := range om.keys {
		out[i] = om.m[k]
	}
	return out
}

// All iterates key/value pairs in insertion order.
func (om *OrderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range om.keys {
			if !yield(k, om.m[k]) {
				return
			}
		}
	}
}
