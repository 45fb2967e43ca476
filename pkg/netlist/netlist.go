// Package netlist holds the placeable objects of a design together with
// their interned pins and the nets connecting them.
//
// A [Design] is built incrementally from parsed records: objects first, then
// placements, then pins and nets. Objects and nets iterate in insertion
// order so every downstream output is deterministic.
//
// # Pin interning
//
// Pins are identified by (owner, direction class, exact offset). Adding the
// same pin twice returns the same [PinID]. Input and output pins are interned
// separately; a bidirectional request interns one of each at the offset and
// returns both IDs. Offsets are compared for exact equality because the
// source format stores exact decimal values; -0 and 0 are the same offset and
// non-finite offsets are rejected.
package netlist

import (
	"fmt"
	"math"

	"github.com/matzehuels/shelfconv/pkg/errors"
)

// Direction is the signal direction of a pin record.
type Direction uint8

const (
	Input Direction = iota
	Output
	Bidirectional
)

// ParseDirection parses a Bookshelf direction letter (I, O or B).
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "I":
		return Input, nil
	case "O":
		return Output, nil
	case "B":
		return Bidirectional, nil
	}
	return 0, errors.New(errors.ErrCodeStructural, "pin direction should be I, O or B, got %q", s)
}

// String returns the lower-case direction name.
func (d Direction) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	case Bidirectional:
		return "bidirectional"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Letter returns the Bookshelf letter for d.
func (d Direction) Letter() string {
	switch d {
	case Input:
		return "I"
	case Output:
		return "O"
	}
	return "B"
}

// Offset is a pin position relative to its owner's center.
type Offset struct {
	X, Y float64
}

// PinID identifies an interned pin within a Design.
type PinID int

// Pin is an interned connection point on an object. Direction is always
// Input or Output.
type Pin struct {
	ID        PinID
	Name      string
	Owner     string
	Direction Direction
	Offset    Offset
}

// Object is a placeable cell or a fixed terminal.
type Object struct {
	Name          string
	Width, Height int
	X, Y          int
	Fixed         bool
	Placed        bool // a placement record was read
}

// Area returns Width*Height.
func (o *Object) Area() int64 { return int64(o.Width) * int64(o.Height) }

// Net is a named set of pins. DeclaredDegree is advisory; Records counts the
// pin records read for the net, which can differ from len(Pins) when
// bidirectional records expand into two pins.
type Net struct {
	Name           string
	DeclaredDegree int
	Pins           []PinID
	Records        int
}

type pinKey struct {
	owner  string
	dir    Direction
	offset Offset
}

// Design is the object and net model of one benchmark.
type Design struct {
	objects   *OrderedMap[string, *Object]
	nets      *OrderedMap[string, *Net]
	pins      []Pin
	pinIndex  map[pinKey]PinID
	ownerPins map[string][]PinID
	inputs    map[string]int
	outputs   map[string]int
}

// New creates an empty design.
func New() *Design {
	return &Design{
		objects:   NewOrderedMap[string, *Object](),
		nets:      NewOrderedMap[string, *Net](),
		pinIndex:  make(map[pinKey]PinID),
		ownerPins: make(map[string][]PinID),
		inputs:    make(map[string]int),
		outputs:   make(map[string]int),
	}
}

// AddObject declares an object. Movable objects start at (0,0) until a
// placement record assigns real coordinates.
func (d *Design) AddObject(name string, width, height int, fixed bool) error {
	if d.objects.Has(name) {
		return errors.New(errors.ErrCodeStructural, "object %s declared twice", name)
	}
	if width < 0 || height < 0 {
		return errors.New(errors.ErrCodeStructural, "object %s has negative size %dx%d", name, width, height)
	}
	d.objects.Set(name, &Object{Name: name, Width: width, Height: height, Fixed: fixed})
	return nil
}

// SetLocation applies a placement record. fixedMarker reports whether the
// record carried a /FIXED marker; it must agree with the object's type.
func (d *Design) SetLocation(name string, x, y int, fixedMarker bool) error {
	o, ok := d.objects.Get(name)
	if !ok {
		return errors.New(errors.ErrCodeReference, "undefined object %s in placement", name)
	}
	switch {
	case o.Fixed && !fixedMarker:
		return errors.New(errors.ErrCodeStructural, "object %s is a terminal but its placement is not fixed", name)
	case !o.Fixed && fixedMarker:
		return errors.New(errors.ErrCodeStructural, "object %s is movable but its placement is marked fixed", name)
	}
	o.X, o.Y = x, y
	o.Placed = true
	return nil
}

// Object returns the named object.
func (d *Design) Object(name string) (*Object, bool) { return d.objects.Get(name) }

// Objects returns all objects in declaration order.
func (d *Design) Objects() []*Object { return d.objects.Values() }

// NumObjects returns the number of declared objects.
func (d *Design) NumObjects() int { return d.objects.Len() }

// CheckPlacement verifies that every fixed object received a placement record.
func (d *Design) CheckPlacement() error {
	for name, o := range d.objects.All() {
		if o.Fixed && !o.Placed {
			return errors.New(errors.ErrCodeStructural, "terminal %s has no fixed placement record", name)
		}
	}
	return nil
}

// AddPin interns a pin on owner and returns its ID. A bidirectional request
// returns the input and output pin IDs, in that order.
func (d *Design) AddPin(owner string, dir Direction, x, y float64) ([]PinID, error) {
	if !finite(x) || !finite(y) {
		return nil, errors.New(errors.ErrCodeStructural, "pin offset (%g, %g) on %s is not finite", x, y, owner)
	}
	off := Offset{X: positiveZero(x), Y: positiveZero(y)}
	switch dir {
	case Input, Output:
		return []PinID{d.intern(owner, dir, off)}, nil
	case Bidirectional:
		return []PinID{d.intern(owner, Input, off), d.intern(owner, Output, off)}, nil
	}
	return nil, errors.New(errors.ErrCodeStructural, "invalid pin direction %v on %s", dir, owner)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// positiveZero maps -0 to 0 so both spellings intern to the same pin.
func positiveZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}

func (d *Design) intern(owner string, dir Direction, off Offset) PinID {
	key := pinKey{owner: owner, dir: dir, offset: off}
	if id, ok := d.pinIndex[key]; ok {
		return id
	}

	var name string
	if dir == Input {
		name = fmt.Sprintf("%sI%d", owner, d.inputs[owner])
		d.inputs[owner]++
	} else {
		name = fmt.Sprintf("%sO%d", owner, d.outputs[owner])
		d.outputs[owner]++
	}

	id := PinID(len(d.pins))
	d.pins = append(d.pins, Pin{ID: id, Name: name, Owner: owner, Direction: dir, Offset: off})
	d.pinIndex[key] = id
	d.ownerPins[owner] = append(d.ownerPins[owner], id)
	return id
}

// Pin returns the pin with the given ID.
func (d *Design) Pin(id PinID) (Pin, bool) {
	if id < 0 || int(id) >= len(d.pins) {
		return Pin{}, false
	}
	return d.pins[id], true
}

// Pins returns the pins interned on owner in interning order.
func (d *Design) Pins(owner string) []Pin {
	ids := d.ownerPins[owner]
	out := make([]Pin, len(ids))
	for i, id := range ids {
		out[i] = d.pins[id]
	}
	return out
}

// NumPins returns the number of interned pins.
func (d *Design) NumPins() int { return len(d.pins) }

// AddNet declares a net.
func (d *Design) AddNet(name string, declaredDegree int) error {
	if d.nets.Has(name) {
		return errors.New(errors.ErrCodeStructural, "net %s declared twice", name)
	}
	d.nets.Set(name, &Net{Name: name, DeclaredDegree: declaredDegree})
	return nil
}

// Connect appends pin id to the net's ordered pin list.
func (d *Design) Connect(netName string, id PinID) error {
	n, ok := d.nets.Get(netName)
	if !ok {
		return errors.New(errors.ErrCodeReference, "undefined net %s", netName)
	}
	if _, ok := d.Pin(id); !ok {
		return errors.New(errors.ErrCodeReference, "undefined pin %d on net %s", id, netName)
	}
	n.Pins = append(n.Pins, id)
	return nil
}

// AddPinRecord interns the pin of one net pin record and connects every
// resulting pin to the net.
func (d *Design) AddPinRecord(netName, owner string, dir Direction, x, y float64) ([]PinID, error) {
	n, ok := d.nets.Get(netName)
	if !ok {
		return nil, errors.New(errors.ErrCodeStructural, "pin record for %s before any net declaration", owner)
	}
	ids, err := d.AddPin(owner, dir, x, y)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if err := d.Connect(netName, id); err != nil {
			return nil, err
		}
	}
	n.Records++
	return ids, nil
}

// Net returns the named net.
func (d *Design) Net(name string) (*Net, bool) { return d.nets.Get(name) }

// Nets returns all nets in declaration order.
func (d *Design) Nets() []*Net { return d.nets.Values() }

// NumNets returns the number of declared nets.
func (d *Design) NumNets() int { return d.nets.Len() }

// Validate checks cross references between nets, pins and objects.
func (d *Design) Validate() error {
	for _, p := range d.pins {
		if !d.objects.Has(p.Owner) {
			return errors.New(errors.ErrCodeReference, "pin %s refers to undefined object %s", p.Name, p.Owner)
		}
	}
	return nil
}

// Totals summarizes object counts and areas.
type Totals struct {
	Objects     int
	Terminals   int
	MovableArea int64
	FixedArea   int64
}

// Totals computes object counts and areas.
func (d *Design) Totals() Totals {
	t := Totals{Objects: d.objects.Len()}
	for _, o := range d.objects.All() {
		if o.Fixed {
			t.Terminals++
			t.FixedArea += o.Area()
		} else {
			t.MovableArea += o.Area()
		}
	}
	return t
}
