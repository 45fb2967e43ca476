// Package macro groups structurally identical objects into shared macro
// definitions and produces one placed component per object.
//
// Two objects share a macro iff they have the same width, height,
// fixed/movable flag and the same set of (direction, offset) pins. The key is
// computed from sorted pins, so grouping is a pure function of structure and
// does not depend on object names or the order pins were interned in. Macro
// pins are named from that sorted order as well (I0, I1, ..., O0, ...), which
// lets every instance of a macro expose the same pin names to its nets.
package macro

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/shelfconv/pkg/errors"
	"github.com/matzehuels/shelfconv/pkg/netlist"
)

// PlacementStatus is the placement state of a component.
type PlacementStatus uint8

const (
	Unplaced PlacementStatus = iota
	Fixed
)

// String returns the DEF keyword for the status.
func (s PlacementStatus) String() string {
	if s == Fixed {
		return "FIXED"
	}
	return "UNPLACED"
}

// Pin is a named pin of a macro definition.
type Pin struct {
	Name      string
	Direction netlist.Direction
	Offset    netlist.Offset
}

// Macro is a reusable cell definition shared by all its instances.
type Macro struct {
	Name          string
	Width, Height int
	Fixed         bool
	Pins          []Pin
	Instances     int
}

// Component is one placed (or unplaced) instance of a macro. X and Y are
// meaningful only when Status is Fixed.
type Component struct {
	Instance string
	Macro    string
	Status   PlacementStatus
	X, Y     int
}

// Term is one end of a net: an instance and one of its macro's pin names.
type Term struct {
	Instance string
	Pin      string
}

// Connection is a net resolved to instance/pin terms in declaration order.
type Connection struct {
	Net   string
	Terms []Term
}

// Result holds the canonicalized library and design view.
type Result struct {
	Macros     []*Macro
	Components []Component
	Nets       []Connection

	byName map[string]*Macro
	terms  map[netlist.PinID]Term
}

// Macro returns the macro with the given name.
func (r *Result) Macro(name string) (*Macro, bool) {
	m, ok := r.byName[name]
	return m, ok
}

// Term returns the instance/pin term an object pin was mapped to.
func (r *Result) Term(id netlist.PinID) (Term, bool) {
	t, ok := r.terms[id]
	return t, ok
}

// Instances returns the number of components using the named macro.
func (r *Result) Instances(name string) int {
	if m, ok := r.byName[name]; ok {
		return m.Instances
	}
	return 0
}

// NumTerms returns the total number of net terms.
func (r *Result) NumTerms() int {
	n := 0
	for _, c := range r.Nets {
		n += len(c.Terms)
	}
	return n
}

// Canonicalize builds macros, components and resolved nets from d.
func Canonicalize(d *netlist.Design) (*Result, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		Components: make([]Component, 0, d.NumObjects()),
		byName:     make(map[string]*Macro),
		terms:      make(map[netlist.PinID]Term, d.NumPins()),
	}
	byKey := make(map[string]*Macro)

	for _, o := range d.Objects() {
		pins := sortedPins(d.Pins(o.Name))
		key := Key(o, pins)

		m, ok := byKey[key]
		if !ok {
			m = newMacro(fmt.Sprintf("Mac_%d", len(res.Macros)), o, pins)
			byKey[key] = m
			res.Macros = append(res.Macros, m)
			res.byName[m.Name] = m
		}
		m.Instances++

		for i, p := range pins {
			res.terms[p.ID] = Term{Instance: o.Name, Pin: m.Pins[i].Name}
		}

		c := Component{Instance: o.Name, Macro: m.Name, Status: Unplaced}
		if o.Fixed {
			c.Status = Fixed
			c.X, c.Y = o.X, o.Y
		}
		res.Components = append(res.Components, c)
	}

	for _, n := range d.Nets() {
		conn := Connection{Net: n.Name, Terms: make([]Term, 0, len(n.Pins))}
		for _, id := range n.Pins {
			t, ok := res.terms[id]
			if !ok {
				return nil, errors.New(errors.ErrCodeReference, "net %s refers to unmapped pin %d", n.Name, id)
			}
			conn.Terms = append(conn.Terms, t)
		}
		res.Nets = append(res.Nets, conn)
	}
	return res, nil
}

// Key returns the structural identity of an object with the given pins,
// which must already be in canonical order (see sortedPins).
func Key(o *netlist.Object, pins []netlist.Pin) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d,%d,", o.Width, o.Height)
	if o.Fixed {
		b.WriteByte('f')
	} else {
		b.WriteByte('m')
	}
	for _, p := range pins {
		b.WriteByte('|')
		b.WriteString(p.Direction.Letter())
		b.WriteString(formatOffset(p.Offset.X))
		b.WriteByte(',')
		b.WriteString(formatOffset(p.Offset.Y))
	}
	return b.String()
}

// formatOffset renders v exactly. Zero is written unsigned since -0 == 0.
func formatOffset(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func sortedPins(pins []netlist.Pin) []netlist.Pin {
	slices.SortFunc(pins, func(a, b netlist.Pin) int {
		return cmp.Or(
			cmp.Compare(a.Direction, b.Direction),
			cmp.Compare(a.Offset.X, b.Offset.X),
			cmp.Compare(a.Offset.Y, b.Offset.Y),
		)
	})
	return pins
}

func newMacro(name string, o *netlist.Object, pins []netlist.Pin) *Macro {
	m := &Macro{
		Name:   name,
		Width:  o.Width,
		Height: o.Height,
		Fixed:  o.Fixed,
		Pins:   make([]Pin, len(pins)),
	}
	var in, out int
	for i, p := range pins {
		var pinName string
		if p.Direction == netlist.Input {
			pinName = "I" + strconv.Itoa(in)
			in++
		} else {
			pinName = "O" + strconv.Itoa(out)
			out++
		}
		m.Pins[i] = Pin{Name: pinName, Direction: p.Direction, Offset: p.Offset}
	}
	return m
}
