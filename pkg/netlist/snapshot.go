package netlist

// Snapshot is a flat, serializable copy of a Design.
type Snapshot struct {
	Objects []Object `msgpack:"objects"`
	Pins    []Pin    `msgpack:"pins"`
	Nets    []Net    `msgpack:"nets"`
}

// Snapshot copies the design into a Snapshot.
func (d *Design) Snapshot() Snapshot {
	s := Snapshot{
		Objects: make([]Object, 0, d.objects.Len()),
		Pins:    append([]Pin(nil), d.pins...),
		Nets:    make([]Net, 0, d.nets.Len()),
	}
	for _, o := range d.objects.All() {
		s.Objects = append(s.Objects, *o)
	}
	for _, n := range d.nets.All() {
		cp := *n
		cp.Pins = append([]PinID(nil), n.Pins...)
		s.Nets = append(s.Nets, cp)
	}
	return s
}

// FromSnapshot rebuilds a Design. Pins are re-interned in their original
// order so IDs and names are preserved.
func FromSnapshot(s Snapshot) (*Design, error) {
	d := New()
	for _, o := range s.Objects {
		if err := d.AddObject(o.Name, o.Width, o.Height, o.Fixed); err != nil {
			return nil, err
		}
		obj, _ := d.Object(o.Name)
		obj.X, obj.Y, obj.Placed = o.X, o.Y, o.Placed
	}
	for _, p := range s.Pins {
		d.intern(p.Owner, p.Direction, p.Offset)
	}
	for _, n := range s.Nets {
		if err := d.AddNet(n.Name, n.DeclaredDegree); err != nil {
			return nil, err
		}
		for _, id := range n.Pins {
			if err := d.Connect(n.Name, id); err != nil {
				return nil, err
			}
		}
		net, _ := d.Net(n.Name)
		net.Records = n.Records
	}
	return d, nil
}
