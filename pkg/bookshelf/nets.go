package bookshelf

import (
	"fmt"
	"io"

	"github.com/matzehuels/shelfconv/pkg/errors"
	"github.com/matzehuels/shelfconv/pkg/netlist"
)

// ReadNets declares the nets of a .nets file on d and connects their pins.
// Objects must already be declared.
//
// A net starts with "NetDegree : k [name]" and is followed by pin records
// "owner I|O|B [: xoff yoff]". Unnamed nets are called net_<index>. Declared
// counts (NumNets, NumPins and each net degree) are checked against what was
// read and mismatches are reported as warnings.
func ReadNets(r io.Reader, file string, d *netlist.Design) (errors.Warnings, error) {
	var (
		warnings           errors.Warnings
		declNets, declPins = -1, -1
		netsPos, pinsPos   errors.Position
		nets, records      int

		current string
		netPos  errors.Position
	)

	closeNet := func() {
		if current == "" {
			return
		}
		n, _ := d.Net(current)
		warnings.Check(netPos, "pins of net "+current, n.DeclaredDegree, n.Records)
	}

	s := newScanner(r, file)
	for s.scan() {
		switch s.fields[0] {
		case "NumNets":
			n, err := s.header()
			if err != nil {
				return nil, err
			}
			declNets, netsPos = n, s.pos()
			continue
		case "NumPins":
			n, err := s.header()
			if err != nil {
				return nil, err
			}
			declPins, pinsPos = n, s.pos()
			continue
		case "NetDegree":
			closeNet()
			degree, err := s.header()
			if err != nil {
				return nil, err
			}
			name := fmt.Sprintf("net_%d", nets)
			switch len(s.fields) {
			case 3:
			case 4:
				name = s.fields[3]
			default:
				return nil, s.errorf(errors.ErrCodeStructural, "expected 'NetDegree : <k> [name]'")
			}
			if err := d.AddNet(name, degree); err != nil {
				return nil, s.at(err)
			}
			current, netPos = name, s.pos()
			nets++
			continue
		}

		if err := readPinRecord(s, d, current); err != nil {
			return nil, err
		}
		records++
	}
	if err := s.err(); err != nil {
		return nil, err
	}
	closeNet()

	if declNets >= 0 {
		warnings.Check(netsPos, "nets", declNets, nets)
	}
	if declPins >= 0 {
		warnings.Check(pinsPos, "pins", declPins, records)
	}
	return warnings, nil
}

func readPinRecord(s *scanner, d *netlist.Design, net string) error {
	var x, y float64
	switch len(s.fields) {
	case 2:
	case 5:
		if s.fields[2] != ":" {
			return s.errorf(errors.ErrCodeStructural, "expected ':' before pin offset")
		}
		var err error
		if x, err = s.float(s.fields[3]); err != nil {
			return err
		}
		if y, err = s.float(s.fields[4]); err != nil {
			return err
		}
	default:
		return s.errorf(errors.ErrCodeStructural, "malformed pin record: expected 'owner I|O|B [: x y]'")
	}

	if net == "" {
		return s.errorf(errors.ErrCodeStructural, "pin record before any NetDegree")
	}
	owner := s.fields[0]
	if _, ok := d.Object(owner); !ok {
		return s.errorf(errors.ErrCodeReference, "net %s refers to undefined object %s", net, owner)
	}
	dir, err := netlist.ParseDirection(s.fields[1])
	if err != nil {
		return s.at(err)
	}
	if _, err := d.AddPinRecord(net, owner, dir, x, y); err != nil {
		return s.at(err)
	}
	return nil
}
