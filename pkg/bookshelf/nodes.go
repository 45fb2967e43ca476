package bookshelf

import (
	"io"
	"strings"

	"github.com/matzehuels/shelfconv/pkg/errors"
	"github.com/matzehuels/shelfconv/pkg/netlist"
)

// ReadNodes declares the objects listed in a .nodes file on d. A record is
// "name width height [terminal|terminal_NI]"; terminals become fixed objects.
func ReadNodes(r io.Reader, file string, d *netlist.Design) (errors.Warnings, error) {
	var (
		warnings            errors.Warnings
		declNodes, declTerm = -1, -1
		declPos, termPos    errors.Position
		nodes, terminals    int
	)

	s := newScanner(r, file)
	for s.scan() {
		switch s.fields[0] {
		case "NumNodes":
			n, err := s.header()
			if err != nil {
				return nil, err
			}
			declNodes, declPos = n, s.pos()

			if !s.scan() || s.fields[0] != "NumTerminals" {
				if err := s.err(); err != nil {
					return nil, err
				}
				return nil, s.errorf(errors.ErrCodeStructural, "NumTerminals keyword not found after NumNodes")
			}
			if declTerm, err = s.header(); err != nil {
				return nil, err
			}
			termPos = s.pos()
			continue
		case "NumTerminals":
			return nil, s.errorf(errors.ErrCodeStructural, "NumTerminals must directly follow NumNodes")
		}

		if len(s.fields) < 3 {
			return nil, s.errorf(errors.ErrCodeStructural, "expected 'name width height [terminal]'")
		}
		w, err := s.int(s.fields[1])
		if err != nil {
			return nil, err
		}
		h, err := s.int(s.fields[2])
		if err != nil {
			return nil, err
		}
		fixed := strings.HasPrefix(s.fields[len(s.fields)-1], "terminal")
		if err := d.AddObject(s.fields[0], w, h, fixed); err != nil {
			return nil, s.at(err)
		}

		nodes++
		if fixed {
			terminals++
		}
	}
	if err := s.err(); err != nil {
		return nil, err
	}

	if declNodes >= 0 {
		warnings.Check(declPos, "nodes", declNodes, nodes)
		warnings.Check(termPos, "terminals", declTerm, terminals)
	}
	return warnings, nil
}
