package bookshelf

import (
	"io"
	"strings"

	"github.com/matzehuels/shelfconv/pkg/errors"
	"github.com/matzehuels/shelfconv/pkg/netlist"
)

// ReadPlacement applies the locations of a .pl file to objects already
// declared on d. A record is "name x y : orient [/FIXED|/FIXED_NI]". After
// the whole file is read every fixed object must have received a fixed
// placement.
func ReadPlacement(r io.Reader, file string, d *netlist.Design) error {
	s := newScanner(r, file)
	for s.scan() {
		if len(s.fields) < 3 {
			return s.errorf(errors.ErrCodeStructural, "expected 'name x y : orient [/FIXED]'")
		}
		x, err := s.int(s.fields[1])
		if err != nil {
			return err
		}
		y, err := s.int(s.fields[2])
		if err != nil {
			return err
		}
		marker := strings.HasPrefix(s.fields[len(s.fields)-1], "/FIXED")
		if err := d.SetLocation(s.fields[0], x, y, marker); err != nil {
			return s.at(err)
		}
	}
	if err := s.err(); err != nil {
		return err
	}
	if err := d.CheckPlacement(); err != nil {
		if e, ok := err.(*errors.Error); ok && e.Pos == (errors.Position{}) {
			e.Pos = errors.Position{File: file}
		}
		return err
	}
	return nil
}
