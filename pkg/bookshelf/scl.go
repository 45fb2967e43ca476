package bookshelf

import (
	"io"

	"github.com/matzehuels/shelfconv/pkg/errors"
	"github.com/matzehuels/shelfconv/pkg/row"
)

// coreRowKeywords is the fixed record sequence following "CoreRow".
var coreRowKeywords = []string{
	"Coordinate", "Height", "Sitewidth", "Sitespacing",
	"Siteorient", "Sitesymmetry", "SubrowOrigin", "End",
}

// ReadSCL reads row definitions into a new row model. Every row must have
// height rowHeight; a different value is a structural violation.
func ReadSCL(r io.Reader, file string, rowHeight, siteWidth int) (*row.Model, errors.Warnings, error) {
	m := row.New(rowHeight, siteWidth)
	if err := m.Validate(); err != nil {
		return nil, nil, err
	}

	var (
		warnings errors.Warnings
		declared = -1
		declPos  errors.Position
	)

	s := newScanner(r, file)
	for s.scan() {
		switch s.fields[0] {
		case "NumRows":
			n, err := s.header()
			if err != nil {
				return nil, nil, err
			}
			declared, declPos = n, s.pos()
		case "CoreRow":
			if err := readCoreRow(s, m); err != nil {
				return nil, nil, err
			}
		}
	}
	if err := s.err(); err != nil {
		return nil, nil, err
	}

	if declared >= 0 {
		warnings.Check(declPos, "rows", declared, m.Len())
	}
	return m, warnings, nil
}

func readCoreRow(s *scanner, m *row.Model) error {
	var y, x, sites int
	for _, kw := range coreRowKeywords {
		if !s.scan() {
			if err := s.err(); err != nil {
				return err
			}
			return s.errorf(errors.ErrCodeStructural, "CoreRow: %s keyword not found before end of file", kw)
		}
		if s.fields[0] != kw {
			return s.errorf(errors.ErrCodeStructural, "CoreRow: %s keyword not found, got %q", kw, s.fields[0])
		}

		var err error
		switch kw {
		case "Coordinate":
			y, err = s.header()
		case "Height":
			var h int
			if h, err = s.header(); err == nil && h != m.RowHeight {
				err = s.errorf(errors.ErrCodeStructural, "row height mismatch: %d != %d", m.RowHeight, h)
			}
		case "SubrowOrigin":
			// SubrowOrigin : x NumSites : n
			if len(s.fields) < 6 {
				return s.errorf(errors.ErrCodeStructural, "expected 'SubrowOrigin : <x> NumSites : <n>'")
			}
			if x, err = s.int(s.fields[2]); err == nil {
				sites, err = s.int(s.fields[5])
			}
			if err == nil && sites < 0 {
				err = s.errorf(errors.ErrCodeStructural, "negative site count %d", sites)
			}
		}
		if err != nil {
			return err
		}
	}
	m.AddRow(y, x, sites)
	return nil
}
