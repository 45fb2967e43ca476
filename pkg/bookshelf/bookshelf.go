// Package bookshelf reads the UCLA Bookshelf placement benchmark format.
//
// A benchmark is described by an .aux manifest listing its component files:
//
//	RowBasedPlacement : ibm01.nodes ibm01.nets ibm01.wts ibm01.pl ibm01.scl
//
// Each reader consumes one file kind and feeds a core model: [ReadSCL] builds
// a [row.Model], while [ReadNodes], [ReadPlacement] and [ReadNets] populate a
// [netlist.Design] and must run in that order. Blank lines, '#' comments and
// "UCLA" banner lines are skipped everywhere.
//
// Malformed or out-of-sequence records are STRUCTURAL_VIOLATION errors and
// references to undeclared objects are REFERENCE_ERROR; both carry the file
// name and line number. Header counts that disagree with the records read are
// returned as advisory [errors.Warnings].
package bookshelf

import (
	"bufio"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/shelfconv/pkg/errors"
)

// File extensions recognized in a manifest.
const (
	ExtNodes     = ".nodes"
	ExtNets      = ".nets"
	ExtWeights   = ".wts"
	ExtPlacement = ".pl"
	ExtRows      = ".scl"
)

// Manifest lists the resolved component files of a benchmark.
type Manifest struct {
	Name string // benchmark name, the .aux base name without extension
	Dir  string // directory the entries are resolved against

	Nodes     string
	Nets      string
	Weights   string
	Placement string
	Rows      string
}

// Files returns the resolved paths of the files the converter reads, in the
// order they are hashed for caching.
func (m *Manifest) Files() []string {
	return []string{m.Rows, m.Nodes, m.Placement, m.Nets}
}

// ReadAux opens and parses the manifest at path.
func ReadAux(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
		}
		return nil, err
	}
	defer f.Close()

	base := filepath.Base(path)
	m, err := ParseAux(f, base)
	if err != nil {
		return nil, err
	}
	m.Name = strings.TrimSuffix(base, filepath.Ext(base))
	m.Dir = filepath.Dir(path)
	m.resolve()
	return m, nil
}

// ParseAux parses manifest content. Entries are classified by extension, so
// their order on the line does not matter; the paths are left unresolved.
func ParseAux(r io.Reader, file string) (*Manifest, error) {
	s := newScanner(r, file)
	m := &Manifest{}
	for s.scan() {
		fields := s.fields
		colon := indexOf(fields, ":")
		if colon < 0 {
			return nil, s.errorf(errors.ErrCodeStructural, "expected '<kind> : <files>' record")
		}
		for _, entry := range fields[colon+1:] {
			if err := errors.ValidateManifestEntry(entry); err != nil {
				return nil, s.at(err)
			}
			slot := m.slot(filepath.Ext(entry))
			if slot == nil {
				continue
			}
			if *slot != "" {
				return nil, s.errorf(errors.ErrCodeStructural, "manifest lists two %s files", filepath.Ext(entry))
			}
			*slot = entry
		}
	}
	if err := s.err(); err != nil {
		return nil, err
	}

	required := []struct{ ext, path string }{
		{ExtNodes, m.Nodes}, {ExtNets, m.Nets}, {ExtPlacement, m.Placement}, {ExtRows, m.Rows},
	}
	for _, r := range required {
		if r.path == "" {
			return nil, errors.New(errors.ErrCodeStructural, "manifest has no %s file", r.ext).At(file, 0)
		}
	}
	return m, nil
}

func (m *Manifest) slot(ext string) *string {
	switch ext {
	case ExtNodes:
		return &m.Nodes
	case ExtNets:
		return &m.Nets
	case ExtWeights:
		return &m.Weights
	case ExtPlacement:
		return &m.Placement
	case ExtRows:
		return &m.Rows
	}
	return nil
}

func (m *Manifest) resolve() {
	for _, p := range []*string{&m.Nodes, &m.Nets, &m.Weights, &m.Placement, &m.Rows} {
		if *p != "" {
			*p = filepath.Join(m.Dir, *p)
		}
	}
}

// scanner yields the whitespace-separated fields of each meaningful line.
type scanner struct {
	sc     *bufio.Scanner
	file   string
	line   int
	fields []string
}

func newScanner(r io.Reader, file string) *scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &scanner{sc: sc, file: file}
}

// scan advances to the next line that is not blank, a comment or a banner.
func (s *scanner) scan() bool {
	for s.sc.Scan() {
		s.line++
		fields := strings.Fields(s.sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") || fields[0] == "UCLA" {
			continue
		}
		s.fields = fields
		return true
	}
	s.fields = nil
	return false
}

func (s *scanner) err() error {
	if err := s.sc.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "read %s", s.file)
	}
	return nil
}

func (s *scanner) pos() errors.Position {
	return errors.Position{File: s.file, Line: s.line}
}

func (s *scanner) errorf(code errors.Code, format string, args ...any) error {
	return errors.New(code, format, args...).At(s.file, s.line)
}

// at attaches the current position to a coded error that has none.
func (s *scanner) at(err error) error {
	if e, ok := err.(*errors.Error); ok && e.Pos == (errors.Position{}) {
		return e.At(s.file, s.line)
	}
	return err
}

// header parses a "Key : n" line whose key was already matched.
func (s *scanner) header() (int, error) {
	if len(s.fields) < 3 || s.fields[1] != ":" {
		return 0, s.errorf(errors.ErrCodeStructural, "expected '%s : <count>'", s.fields[0])
	}
	return s.int(s.fields[2])
}

// int parses an integer coordinate or size. Integral decimal forms such as
// "12.0" are accepted because several benchmarks write them that way.
func (s *scanner) int(tok string) (int, error) {
	if v, err := strconv.Atoi(tok); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, s.errorf(errors.ErrCodeStructural, "expected integer, got %q", tok)
	}
	return int(f), nil
}

func (s *scanner) float(tok string) (float64, error) {
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, s.errorf(errors.ErrCodeStructural, "expected finite number, got %q", tok)
	}
	return f, nil
}

func indexOf(fields []string, tok string) int {
	for i, f := range fields {
		if f == tok {
			return i
		}
	}
	return -1
}
