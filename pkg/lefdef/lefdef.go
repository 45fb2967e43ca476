// Package lefdef writes a canonicalized design as a LEF library and a DEF
// design.
//
// The LEF file carries one MACRO per [macro.Macro] and a single core SITE.
// The DEF file carries the die area, one ROW per row of the row model, one
// component per object and the nets as (instance pin) terms. Both files use
// raw benchmark coordinates; [Options.DatabaseMicrons] is only declared in
// the UNITS sections.
//
// Macro pin offsets are relative to the cell center, as in Bookshelf. LEF
// geometry is relative to the macro origin, so pin rectangles are emitted
// centered at (width/2 + x, height/2 + y).
package lefdef

import (
	"strconv"

	"github.com/matzehuels/shelfconv/pkg/errors"
	"github.com/matzehuels/shelfconv/pkg/macro"
	"github.com/matzehuels/shelfconv/pkg/row"
)

// Options controls emission details shared by LEF and DEF.
type Options struct {
	Version         string  // LEF/DEF product version, e.g. "5.8"
	DatabaseMicrons int     // database units per micron
	SiteName        string  // name of the single core site
	PinLayer        string  // routing layer of pin shapes
	PinHalfSize     float64 // half edge length of square pin shapes
}

// DefaultOptions returns the options used by the reference benchmarks.
func DefaultOptions() Options {
	return Options{
		Version:         "5.8",
		DatabaseMicrons: 100,
		SiteName:        "defaultS",
		PinLayer:        "metal1",
		PinHalfSize:     0.1,
	}
}

// Validate checks that every option is usable.
func (o Options) Validate() error {
	if o.Version == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "version cannot be empty")
	}
	if o.DatabaseMicrons <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "database microns must be positive, got %d", o.DatabaseMicrons)
	}
	if err := errors.ValidateName(o.SiteName); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "site name")
	}
	if err := errors.ValidateName(o.PinLayer); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "pin layer")
	}
	if o.PinHalfSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "pin half size must be positive, got %g", o.PinHalfSize)
	}
	return nil
}

// Library is the input of [WriteLEF].
type Library struct {
	Macros    []*macro.Macro
	SiteWidth int
	RowHeight int
}

// Design is the input of [WriteDEF].
type Design struct {
	Name       string
	Rows       *row.Model
	Components []macro.Component
	Nets       []macro.Connection
}

// NewLibrary builds the LEF view of a canonicalized design.
func NewLibrary(res *macro.Result, rows *row.Model) Library {
	return Library{Macros: res.Macros, SiteWidth: rows.SiteWidth, RowHeight: rows.RowHeight}
}

// NewDesign builds the DEF view of a canonicalized design.
func NewDesign(name string, res *macro.Result, rows *row.Model) Design {
	return Design{Name: name, Rows: rows, Components: res.Components, Nets: res.Nets}
}

// num renders v in its shortest exact decimal form.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
