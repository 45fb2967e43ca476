// Package row models the placement rows of a design and the region they span.
//
// A [Model] is populated once, row by row in file order, and treated as
// immutable afterward. Every row shares the model's row height; the bounding
// region and total row area are maintained incrementally so that reading a
// design with hundreds of thousands of rows stays linear.
//
// # Example
//
//	m := row.New(12, 1)
//	m.AddRow(0, 0, 100)
//	m.AddRow(12, 0, 100)
//	r := m.Region() // {0 0 100 24}, TotalRowArea 2400
package row

import (
	"math"

	"github.com/matzehuels/shelfconv/pkg/errors"
)

// Row is a horizontal strip of placement sites. The row occupies
// [XStart, XEnd] × [Y, Y+height] where height is the owning model's row height.
type Row struct {
	Y      int
	XStart int
	XEnd   int
}

// Width returns the horizontal extent of the row.
func (r Row) Width() int { return r.XEnd - r.XStart }

// NumSites returns the number of sites in the row for the given site width.
func (r Row) NumSites(siteWidth int) int {
	if siteWidth <= 0 {
		return r.Width()
	}
	return r.Width() / siteWidth
}

// Region is the bounding box over all rows plus the summed row area.
type Region struct {
	LX, LY, HX, HY int
	TotalRowArea   int64
}

// Width returns HX - LX.
func (r Region) Width() int { return r.HX - r.LX }

// Height returns HY - LY.
func (r Region) Height() int { return r.HY - r.LY }

// Area returns the area of the bounding box.
func (r Region) Area() int64 { return int64(r.Width()) * int64(r.Height()) }

// Model accumulates rows and the derived region.
type Model struct {
	RowHeight int
	SiteWidth int
	Rows      []Row

	region Region
}

// New creates an empty model. All rows added later share rowHeight; siteWidth
// converts a row's site count into its horizontal extent.
func New(rowHeight, siteWidth int) *Model {
	return &Model{
		RowHeight: rowHeight,
		SiteWidth: siteWidth,
		region: Region{
			LX: math.MaxInt,
			LY: math.MaxInt,
			HX: math.MinInt,
			HY: math.MinInt,
		},
	}
}

// Validate checks that the row height and site width are usable.
func (m *Model) Validate() error {
	if m.RowHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "row height must be positive, got %d", m.RowHeight)
	}
	if m.SiteWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "site width must be positive, got %d", m.SiteWidth)
	}
	return nil
}

// AddRow appends a row starting at (xStart, y) with numSites sites and
// updates the region. It never merges or reorders rows.
func (m *Model) AddRow(y, xStart, numSites int) Row {
	r := Row{Y: y, XStart: xStart, XEnd: xStart + numSites*m.SiteWidth}
	m.Rows = append(m.Rows, r)

	m.region.LX = min(m.region.LX, r.XStart)
	m.region.HX = max(m.region.HX, r.XEnd)
	m.region.LY = min(m.region.LY, r.Y)
	m.region.HY = max(m.region.HY, r.Y+m.RowHeight)
	m.region.TotalRowArea += int64(r.Width()) * int64(m.RowHeight)
	return r
}

// Len returns the number of rows.
func (m *Model) Len() int { return len(m.Rows) }

// Empty reports whether no rows have been added.
func (m *Model) Empty() bool { return len(m.Rows) == 0 }

// Region returns the bounding region. An empty model yields the zero Region.
func (m *Model) Region() Region {
	if m.Empty() {
		return Region{}
	}
	return m.region
}

// Rect returns the rectangle a row covers in this model.
func (m *Model) Rect(r Row) (lx, ly, hx, hy int) {
	return r.XStart, r.Y, r.XEnd, r.Y + m.RowHeight
}

// Sorted reports whether row y coordinates are non-decreasing in file order.
func (m *Model) Sorted() bool {
	for i := 1; i < len(m.Rows); i++ {
		if m.Rows[i].Y < m.Rows[i-1].Y {
			return false
		}
	}
	return true
}
