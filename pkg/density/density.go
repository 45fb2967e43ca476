// Package density partitions a row region into a regular grid of bins and
// computes the placeable capacity of each bin.
//
// Capacity is the exact area of row rectangles falling inside a bin. After a
// map is built, the summed capacity must equal the model's total row area and
// the region must be fully covered by rows; either mismatch is a
// CONSISTENCY_ERROR because any density figure derived from the map would be
// silently wrong.
//
// Bins can additionally accumulate fixed and movable object usage, from which
// [Map.Overflow] computes the density-target overflow used by ISPD-style
// placement contests.
package density

import (
	"cmp"
	"slices"
	"sort"

	"github.com/matzehuels/shelfconv/pkg/errors"
	"github.com/matzehuels/shelfconv/pkg/row"
)

// DefaultBinRowFactor is the default bin edge length in multiples of row height.
const DefaultBinRowFactor = 10

// Bin is one grid cell of the density map.
type Bin struct {
	LX, LY, HX, HY int

	Capacity     int64 // row area inside the bin
	FixedUsage   int64 // fixed object area inside the bin
	MovableUsage int64 // movable object area inside the bin
}

// Area returns the geometric area of the bin rectangle.
func (b Bin) Area() int64 { return int64(b.HX-b.LX) * int64(b.HY-b.LY) }

// Free returns the capacity left after fixed objects, never negative.
func (b Bin) Free() int64 { return max(b.Capacity-b.FixedUsage, 0) }

// Map is a row-major grid of bins (x varies fastest).
type Map struct {
	XDim, YDim   int
	XUnit, YUnit int
	Region       row.Region
	Bins         []Bin

	movableArea int64
}

// BinEdge returns the bin edge length for a row height and row factor.
func BinEdge(rowHeight, factor int) int {
	if factor <= 0 {
		factor = DefaultBinRowFactor
	}
	return rowHeight * factor
}

// Build creates the density map for m using square bins of edge binEdge.
//
// Rows are looked up through a y-sorted index, so the result does not depend
// on rows appearing in non-decreasing y order.
func Build(m *row.Model, binEdge int) (*Map, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.Empty() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot build density map: no rows")
	}
	if binEdge <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "bin edge length must be positive, got %d", binEdge)
	}

	reg := m.Region()
	mp := &Map{
		XDim:   ceilDiv(reg.Width(), binEdge),
		YDim:   ceilDiv(reg.Height(), binEdge),
		XUnit:  binEdge,
		YUnit:  binEdge,
		Region: reg,
	}
	mp.Bins = make([]Bin, 0, mp.XDim*mp.YDim)

	idx := newRowIndex(m)
	var summed int64
	for j := 0; j < mp.YDim; j++ {
		ly := reg.LY + j*binEdge
		hy := min(ly+binEdge, reg.HY)
		band := idx.band(ly, hy)

		for i := 0; i < mp.XDim; i++ {
			lx := reg.LX + i*binEdge
			hx := min(lx+binEdge, reg.HX)

			b := Bin{LX: lx, LY: ly, HX: hx, HY: hy}
			for _, r := range band {
				rlx, rly, rhx, rhy := m.Rect(r)
				a, err := overlap(rlx, rly, rhx, rhy, lx, ly, hx, hy)
				if err != nil {
					return nil, err
				}
				b.Capacity += a
			}
			summed += b.Capacity
			mp.Bins = append(mp.Bins, b)
		}
	}

	if summed != reg.TotalRowArea {
		return nil, errors.New(errors.ErrCodeConsistency,
			"summed bin capacity %d != total row area %d", summed, reg.TotalRowArea)
	}
	if reg.Area() != reg.TotalRowArea {
		return nil, errors.New(errors.ErrCodeConsistency,
			"region area %d (%dx%d) != total row area %d: rows overlap or leave gaps",
			reg.Area(), reg.Width(), reg.Height(), reg.TotalRowArea)
	}
	return mp, nil
}

// At returns the bin in column i, row j.
func (mp *Map) At(i, j int) *Bin { return &mp.Bins[j*mp.XDim+i] }

// Len returns the number of bins.
func (mp *Map) Len() int { return len(mp.Bins) }

// TotalCapacity sums all bin capacities.
func (mp *Map) TotalCapacity() int64 {
	var total int64
	for _, b := range mp.Bins {
		total += b.Capacity
	}
	return total
}

// MovableArea returns the summed area of all movable objects added with AddUsage.
func (mp *Map) MovableArea() int64 { return mp.movableArea }

// AddUsage distributes the rectangle [lx,hx]×[ly,hy] of one object over the
// bins it overlaps. Parts outside the region are ignored.
func (mp *Map) AddUsage(lx, ly, hx, hy int, fixed bool) error {
	if hx < lx || hy < ly {
		return errors.New(errors.ErrCodeConsistency, "inverted object rectangle (%d %d) (%d %d)", lx, ly, hx, hy)
	}
	if !fixed {
		mp.movableArea += int64(hx-lx) * int64(hy-ly)
	}

	clx, cly := max(lx, mp.Region.LX), max(ly, mp.Region.LY)
	chx, chy := min(hx, mp.Region.HX), min(hy, mp.Region.HY)
	if chx <= clx || chy <= cly {
		return nil
	}

	i0, i1 := (clx-mp.Region.LX)/mp.XUnit, (chx-1-mp.Region.LX)/mp.XUnit
	j0, j1 := (cly-mp.Region.LY)/mp.YUnit, (chy-1-mp.Region.LY)/mp.YUnit
	for j := j0; j <= j1; j++ {
		for i := i0; i <= i1; i++ {
			b := mp.At(i, j)
			a, err := overlap(clx, cly, chx, chy, b.LX, b.LY, b.HX, b.HY)
			if err != nil {
				return err
			}
			if fixed {
				b.FixedUsage += a
			} else {
				b.MovableUsage += a
			}
		}
	}
	return nil
}

// Overflow summarizes how far movable usage exceeds a density target.
type Overflow struct {
	Target       float64
	Total        float64 // Σ max(0, movable - target*free)
	Scaled       float64 // Total / movable area
	Bins         int     // bins with positive overflow
	MaxDensity   float64 // max movable/free over bins with free capacity
	MovableArea  int64
	FreeCapacity int64
}

// Overflow computes density overflow against target (0 < target <= 1).
func (mp *Map) Overflow(target float64) Overflow {
	o := Overflow{Target: target, MovableArea: mp.movableArea}
	for _, b := range mp.Bins {
		free := b.Free()
		o.FreeCapacity += free

		over := float64(b.MovableUsage) - target*float64(free)
		if over > 0 {
			o.Total += over
			o.Bins++
		}
		if free > 0 {
			o.MaxDensity = max(o.MaxDensity, float64(b.MovableUsage)/float64(free))
		}
	}
	if mp.movableArea > 0 {
		o.Scaled = o.Total / float64(mp.movableArea)
	}
	return o
}

// overlap returns the intersection area of two rectangles. Rectangles that
// only touch along an edge contribute zero. A negative intersection extent
// after the disjointness test means one rectangle is inverted.
func overlap(alx, aly, ahx, ahy, blx, bly, bhx, bhy int) (int64, error) {
	if ahx <= blx || alx >= bhx || ahy <= bly || aly >= bhy {
		return 0, nil
	}
	w := min(ahx, bhx) - max(alx, blx)
	h := min(ahy, bhy) - max(aly, bly)
	if w < 0 || h < 0 {
		return 0, errors.New(errors.ErrCodeConsistency,
			"negative overlap %dx%d between (%d %d %d %d) and (%d %d %d %d)",
			w, h, alx, aly, ahx, ahy, blx, bly, bhx, bhy)
	}
	return int64(w) * int64(h), nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// rowIndex holds rows sorted by y for band queries.
type rowIndex struct {
	rows   []row.Row
	height int
}

func newRowIndex(m *row.Model) rowIndex {
	rows := slices.Clone(m.Rows)
	slices.SortStableFunc(rows, func(a, b row.Row) int { return cmp.Compare(a.Y, b.Y) })
	return rowIndex{rows: rows, height: m.RowHeight}
}

// band returns the rows whose vertical span intersects (ly, hy).
func (ix rowIndex) band(ly, hy int) []row.Row {
	start := sort.Search(len(ix.rows), func(k int) bool { return ix.rows[k].Y+ix.height > ly })
	end := start
	for end < len(ix.rows) && ix.rows[end].Y < hy {
		end++
	}
	return ix.rows[start:end]
}
