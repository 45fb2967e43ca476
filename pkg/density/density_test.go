package density

import (
	"testing"

	"github.com/matzehuels/shelfconv/pkg/errors"
	"github.com/matzehuels/shelfconv/pkg/netlist"
	"github.com/matzehuels/shelfconv/pkg/row"
)

// tiled returns n gapless rows of the given width stacked from y=0.
func tiled(n, width, height int) *row.Model {
	m := row.New(height, 1)
	for i := 0; i < n; i++ {
		m.AddRow(i*height, 0, width)
	}
	return m
}

func TestBuildCapacitySumsToRowArea(t *testing.T) {
	m := tiled(10, 100, 12)
	total := m.Region().TotalRowArea

	for _, edge := range []int{1, 5, 7, 12, 13, 50, 99, 100, 120, 200} {
		mp, err := Build(m, edge)
		if err != nil {
			t.Fatalf("Build(edge=%d) error: %v", edge, err)
		}
		if got := mp.TotalCapacity(); got != total {
			t.Errorf("edge=%d: summed capacity = %d, want %d", edge, got, total)
		}

		var area int64
		for _, b := range mp.Bins {
			area += b.Area()
		}
		if area != m.Region().Area() {
			t.Errorf("edge=%d: summed bin area = %d, want %d", edge, area, m.Region().Area())
		}
		if mp.Len() != mp.XDim*mp.YDim {
			t.Errorf("edge=%d: Len() = %d, want %d", edge, mp.Len(), mp.XDim*mp.YDim)
		}
	}
}

func TestBuildDimensions(t *testing.T) {
	tests := []struct {
		edge       int
		xDim, yDim int
	}{
		{12, 9, 10},
		{30, 4, 4},
		{100, 1, 2},
		{120, 1, 1},
	}

	m := tiled(10, 100, 12)
	for _, tt := range tests {
		mp, err := Build(m, tt.edge)
		if err != nil {
			t.Fatalf("Build(edge=%d) error: %v", tt.edge, err)
		}
		if mp.XDim != tt.xDim || mp.YDim != tt.yDim {
			t.Errorf("edge=%d: dims = %dx%d, want %dx%d", tt.edge, mp.XDim, mp.YDim, tt.xDim, tt.yDim)
		}
	}
}

func TestBuildClipsLastColumnAndRow(t *testing.T) {
	m := tiled(10, 100, 12)
	mp, err := Build(m, 30)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	last := mp.At(mp.XDim-1, 0)
	if last.LX != 90 || last.HX != 100 {
		t.Errorf("last column = [%d,%d], want [90,100]", last.LX, last.HX)
	}
	if last.Capacity != 10*30 {
		t.Errorf("last column capacity = %d, want %d", last.Capacity, 10*30)
	}

	top := mp.At(0, mp.YDim-1)
	if top.LY != 90 || top.HY != 120 {
		t.Errorf("last row = [%d,%d], want [90,120]", top.LY, top.HY)
	}
	for _, b := range mp.Bins {
		if b.HX > mp.Region.HX || b.HY > mp.Region.HY {
			t.Errorf("bin %+v overhangs region %+v", b, mp.Region)
		}
	}
}

func TestBuildRowMajorOrder(t *testing.T) {
	mp, err := Build(tiled(10, 100, 12), 50)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	// x varies fastest
	if mp.Bins[0].LX != 0 || mp.Bins[1].LX != 50 || mp.Bins[2].LY != 50 {
		t.Errorf("unexpected order: %+v %+v %+v", mp.Bins[0], mp.Bins[1], mp.Bins[2])
	}
}

func TestBuildIndependentOfRowOrder(t *testing.T) {
	sorted := tiled(8, 64, 12)

	shuffled := row.New(12, 1)
	for _, i := range []int{5, 0, 7, 3, 1, 6, 2, 4} {
		shuffled.AddRow(i*12, 0, 64)
	}
	if shuffled.Sorted() {
		t.Fatal("test rows should be unsorted")
	}

	a, err := Build(sorted, 20)
	if err != nil {
		t.Fatalf("Build(sorted) error: %v", err)
	}
	b, err := Build(shuffled, 20)
	if err != nil {
		t.Fatalf("Build(shuffled) error: %v", err)
	}

	for k := range a.Bins {
		if a.Bins[k] != b.Bins[k] {
			t.Errorf("bin %d: sorted %+v != shuffled %+v", k, a.Bins[k], b.Bins[k])
		}
	}
}

func TestBuildErrors(t *testing.T) {
	gapped := row.New(12, 1)
	gapped.AddRow(0, 0, 100)
	gapped.AddRow(24, 0, 100)

	ragged := row.New(12, 1)
	ragged.AddRow(0, 0, 100)
	ragged.AddRow(12, 0, 60)

	inverted := row.New(12, 1)
	inverted.AddRow(0, 0, 100)
	inverted.AddRow(12, 50, -10)

	tests := []struct {
		name string
		m    *row.Model
		edge int
		code errors.Code
	}{
		{"gap between rows", gapped, 12, errors.ErrCodeConsistency},
		{"ragged right edge", ragged, 12, errors.ErrCodeConsistency},
		{"inverted row", inverted, 120, errors.ErrCodeConsistency},
		{"no rows", row.New(12, 1), 12, errors.ErrCodeInvalidInput},
		{"zero edge", tiled(2, 10, 12), 0, errors.ErrCodeInvalidInput},
		{"bad row height", row.New(0, 1), 12, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.m, tt.edge)
			if err == nil {
				t.Fatal("Build() should fail")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestOverlap(t *testing.T) {
	tests := []struct {
		name    string
		a, b    [4]int
		want    int64
		wantErr bool
	}{
		{"contained", [4]int{2, 2, 4, 4}, [4]int{0, 0, 10, 10}, 4, false},
		{"partial", [4]int{5, 5, 15, 15}, [4]int{0, 0, 10, 10}, 25, false},
		{"touching edge", [4]int{10, 0, 20, 10}, [4]int{0, 0, 10, 10}, 0, false},
		{"disjoint", [4]int{30, 30, 40, 40}, [4]int{0, 0, 10, 10}, 0, false},
		{"inverted", [4]int{8, 0, 4, 10}, [4]int{0, 0, 10, 10}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := overlap(tt.a[0], tt.a[1], tt.a[2], tt.a[3], tt.b[0], tt.b[1], tt.b[2], tt.b[3])
			if (err != nil) != tt.wantErr {
				t.Fatalf("overlap() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("overlap() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOverflow(t *testing.T) {
	mp, err := Build(tiled(10, 100, 12), 60)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	if err := mp.AddUsage(0, 0, 30, 60, true); err != nil {
		t.Fatalf("AddUsage(fixed) error: %v", err)
	}
	if err := mp.AddUsage(0, 0, 60, 60, false); err != nil {
		t.Fatalf("AddUsage(movable) error: %v", err)
	}
	// Entirely outside the region: counted as movable area, no bin usage.
	if err := mp.AddUsage(500, 500, 510, 510, false); err != nil {
		t.Fatalf("AddUsage(outside) error: %v", err)
	}

	b := mp.At(0, 0)
	if b.FixedUsage != 1800 || b.MovableUsage != 3600 {
		t.Errorf("bin usage = fixed %d movable %d, want 1800/3600", b.FixedUsage, b.MovableUsage)
	}

	o := mp.Overflow(0.5)
	if o.Total != 2700 {
		t.Errorf("Total = %v, want 2700", o.Total)
	}
	if o.Bins != 1 {
		t.Errorf("Bins = %d, want 1", o.Bins)
	}
	if o.MaxDensity != 2.0 {
		t.Errorf("MaxDensity = %v, want 2", o.MaxDensity)
	}
	if o.MovableArea != 3700 {
		t.Errorf("MovableArea = %d, want 3700", o.MovableArea)
	}
	if want := 2700.0 / 3700.0; o.Scaled != want {
		t.Errorf("Scaled = %v, want %v", o.Scaled, want)
	}
}

func TestAddUsageSpansBins(t *testing.T) {
	mp, err := Build(tiled(10, 100, 12), 50)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if err := mp.AddUsage(40, 40, 60, 60, false); err != nil {
		t.Fatalf("AddUsage error: %v", err)
	}

	for _, ij := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		if got := mp.At(ij[0], ij[1]).MovableUsage; got != 100 {
			t.Errorf("bin %v usage = %d, want 100", ij, got)
		}
	}

	if err := mp.AddUsage(10, 10, 5, 20, false); !errors.Is(err, errors.ErrCodeConsistency) {
		t.Errorf("inverted rectangle error = %v, want CONSISTENCY_ERROR", err)
	}
}

func TestBinEdge(t *testing.T) {
	if got := BinEdge(12, 10); got != 120 {
		t.Errorf("BinEdge(12, 10) = %d, want 120", got)
	}
	if got := BinEdge(12, 0); got != 12*DefaultBinRowFactor {
		t.Errorf("BinEdge(12, 0) = %d, want default", got)
	}
}

func TestAnalyze(t *testing.T) {
	objects := []*netlist.Object{
		{Name: "p", Width: 30, Height: 60, Fixed: true, Placed: true},
		{Name: "a", Width: 60, Height: 60, Placed: true},
		{Name: "b", Width: 10, Height: 10}, // never placed
	}

	mp, o, err := Analyze(tiled(10, 100, 12), objects, 60, 0.5)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if mp.Len() != 4 {
		t.Errorf("Len() = %d, want 4", mp.Len())
	}
	if o.Total != 2700 || o.MovableArea != 3600 || o.Bins != 1 {
		t.Errorf("Overflow = %+v", o)
	}

	if _, _, err := Analyze(row.New(12, 1), objects, 60, 0.5); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty model error = %v, want INVALID_INPUT", err)
	}
}
