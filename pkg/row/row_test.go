package row

import (
	"testing"

	"github.com/matzehuels/shelfconv/pkg/errors"
)

func TestAddRowRegion(t *testing.T) {
	m := New(12, 1)
	m.AddRow(0, 0, 100)
	m.AddRow(12, 0, 100)

	got := m.Region()
	want := Region{LX: 0, LY: 0, HX: 100, HY: 24, TotalRowArea: 2400}
	if got != want {
		t.Errorf("Region() = %+v, want %+v", got, want)
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}

func TestAddRowKeepsFileOrder(t *testing.T) {
	m := New(10, 1)
	m.AddRow(20, 5, 10)
	m.AddRow(0, 0, 30)
	m.AddRow(10, 2, 4)

	wantY := []int{20, 0, 10}
	for i, r := range m.Rows {
		if r.Y != wantY[i] {
			t.Errorf("Rows[%d].Y = %d, want %d", i, r.Y, wantY[i])
		}
	}
	if m.Sorted() {
		t.Error("Sorted() = true for unsorted rows")
	}

	got := m.Region()
	want := Region{LX: 0, LY: 0, HX: 30, HY: 30, TotalRowArea: 10 * (10 + 30 + 4)}
	if got != want {
		t.Errorf("Region() = %+v, want %+v", got, want)
	}
}

func TestAddRowSiteWidth(t *testing.T) {
	m := New(8, 2)
	r := m.AddRow(0, 4, 10)

	if r.XEnd != 24 {
		t.Errorf("XEnd = %d, want 24", r.XEnd)
	}
	if r.NumSites(2) != 10 {
		t.Errorf("NumSites(2) = %d, want 10", r.NumSites(2))
	}
	if got := m.Region().TotalRowArea; got != 160 {
		t.Errorf("TotalRowArea = %d, want 160", got)
	}
}

func TestRegionInvariant(t *testing.T) {
	m := New(12, 1)
	var want int64
	for i := 0; i < 50; i++ {
		sites := 10 + i%7
		m.AddRow(i*12, i%3, sites)
		want += int64(sites * 12)
	}

	reg := m.Region()
	if reg.TotalRowArea != want {
		t.Errorf("TotalRowArea = %d, want %d", reg.TotalRowArea, want)
	}
	for i, r := range m.Rows {
		lx, ly, hx, hy := m.Rect(r)
		if lx < reg.LX || hx > reg.HX || ly < reg.LY || hy > reg.HY {
			t.Errorf("row %d (%d,%d,%d,%d) outside region %+v", i, lx, ly, hx, hy, reg)
		}
	}
}

func TestEmptyModel(t *testing.T) {
	m := New(12, 1)
	if !m.Empty() {
		t.Error("new model should be empty")
	}
	if m.Region() != (Region{}) {
		t.Errorf("empty Region() = %+v, want zero", m.Region())
	}
	if !m.Sorted() {
		t.Error("empty model should be sorted")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		height    int
		siteWidth int
		wantErr   bool
	}{
		{"valid", 12, 1, false},
		{"zero height", 0, 1, true},
		{"negative site width", 12, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.height, tt.siteWidth).Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
			}
		})
	}
}
