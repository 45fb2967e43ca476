package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/shelfconv/pkg/density"
	"github.com/matzehuels/shelfconv/pkg/row"
)

func TestHeatLevel(t *testing.T) {
	tests := []struct {
		ratio float64
		want  int
	}{
		{0, 0},
		{0.1, 1},
		{0.25, 1},
		{0.4, 2},
		{0.5, 3},
		{0.51, 4},
		{2, 4},
	}
	for _, tt := range tests {
		if got := heatLevel(tt.ratio, 0.5); got != tt.want {
			t.Errorf("heatLevel(%g, 0.5) = %d, want %d", tt.ratio, got, tt.want)
		}
	}
}

func buildMap(t *testing.T, rows, sites, edge int) *density.Map {
	t.Helper()
	m := row.New(12, 1)
	for i := range rows {
		m.AddRow(i*12, 0, sites)
	}
	mp, err := density.Build(m, edge)
	if err != nil {
		t.Fatal(err)
	}
	return mp
}

func TestRenderHeatmap(t *testing.T) {
	mp := buildMap(t, 2, 48, 12) // 4x2 bins
	if err := mp.AddUsage(0, 0, 12, 12, false); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSuffix(renderHeatmap(mp, 0.5), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	// Bottom row is printed last; its first bin is full.
	if !strings.Contains(lines[1], heatGlyphs[4]) || strings.Contains(lines[0], heatGlyphs[4]) {
		t.Errorf("heat map rows:\n%s\n%s", lines[0], lines[1])
	}
}

func TestRenderHeatmapAggregates(t *testing.T) {
	mp := buildMap(t, 1, heatMaxCols*3, 12) // 192x1 bins
	out := strings.TrimSuffix(renderHeatmap(mp, 0.5), "\n")
	if n := strings.Count(out, heatGlyphs[0]); n != heatMaxCols {
		t.Errorf("got %d cells, want %d", n, heatMaxCols)
	}
}

func TestCeilDiv(t *testing.T) {
	if ceilDiv(10, 3) != 4 || ceilDiv(9, 3) != 3 || ceilDiv(1, 64) != 1 {
		t.Error("ceilDiv")
	}
}
