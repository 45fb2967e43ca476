package density

import (
	"github.com/matzehuels/shelfconv/pkg/netlist"
	"github.com/matzehuels/shelfconv/pkg/row"
)

// Analyze builds the map for m and accumulates the usage of every placed
// object at its lower-left location. Objects without a placement record are
// skipped since their coordinates carry no information.
func Analyze(m *row.Model, objects []*netlist.Object, binEdge int, target float64) (*Map, Overflow, error) {
	mp, err := Build(m, binEdge)
	if err != nil {
		return nil, Overflow{}, err
	}
	for _, o := range objects {
		if !o.Placed {
			continue
		}
		if err := mp.AddUsage(o.X, o.Y, o.X+o.Width, o.Y+o.Height, o.Fixed); err != nil {
			return nil, Overflow{}, err
		}
	}
	return mp, mp.Overflow(target), nil
}
