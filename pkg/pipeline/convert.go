package pipeline

import (
	"github.com/google/uuid"

	"github.com/matzehuels/shelfconv/pkg/density"
	"github.com/matzehuels/shelfconv/pkg/macro"
)

// Convert canonicalizes the macros of d and, when opts.CheckDensity is set,
// builds the density map and computes overflow against opts.Target.
func Convert(d *Design, opts Options) (*Result, error) {
	if err := opts.ValidateForConvert(); err != nil {
		return nil, err
	}

	lib, err := macro.Canonicalize(d.Netlist)
	if err != nil {
		return nil, err
	}

	res := &Result{
		RunID:   uuid.New(),
		Design:  d,
		Library: lib,
	}

	if opts.CheckDensity {
		edge := density.BinEdge(d.Rows.RowHeight, opts.BinRowFactor)
		mp, over, err := density.Analyze(d.Rows, d.Netlist.Objects(), edge, opts.Target)
		if err != nil {
			return nil, err
		}
		res.Density, res.Overflow = mp, &over
	}

	res.Stats = statsOf(res)
	return res, nil
}

func statsOf(res *Result) Stats {
	d := res.Design
	tot := d.Netlist.Totals()
	return Stats{
		Rows:        d.Rows.Len(),
		Objects:     tot.Objects,
		Terminals:   tot.Terminals,
		Nets:        d.Netlist.NumNets(),
		Pins:        d.Netlist.NumPins(),
		Macros:      len(res.Library.Macros),
		Terms:       res.Library.NumTerms(),
		RowArea:     d.Rows.Region().TotalRowArea,
		MovableArea: tot.MovableArea,
		FixedArea:   tot.FixedArea,
		Warnings:    len(d.Warnings),
	}
}
