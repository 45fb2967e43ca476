package pipeline

import (
	"encoding/json"
	"time"

	"github.com/matzehuels/shelfconv/pkg/row"
)

// Report is the JSON summary of a conversion.
type Report struct {
	RunID       string          `json:"run_id"`
	Design      string          `json:"design"`
	GeneratedAt time.Time       `json:"generated_at"`
	Region      row.Region      `json:"region"`
	Stats       Stats           `json:"stats"`
	Utilization float64         `json:"utilization"`
	Macros      []MacroSummary  `json:"macros"`
	Density     *DensitySummary `json:"density,omitempty"`
	Warnings    []string        `json:"warnings,omitempty"`
}

// MacroSummary describes one macro in a [Report].
type MacroSummary struct {
	Name      string `json:"name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Fixed     bool   `json:"fixed"`
	Pins      int    `json:"pins"`
	Instances int    `json:"instances"`
}

// DensitySummary describes the density check in a [Report].
type DensitySummary struct {
	XDim            int     `json:"x_dim"`
	YDim            int     `json:"y_dim"`
	BinEdge         int     `json:"bin_edge"`
	Target          float64 `json:"target"`
	TotalOverflow   float64 `json:"total_overflow"`
	ScaledOverflow  float64 `json:"scaled_overflow"`
	OverflowingBins int     `json:"overflowing_bins"`
	MaxDensity      float64 `json:"max_density"`
}

// NewReport summarizes res under the given design name.
func NewReport(res *Result, design string) Report {
	rep := Report{
		RunID:       res.RunID.String(),
		Design:      design,
		GeneratedAt: time.Now().UTC(),
		Region:      res.Design.Rows.Region(),
		Stats:       res.Stats,
		Utilization: res.Stats.Utilization(),
		Macros:      make([]MacroSummary, 0, len(res.Library.Macros)),
	}
	for _, m := range res.Library.Macros {
		rep.Macros = append(rep.Macros, MacroSummary{
			Name:      m.Name,
			Width:     m.Width,
			Height:    m.Height,
			Fixed:     m.Fixed,
			Pins:      len(m.Pins),
			Instances: m.Instances,
		})
	}
	if res.Density != nil && res.Overflow != nil {
		o := res.Overflow
		rep.Density = &DensitySummary{
			XDim:            res.Density.XDim,
			YDim:            res.Density.YDim,
			BinEdge:         res.Density.XUnit,
			Target:          o.Target,
			TotalOverflow:   o.Total,
			ScaledOverflow:  o.Scaled,
			OverflowingBins: o.Bins,
			MaxDensity:      o.MaxDensity,
		}
	}
	for _, w := range res.Design.Warnings {
		rep.Warnings = append(rep.Warnings, w.Error())
	}
	return rep
}

// MarshalReport renders the report of res as indented JSON.
func MarshalReport(res *Result, design string) ([]byte, error) {
	return json.MarshalIndent(NewReport(res, design), "", "  ")
}
