// Package pipeline runs a Bookshelf benchmark through the conversion stages.
//
// # Overview
//
// A conversion has three stages:
//
//  1. Load: read the .aux manifest and its .scl/.nodes/.pl/.nets files into
//     a row model and a netlist (cached as a msgpack snapshot)
//  2. Convert: canonicalize macros and, optionally, check the density target
//  3. Render: write LEF, DEF, a JSON report and netlist diagrams
//
// [Runner] executes the stages with caching and logging. The package-level
// functions [LoadDesign], [Convert] and [Render] run one stage without a
// cache.
//
// # Options
//
// [Options] carries every setting. It is usually built from a config file
// with [FromConfig] and then adjusted from command-line flags:
//
//	opts := pipeline.FromConfig(cfg, "ibm01.aux")
//	opts.CheckDensity = true
//	result, err := runner.Execute(ctx, opts)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/shelfconv/pkg/cache"
	"github.com/matzehuels/shelfconv/pkg/config"
	"github.com/matzehuels/shelfconv/pkg/density"
	"github.com/matzehuels/shelfconv/pkg/errors"
	"github.com/matzehuels/shelfconv/pkg/lefdef"
	"github.com/matzehuels/shelfconv/pkg/macro"
)

// Cache TTLs.
const (
	TTLDesign   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// DefaultGraphNets is the default net limit for DOT and SVG diagrams.
const DefaultGraphNets = 500

// GraphNetLimit converts a user-facing net limit into the netgraph
// MaxNets: zero selects [DefaultGraphNets] and a negative limit draws every
// net.
func GraphNetLimit(n int) int {
	switch {
	case n < 0:
		return 0
	case n == 0:
		return DefaultGraphNets
	}
	return n
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a conversion.
type Options struct {
	// Load options
	AuxPath   string `json:"aux_path"`
	RowHeight int    `json:"row_height,omitempty"`
	SiteWidth int    `json:"site_width,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"` // ignore cached designs

	// Convert options
	CheckDensity bool    `json:"check_density,omitempty"`
	BinRowFactor int     `json:"bin_row_factor,omitempty"`
	Target       float64 `json:"target,omitempty"`

	// Render options
	Formats    []string       `json:"formats,omitempty"`
	DesignName string         `json:"design_name,omitempty"` // defaults to the manifest name
	LEF        lefdef.Options `json:"lef"`
	GraphNets  int            `json:"graph_nets,omitempty"` // net limit for dot/svg, -1 for all

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// FromConfig builds options for the benchmark at auxPath from cfg.
func FromConfig(cfg config.Config, auxPath string) Options {
	return Options{
		AuxPath:      auxPath,
		RowHeight:    cfg.Rows.Height,
		SiteWidth:    cfg.Rows.SiteWidth,
		CheckDensity: cfg.Density.Check,
		BinRowFactor: cfg.Density.BinRowFactor,
		Target:       cfg.Density.Target,
		Formats:      slices.Clone(cfg.Output.Formats),
		DesignName:   cfg.Output.DesignName,
		LEF:          cfg.LEF.Options(),
	}
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForConvert(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks and defaults the load options.
func (o *Options) ValidateForLoad() error {
	if o.AuxPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "aux path is required")
	}
	d := config.Defaults()
	if o.RowHeight == 0 {
		o.RowHeight = d.Rows.Height
	}
	if o.SiteWidth == 0 {
		o.SiteWidth = d.Rows.SiteWidth
	}
	if o.RowHeight < 0 || o.SiteWidth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "row height and site width must be positive")
	}
	o.setLogger()
	return nil
}

// ValidateForConvert checks and defaults the density options.
func (o *Options) ValidateForConvert() error {
	d := config.Defaults()
	if o.BinRowFactor == 0 {
		o.BinRowFactor = d.Density.BinRowFactor
	}
	if o.Target == 0 {
		o.Target = d.Density.Target
	}
	if o.BinRowFactor < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "bin row factor must be positive, got %d", o.BinRowFactor)
	}
	if o.Target < 0 || o.Target > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "density target must be in (0, 1], got %g", o.Target)
	}
	o.setLogger()
	return nil
}

// ValidateForRender checks and defaults the render options.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = slices.Clone(config.Defaults().Output.Formats)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.LEF == (lefdef.Options{}) {
		o.LEF = lefdef.DefaultOptions()
	}
	if err := o.LEF.Validate(); err != nil {
		return err
	}
	if o.DesignName != "" {
		if err := errors.ValidateName(o.DesignName); err != nil {
			return err
		}
	}
	if o.GraphNets == 0 {
		o.GraphNets = DefaultGraphNets
	}
	o.setLogger()
	return nil
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(config.ValidFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(config.ValidFormats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// DesignKeyOpts returns cache key options for loading.
func (o *Options) DesignKeyOpts() cache.DesignKeyOpts {
	return cache.DesignKeyOpts{RowHeight: o.RowHeight, SiteWidth: o.SiteWidth}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format, designName string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format, DesignName: designName}
	switch format {
	case config.FormatLEF, config.FormatDEF:
		opts.Options = o.LEF
	case config.FormatDOT, config.FormatSVG:
		opts.Options = o.GraphNets
	}
	return opts
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in reports.
	RunID uuid.UUID

	// Design is the loaded benchmark.
	Design *Design

	// Library holds macros, components and resolved nets.
	Library *macro.Result

	// Density is the bin map when the density check ran.
	Density  *density.Map
	Overflow *density.Overflow

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows        int           `json:"rows"`
	Objects     int           `json:"objects"`
	Terminals   int           `json:"terminals"`
	Nets        int           `json:"nets"`
	Pins        int           `json:"pins"`
	Macros      int           `json:"macros"`
	Terms       int           `json:"terms"`
	RowArea     int64         `json:"row_area"`
	MovableArea int64         `json:"movable_area"`
	FixedArea   int64         `json:"fixed_area"`
	Warnings    int           `json:"warnings"`
	LoadTime    time.Duration `json:"load_time"`
	ConvertTime time.Duration `json:"convert_time"`
	RenderTime  time.Duration `json:"render_time"`
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // Whether the design came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// Utilization returns movable area divided by free row area (row area not
// covered by fixed objects), or zero when there is no free area.
func (s Stats) Utilization() float64 {
	free := s.RowArea - s.FixedArea
	if free <= 0 {
		return 0
	}
	return float64(s.MovableArea) / float64(free)
}

func (r *Result) String() string {
	return fmt.Sprintf("%s: %d rows, %d objects, %d nets, %d macros",
		r.Design.Name, r.Stats.Rows, r.Stats.Objects, r.Stats.Nets, r.Stats.Macros)
}
