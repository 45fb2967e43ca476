package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shelfconv/pkg/bookshelf"
	"github.com/matzehuels/shelfconv/pkg/cache"
	"github.com/matzehuels/shelfconv/pkg/config"
	"github.com/matzehuels/shelfconv/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → convert → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	// Stage 1: Load
	loadStart := time.Now()
	d, designKey, loadHit, err := r.load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	loadTime := time.Since(loadStart)

	r.Logger.Info("loaded benchmark",
		"design", d.Name,
		"rows", d.Rows.Len(),
		"objects", d.Netlist.NumObjects(),
		"nets", d.Netlist.NumNets(),
		"cached", loadHit,
		"duration", loadTime)
	for _, w := range d.Warnings {
		r.Logger.Warn("count mismatch", "at", w.Pos, "subject", w.Subject,
			"declared", w.Declared, "found", w.Actual)
	}

	// Stage 2: Convert
	result, err := r.Convert(ctx, d, opts)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	result.Stats.LoadTime = loadTime
	result.CacheInfo.LoadHit = loadHit

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.render(ctx, result, designKey, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, renderHit, result.Stats.RenderTime, nil)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo reads the benchmark with caching and returns cache hit info.
//
// The cache key covers the contents of every file the manifest names, so
// editing any of them invalidates the cached design.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*Design, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}

	d, _, hit, err := r.load(ctx, opts)
	return d, hit, err
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*Design, error) {
	d, _, err := r.LoadWithCacheInfo(ctx, opts)
	return d, err
}

func (r *Runner) load(ctx context.Context, opts Options) (d *Design, key string, hit bool, err error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.AuxPath)
	start := time.Now()
	defer func() {
		objects := 0
		if d != nil {
			objects = d.Netlist.NumObjects()
		}
		hooks.OnLoadComplete(ctx, opts.AuxPath, objects, hit, time.Since(start), err)
	}()

	m, err := bookshelf.ReadAux(opts.AuxPath)
	if err != nil {
		return nil, "", false, err
	}

	// Compute cache key
	inputHash, err := cache.HashFiles(m.Files()...)
	if err != nil {
		// Missing inputs are reported by the readers with a proper code.
		d, err = loadManifest(ctx, m, opts)
		return d, "", false, err
	}
	cacheKey := r.Keyer.DesignKey(inputHash, opts.DesignKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		snap, ok, err := cache.GetValue[designSnapshot](ctx, r.Cache, cacheKey)
		if err == nil && ok {
			if d, err := snap.design(m); err == nil {
				observability.Cache().OnCacheHit(ctx, "design")
				return d, cacheKey, true, nil // Cache hit
			}
			// If the snapshot cannot be rebuilt, fall through to reload
		}
		observability.Cache().OnCacheMiss(ctx, "design")
	}

	d, err = loadManifest(ctx, m, opts)
	if err != nil {
		return nil, "", false, err
	}

	if n, err := cache.SetValue(ctx, r.Cache, cacheKey, snapshotOf(d), TTLDesign); err != nil {
		opts.Logger.Debug("cache write failed", "key", cacheKey, "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "design", n)
	}

	return d, cacheKey, false, nil // Cache miss
}

// Convert canonicalizes macros and runs the optional density check, logging
// a summary of the result.
func (r *Runner) Convert(ctx context.Context, d *Design, opts Options) (*Result, error) {
	r.applyLogger(&opts)

	start := time.Now()
	result, err := Convert(d, opts)
	if err != nil {
		observability.Pipeline().OnConvertComplete(ctx, d.Name, 0, time.Since(start), err)
		return nil, err
	}
	result.Stats.ConvertTime = time.Since(start)
	observability.Pipeline().OnConvertComplete(ctx, d.Name, result.Stats.Macros, result.Stats.ConvertTime, nil)

	r.Logger.Info("canonicalized macros",
		"macros", result.Stats.Macros,
		"components", len(result.Library.Components),
		"duration", result.Stats.ConvertTime)

	if o := result.Overflow; o != nil {
		r.Logger.Info("checked density",
			"bins", result.Density.Len(),
			"target", o.Target,
			"overflow", o.Scaled,
			"max_density", o.MaxDensity)
		if o.Bins > 0 {
			r.Logger.Warn("density target exceeded",
				"bins", o.Bins,
				"total_overflow", o.Total)
		}
	}
	return result, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, result *Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	var designKey string
	if m := result.Design.Manifest; m != nil {
		if h, err := cache.HashFiles(m.Files()...); err == nil {
			designKey = r.Keyer.DesignKey(h, cache.DesignKeyOpts{
				RowHeight: result.Design.Rows.RowHeight,
				SiteWidth: result.Design.Rows.SiteWidth,
			})
		}
	}
	return r.render(ctx, result, designKey, opts)
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, result *Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, result, opts)
	return artifacts, err
}

// render serves cacheable formats from the cache when designKey is known.
// The JSON report carries the run id and is always rendered fresh.
func (r *Runner) render(ctx context.Context, result *Result, designKey string, opts Options) (map[string][]byte, bool, error) {
	if designKey == "" {
		artifacts, err := Render(result, opts)
		return artifacts, false, err
	}

	name := designName(result, opts)
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		if format == config.FormatJSON {
			missing = append(missing, format)
			continue
		}
		cacheKey := r.Keyer.ArtifactKey(designKey, opts.ArtifactKeyOpts(format, name))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		} else {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			missing = append(missing, format)
		}
	}

	if len(missing) == 0 {
		return artifacts, true, nil // All artifacts from cache
	}

	// Render the missing formats
	sub := opts
	sub.Formats = missing
	rendered, err := Render(result, sub)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		artifacts[format] = data
		if format == config.FormatJSON {
			continue
		}
		cacheKey := r.Keyer.ArtifactKey(designKey, opts.ArtifactKeyOpts(format, name))
		if err := r.Cache.Set(ctx, cacheKey, data, TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
