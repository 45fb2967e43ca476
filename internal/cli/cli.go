// Package cli implements the shelfconv command-line interface.
//
// Commands share one [CLI] value that owns the logger. Each command builds
// [pipeline.Options] from the config file named by --config, applies its own
// flags on top, and hands them to a [pipeline.Runner] backed by the file
// cache.
//
// # Commands
//
//   - convert: write LEF, DEF and optional report/diagram files
//   - density: print bin density and overflow for a placement
//   - inspect: browse the canonicalized macros
//   - graph: draw the netlist as DOT or SVG
//   - cache: clear or locate the design cache
package cli

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shelfconv/pkg/cache"
	"github.com/matzehuels/shelfconv/pkg/config"
	"github.com/matzehuels/shelfconv/pkg/pipeline"
)

const appName = "shelfconv"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// newCache opens the user cache directory. A missing home directory disables
// caching rather than failing the command.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		c.Logger.Debug("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Shared Flags
// =============================================================================

// designFlags are accepted by every command that loads a benchmark.
type designFlags struct {
	config    string
	noCache   bool
	refresh   bool
	rowHeight int
	siteWidth int
}

func (f *designFlags) register(cmd *cobra.Command) {
	cmd.ValidArgsFunction = completeAux
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "config file (.toml, .yaml)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "reload the benchmark even if cached")
	cmd.Flags().IntVar(&f.rowHeight, "row-height", 0, "row height expected in the .scl file (default from config)")
	cmd.Flags().IntVar(&f.siteWidth, "site-width", 0, "site width used for row extents (default from config)")
}

// options loads the config file and applies the shared flags for aux.
func (f *designFlags) options(aux string) (pipeline.Options, config.Config, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return pipeline.Options{}, cfg, err
	}
	opts := pipeline.FromConfig(cfg, aux)
	opts.Refresh = f.refresh
	if f.rowHeight != 0 {
		opts.RowHeight = f.rowHeight
	}
	if f.siteWidth != 0 {
		opts.SiteWidth = f.siteWidth
	}
	return opts, cfg, nil
}

// =============================================================================
// Helpers
// =============================================================================

// parseFormats splits a comma-separated format list. Empty yields nil so
// the config formats apply.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, strings.ToLower(f))
		}
	}
	return formats
}

// outputDir picks the directory for written files: the flag, then the
// config, then the directory holding the .aux file.
func outputDir(flag string, cfg config.Config, aux string) string {
	switch {
	case flag != "":
		return flag
	case cfg.Output.Dir != "":
		return cfg.Output.Dir
	}
	return filepath.Dir(aux)
}

// designName returns the emitted design name for a result.
func designName(res *pipeline.Result, opts pipeline.Options) string {
	if opts.DesignName != "" {
		return opts.DesignName
	}
	return res.Design.Name
}
