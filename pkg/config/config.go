// Package config loads shelfconv settings from TOML or YAML files.
//
// Every field has a default matching the ISPD benchmark conventions, so a
// config file only needs the keys it changes:
//
//	[rows]
//	height = 12
//
//	[density]
//	target = 0.8
//	check = true
//
// The file format is chosen by extension (.toml, .yaml or .yml).
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/shelfconv/pkg/density"
	"github.com/matzehuels/shelfconv/pkg/errors"
	"github.com/matzehuels/shelfconv/pkg/lefdef"
)

// Output formats understood by the pipeline.
const (
	FormatLEF  = "lef"
	FormatDEF  = "def"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats lists every output format in emission order.
var ValidFormats = []string{FormatLEF, FormatDEF, FormatJSON, FormatDOT, FormatSVG}

// Config holds all conversion settings.
type Config struct {
	Rows    Rows    `toml:"rows" yaml:"rows"`
	Density Density `toml:"density" yaml:"density"`
	Output  Output  `toml:"output" yaml:"output"`
	LEF     LEF     `toml:"lef" yaml:"lef"`
}

// Rows describes the row geometry shared by all rows of a benchmark.
type Rows struct {
	Height    int `toml:"height" yaml:"height"`
	SiteWidth int `toml:"site_width" yaml:"site_width"`
}

// Density configures the bin map and density-target check.
type Density struct {
	BinRowFactor int     `toml:"bin_row_factor" yaml:"bin_row_factor"`
	Target       float64 `toml:"target" yaml:"target"`
	Check        bool    `toml:"check" yaml:"check"`
}

// Output selects what is written and where.
type Output struct {
	Formats    []string `toml:"formats" yaml:"formats"`
	DesignName string   `toml:"design_name" yaml:"design_name"` // defaults to the .aux base name
	Dir        string   `toml:"dir" yaml:"dir"`                 // defaults to the .aux directory
}

// LEF holds library emission settings.
type LEF struct {
	Version         string  `toml:"version" yaml:"version"`
	DatabaseMicrons int     `toml:"database_microns" yaml:"database_microns"`
	SiteName        string  `toml:"site_name" yaml:"site_name"`
	PinLayer        string  `toml:"pin_layer" yaml:"pin_layer"`
	PinHalfSize     float64 `toml:"pin_half_size" yaml:"pin_half_size"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	lo := lefdef.DefaultOptions()
	return Config{
		Rows: Rows{Height: 12, SiteWidth: 1},
		Density: Density{
			BinRowFactor: density.DefaultBinRowFactor,
			Target:       0.5,
		},
		Output: Output{Formats: []string{FormatLEF, FormatDEF}},
		LEF: LEF{
			Version:         lo.Version,
			DatabaseMicrons: lo.DatabaseMicrons,
			SiteName:        lo.SiteName,
			PinLayer:        lo.PinLayer,
			PinHalfSize:     lo.PinHalfSize,
		},
	}
}

// Options converts the LEF section to emitter options.
func (l LEF) Options() lefdef.Options {
	return lefdef.Options{
		Version:         l.Version,
		DatabaseMicrons: l.DatabaseMicrons,
		SiteName:        l.SiteName,
		PinLayer:        l.PinLayer,
		PinHalfSize:     l.PinHalfSize,
	}
}

// Load reads the config file at path on top of [Defaults]. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, err
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = decodeTOML(data, &cfg)
	case ".yaml", ".yml":
		err = decodeYAML(data, &cfg)
	default:
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return cfg, cfg.Validate()
}

func decodeTOML(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown key %s", undecoded[0])
	}
	return nil
}

func decodeYAML(data []byte, cfg *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(cfg)
}

// Validate checks every section and returns the first problem found.
func (c Config) Validate() error {
	if c.Rows.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "rows.height must be positive, got %d", c.Rows.Height)
	}
	if c.Rows.SiteWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "rows.site_width must be positive, got %d", c.Rows.SiteWidth)
	}
	if c.Density.BinRowFactor <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "density.bin_row_factor must be positive, got %d", c.Density.BinRowFactor)
	}
	if c.Density.Target <= 0 || c.Density.Target > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "density.target must be in (0, 1], got %g", c.Density.Target)
	}
	for _, f := range c.Output.Formats {
		if !isValidFormat(f) {
			return errors.New(errors.ErrCodeInvalidConfig, "unknown output format %q (valid: %s)", f, strings.Join(ValidFormats, ", "))
		}
	}
	if c.Output.DesignName != "" {
		if err := errors.ValidateName(c.Output.DesignName); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "output.design_name")
		}
	}
	return c.LEF.Options().Validate()
}

func isValidFormat(f string) bool {
	for _, v := range ValidFormats {
		if f == v {
			return true
		}
	}
	return false
}
