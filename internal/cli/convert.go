package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shelfconv/pkg/pipeline"
)

// convertCommand creates the convert command, the main entry point.
func (c *CLI) convertCommand() *cobra.Command {
	var (
		flags        designFlags
		output       string
		formatsStr   string
		name         string
		checkDensity bool
		target       float64
		binFactor    int
		graphNets    int
	)

	cmd := &cobra.Command{
		Use:   "convert [design.aux]",
		Short: "Convert a Bookshelf benchmark to LEF/DEF",
		Long: `Convert a Bookshelf benchmark to LEF/DEF.

The .aux manifest names the .scl, .nodes, .pl and .nets files, which are read
relative to it. Output files are named after the design:

  <name>.lef          macro library
  <name>.def          rows, components and nets
  <name>.report.json  statistics and warnings (-f json)
  <name>.dot/.svg     netlist diagram (-f dot, -f svg)

Loaded benchmarks are cached by content, so converting the same files again
with different output settings skips parsing.`,
		Example: `  shelfconv convert ibm01/ibm01.aux
  shelfconv convert ibm01.aux -f lef,def,json -o out/ --check-density`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cfg, err := flags.options(args[0])
			if err != nil {
				return err
			}
			if formats := parseFormats(formatsStr); formats != nil {
				opts.Formats = formats
			}
			if name != "" {
				opts.DesignName = name
			}
			if cmd.Flags().Changed("check-density") {
				opts.CheckDensity = checkDensity
			}
			if target != 0 {
				opts.Target = target
			}
			if binFactor != 0 {
				opts.BinRowFactor = binFactor
			}
			if graphNets != 0 {
				opts.GraphNets = graphNets
			}
			return c.runConvert(cmd.Context(), opts, outputDir(output, cfg, args[0]), flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default: next to the .aux file)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): lef, def, json, dot, svg (comma-separated)")
	cmd.Flags().StringVar(&name, "name", "", "design name (default: .aux base name)")
	cmd.Flags().BoolVar(&checkDensity, "check-density", false, "check placement density against --target")
	cmd.Flags().Float64Var(&target, "target", 0, "density target in (0, 1] (default from config)")
	cmd.Flags().IntVar(&binFactor, "bin-factor", 0, "bin edge in row heights (default from config)")
	cmd.Flags().IntVar(&graphNets, "graph-nets", 0, "nets drawn in dot/svg output, -1 for all")

	return cmd
}

func (c *CLI) runConvert(ctx context.Context, opts pipeline.Options, dir string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Converting "+filepath.Base(opts.AuxPath)+"...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Conversion failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(dir, designName(result, opts), opts.Formats, result.Artifacts)
	if err != nil {
		return err
	}

	s := result.Stats
	printSuccess("Converted %s", StyleHighlight.Render(result.Design.Name))
	for _, p := range paths {
		printFile(p)
	}
	printStats([]string{
		fmt.Sprintf("%d rows", s.Rows),
		fmt.Sprintf("%d objects", s.Objects),
		fmt.Sprintf("%d nets", s.Nets),
		fmt.Sprintf("%d macros", s.Macros),
	}, result.CacheInfo.LoadHit)

	if o := result.Overflow; o != nil {
		line := fmt.Sprintf("density: max %.3f, overflow %.4f at target %.2f", o.MaxDensity, o.Scaled, o.Target)
		if o.Bins > 0 {
			printWarning("%s (%d bins over target)", line, o.Bins)
		} else {
			printDetail("%s", line)
		}
	}
	printWarnings(result.Design.Warnings)

	printNewline()
	printNextStep("Browse macros", "shelfconv inspect "+opts.AuxPath)
	return nil
}

// writeArtifacts writes each format in order to dir and returns the paths.
func writeArtifacts(dir, design string, formats []string, artifacts map[string][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := filepath.Join(dir, pipeline.OutputName(design, format))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
