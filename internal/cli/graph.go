package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shelfconv/pkg/config"
	"github.com/matzehuels/shelfconv/pkg/pipeline"
	"github.com/matzehuels/shelfconv/pkg/render/netgraph"
)

func (c *CLI) graphCommand() *cobra.Command {
	var (
		flags     designFlags
		output    string
		format    string
		maxNets   int
		pinLabels bool
	)

	cmd := &cobra.Command{
		Use:   "graph [design.aux]",
		Short: "Draw the netlist as a Graphviz diagram",
		Long: `Draw the netlist as a Graphviz diagram.

Components become boxes (fixed ones shaded). A net with one driver and one
sink is drawn as an edge; larger nets fan out from a small hub node. Large
benchmarks are limited to the first --max-nets nets and the components they
touch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != config.FormatDOT && format != config.FormatSVG {
				return fmt.Errorf("invalid format: %s (must be 'dot' or 'svg')", format)
			}
			opts, _, err := flags.options(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "." + format
			}
			gopts := netgraph.Options{MaxNets: pipeline.GraphNetLimit(maxNets), PinLabels: pinLabels}
			return c.runGraph(cmd.Context(), opts, gopts, format, output, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <design>.<format> next to the .aux)")
	cmd.Flags().StringVarP(&format, "format", "f", config.FormatSVG, "output format: svg, dot")
	cmd.Flags().IntVar(&maxNets, "max-nets", pipeline.DefaultGraphNets, "nets to draw, -1 for all")
	cmd.Flags().BoolVar(&pinLabels, "pin-labels", false, "label edges with macro pin names")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, opts pipeline.Options, gopts netgraph.Options, format, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	d, hit, err := runner.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return err
	}
	result, err := runner.Convert(ctx, d, opts)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Rendering netlist graph...")
	spinner.Start()

	dot := netgraph.ToDOT(result.Library, gopts)
	data := []byte(dot)
	if format == config.FormatSVG {
		if data, err = netgraph.RenderSVG(dot); err != nil {
			spinner.StopWithError("Rendering failed")
			return fmt.Errorf("render svg: %w", err)
		}
	}
	spinner.Stop()

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	drawn := len(result.Library.Nets)
	if gopts.MaxNets > 0 {
		drawn = min(drawn, gopts.MaxNets)
	}
	printSuccess("Netlist graph written")
	printFile(output)
	printStats([]string{
		fmt.Sprintf("%d of %d nets", drawn, len(result.Library.Nets)),
	}, hit)
	return nil
}
