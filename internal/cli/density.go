package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shelfconv/pkg/density"
	"github.com/matzehuels/shelfconv/pkg/pipeline"
)

// Heat map bounds in cells. Larger grids are aggregated.
const (
	heatMaxCols = 64
	heatMaxRows = 24
)

// heat levels, from empty to over target.
var heatStyles = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(colorDim),
	lipgloss.NewStyle().Foreground(colorGreen),
	lipgloss.NewStyle().Foreground(colorYellow),
	lipgloss.NewStyle().Foreground(colorOrange),
	lipgloss.NewStyle().Foreground(colorRed),
}

var heatGlyphs = []string{"·", "░", "▒", "▓", "█"}

func (c *CLI) densityCommand() *cobra.Command {
	var (
		flags     designFlags
		target    float64
		binFactor int
		noMap     bool
	)

	cmd := &cobra.Command{
		Use:   "density [design.aux]",
		Short: "Check placement density against a target",
		Long: `Check placement density against a target.

The row region is divided into square bins of --bin-factor row heights. Each
bin's capacity is the row area it covers; fixed objects reduce it, movable
objects fill it. A bin overflows when its movable area exceeds the target
times its free capacity.

Objects without a .pl record are not counted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, _, err := flags.options(args[0])
			if err != nil {
				return err
			}
			opts.CheckDensity = true
			if target != 0 {
				opts.Target = target
			}
			if binFactor != 0 {
				opts.BinRowFactor = binFactor
			}
			return c.runDensity(cmd.Context(), opts, flags.noCache, !noMap)
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64Var(&target, "target", 0, "density target in (0, 1] (default from config)")
	cmd.Flags().IntVar(&binFactor, "bin-factor", 0, "bin edge in row heights (default from config)")
	cmd.Flags().BoolVar(&noMap, "no-map", false, "print the summary only")

	return cmd
}

func (c *CLI) runDensity(ctx context.Context, opts pipeline.Options, noCache, showMap bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Loading benchmark...")
	spinner.Start()

	d, hit, err := runner.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return err
	}

	spinner.Update("Building density map...")
	prog := newProgress(c.Logger)
	result, err := runner.Convert(ctx, d, opts)
	if err != nil {
		spinner.StopWithError("Density check failed")
		return err
	}
	spinner.Stop()
	prog.done("density check complete", "bins", result.Density.Len())

	mp, o := result.Density, result.Overflow
	printSuccess("Density of %s", StyleHighlight.Render(d.Name))
	printStats([]string{
		fmt.Sprintf("%dx%d bins", mp.XDim, mp.YDim),
		fmt.Sprintf("edge %d", mp.XUnit),
	}, hit)
	printKeyValue("target", fmt.Sprintf("%.2f", o.Target))
	printKeyValue("utilization", fmt.Sprintf("%.3f", result.Stats.Utilization()))
	printKeyValue("max density", fmt.Sprintf("%.3f", o.MaxDensity))
	printKeyValue("overflow", fmt.Sprintf("%.1f (scaled %.4f)", o.Total, o.Scaled))
	printKeyValue("hot bins", fmt.Sprintf("%d of %d", o.Bins, mp.Len()))

	if showMap {
		printNewline()
		fmt.Print(renderHeatmap(mp, o.Target))
		fmt.Println(heatLegend(o.Target))
	}
	if o.Bins > 0 {
		printNewline()
		printWarning("density target %.2f exceeded in %d bins", o.Target, o.Bins)
	}
	return nil
}

// heatLevel maps a movable/free ratio to an index into heatStyles.
func heatLevel(ratio, target float64) int {
	switch {
	case ratio <= 0:
		return 0
	case ratio <= target/2:
		return 1
	case ratio <= target*0.9:
		return 2
	case ratio <= target:
		return 3
	}
	return 4
}

// renderHeatmap draws mp top row first. When the grid exceeds the cell
// bounds, neighboring bins are summed into one cell.
func renderHeatmap(mp *density.Map, target float64) string {
	sx := ceilDiv(mp.XDim, heatMaxCols)
	sy := ceilDiv(mp.YDim, heatMaxRows)
	cols, rows := ceilDiv(mp.XDim, sx), ceilDiv(mp.YDim, sy)

	var b strings.Builder
	for r := rows - 1; r >= 0; r-- {
		b.WriteString("  ")
		for col := range cols {
			var movable, free int64
			for j := r * sy; j < min((r+1)*sy, mp.YDim); j++ {
				for i := col * sx; i < min((col+1)*sx, mp.XDim); i++ {
					bin := mp.At(i, j)
					movable += bin.MovableUsage
					free += bin.Free()
				}
			}
			lvl := 0
			switch {
			case free > 0:
				lvl = heatLevel(float64(movable)/float64(free), target)
			case movable > 0:
				lvl = len(heatStyles) - 1
			}
			b.WriteString(heatStyles[lvl].Render(heatGlyphs[lvl]))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func heatLegend(target float64) string {
	labels := []string{
		"empty",
		fmt.Sprintf("≤%.2f", target/2),
		fmt.Sprintf("≤%.2f", target*0.9),
		fmt.Sprintf("≤%.2f", target),
		"over",
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = heatStyles[i].Render(heatGlyphs[i]) + " " + StyleDim.Render(l)
	}
	return "  " + strings.Join(parts, "  ")
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}
