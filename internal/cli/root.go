package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/shelfconv/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
// The CLI logger is attached to each command's context before it runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Convert Bookshelf placement benchmarks to LEF/DEF",
		Long: `shelfconv reads a Bookshelf benchmark (.aux, .scl, .nodes, .pl, .nets)
and writes an equivalent LEF library and DEF design.

Objects with the same size, fixedness and pin set share one LEF macro; every
object becomes a DEF component. Row geometry is carried over as DEF rows, and
the placement can be checked against a density target.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.convertCommand())
	root.AddCommand(c.densityCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
