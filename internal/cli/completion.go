package cli

import (
	"github.com/spf13/cobra"
)

func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for shelfconv.

Besides subcommands and flags, completion suggests .aux files for the
benchmark argument. To load completions:

Bash:
  $ source <(shelfconv completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ shelfconv completion bash > /etc/bash_completion.d/shelfconv
  # macOS:
  $ shelfconv completion bash > $(brew --prefix)/etc/bash_completion.d/shelfconv

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ shelfconv completion zsh > "${fpath[1]}/_shelfconv"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ shelfconv completion fish | source

  # To load completions for each session, execute once:
  $ shelfconv completion fish > ~/.config/fish/completions/shelfconv.fish

PowerShell:
  PS> shelfconv completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> shelfconv completion powershell > shelfconv.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// completeAux suggests .aux manifests for the benchmark argument.
func completeAux(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"aux"}, cobra.ShellCompDirectiveFilterFileExt
}
