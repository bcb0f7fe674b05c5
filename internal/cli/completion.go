package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seqdia/pkg/engine"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for seqdia.

Bash:
  $ source <(seqdia completion bash)

Zsh:
  $ seqdia completion zsh > "${fpath[1]}/_seqdia"

Fish:
  $ seqdia completion fish > ~/.config/fish/completions/seqdia.fish

PowerShell:
  PS> seqdia completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf("unknown shell %q", args[0])
		},
	}
}

// completeRenderFlags offers the known views, and the formats of the view
// already chosen on the command line.
func completeRenderFlags(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("view", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{engine.ViewSketch, ViewNodeLink}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		view, _ := cmd.Flags().GetString("view")
		formats, ok := validFormats[view]
		if !ok {
			formats = []string{formatSVG, formatDOT, formatPNG}
		}
		return slices.Clone(formats), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.MarkFlagFilename("output")
}
