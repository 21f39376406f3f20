package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// completeCmd wraps cobra's built-in completion generators (spec.md §6
// "complete: subcommand for shell completion").
var completeCmd = &cobra.Command{
	Use:       "complete [bash|zsh|fish|powershell]",
	Short:     "Generate shell completion scripts",
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return usageErrorf("unknown shell %q", args[0])
		}
	},
}
