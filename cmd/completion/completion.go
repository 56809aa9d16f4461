// Package completion provides shell completion generation commands.
package completion

import (
	"fmt"

	"github.com/spf13/cobra"
)

var installHints = map[string]string{
	"bash":       "gy completion bash > /etc/bash_completion.d/gy",
	"zsh":        "gy completion zsh > ~/.zsh/completions/_gy",
	"fish":       "gy completion fish > ~/.config/fish/completions/gy.fish",
	"powershell": "gy completion powershell >> $PROFILE",
}

// NewCommand returns the completion command.
func NewCommand(rootCmd *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completions",
		Long: `Generate shell completion scripts for gy. Month and mode flags complete
to their allowed values.

Install instructions:
  Bash:       gy completion bash > /etc/bash_completion.d/gy
              echo 'source <(gy completion bash)' >> ~/.bashrc
  Zsh:        gy completion zsh > ~/.zsh/completions/_gy
  Fish:       gy completion fish > ~/.config/fish/completions/gy.fish
  PowerShell: gy completion powershell >> $PROFILE`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hint, ok := installHints[args[0]]
			if !ok {
				return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish, powershell)", args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# gy %s completion\n", args[0])
			fmt.Fprintf(out, "# Install: %s\n\n", hint)

			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(out)
			case "zsh":
				return rootCmd.GenZshCompletion(out)
			case "fish":
				return rootCmd.GenFishCompletion(out, true)
			default:
				return rootCmd.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
	return cmd
}
