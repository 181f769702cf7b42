package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// completionCmd represents the completion command.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for bash or zsh.

To load completions:

Bash:

  $ source <(cadist completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ cadist completion bash > /etc/bash_completion.d/cadist
  # macOS:
  $ cadist completion bash > $(brew --prefix)/etc/bash_completion.d/cadist

Zsh:

  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ cadist completion zsh > "${fpath[1]}/_cadist"

  # You will need to start a new shell for this setup to take effect.`,
	ValidArgs: []string{"bash", "zsh"},
	Args:      cobra.ExactValidArgs(1),
	RunE:      runCompletion,
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

func runCompletion(cmd *cobra.Command, args []string) error {
	switch args[0] {
	case "bash":
		return cmd.Root().GenBashCompletion(os.Stdout)
	case "zsh":
		return cmd.Root().GenZshCompletion(os.Stdout)
	}
	return fmt.Errorf("unsupported shell: %s (supported: bash, zsh)", args[0])
}
