package cmd

import (
	"fmt"

	"github.com/crytic/fuzz-cli/cmd/exitcodes"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// supportedShells lists the shells completion code can be generated for
var supportedShells = []string{"bash", "zsh", "fish"}

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Generate shell completion code for the specified shell (bash, zsh or fish)",
	Long: `To load completions:

Bash:

  $ source <(%[1]s completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ %[1]s completion bash > /etc/bash_completion.d/%[1]s
  # macOS:
  $ %[1]s completion bash > $(brew --prefix)/etc/bash_completion.d/%[1]s

Zsh:

  $ %[1]s completion zsh > "${fpath[1]}/_%[1]s"

Fish:

  $ %[1]s completion fish > ~/.config/fish/completions/%[1]s.fish`,
	Args:          cobra.ExactArgs(1),
	ValidArgs:     supportedShells,
	RunE:          cmdRunCompletion,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	completionCmd.Long = fmt.Sprintf(completionCmd.Long, rootCmd.Use)
	rootCmd.AddCommand(completionCmd)
}

// cmdRunCompletion writes the completion script of the requested shell to stdout.
func cmdRunCompletion(cmd *cobra.Command, args []string) error {
	var err error
	switch args[0] {
	case "bash":
		err = cmd.Root().GenBashCompletionV2(cmd.OutOrStdout(), true)
	case "zsh":
		err = cmd.Root().GenZshCompletion(cmd.OutOrStdout())
	case "fish":
		err = cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
	default:
		return exitcodes.NewUsageError(errors.Errorf("unsupported shell '%s' (options: %v)", args[0], supportedShells))
	}
	if err != nil {
		return errors.Wrapf(err, "unable to generate the %s completion", args[0])
	}
	return nil
}
