package cmd

import (
	"path/filepath"

	"github.com/crytic/fuzz-cli/cmd/exitcodes"
	"github.com/crytic/fuzz-cli/prompt"
	"github.com/crytic/fuzz-cli/wizard"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// newPrompter creates the prompter used by interactive commands. Tests replace it with a scripted one.
var newPrompter = func(cmd *cobra.Command) prompt.Prompter {
	return prompt.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
}

// generateConfigCmd represents the command provider for the configuration wizard
var generateConfigCmd = &cobra.Command{
	Use:   "generate-config",
	Short: "Generates a project config file interactively",
	Long: `Generates a project config file (.fuzz.yml) by asking a few questions about the project.

The build tool, the contracts to fuzz and the build directory are detected and
confirmed. With --sync, only the targets of an existing config file are refreshed.`,
	Args:          cobra.NoArgs,
	RunE:          cmdRunGenerateConfig,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Add all the flags allowed for the generate-config command
	err := addGenerateConfigFlags()
	if err != nil {
		cmdLogger.Panic("Failed to initialize the generate-config command", err)
	}

	// Add the generate-config command and its associated flags to the root command
	rootCmd.AddCommand(generateConfigCmd)
}

// cmdRunGenerateConfig runs the wizard, or only the target sync when --sync is set.
func cmdRunGenerateConfig(cmd *cobra.Command, args []string) error {
	configPath, _, err := resolveConfigPath(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the generate-config command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	sync, err := cmd.Flags().GetBool("sync")
	if err != nil {
		return err
	}

	configWizard := wizard.NewWizard(newPrompter(cmd), filepath.Dir(configPath))
	configWizard.SetConfigPath(configPath)

	if sync {
		_, err = configWizard.SyncConfig()
	} else {
		_, err = configWizard.RecreateConfig()
	}
	return wizardError(err)
}

// wizardError attaches exit codes to wizard errors.
func wizardError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, wizard.ErrNoIDESelected), errors.Is(err, wizard.ErrConfigNotFound):
		return exitcodes.NewUsageError(err)
	case errors.Is(err, prompt.ErrAborted):
		return exitcodes.NewErrorWithExitCode(errors.New("Aborted!"), exitcodes.ExitCodeGeneralError)
	default:
		return err
	}
}
