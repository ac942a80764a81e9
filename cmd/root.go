package cmd

import (
	"os"
	"path/filepath"

	"github.com/crytic/fuzz-cli/cmd/exitcodes"
	"github.com/crytic/fuzz-cli/config"
	"github.com/crytic/fuzz-cli/logging"
	"github.com/crytic/fuzz-cli/logging/colors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// cmdLogger is the logger of the cmd package. It is recreated once the log level and color preferences are parsed.
var cmdLogger = logging.GlobalLogger.NewSubLogger("module", logging.CLI_SERVICE)

// logFile is the structured log file opened through --log-file, if any.
var logFile *os.File

var rootCmd = &cobra.Command{
	Use:   "fuzz",
	Short: "Configure and submit smart contract fuzzing campaigns",
	Long: `fuzz prepares smart contract fuzzing campaigns and submits them to a fuzzing-as-a-service backend.

It detects the build tool of the project, collects the compiled contracts and the state of a
development chain, and starts a campaign. Run "fuzz generate-config" in a project first.`,
	PersistentPreRunE:  cmdPersistentPreRun,
	PersistentPostRunE: cmdPersistentPostRun,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

func init() {
	// Add the global flags
	err := addRootFlags()
	if err != nil {
		cmdLogger.Panic("Failed to initialize the root command", err)
	}

	// Malformed command lines are usage errors
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return exitcodes.NewUsageError(err)
	})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// cmdPersistentPreRun applies the global flags to the logger before any subcommand runs.
func cmdPersistentPreRun(cmd *cobra.Command, args []string) error {
	levelName, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return err
	}
	level, err := zerolog.ParseLevel(levelName)
	if err != nil || level == zerolog.NoLevel {
		return exitcodes.NewUsageError(errors.Errorf("invalid log level %q", levelName))
	}

	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return err
	}
	if noColor {
		colors.DisableColor()
	}

	logging.GlobalLogger = logging.NewLogger(level, cmd.ErrOrStderr())

	logFilePath, err := cmd.Flags().GetString("log-file")
	if err != nil {
		return err
	}
	if logFilePath != "" {
		logFile, err = os.OpenFile(logFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return exitcodes.NewUsageError(errors.Wrapf(err, "could not open log file %s", logFilePath))
		}
		logging.GlobalLogger.AddWriter(logFile)
	}

	cmdLogger = logging.GlobalLogger.NewSubLogger("module", logging.CLI_SERVICE)
	return nil
}

// cmdPersistentPostRun closes the structured log file.
func cmdPersistentPostRun(cmd *cobra.Command, args []string) error {
	if logFile == nil {
		return nil
	}
	logging.GlobalLogger.RemoveWriter(logFile)
	err := logFile.Close()
	logFile = nil
	return errors.WithStack(err)
}

// resolveConfigPath returns the path given through --config, or the default config file in the working directory.
// The second return value reports whether --config was used.
func resolveConfigPath(cmd *cobra.Command) (string, bool, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return "", false, err
	}
	if configPath != "" {
		absPath, err := filepath.Abs(configPath)
		return absPath, true, errors.WithStack(err)
	}

	workingDirectory, err := os.Getwd()
	if err != nil {
		return "", false, errors.WithStack(err)
	}
	return filepath.Join(workingDirectory, config.DefaultConfigFilename), false, nil
}
