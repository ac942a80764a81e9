package cmd

import "github.com/crytic/fuzz-cli/config"

// addRootFlags adds the flags shared by every command
func addRootFlags() error {
	flags := rootCmd.PersistentFlags()

	// Prevent alphabetical sorting of usage message
	flags.SortFlags = false

	// Config file
	flags.String("config", "", "path to the project config file (default is "+config.DefaultConfigFilename+" in the working directory)")

	// Log level
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")

	// Color
	flags.Bool("no-color", false, "disable colored terminal output")

	// Structured log file
	flags.String("log-file", "", "also write JSON logs to the given file")
	return nil
}
