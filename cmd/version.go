package cmd

import (
	"fmt"

	"github.com/crytic/fuzz-cli/version"
	"github.com/spf13/cobra"
)

// versionCmd represents the version command that displays build information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and build information",
	Long: `Print detailed version and build information for fuzz.

This includes the semantic version, git commit hash, build timestamp,
and Go version used to compile the binary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprint(cmd.OutOrStdout(), version.GetInfo().String())
		return err
	},
}

func init() {
	rootCmd.Version = version.GetInfo().Short()
	rootCmd.SetVersionTemplate("fuzz version {{.Version}}\n")
	rootCmd.AddCommand(versionCmd)
}
