package cmd

// addGenerateConfigFlags adds the various flags for the generate-config command
func addGenerateConfigFlags() error {
	// Sync mode
	generateConfigCmd.Flags().Bool("sync", false, "only re-detect the targets and update them in the existing config file")
	return nil
}
