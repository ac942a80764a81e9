package cmd

import (
	"fmt"

	"github.com/crytic/fuzz-cli/config"
	"github.com/spf13/cobra"
)

// addRunFlags adds the various flags for the run command
func addRunFlags() error {
	defaultConfig := config.DefaultProjectConfig()

	// Prevent alphabetical sorting of usage message
	runCmd.Flags().SortFlags = false

	// Credentials
	runCmd.Flags().String("api-key", "", "API key of the fuzzing service (env FUZZ_API_KEY)")
	runCmd.Flags().String("refresh-token", "",
		"refresh token in the <auth_endpoint>::<client_id>::<refresh_token> format, exchanged for an API key (env FUZZ_REFRESH_TOKEN)")

	// Project
	runCmd.Flags().String("ide", "", "build tool of the project (unless a config file provides it, it is detected)")
	runCmd.Flags().StringP("address", "a", "", "address of the main deployed contract to fuzz")
	runCmd.Flags().StringSliceP("more-addresses", "m", []string{}, "addresses of further deployed contracts to fuzz (comma separated)")
	runCmd.Flags().String("corpus-target", "", "reuse the corpus of an earlier campaign instead of the chain history")

	// Endpoints
	runCmd.Flags().String("rpc-url", "",
		fmt.Sprintf("node the seed state is fetched from (unless a config file is provided, default is %q, env FUZZ_RPC_URL)", defaultConfig.Fuzz.RPCURL))
	runCmd.Flags().String("faas-url", "",
		fmt.Sprintf("fuzzing service (unless a config file is provided, default is %q, env FUZZ_FAAS_URL)", defaultConfig.Fuzz.FaasURL))

	// Campaign
	runCmd.Flags().String("project", "", "project the campaign is filed under")
	runCmd.Flags().String("time-limit", "", "campaign time limit, e.g. 15min or 2h")
	runCmd.Flags().Bool("map-to-original-source", false, "map issues back to the original sources")
	runCmd.Flags().Bool("quick-check", false, "run a short smoke-test campaign")

	// Submission
	runCmd.Flags().Bool("dry-run", false, "print the campaign payload instead of submitting it")
	runCmd.Flags().Bool("wait", false, "wait for the campaign to finish and exit with a non-zero code if it found issues")
	runCmd.Flags().Duration("poll-interval", DefaultPollInterval, "interval between two status checks with --wait")
	return nil
}

// updateFuzzConfigWithRunFlags will update the given fuzzConfig with any CLI arguments that were provided to the run
// command. Values set through the environment are applied unless the flag was used.
func updateFuzzConfigWithRunFlags(cmd *cobra.Command, fuzzConfig *config.FuzzConfig) error {
	settings, err := newSettings(cmd)
	if err != nil {
		return err
	}

	// Update the credentials and endpoints, which may also come from the environment
	stringSettings := map[string]*string{
		"api-key":       &fuzzConfig.APIKey,
		"refresh-token": &fuzzConfig.RefreshToken,
		"rpc-url":       &fuzzConfig.RPCURL,
		"faas-url":      &fuzzConfig.FaasURL,
	}
	for key, target := range stringSettings {
		if settings.IsSet(key) {
			*target = settings.GetString(key)
		}
	}

	// Update the IDE
	if cmd.Flags().Changed("ide") {
		fuzzConfig.IDE, err = cmd.Flags().GetString("ide")
		if err != nil {
			return err
		}
	}

	// Update the deployed contract address
	if cmd.Flags().Changed("address") {
		fuzzConfig.DeployedContractAddress, err = cmd.Flags().GetString("address")
		if err != nil {
			return err
		}
	}

	// Update the additional addresses
	if cmd.Flags().Changed("more-addresses") {
		fuzzConfig.AdditionalContractsAddresses, err = cmd.Flags().GetStringSlice("more-addresses")
		if err != nil {
			return err
		}
	}

	// Update the corpus target
	if cmd.Flags().Changed("corpus-target") {
		fuzzConfig.CorpusTarget, err = cmd.Flags().GetString("corpus-target")
		if err != nil {
			return err
		}
	}

	// Update the project
	if cmd.Flags().Changed("project") {
		fuzzConfig.Project, err = cmd.Flags().GetString("project")
		if err != nil {
			return err
		}
	}

	// Update the time limit
	if cmd.Flags().Changed("time-limit") {
		fuzzConfig.TimeLimit, err = cmd.Flags().GetString("time-limit")
		if err != nil {
			return err
		}
	}

	// Update source mapping
	if cmd.Flags().Changed("map-to-original-source") {
		fuzzConfig.MapToOriginalSource, err = cmd.Flags().GetBool("map-to-original-source")
		if err != nil {
			return err
		}
	}

	// Update quick check
	if cmd.Flags().Changed("quick-check") {
		fuzzConfig.QuickCheck, err = cmd.Flags().GetBool("quick-check")
		if err != nil {
			return err
		}
	}
	return nil
}
