package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultConfigFilename is the name of the project config file looked up in the working directory.
	DefaultConfigFilename = ".fuzz.yml"

	// DefaultRPCURL is the node a local development chain (e.g. Ganache or Hardhat node) listens on.
	DefaultRPCURL = "http://localhost:8545"

	// DefaultFaasURL is the production fuzzing-as-a-service endpoint.
	DefaultFaasURL = "https://fuzzing.diligence.tools"

	// DefaultNumberOfCores is the core count proposed by the wizard.
	DefaultNumberOfCores = 1
)

// DefaultProjectConfig obtains a configuration with every optional value set to its default.
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Fuzz: FuzzConfig{
			NumberOfCores:                DefaultNumberOfCores,
			CampaignNamePrefix:           DefaultCampaignNamePrefix(),
			RPCURL:                       DefaultRPCURL,
			FaasURL:                      DefaultFaasURL,
			AdditionalContractsAddresses: []string{},
			Targets:                      []string{},
		},
	}
}

// DefaultCampaignNamePrefix derives a campaign name prefix from the working directory name: lower-cased, with
// dashes replaced by underscores.
func DefaultCampaignNamePrefix() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "untitled"
	}
	return CampaignNamePrefixFromDirectory(cwd)
}

// CampaignNamePrefixFromDirectory derives a campaign name prefix from the base name of a directory.
func CampaignNamePrefixFromDirectory(directory string) string {
	return strings.ReplaceAll(strings.ToLower(filepath.Base(directory)), "-", "_")
}

// keyComments is the documentation written above each key of a generated config file.
var keyComments = map[string]string{
	"ide":                            "IDE used to build the project, detected automatically when omitted",
	"build_directory":                "Tell the CLI where to find the compiled contracts and compilation artifacts",
	"sources_directory":              "Directory holding the contract sources",
	"deployed_contract_address":      "The following address is going to be the main target for the fuzzing campaign",
	"additional_contracts_addresses": "Further deployed contracts fuzzed alongside the main target",
	"number_of_cores":                "Number of cores to use (1-4)",
	"campaign_name_prefix":           "Campaign name prefix",
	"rpc_url":                        "Point to your node which holds the seed state",
	"faas_url":                       "Fuzzing-as-a-service API",
	"api_key":                        "API key, can also be provided through the FUZZ_API_KEY environment variable",
	"refresh_token":                  "Refresh token in the <auth_endpoint>::<client_id>::<refresh_token> format",
	"project":                        "Project the campaigns are filed under",
	"time_limit":                     "Campaign time limit, e.g. 15min or 2h",
	"corpus_target":                  "Reuse the corpus of an earlier campaign",
	"map_to_original_source":         "Map issues back to the original (non-instrumented) sources",
	"quick_check":                    "Run a short smoke-test campaign",
	"targets": "This is the list of contracts the campaign will show coverage for and map issues to.\n" +
		"Don't worry about dependencies, they are picked up automatically",
}
