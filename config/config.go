package config

import (
	"bytes"
	"net/url"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// MinCPUCores is the smallest number of cores a campaign may request.
	MinCPUCores = 1
	// MaxCPUCores is the largest number of cores a campaign may request.
	MaxCPUCores = 4
)

// ProjectConfig is the document stored in a project's .fuzz.yml.
type ProjectConfig struct {
	// Fuzz describes the configuration of fuzzing campaigns for the project.
	Fuzz FuzzConfig `yaml:"fuzz"`
}

// FuzzConfig describes the options used to configure and submit a fuzzing campaign.
type FuzzConfig struct {
	// IDE is the name of the build tool used by the project. An empty value means it is detected on every run.
	IDE string `yaml:"ide,omitempty"`

	// BuildDirectory is where the compiled contracts and compilation artifacts are found.
	BuildDirectory string `yaml:"build_directory"`

	// SourcesDirectory is the directory contract sources are discovered in.
	SourcesDirectory string `yaml:"sources_directory,omitempty"`

	// DeployedContractAddress is the address of the main contract under test on the seed chain.
	DeployedContractAddress string `yaml:"deployed_contract_address,omitempty"`

	// AdditionalContractsAddresses lists further deployed contracts that should be fuzzed alongside the main one.
	AdditionalContractsAddresses []string `yaml:"additional_contracts_addresses,omitempty"`

	// NumberOfCores is the number of CPU cores the remote campaign will use.
	NumberOfCores int `yaml:"number_of_cores"`

	// CampaignNamePrefix is prepended to the generated campaign name.
	CampaignNamePrefix string `yaml:"campaign_name_prefix"`

	// RPCURL is the node the seed state is fetched from.
	RPCURL string `yaml:"rpc_url"`

	// FaasURL is the base URL of the fuzzing-as-a-service API.
	FaasURL string `yaml:"faas_url,omitempty"`

	// APIKey authenticates against the FaaS API directly.
	APIKey string `yaml:"api_key,omitempty"`

	// RefreshToken is a refresh token triple exchanged for an API key on every run.
	RefreshToken string `yaml:"refresh_token,omitempty"`

	// Project names the FaaS project the campaign is filed under.
	Project string `yaml:"project,omitempty"`

	// TimeLimit bounds the campaign duration, e.g. "15min" or "2h". Empty means the service default.
	TimeLimit string `yaml:"time_limit,omitempty"`

	// CorpusTarget reuses the corpus of an earlier campaign instead of building one from chain history.
	CorpusTarget string `yaml:"corpus_target,omitempty"`

	// MapToOriginalSource asks the service to map issues back to the original (un-instrumented) sources.
	MapToOriginalSource bool `yaml:"map_to_original_source,omitempty"`

	// QuickCheck requests a short smoke-test campaign.
	QuickCheck bool `yaml:"quick_check,omitempty"`

	// Targets is the list of source files (or directories) whose contracts are fuzzed.
	Targets []string `yaml:"targets"`
}

// ReadProjectConfigFromFile reads a YAML-serialized ProjectConfig from a provided file path. Missing values are
// populated from DefaultProjectConfig.
func ReadProjectConfigFromFile(path string) (*ProjectConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	projectConfig := DefaultProjectConfig()
	if err = yaml.Unmarshal(b, projectConfig); err != nil {
		return nil, errors.Wrapf(err, "could not parse config file %s", path)
	}
	return projectConfig, nil
}

// WriteToFile writes the ProjectConfig to the provided path as a commented YAML document.
func (p *ProjectConfig) WriteToFile(path string) error {
	b, err := p.Marshal()
	if err != nil {
		return err
	}
	return errors.WithStack(os.WriteFile(path, b, 0644))
}

// Marshal renders the ProjectConfig as a YAML document with a comment above every key of the fuzz section.
func (p *ProjectConfig) Marshal() ([]byte, error) {
	var document yaml.Node
	if err := document.Encode(p); err != nil {
		return nil, errors.WithStack(err)
	}

	if fuzzSection := findMappingValue(&document, "fuzz"); fuzzSection != nil {
		for i := 0; i+1 < len(fuzzSection.Content); i += 2 {
			if comment, ok := keyComments[fuzzSection.Content[i].Value]; ok {
				fuzzSection.Content[i].HeadComment = comment
			}
		}
	}
	return encodeNode(&document)
}

// Validate checks that the FuzzConfig holds values the service can accept.
func (c *FuzzConfig) Validate() error {
	if c.NumberOfCores < MinCPUCores || c.NumberOfCores > MaxCPUCores {
		return errors.Errorf("number_of_cores should be >= %d and <= %d", MinCPUCores, MaxCPUCores)
	}

	if err := validateURL("rpc_url", c.RPCURL); err != nil {
		return err
	}
	if err := validateURL("faas_url", c.FaasURL); err != nil {
		return err
	}

	if c.DeployedContractAddress != "" && !common.IsHexAddress(c.DeployedContractAddress) {
		return errors.Errorf("malformed deployed_contract_address %q", c.DeployedContractAddress)
	}
	for _, address := range c.AdditionalContractsAddresses {
		if !common.IsHexAddress(address) {
			return errors.Errorf("malformed address %q in additional_contracts_addresses", address)
		}
	}

	if c.TimeLimit != "" {
		if _, err := ParseTimeLimit(c.TimeLimit); err != nil {
			return err
		}
	}
	return nil
}

// validateURL ensures value is an absolute URL with a scheme and a host.
func validateURL(key string, value string) error {
	parsed, err := url.Parse(value)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return errors.Errorf("%s %q is not a valid URL", key, value)
	}
	return nil
}

// encodeNode serializes a node tree with the two-space indentation used for generated files.
func encodeNode(node *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(node); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := encoder.Close(); err != nil {
		return nil, errors.WithStack(err)
	}
	return buf.Bytes(), nil
}

// findMappingValue returns the value node stored under key in the top-level mapping of a document node, or nil.
func findMappingValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
