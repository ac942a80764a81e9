package rpc

import (
	"context"
	"encoding/json"
)

const (
	// DefaultDiscoveryProbabilityThreshold is sent with every seed state.
	DefaultDiscoveryProbabilityThreshold = 0.0

	// DefaultAssertionCheckingMode enables checking of Solidity assertions.
	DefaultAssertionCheckingMode = 1
)

// SeedState is the initial state a campaign is bootstrapped with.
type SeedState struct {
	DiscoveryProbabilityThreshold float64       `json:"discovery-probability-threshold"`
	AssertionCheckingMode         int           `json:"assertion-checking-mode"`
	NumCores                      int           `json:"num-cores"`
	AnalysisSetup                 AnalysisSetup `json:"analysis-setup"`
}

// AnalysisSetup describes what the campaign fuzzes. It is either replayed chain history (Steps) or the corpus of an
// earlier campaign (Target).
type AnalysisSetup struct {
	// Target is the campaign whose corpus is reused.
	Target string

	// AddressUnderTest is the main deployed contract.
	AddressUnderTest string

	// Steps are the transactions of the seed chain, in order.
	Steps []map[string]any

	// OtherAddressesUnderTest are further deployed contracts to fuzz.
	OtherAddressesUnderTest []string
}

// MarshalJSON renders the corpus form when Target is set and the steps form otherwise.
func (s AnalysisSetup) MarshalJSON() ([]byte, error) {
	if s.Target != "" {
		return json.Marshal(struct {
			Target                  string   `json:"target"`
			AddressUnderTest        string   `json:"address-under-test"`
			OtherAddressesUnderTest []string `json:"other-addresses-under-test"`
		}{s.Target, s.AddressUnderTest, s.OtherAddressesUnderTest})
	}

	steps := s.Steps
	if steps == nil {
		steps = []map[string]any{}
	}
	return json.Marshal(struct {
		AddressUnderTest        string           `json:"address-under-test"`
		Steps                   []map[string]any `json:"steps"`
		OtherAddressesUnderTest []string         `json:"other-addresses-under-test"`
	}{s.AddressUnderTest, steps, s.OtherAddressesUnderTest})
}

// GetSeedState builds the seed state for a campaign fuzzing address (and otherAddresses) with numCores cores. With a
// corpus target the state references the earlier campaign and no blocks are fetched. Otherwise every transaction of
// the chain becomes a step, with null fields replaced by empty strings.
func (c *Client) GetSeedState(ctx context.Context, address string, otherAddresses []string, corpusTarget string, numCores int) (*SeedState, error) {
	seedState := &SeedState{
		DiscoveryProbabilityThreshold: DefaultDiscoveryProbabilityThreshold,
		AssertionCheckingMode:         DefaultAssertionCheckingMode,
		NumCores:                      numCores,
		AnalysisSetup: AnalysisSetup{
			Target:                  corpusTarget,
			AddressUnderTest:        address,
			OtherAddressesUnderTest: otherAddresses,
		},
	}
	if corpusTarget != "" {
		return seedState, nil
	}

	blocks, err := c.GetAllBlocks(ctx)
	if err != nil {
		return nil, err
	}
	steps := make([]map[string]any, 0)
	for _, block := range blocks {
		for _, transaction := range block.Transactions {
			for key, value := range transaction {
				if value == nil {
					transaction[key] = ""
				}
			}
			steps = append(steps, transaction)
		}
	}
	seedState.AnalysisSetup.Steps = steps
	c.logger.Debug("Seed state holds ", len(steps), " transactions")
	return seedState, nil
}
