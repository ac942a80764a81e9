package campaign

import (
	"context"
	"strings"

	"github.com/crytic/fuzz-cli/config"
	"github.com/crytic/fuzz-cli/faas"
	"github.com/crytic/fuzz-cli/ide"
	"github.com/crytic/fuzz-cli/logging"
	"github.com/crytic/fuzz-cli/logging/colors"
	"github.com/crytic/fuzz-cli/rpc"
	"github.com/crytic/fuzz-cli/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// SeedStateProvider is the part of the node client a Job needs. *rpc.Client implements it.
type SeedStateProvider interface {
	ContractExists(ctx context.Context, address string) (bool, error)
	GetSeedState(ctx context.Context, address string, otherAddresses []string, corpusTarget string, numCores int) (*rpc.SeedState, error)
}

// NewCampaignName returns "<prefix>_<8 random hex digits>".
func NewCampaignName(prefix string) string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + "_" + id[:8]
}

// Job assembles a campaign request from a project config, the build artifacts of its IDE and the seed chain.
type Job struct {
	// fuzzConfig describes the campaign.
	fuzzConfig *config.FuzzConfig

	// ide reads the build artifacts.
	ide ide.IDE

	// projectDir resolves relative paths of the config.
	projectDir string

	// logger describes the Job's log object that can be used to log important events
	logger *logging.Logger
}

// NewJob creates a Job for the project at projectDir.
func NewJob(fuzzConfig *config.FuzzConfig, projectIDE ide.IDE, projectDir string) *Job {
	return &Job{
		fuzzConfig: fuzzConfig,
		ide:        projectIDE,
		projectDir: projectDir,
		logger:     logging.GlobalLogger.NewSubLogger("module", logging.CAMPAIGN_SERVICE),
	}
}

// BuildDirectory returns the absolute build directory: the configured one or the IDE default.
func (j *Job) BuildDirectory() string {
	if j.fuzzConfig.BuildDirectory != "" {
		return utils.MakeAbsolute(j.fuzzConfig.BuildDirectory, j.projectDir)
	}
	return utils.MakeAbsolute(j.ide.DefaultBuildDir(), j.projectDir)
}

// Compile loads the build artifacts and keeps the contracts declared in the configured targets. At least one
// contract must remain.
func (j *Job) Compile() (*ide.Compilation, error) {
	compilation, err := j.ide.LoadCompilation(j.projectDir, j.BuildDirectory())
	if err != nil {
		return nil, err
	}
	if len(j.fuzzConfig.Targets) > 0 {
		compilation = compilation.FilterByTargets(j.fuzzConfig.Targets)
	}
	if len(compilation.Contracts) == 0 {
		return nil, errors.Errorf("no compiled contracts were found for the targets %s in %s",
			strings.Join(j.fuzzConfig.Targets, ", "), j.BuildDirectory())
	}
	if compilation.CompilerVersion != nil {
		j.logger.Debug("Contracts were compiled with solc ", compilation.CompilerVersion.String())
	}
	return compilation, nil
}

// checkDeployed ensures code is deployed at every configured address.
func (j *Job) checkDeployed(ctx context.Context, seeds SeedStateProvider) error {
	addresses := j.fuzzConfig.AdditionalContractsAddresses
	if j.fuzzConfig.DeployedContractAddress != "" {
		addresses = append([]string{j.fuzzConfig.DeployedContractAddress}, addresses...)
	}
	for _, address := range addresses {
		exists, err := seeds.ContractExists(ctx, address)
		if err != nil {
			return err
		}
		if !exists {
			return errors.Errorf("Unable to find a contract deployed at %s. Check that the contracts are deployed "+
				"to the node at %s", address, j.fuzzConfig.RPCURL)
		}
	}
	return nil
}

// Parameters returns the campaign parameters derived from the config and the seed state.
func Parameters(fuzzConfig *config.FuzzConfig, seedState *rpc.SeedState) (faas.CampaignParameters, error) {
	parameters := faas.CampaignParameters{
		DiscoveryProbabilityThreshold: seedState.DiscoveryProbabilityThreshold,
		NumCores:                      seedState.NumCores,
		AssertionCheckingMode:         seedState.AssertionCheckingMode,
		EmitMythXReport:               true,
	}
	if fuzzConfig.TimeLimit != "" {
		timeLimit, err := config.ParseTimeLimit(fuzzConfig.TimeLimit)
		if err != nil {
			return parameters, err
		}
		seconds := int64(timeLimit.Seconds())
		parameters.TimeLimitSecs = &seconds
	}
	return parameters, nil
}

// Build validates the config, compiles the targets, fetches the seed state and returns the campaign request.
func (j *Job) Build(ctx context.Context, seeds SeedStateProvider) (*faas.CampaignRequest, error) {
	if err := j.fuzzConfig.Validate(); err != nil {
		return nil, err
	}

	compilation, err := j.Compile()
	if err != nil {
		return nil, err
	}

	if err = j.checkDeployed(ctx, seeds); err != nil {
		return nil, err
	}
	seedState, err := seeds.GetSeedState(ctx, j.fuzzConfig.DeployedContractAddress, j.fuzzConfig.AdditionalContractsAddresses,
		j.fuzzConfig.CorpusTarget, j.fuzzConfig.NumberOfCores)
	if err != nil {
		return nil, err
	}

	parameters, err := Parameters(j.fuzzConfig, seedState)
	if err != nil {
		return nil, err
	}

	request := &faas.CampaignRequest{
		Name:                NewCampaignName(j.fuzzConfig.CampaignNamePrefix),
		Parameters:          parameters,
		Corpus:              seedState.AnalysisSetup,
		Sources:             compilation.Sources,
		Contracts:           compilation.Contracts,
		Project:             j.fuzzConfig.Project,
		QuickCheck:          j.fuzzConfig.QuickCheck,
		MapToOriginalSource: j.fuzzConfig.MapToOriginalSource,
		TimeLimit:           j.fuzzConfig.TimeLimit,
	}
	j.logger.Info("Prepared campaign ", colors.Bold, request.Name, colors.Reset, " with ", len(request.Contracts),
		" contracts and ", len(request.Sources), " sources")
	return request, nil
}
