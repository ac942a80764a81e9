package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/crytic/fuzz-cli/auth"
	"github.com/crytic/fuzz-cli/campaign"
	"github.com/crytic/fuzz-cli/cmd/exitcodes"
	"github.com/crytic/fuzz-cli/config"
	"github.com/crytic/fuzz-cli/faas"
	"github.com/crytic/fuzz-cli/ide"
	"github.com/crytic/fuzz-cli/logging/colors"
	"github.com/crytic/fuzz-cli/rpc"
	"github.com/crytic/fuzz-cli/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// httpClient is used for requests to the authorization server and the fuzzing service. Nil selects the defaults of
// each client.
var httpClient *http.Client

// dialSeedStateProvider connects to the node the seed state is fetched from. Tests replace it.
var dialSeedStateProvider = func(ctx context.Context, url string) (campaign.SeedStateProvider, func(), error) {
	client, err := rpc.Dial(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

// runCmd represents the command provider for campaign submission
var runCmd = &cobra.Command{
	Use:   "run [targets...]",
	Short: "Submits a fuzzing campaign",
	Long: `Submits a fuzzing campaign for the contracts of the project.

Targets (source files or directories) given as arguments replace the targets of
the config file. Credentials are read from --api-key or --refresh-token, the
FUZZ_API_KEY or FUZZ_REFRESH_TOKEN environment variables, or the config file.`,
	ValidArgsFunction: cmdValidRunArgs,
	RunE:              cmdRunCampaign,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Add all the flags allowed for the run command
	err := addRunFlags()
	if err != nil {
		cmdLogger.Panic("Failed to initialize the run command", err)
	}

	// Add the run command and its associated flags to the root command
	rootCmd.AddCommand(runCmd)
}

// cmdValidRunArgs completes unused flags, and files for the positional targets
func cmdValidRunArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var unusedFlags []string
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			unusedFlags = append(unusedFlags, "--"+flag.Name)
		}
	})
	return unusedFlags, cobra.ShellCompDirectiveDefault
}

// loadFuzzConfig reads the project config. A missing default config file falls back to the default configuration,
// while a missing file given through --config is an error.
func loadFuzzConfig(cmd *cobra.Command) (*config.FuzzConfig, string, error) {
	configPath, configFlagUsed, err := resolveConfigPath(cmd)
	if err != nil {
		return nil, "", err
	}

	projectConfig := config.DefaultProjectConfig()
	if utils.IsFile(configPath) {
		cmdLogger.Info("Reading the configuration file at: ", colors.Bold, configPath, colors.Reset)
		projectConfig, err = config.ReadProjectConfigFromFile(configPath)
		if err != nil {
			return nil, "", exitcodes.NewUsageError(err)
		}
	} else if configFlagUsed {
		return nil, "", exitcodes.NewUsageError(errors.Errorf("could not find the config file at %s", configPath))
	} else {
		cmdLogger.Warn("Unable to find the config file at ", configPath, ", run `fuzz generate-config` to create one. "+
			"Using the default configuration")
	}
	return &projectConfig.Fuzz, filepath.Dir(configPath), nil
}

// resolveIDE returns the configured IDE or the one detected in projectDir.
func resolveIDE(name string, projectDir string) (ide.IDE, error) {
	if name != "" {
		projectIDE, err := ide.GetIDE(name)
		if err != nil {
			return nil, exitcodes.NewUsageError(err)
		}
		return projectIDE, nil
	}
	projectIDE := ide.DetectIDE(projectDir)
	if projectIDE == nil {
		return nil, exitcodes.NewUsageError(errors.Errorf("could not detect the IDE of the project in %s, set it with --ide "+
			"or `ide` in the config file", projectDir))
	}
	cmdLogger.Debug("Detected ", colors.Bold, ide.DisplayName(projectIDE.Name()), colors.Reset, " project")
	return projectIDE, nil
}

// credentialError attaches exit codes to errors returned while resolving the API key.
func credentialError(err error) error {
	var authErr *auth.AuthorizationError
	switch {
	case errors.Is(err, auth.ErrNoCredentials), errors.Is(err, auth.ErrMalformedRefreshToken):
		return exitcodes.NewUsageError(err)
	case errors.As(err, &authErr):
		if hint := authErr.Hint(); hint != "" {
			cmdLogger.Warn(hint)
		}
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeGeneralError)
	default:
		return err
	}
}

// cmdRunCampaign executes the CLI run command:
// #1: Read the config file and apply flags, environment variables and positional targets on top of it.
// #2: Obtain an API key, exchanging the refresh token if needed.
// #3: Compile the payload from the build artifacts and the seed chain.
// #4: Submit the campaign (or print it with --dry-run) and optionally wait for it to finish.
func cmdRunCampaign(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fuzzConfig, projectDir, err := loadFuzzConfig(cmd)
	if err != nil {
		return err
	}
	if err = updateFuzzConfigWithRunFlags(cmd, fuzzConfig); err != nil {
		return err
	}
	if len(args) > 0 {
		workingDirectory, err := os.Getwd()
		if err != nil {
			return errors.WithStack(err)
		}
		fuzzConfig.Targets = make([]string, 0, len(args))
		for _, target := range args {
			fuzzConfig.Targets = append(fuzzConfig.Targets, utils.MakeAbsolute(target, workingDirectory))
		}
	}
	if err = fuzzConfig.Validate(); err != nil {
		return exitcodes.NewUsageError(err)
	}

	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}

	var apiKey string
	if !dryRun {
		apiKey, err = auth.NewExchanger(httpClient).ResolveAPIKey(ctx, fuzzConfig.APIKey, fuzzConfig.RefreshToken)
		if err != nil {
			return credentialError(err)
		}
	}

	projectIDE, err := resolveIDE(fuzzConfig.IDE, projectDir)
	if err != nil {
		return err
	}

	seeds, closeSeeds, err := dialSeedStateProvider(ctx, fuzzConfig.RPCURL)
	if err != nil {
		return err
	}
	defer closeSeeds()

	request, err := campaign.NewJob(fuzzConfig, projectIDE, projectDir).Build(ctx, seeds)
	if err != nil {
		return err
	}

	if dryRun {
		payload, err := json.MarshalIndent(request, "", "  ")
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(payload))
		return errors.WithStack(err)
	}

	faasClient := faas.NewClient(fuzzConfig.FaasURL, apiKey, httpClient)
	campaignID, err := faasClient.CreateCampaign(ctx, request)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "You can view campaign here: "+faasClient.CampaignURL(campaignID))

	wait, err := cmd.Flags().GetBool("wait")
	if err != nil || !wait {
		return err
	}
	pollInterval, err := cmd.Flags().GetDuration("poll-interval")
	if err != nil {
		return err
	}
	if pollInterval <= 0 {
		return exitcodes.NewUsageError(errors.Errorf("poll interval must be positive, got %s", pollInterval))
	}

	finished, err := faasClient.WaitForCampaign(ctx, campaignID, pollInterval)
	if err != nil {
		return err
	}
	if finished.Status != faas.CampaignStatusCompleted || finished.NumIssues > 0 {
		cmdLogger.Error("Campaign ", colors.Bold, campaignID, colors.Reset, " finished with status ", finished.Status,
			" and ", finished.NumIssues, " issues")
		return exitcodes.NewErrorWithExitCode(errors.Errorf("campaign %s did not pass", campaignID), exitcodes.ExitCodeCampaignFailed)
	}
	cmdLogger.Info(colors.GreenBold, "Campaign ", campaignID, " completed without issues")
	return nil
}
