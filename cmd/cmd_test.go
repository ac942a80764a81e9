package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/crytic/fuzz-cli/campaign"
	"github.com/crytic/fuzz-cli/cmd/exitcodes"
	"github.com/crytic/fuzz-cli/config"
	"github.com/crytic/fuzz-cli/prompt"
	"github.com/crytic/fuzz-cli/rpc"
	"github.com/crytic/fuzz-cli/utils/testutils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokenAddress = "0x1672fB2eb51789aBd1a9f2FE83d69C6f4C883065"

// fakeSeeds is an in-memory SeedStateProvider where every contract is deployed.
type fakeSeeds struct{}

func (fakeSeeds) ContractExists(ctx context.Context, address string) (bool, error) {
	return true, nil
}

func (fakeSeeds) GetSeedState(ctx context.Context, address string, otherAddresses []string, corpusTarget string, numCores int) (*rpc.SeedState, error) {
	return &rpc.SeedState{
		AssertionCheckingMode: rpc.DefaultAssertionCheckingMode,
		NumCores:              numCores,
		AnalysisSetup:         rpc.AnalysisSetup{AddressUnderTest: address, OtherAddressesUnderTest: otherAddresses},
	}, nil
}

// resetFlags restores every flag of flags to its default value and clears its changed state.
func resetFlags(flags *pflag.FlagSet) {
	flags.VisitAll(func(flag *pflag.Flag) {
		if sliceValue, ok := flag.Value.(pflag.SliceValue); ok {
			_ = sliceValue.Replace([]string{})
		} else {
			_ = flag.Value.Set(flag.DefValue)
		}
		flag.Changed = false
	})
}

// executeCommand runs the root command with args and returns what it wrote to stdout and stderr.
func executeCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(bytes.NewBufferString(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--no-color"}, args...))
	t.Cleanup(func() {
		for _, command := range append([]*cobra.Command{rootCmd}, rootCmd.Commands()...) {
			resetFlags(command.Flags())
			resetFlags(command.PersistentFlags())
		}
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// exitCode returns the code the process would exit with for err.
func exitCode(err error) int {
	_, code := exitcodes.GetInnerErrorAndExitCode(err)
	return code
}

// fakeService is a TLS server playing both the authorization server and the fuzzing service.
type fakeService struct {
	server    *httptest.Server
	requests  []map[string]any
	apiKeys   []string
	campaign  string
	tokenCode int
}

func newFakeService(t *testing.T) *fakeService {
	service := &fakeService{campaign: `{"id": "cmp_1", "name": "x", "status": "completed", "numIssues": 0}`, tokenCode: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(service.tokenCode)
		if service.tokenCode != http.StatusOK {
			_, _ = w.Write([]byte(`{"error": "invalid_grant", "error_description": "expired"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token": "exchanged-key"}`))
	})
	mux.HandleFunc("/api/campaigns", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		service.requests = append(service.requests, body)
		service.apiKeys = append(service.apiKeys, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id": "cmp_1"}`))
	})
	mux.HandleFunc("/api/campaigns/cmp_1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(service.campaign))
	})
	service.server = httptest.NewTLSServer(mux)
	t.Cleanup(service.server.Close)

	previousClient, previousDial := httpClient, dialSeedStateProvider
	httpClient = service.server.Client()
	dialSeedStateProvider = func(ctx context.Context, url string) (campaign.SeedStateProvider, func(), error) {
		return fakeSeeds{}, func() {}, nil
	}
	t.Cleanup(func() {
		httpClient, dialSeedStateProvider = previousClient, previousDial
	})
	return service
}

// refreshToken returns a refresh token triple exchanged at the fake service.
func (s *fakeService) refreshToken(t *testing.T) string {
	serverURL, err := url.Parse(s.server.URL)
	require.NoError(t, err)
	return serverURL.Host + "::client::token"
}

// writeProject creates a Truffle project with a config file submitting to faasURL and returns the config path.
func writeProject(t *testing.T, faasURL string) string {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"truffle-config.js": "",
		"build/contracts/Token.json": `{"contractName": "Token", "bytecode": "0x6080", "deployedBytecode": "0x6081",
			"source": "contract Token {}", "sourcePath": "contracts/Token.sol", "ast": {"src": "0:1:0"}}`,
	})

	projectConfig := config.DefaultProjectConfig()
	projectConfig.Fuzz.IDE = "truffle"
	projectConfig.Fuzz.BuildDirectory = filepath.Join(dir, "build", "contracts")
	projectConfig.Fuzz.DeployedContractAddress = tokenAddress
	projectConfig.Fuzz.Targets = []string{filepath.Join(dir, "contracts", "Token.sol")}
	projectConfig.Fuzz.CampaignNamePrefix = "token"
	projectConfig.Fuzz.FaasURL = faasURL
	configPath := filepath.Join(dir, config.DefaultConfigFilename)
	require.NoError(t, projectConfig.WriteToFile(configPath))
	return configPath
}

func TestRunWithoutCredentials(t *testing.T) {
	service := newFakeService(t)
	t.Setenv("FUZZ_API_KEY", "")
	t.Setenv("FUZZ_REFRESH_TOKEN", "")
	configPath := writeProject(t, service.server.URL)

	_, _, err := executeCommand(t, "", "run", "--config", configPath)
	require.Error(t, err)
	assert.Equal(t, exitcodes.ExitCodeUsageError, exitCode(err))
	assert.Contains(t, err.Error(), "API key or Refresh Token were not provided.")
	assert.Empty(t, service.requests)
}

func TestRunMalformedRefreshToken(t *testing.T) {
	service := newFakeService(t)
	configPath := writeProject(t, service.server.URL)

	_, _, err := executeCommand(t, "", "run", "--config", configPath, "--refresh-token", "not-a-triple")
	require.Error(t, err)
	assert.Equal(t, exitcodes.ExitCodeUsageError, exitCode(err))
	assert.Contains(t, err.Error(), "Refresh Token is malformed. The format is `<auth_endpoint>::<client_id>::<refresh_token>`")
}

func TestRunAuthorizationFailure(t *testing.T) {
	service := newFakeService(t)
	service.tokenCode = http.StatusForbidden
	configPath := writeProject(t, service.server.URL)

	_, _, err := executeCommand(t, "", "run", "--config", configPath, "--refresh-token", service.refreshToken(t))
	require.Error(t, err)
	assert.Equal(t, exitcodes.ExitCodeGeneralError, exitCode(err))
	assert.Contains(t, err.Error(), "Authorization failed. Error: invalid_grant")
	assert.Empty(t, service.requests)
}

func TestRunSubmitsCampaign(t *testing.T) {
	service := newFakeService(t)
	configPath := writeProject(t, service.server.URL)

	stdout, _, err := executeCommand(t, "", "run", "--config", configPath, "--refresh-token", service.refreshToken(t),
		"--time-limit", "2h", "--project", "audit")
	require.NoError(t, err)
	assert.Contains(t, stdout, "You can view campaign here: "+service.server.URL+"/campaigns/cmp_1")

	require.Len(t, service.requests, 1)
	assert.Equal(t, "Bearer exchanged-key", service.apiKeys[0])
	request := service.requests[0]
	assert.Regexp(t, `^token_[0-9a-f]{8}$`, request["name"])
	assert.Equal(t, "audit", request["project"])
	assert.EqualValues(t, 7200, request["parameters"].(map[string]any)["time-limit-secs"])
	assert.Len(t, request["contracts"], 1)
}

func TestRunEnvironmentOverridesConfig(t *testing.T) {
	service := newFakeService(t)
	configPath := writeProject(t, "https://unreachable.invalid")
	t.Setenv("FUZZ_API_KEY", "env-key")
	t.Setenv("FUZZ_FAAS_URL", service.server.URL)

	_, _, err := executeCommand(t, "", "run", "--config", configPath)
	require.NoError(t, err)
	require.Len(t, service.apiKeys, 1)
	assert.Equal(t, "Bearer env-key", service.apiKeys[0])

	// Flags win over the environment
	_, _, err = executeCommand(t, "", "run", "--config", configPath, "--api-key", "flag-key")
	require.NoError(t, err)
	require.Len(t, service.apiKeys, 2)
	assert.Equal(t, "Bearer flag-key", service.apiKeys[1])
}

func TestRunDryRun(t *testing.T) {
	service := newFakeService(t)
	configPath := writeProject(t, service.server.URL)

	stdout, _, err := executeCommand(t, "", "run", "--config", configPath, "--dry-run", "--quick-check")
	require.NoError(t, err)
	assert.Empty(t, service.requests)

	var request map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &request))
	assert.Equal(t, true, request["quickCheck"])
	assert.Contains(t, request, "corpus")
}

func TestRunPositionalTargets(t *testing.T) {
	service := newFakeService(t)
	configPath := writeProject(t, service.server.URL)

	_, _, err := executeCommand(t, "", "run", "--config", configPath, "--dry-run",
		filepath.Join(filepath.Dir(configPath), "contracts", "Missing.sol"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no compiled contracts were found")
}

func TestRunInWorkingDirectory(t *testing.T) {
	service := newFakeService(t)
	projectDir := testutils.CopyToTestDirectory(t, "testdata/truffle-project")

	var stdout, stderr string
	var err error
	testutils.ExecuteInDirectory(t, projectDir, func() {
		// Without a config file the defaults apply, the IDE is detected and relative targets resolve against the
		// working directory
		stdout, stderr, err = executeCommand(t, "", "run", "--api-key", "key", "--faas-url", service.server.URL,
			"contracts/Token.sol")
	})
	require.NoError(t, err)
	assert.Contains(t, stderr, "Unable to find the config file")
	assert.Contains(t, stdout, "You can view campaign here: "+service.server.URL+"/campaigns/cmp_1")
	require.Len(t, service.requests, 1)
	assert.Len(t, service.requests[0]["contracts"], 1)
}

func TestRunWaitReportsIssues(t *testing.T) {
	service := newFakeService(t)
	service.campaign = `{"id": "cmp_1", "name": "x", "status": "completed", "numIssues": 2}`
	configPath := writeProject(t, service.server.URL)

	_, _, err := executeCommand(t, "", "run", "--config", configPath, "--api-key", "key", "--wait", "--poll-interval", "10ms")
	require.Error(t, err)
	assert.Equal(t, exitcodes.ExitCodeCampaignFailed, exitCode(err))
}

func TestRunWaitSucceeds(t *testing.T) {
	service := newFakeService(t)
	configPath := writeProject(t, service.server.URL)

	_, _, err := executeCommand(t, "", "run", "--config", configPath, "--api-key", "key", "--wait", "--poll-interval", "10ms")
	require.NoError(t, err)
}

func TestRunMissingConfigFlag(t *testing.T) {
	_, _, err := executeCommand(t, "", "run", "--config", filepath.Join(t.TempDir(), "missing.yml"), "--api-key", "key")
	require.Error(t, err)
	assert.Equal(t, exitcodes.ExitCodeUsageError, exitCode(err))
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := executeCommand(t, "", "version", "--log-level", "loud")
	require.Error(t, err)
	assert.Equal(t, exitcodes.ExitCodeUsageError, exitCode(err))
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	_, _, err := executeCommand(t, "", "run", "--no-such-flag")
	require.Error(t, err)
	assert.Equal(t, exitcodes.ExitCodeUsageError, exitCode(err))
}

func TestVersion(t *testing.T) {
	stdout, _, err := executeCommand(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "fuzz version ")
}

func TestCompletion(t *testing.T) {
	stdout, _, err := executeCommand(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, stdout, "bash completion")

	_, _, err = executeCommand(t, "", "completion", "powershell")
	require.Error(t, err)
	assert.Equal(t, exitcodes.ExitCodeUsageError, exitCode(err))
}

// useScriptedPrompter makes interactive commands answer with answers.
func useScriptedPrompter(t *testing.T, answers ...any) *prompt.Scripted {
	scripted := prompt.NewScripted(answers...)
	previous := newPrompter
	newPrompter = func(cmd *cobra.Command) prompt.Prompter {
		return scripted
	}
	t.Cleanup(func() {
		newPrompter = previous
	})
	return scripted
}

func TestGenerateConfig(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"hardhat.config.ts":   "",
		"contracts/Token.sol": "",
		"artifacts/x.json":    "{}",
	})
	scripted := useScriptedPrompter(t,
		true,               // Hardhat detected
		true,               // contracts directory
		false,              // select individually
		true,               // build directory
		"http://node:8545", // rpc url
		"3",                // cores
		"token",            // campaign name prefix
	)
	configPath := filepath.Join(dir, config.DefaultConfigFilename)

	_, _, err := executeCommand(t, "", "generate-config", "--config", configPath)
	require.NoError(t, err)
	assert.Zero(t, scripted.Remaining())

	projectConfig, err := config.ReadProjectConfigFromFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "hardhat", projectConfig.Fuzz.IDE)
	assert.Equal(t, filepath.Join(dir, "artifacts"), projectConfig.Fuzz.BuildDirectory)
	assert.Equal(t, []string{filepath.Join(dir, "contracts")}, projectConfig.Fuzz.Targets)
	assert.Equal(t, 3, projectConfig.Fuzz.NumberOfCores)
	assert.Equal(t, "token", projectConfig.Fuzz.CampaignNamePrefix)
}

func TestGenerateConfigAborted(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{"foundry.toml": ""})
	useScriptedPrompter(t, prompt.ErrAborted)

	_, _, err := executeCommand(t, "", "generate-config", "--config", filepath.Join(dir, config.DefaultConfigFilename))
	require.Error(t, err)
	assert.Equal(t, exitcodes.ExitCodeGeneralError, exitCode(err))
	assert.Equal(t, "Aborted!", err.Error())
}

func TestGenerateConfigSyncWithoutConfig(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{"foundry.toml": ""})
	useScriptedPrompter(t)

	_, _, err := executeCommand(t, "", "generate-config", "--sync", "--config", filepath.Join(dir, config.DefaultConfigFilename))
	require.Error(t, err)
	assert.Equal(t, exitcodes.ExitCodeUsageError, exitCode(err))
	assert.Equal(t, "Could not find config file to re-sync. Create one first.", err.Error())
}

func TestGenerateConfigSync(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"foundry.toml": "",
		"src/A.sol":    "",
		".fuzz.yml":    "fuzz:\n  rpc_url: http://x:1\n  targets:\n    - old.sol\n",
	})
	useScriptedPrompter(t, true, false)

	_, _, err := executeCommand(t, "", "generate-config", "--sync", "--config", filepath.Join(dir, ".fuzz.yml"))
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(dir, ".fuzz.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(b), filepath.Join(dir, "src"))
	assert.NotContains(t, string(b), "old.sol")
}
