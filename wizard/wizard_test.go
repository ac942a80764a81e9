package wizard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/crytic/fuzz-cli/config"
	"github.com/crytic/fuzz-cli/prompt"
	"github.com/crytic/fuzz-cli/utils/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestWizard creates a project directory holding files and a Wizard over it answering with answers.
func newTestWizard(t *testing.T, files map[string]string, answers ...any) (*Wizard, *prompt.Scripted, string) {
	dir := filepath.Join(t.TempDir(), "my-Project")
	require.NoError(t, os.MkdirAll(dir, 0755))
	testutils.WriteFiles(t, dir, files)
	scripted := prompt.NewScripted(answers...)
	return NewWizard(scripted, dir), scripted, dir
}

func TestDetermineIDEDetected(t *testing.T) {
	w, scripted, _ := newTestWizard(t, map[string]string{"hardhat.config.ts": ""}, true)
	name, err := w.DetermineIDE(false)
	require.NoError(t, err)
	assert.Equal(t, "hardhat", name)
	assert.Equal(t, []string{"You seem to be using Hardhat, is that correct?"}, scripted.Asked)
}

func TestDetermineIDEConfirmSkipsQuestion(t *testing.T) {
	w, scripted, _ := newTestWizard(t, map[string]string{"foundry.toml": ""})
	name, err := w.DetermineIDE(true)
	require.NoError(t, err)
	assert.Equal(t, "foundry", name)
	assert.Empty(t, scripted.Asked)
}

func TestDetermineIDERejectedDetection(t *testing.T) {
	w, scripted, _ := newTestWizard(t, map[string]string{"hardhat.config.js": ""}, false, "Truffle")
	name, err := w.DetermineIDE(false)
	require.NoError(t, err)
	assert.Equal(t, "truffle", name)
	assert.Equal(t, "Please select IDE", scripted.Asked[1])
}

func TestDetermineIDENothingSelected(t *testing.T) {
	w, _, _ := newTestWizard(t, nil, "")
	_, err := w.DetermineIDE(false)
	assert.ErrorIs(t, err, ErrNoIDESelected)

	w, _, _ = newTestWizard(t, nil, prompt.ErrAborted)
	_, err = w.DetermineIDE(false)
	assert.ErrorIs(t, err, ErrNoIDESelected)
}

func TestDetermineTargetsDefaultDirectoryAccepted(t *testing.T) {
	files := map[string]string{"contracts/Token.sol": "", "contracts/lib/Math.sol": ""}
	w, scripted, dir := newTestWizard(t, files, true, false)

	targets, err := w.DetermineTargets("hardhat")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "contracts")}, targets)
	assert.Equal(t, []string{
		"Is " + filepath.Join(dir, "contracts") + " correct directory to fuzz contracts from?",
		"Directories contain source files. Do you want to select them individually?",
	}, scripted.Asked)
}

func TestDetermineTargetsCustom(t *testing.T) {
	files := map[string]string{"contracts/Token.sol": "", "other/Vault.sol": ""}
	w, _, dir := newTestWizard(t, files, false, " other/Vault.sol ,  /abs/Thing.sol,")

	targets, err := w.DetermineTargets("hardhat")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "other", "Vault.sol"), "/abs/Thing.sol"}, targets)
}

func TestDetermineTargetsMissingDirectory(t *testing.T) {
	w, scripted, dir := newTestWizard(t, nil, false)
	targets, err := w.DetermineTargets("foundry")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "src")}, targets)
	assert.Equal(t, "We couldn't find any contracts at "+filepath.Join(dir, "src")+". Have you configured a custom contracts sources directory?", scripted.Asked[0])

	w, _, dir = newTestWizard(t, map[string]string{"sol/A.sol": ""}, true, "sol", false)
	targets, err = w.DetermineTargets("foundry")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "sol")}, targets)
}

func TestDetermineTargetsRequiresAnswer(t *testing.T) {
	w, scripted, dir := newTestWizard(t, nil, true, "", " , ", "src")
	targets, err := w.DetermineTargets("foundry")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "src")}, targets)
	assert.Len(t, scripted.ValidationErrors, 2)
	assert.Zero(t, scripted.Remaining())
}

func TestDetermineTargetsConfiguredSourcesDirectory(t *testing.T) {
	w, scripted, dir := newTestWizard(t, map[string]string{"sol/A.sol": ""}, true, false)
	w.SetSourcesDirectory("sol")
	targets, err := w.DetermineTargets("foundry")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "sol")}, targets)
	assert.Equal(t, "Is "+filepath.Join(dir, "sol")+" correct directory to fuzz contracts from?", scripted.Asked[0])
}

func TestSelectTargetsIndividually(t *testing.T) {
	files := map[string]string{
		"contracts/Token.sol":       "",
		"contracts/vault/Vault.sol": "",
		"contracts/README.md":       "",
	}
	w, scripted, dir := newTestWizard(t, files, true, []string{filepath.Join("contracts", "vault", "Vault.sol")})

	explicit := filepath.Join(dir, "scripts", "Deploy.sol")
	targets, err := w.SelectTargets([]string{
		filepath.Join(dir, "contracts"),
		filepath.Join(dir, "contracts", "vault"),
		explicit,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "contracts", "vault", "Vault.sol"), explicit}, targets)
	assert.Equal(t, "Please select target files", scripted.Asked[1])
}

func TestSelectTargetsWithoutDirectories(t *testing.T) {
	w, scripted, dir := newTestWizard(t, map[string]string{"A.sol": ""})
	targets := []string{filepath.Join(dir, "A.sol")}
	selected, err := w.SelectTargets(targets)
	require.NoError(t, err)
	assert.Equal(t, targets, selected)
	assert.Empty(t, scripted.Asked)
}

func TestDetermineBuildDir(t *testing.T) {
	w, scripted, dir := newTestWizard(t, map[string]string{"artifacts/build-info/x.json": "{}"}, true)
	buildDir, err := w.DetermineBuildDir("hardhat")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "artifacts"), buildDir)
	assert.Equal(t, "Is "+filepath.Join(dir, "artifacts")+" correct build directory for the project?", scripted.Asked[0])

	w, scripted, dir = newTestWizard(t, nil, true, "  ", " build/out ")
	buildDir, err = w.DetermineBuildDir("truffle")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "build", "out"), buildDir)
	assert.Len(t, scripted.ValidationErrors, 1)
	assert.Contains(t, scripted.Asked[0], "We couldn't find build directory at")
}

func TestDetermineCPUCores(t *testing.T) {
	w, scripted, _ := newTestWizard(t, nil, "abc", "0", "5", "3")
	cores, err := w.DetermineCPUCores()
	require.NoError(t, err)
	assert.Equal(t, 3, cores)
	require.Len(t, scripted.ValidationErrors, 3)
	assert.EqualError(t, scripted.ValidationErrors[0], "abc is not a valid integer")
	assert.EqualError(t, scripted.ValidationErrors[1], "CPU cores should be >= 1 and <= 4")

	w, _, _ = newTestWizard(t, nil, "")
	cores, err = w.DetermineCPUCores()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultNumberOfCores, cores)
}

func TestDetermineRPCURLAndCampaignName(t *testing.T) {
	w, _, _ := newTestWizard(t, nil, "", "")
	rpcURL, err := w.DetermineRPCURL()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultRPCURL, rpcURL)

	prefix, err := w.DetermineCampaignName()
	require.NoError(t, err)
	assert.Equal(t, "my_project", prefix)
}

func TestRecreateConfig(t *testing.T) {
	files := map[string]string{
		"truffle-config.js":      "",
		"contracts/Token.sol":    "",
		"build/contracts/x.json": "{}",
	}
	w, scripted, dir := newTestWizard(t, files,
		true,               // Truffle detected
		true,               // contracts directory
		false,              // select individually
		true,               // build directory
		"http://node:8545", // rpc url
		"2",                // cores
		"",                 // campaign name prefix
	)

	projectConfig, err := w.RecreateConfig()
	require.NoError(t, err)
	assert.Zero(t, scripted.Remaining())

	written, err := config.ReadProjectConfigFromFile(filepath.Join(dir, ".fuzz.yml"))
	require.NoError(t, err)
	assert.Equal(t, projectConfig.Fuzz, written.Fuzz)
	assert.Equal(t, "truffle", written.Fuzz.IDE)
	assert.Equal(t, filepath.Join(dir, "contracts"), written.Fuzz.SourcesDirectory)
	assert.Equal(t, filepath.Join(dir, "build", "contracts"), written.Fuzz.BuildDirectory)
	assert.Equal(t, []string{filepath.Join(dir, "contracts")}, written.Fuzz.Targets)
	assert.Equal(t, "http://node:8545", written.Fuzz.RPCURL)
	assert.Equal(t, 2, written.Fuzz.NumberOfCores)
	assert.Equal(t, "my_project", written.Fuzz.CampaignNamePrefix)
}

func TestSyncConfig(t *testing.T) {
	w, _, _ := newTestWizard(t, map[string]string{"foundry.toml": ""})
	_, err := w.SyncConfig()
	assert.ErrorIs(t, err, ErrConfigNotFound)

	files := map[string]string{
		"foundry.toml": "",
		"src/A.sol":    "",
		".fuzz.yml":    "# project config\nfuzz:\n  rpc_url: http://x:1\n  targets:\n    - old.sol\ncustom: 1\n",
	}
	w, scripted, dir := newTestWizard(t, files, true, false)
	targets, err := w.SyncConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "src")}, targets)
	// The IDE is not confirmed during a sync
	assert.Len(t, scripted.Asked, 2)

	b, err := os.ReadFile(filepath.Join(dir, ".fuzz.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "# project config")
	assert.Contains(t, string(b), "custom: 1")
	assert.Contains(t, string(b), filepath.Join(dir, "src"))
	assert.NotContains(t, string(b), "old.sol")
}

func TestSyncConfigUsesConfiguredSourcesDirectory(t *testing.T) {
	files := map[string]string{
		"foundry.toml": "",
		"src/A.sol":    "",
		"sol/B.sol":    "",
		".fuzz.yml":    "fuzz:\n  sources_directory: sol\n  targets: []\n",
	}
	w, scripted, dir := newTestWizard(t, files, true, false)
	targets, err := w.SyncConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "sol")}, targets)
	assert.Equal(t, "Is "+filepath.Join(dir, "sol")+" correct directory to fuzz contracts from?", scripted.Asked[0])

	written, err := config.ReadProjectConfigFromFile(filepath.Join(dir, ".fuzz.yml"))
	require.NoError(t, err)
	assert.Equal(t, "sol", written.Fuzz.SourcesDirectory)
	assert.Equal(t, []string{filepath.Join(dir, "sol")}, written.Fuzz.Targets)
}
