package wizard

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/crytic/fuzz-cli/config"
	"github.com/crytic/fuzz-cli/ide"
	"github.com/crytic/fuzz-cli/logging"
	"github.com/crytic/fuzz-cli/logging/colors"
	"github.com/crytic/fuzz-cli/prompt"
	"github.com/crytic/fuzz-cli/utils"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

var (
	// ErrNoIDESelected is returned when the user dismisses the IDE picker.
	ErrNoIDESelected = errors.New("You must select IDE")

	// ErrConfigNotFound is returned when a config sync is requested but no config file exists.
	ErrConfigNotFound = errors.New("Could not find config file to re-sync. Create one first.")
)

// Wizard asks the questions needed to generate a project config. All paths are resolved against the work directory
// it was created with.
type Wizard struct {
	// prompter asks the questions.
	prompter prompt.Prompter

	// workDir is the project directory, usually the current working directory.
	workDir string

	// configPath is the config file that is generated or synced.
	configPath string

	// sourcesDir overrides the default sources directory of the IDE when set.
	sourcesDir string

	// logger describes the Wizard's log object that can be used to log important events
	logger *logging.Logger
}

// NewWizard creates a Wizard asking questions through prompter for the project at workDir.
func NewWizard(prompter prompt.Prompter, workDir string) *Wizard {
	return &Wizard{
		prompter:   prompter,
		workDir:    workDir,
		configPath: filepath.Join(workDir, config.DefaultConfigFilename),
		logger:     logging.GlobalLogger.NewSubLogger("module", logging.WIZARD_SERVICE),
	}
}

// ConfigPath returns the path of the config file the wizard generates, by default .fuzz.yml in the work directory.
func (w *Wizard) ConfigPath() string {
	return w.configPath
}

// SetConfigPath changes the config file the wizard generates.
func (w *Wizard) SetConfigPath(path string) {
	w.configPath = path
}

// SetSourcesDirectory makes dir, resolved against the work directory, the directory proposed for targets instead of
// the IDE default.
func (w *Wizard) SetSourcesDirectory(dir string) {
	w.sourcesDir = dir
}

// SourcesDirectory returns the absolute directory proposed for targets.
func (w *Wizard) SourcesDirectory(selectedIDE ide.IDE) string {
	if w.sourcesDir != "" {
		return utils.MakeAbsolute(w.sourcesDir, w.workDir)
	}
	return utils.MakeAbsolute(selectedIDE.DefaultSourcesDir(), w.workDir)
}

// promptIDE asks the user to pick an IDE from the supported list.
func (w *Wizard) promptIDE() (string, error) {
	names := ide.ListIDEs()
	choices := make([]string, 0, len(names))
	for _, name := range names {
		choices = append(choices, ide.DisplayName(name))
	}

	answer, err := w.prompter.Select("Please select IDE", choices)
	if err != nil && !errors.Is(err, prompt.ErrAborted) {
		return "", err
	}
	if answer == "" || errors.Is(err, prompt.ErrAborted) {
		return "", ErrNoIDESelected
	}
	return strings.ToLower(answer), nil
}

// DetermineIDE detects the IDE of the project. When nothing is detected the user picks one; when something is
// detected the user confirms it unless confirm is set.
func (w *Wizard) DetermineIDE(confirm bool) (string, error) {
	detected := ide.DetectIDE(w.workDir)
	if detected == nil {
		return w.promptIDE()
	}
	if confirm {
		return detected.Name(), nil
	}

	correct, err := w.prompter.Confirm("You seem to be using "+ide.DisplayName(detected.Name())+", is that correct?", true)
	if err != nil {
		return "", err
	}
	if !correct {
		return w.promptIDE()
	}
	return detected.Name(), nil
}

// splitTargets splits a comma separated answer into trimmed, non-empty targets.
func splitTargets(answer string) []string {
	targets := make([]string, 0)
	for _, target := range strings.Split(answer, ",") {
		if target = strings.TrimSpace(target); target != "" {
			targets = append(targets, target)
		}
	}
	return targets
}

// promptTargets asks for a comma separated list of targets until at least one is given. Relative targets are joined
// onto the work directory.
func (w *Wizard) promptTargets() ([]string, error) {
	answer, err := w.prompter.InputValidated("Specify folder(s) or smart-contract(s) (comma-separated) to fuzz", "",
		func(value string) error {
			if len(splitTargets(value)) == 0 {
				return errors.New("at least one folder or smart-contract is required")
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	targets := splitTargets(answer)
	for i, target := range targets {
		targets[i] = utils.MakeAbsolute(target, w.workDir)
	}
	return targets, nil
}

// DetermineTargets proposes the sources directory (see SourcesDirectory) and lets the user override it, then lets the
// user narrow directories down to individual files.
func (w *Wizard) DetermineTargets(ideName string) ([]string, error) {
	selectedIDE, err := ide.GetIDE(ideName)
	if err != nil {
		return nil, err
	}

	target := w.SourcesDirectory(selectedIDE)
	targets := []string{target}

	if utils.IsDirectory(target) {
		correct, err := w.prompter.Confirm("Is "+target+" correct directory to fuzz contracts from?", false)
		if err != nil {
			return nil, err
		}
		if !correct {
			if targets, err = w.promptTargets(); err != nil {
				return nil, err
			}
		}
	} else {
		custom, err := w.prompter.Confirm("We couldn't find any contracts at "+target+". Have you configured a custom contracts sources directory?", true)
		if err != nil {
			return nil, err
		}
		if custom {
			if targets, err = w.promptTargets(); err != nil {
				return nil, err
			}
		}
	}
	return w.SelectTargets(targets)
}

// SelectTargets expands directories among targets into their Solidity files and, if there are any, offers to pick
// files individually. Targets that are not directories are kept as they are. When the user declines, targets are
// returned unchanged.
func (w *Wizard) SelectTargets(targets []string) ([]string, error) {
	files := make([]string, 0)
	filesInDirs := make([]string, 0)
	for _, target := range targets {
		if utils.IsDirectory(target) {
			found, err := utils.SolFilesByDirectory(target)
			if err != nil {
				return nil, err
			}
			filesInDirs = append(filesInDirs, found...)
		} else {
			files = append(files, target)
		}
	}
	if len(filesInDirs) == 0 {
		return targets, nil
	}
	// Nested directory targets list the same files twice
	slices.Sort(filesInDirs)
	filesInDirs = slices.Compact(filesInDirs)

	individually, err := w.prompter.Confirm("Directories contain source files. Do you want to select them individually?", false)
	if err != nil {
		return nil, err
	}
	if !individually {
		return targets, nil
	}

	// The checkbox shows work directory relative paths, map them back to absolute paths
	choices := make([]string, 0, len(filesInDirs))
	byChoice := make(map[string]string, len(filesInDirs))
	for _, file := range filesInDirs {
		choice := utils.RelativeToOrSelf(file, w.workDir)
		choices = append(choices, choice)
		byChoice[choice] = file
	}

	selected, err := w.prompter.MultiSelect("Please select target files", choices)
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, len(selected)+len(files))
	for _, choice := range selected {
		if file, ok := byChoice[choice]; ok {
			result = append(result, file)
		}
	}
	return append(result, files...), nil
}

// DetermineBuildDir proposes the default build directory of the IDE and lets the user override it. The result is
// always absolute.
func (w *Wizard) DetermineBuildDir(ideName string) (string, error) {
	selectedIDE, err := ide.GetIDE(ideName)
	if err != nil {
		return "", err
	}

	buildDir := utils.MakeAbsolute(selectedIDE.DefaultBuildDir(), w.workDir)
	const message = "Specify build directory path"

	var override bool
	if utils.IsDirectory(buildDir) {
		correct, err := w.prompter.Confirm("Is "+buildDir+" correct build directory for the project?", false)
		if err != nil {
			return "", err
		}
		override = !correct
	} else {
		override, err = w.prompter.Confirm("We couldn't find build directory at "+buildDir+". Have you configured a custom build directory?", false)
		if err != nil {
			return "", err
		}
	}

	if override {
		answer, err := w.prompter.InputValidated(message, "", func(value string) error {
			if strings.TrimSpace(value) == "" {
				return errors.New("build directory cannot be empty")
			}
			return nil
		})
		if err != nil {
			return "", err
		}
		buildDir = utils.MakeAbsolute(strings.TrimSpace(answer), w.workDir)
	}
	return buildDir, nil
}

// DetermineRPCURL asks for the node the seed state is fetched from.
func (w *Wizard) DetermineRPCURL() (string, error) {
	return w.prompter.Input("Specify RPC URL to get seed state from (e.g. local Ganache instance)", config.DefaultRPCURL)
}

// validateCPUCores accepts integers in [config.MinCPUCores, config.MaxCPUCores].
func validateCPUCores(value string) error {
	cores, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return errors.Errorf("%s is not a valid integer", value)
	}
	if cores < config.MinCPUCores || cores > config.MaxCPUCores {
		return errors.Errorf("CPU cores should be >= %d and <= %d", config.MinCPUCores, config.MaxCPUCores)
	}
	return nil
}

// DetermineCPUCores asks for the number of cores until a value in range is given.
func (w *Wizard) DetermineCPUCores() (int, error) {
	answer, err := w.prompter.InputValidated(
		"Specify CPU cores ("+strconv.Itoa(config.MinCPUCores)+"-"+strconv.Itoa(config.MaxCPUCores)+") to be used for fuzzing",
		strconv.Itoa(config.DefaultNumberOfCores),
		validateCPUCores,
	)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(answer))
}

// DetermineCampaignName asks for the campaign name prefix, proposing one derived from the work directory name.
func (w *Wizard) DetermineCampaignName() (string, error) {
	return w.prompter.Input("Now set fuzzing campaign name prefix", config.CampaignNamePrefixFromDirectory(w.workDir))
}

// RecreateConfig runs every question and writes a fresh config file, replacing any existing one.
func (w *Wizard) RecreateConfig() (*config.ProjectConfig, error) {
	ideName, err := w.DetermineIDE(false)
	if err != nil {
		return nil, err
	}
	targets, err := w.DetermineTargets(ideName)
	if err != nil {
		return nil, err
	}
	buildDir, err := w.DetermineBuildDir(ideName)
	if err != nil {
		return nil, err
	}
	rpcURL, err := w.DetermineRPCURL()
	if err != nil {
		return nil, err
	}
	cores, err := w.DetermineCPUCores()
	if err != nil {
		return nil, err
	}
	prefix, err := w.DetermineCampaignName()
	if err != nil {
		return nil, err
	}

	selectedIDE, err := ide.GetIDE(ideName)
	if err != nil {
		return nil, err
	}

	projectConfig := config.DefaultProjectConfig()
	projectConfig.Fuzz.IDE = ideName
	projectConfig.Fuzz.SourcesDirectory = w.SourcesDirectory(selectedIDE)
	projectConfig.Fuzz.BuildDirectory = buildDir
	projectConfig.Fuzz.Targets = targets
	projectConfig.Fuzz.RPCURL = rpcURL
	projectConfig.Fuzz.NumberOfCores = cores
	projectConfig.Fuzz.CampaignNamePrefix = prefix

	configPath := w.ConfigPath()
	w.logger.Info(colors.LIGHTNING, " Alright! Generating config at ", colors.YellowItalic, configPath)
	if err = projectConfig.WriteToFile(configPath); err != nil {
		return nil, err
	}
	w.logger.Info("Done ", colors.PARTY)
	return projectConfig, nil
}

// SyncConfig re-detects the IDE (without asking for confirmation) and the targets, then rewrites the targets of the
// existing config file, leaving the rest of the file untouched. The sources directory of the existing config, if any,
// is proposed for targets.
func (w *Wizard) SyncConfig() ([]string, error) {
	configPath := w.ConfigPath()
	if !utils.IsFile(configPath) {
		return nil, ErrConfigNotFound
	}
	existing, err := config.ReadProjectConfigFromFile(configPath)
	if err != nil {
		return nil, err
	}
	if existing.Fuzz.SourcesDirectory != "" {
		w.SetSourcesDirectory(existing.Fuzz.SourcesDirectory)
	}

	ideName, err := w.DetermineIDE(true)
	if err != nil {
		return nil, err
	}
	targets, err := w.DetermineTargets(ideName)
	if err != nil {
		return nil, err
	}

	w.logger.Info(colors.LIGHTNING, " Alright! Syncing config at ", colors.YellowItalic, configPath)
	if err = config.SyncTargets(configPath, targets); err != nil {
		return nil, err
	}
	w.logger.Info("Done ", colors.PARTY)
	return targets, nil
}
