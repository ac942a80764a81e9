package ide

import (
	"path/filepath"
	"sort"

	"github.com/crytic/fuzz-cli/logging"
	"github.com/pkg/errors"
)

// Hardhat reads the build-info files Hardhat writes next to its per-contract artifacts. Build-info files hold the
// complete solc input and output of a compilation job, which is everything the payload needs.
type Hardhat struct {
	logger *logging.Logger
}

// NewHardhat creates the Hardhat IDE.
func NewHardhat() *Hardhat {
	return &Hardhat{logger: logging.GlobalLogger.NewSubLogger("module", logging.IDE_SERVICE)}
}

// Name returns "hardhat".
func (h *Hardhat) Name() string {
	return "hardhat"
}

// DefaultSourcesDir returns Hardhat's default `paths.sources`.
func (h *Hardhat) DefaultSourcesDir() string {
	return "contracts"
}

// DefaultBuildDir returns Hardhat's default `paths.artifacts`.
func (h *Hardhat) DefaultBuildDir() string {
	return "artifacts"
}

// Detect looks for a Hardhat config file.
func (h *Hardhat) Detect(projectDir string) bool {
	return anyFileExists(projectDir, "hardhat.config.js", "hardhat.config.ts", "hardhat.config.cjs", "hardhat.config.mjs")
}

// hardhatBuildInfo is the content of artifacts/build-info/<id>.json.
type hardhatBuildInfo struct {
	SolcVersion string `json:"solcVersion"`
	Input       struct {
		Sources map[string]struct {
			Content string `json:"content"`
		} `json:"sources"`
	} `json:"input"`
	Output standardJSONOutput `json:"output"`
}

// LoadCompilation parses every build-info file below buildDir.
func (h *Hardhat) LoadCompilation(projectDir string, buildDir string) (*Compilation, error) {
	matches, err := filepath.Glob(filepath.Join(buildDir, "build-info", "*.json"))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(matches) == 0 {
		return nil, errors.Errorf("no build-info files found in %s, run `npx hardhat compile` first", filepath.Join(buildDir, "build-info"))
	}
	sort.Strings(matches)

	compilation := NewCompilation(projectDir)
	for _, match := range matches {
		var buildInfo hardhatBuildInfo
		if err = readJSONFile(match, &buildInfo); err != nil {
			return nil, err
		}
		h.logger.Debug("Loading Hardhat build-info ", match, " (solc ", buildInfo.SolcVersion, ")")

		contents := make(map[string]string, len(buildInfo.Input.Sources))
		for sourcePath, source := range buildInfo.Input.Sources {
			contents[sourcePath] = source.Content
		}
		if err = compilation.addStandardJSONOutput(&buildInfo.Output, contents); err != nil {
			return nil, err
		}
		compilation.SetCompilerVersion(buildInfo.SolcVersion)
	}
	compilation.sortContracts()
	return compilation, nil
}
