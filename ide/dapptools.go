package ide

import (
	"path/filepath"

	"github.com/crytic/fuzz-cli/logging"
	"github.com/crytic/fuzz-cli/utils"
	"github.com/pkg/errors"
)

// dappOutputFile is the combined solc output written by `dapp build`.
const dappOutputFile = "dapp.sol.json"

// Dapptools reads the combined solc standard JSON output written by `dapp build`. Sources are read from disk.
type Dapptools struct {
	logger *logging.Logger
}

// NewDapptools creates the dapptools IDE.
func NewDapptools() *Dapptools {
	return &Dapptools{logger: logging.GlobalLogger.NewSubLogger("module", logging.IDE_SERVICE)}
}

// Name returns "dapptools".
func (d *Dapptools) Name() string {
	return "dapptools"
}

// DefaultSourcesDir returns dapptools' DAPP_SRC default.
func (d *Dapptools) DefaultSourcesDir() string {
	return "src"
}

// DefaultBuildDir returns dapptools' DAPP_OUT default.
func (d *Dapptools) DefaultBuildDir() string {
	return "out"
}

// Detect looks for a .dapprc file or a previous dapp build.
func (d *Dapptools) Detect(projectDir string) bool {
	return anyFileExists(projectDir, ".dapprc", filepath.Join(d.DefaultBuildDir(), dappOutputFile))
}

// LoadCompilation parses buildDir/dapp.sol.json.
func (d *Dapptools) LoadCompilation(projectDir string, buildDir string) (*Compilation, error) {
	outputPath := filepath.Join(buildDir, dappOutputFile)
	if !utils.IsFile(outputPath) {
		return nil, errors.Errorf("%s not found, run `dapp build` first", outputPath)
	}

	var output standardJSONOutput
	if err := readJSONFile(outputPath, &output); err != nil {
		return nil, err
	}
	d.logger.Debug("Loaded dapptools output ", outputPath)

	compilation := NewCompilation(projectDir)
	if err := compilation.addStandardJSONOutput(&output, nil); err != nil {
		return nil, err
	}
	compilation.sortContracts()
	return compilation, nil
}
