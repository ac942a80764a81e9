package ide

import (
	"path/filepath"

	"github.com/crytic/fuzz-cli/logging"
)

// Brownie reads the per-contract artifacts written by `brownie compile`. Unlike Truffle, Brownie records the index to
// path mapping of every source a contract depends on (allSourcePaths).
type Brownie struct {
	logger *logging.Logger
}

// NewBrownie creates the Brownie IDE.
func NewBrownie() *Brownie {
	return &Brownie{logger: logging.GlobalLogger.NewSubLogger("module", logging.IDE_SERVICE)}
}

// Name returns "brownie".
func (b *Brownie) Name() string {
	return "brownie"
}

// DefaultSourcesDir returns Brownie's contracts directory.
func (b *Brownie) DefaultSourcesDir() string {
	return "contracts"
}

// DefaultBuildDir returns Brownie's contract artifacts directory.
func (b *Brownie) DefaultBuildDir() string {
	return filepath.Join("build", "contracts")
}

// Detect looks for a Brownie config file.
func (b *Brownie) Detect(projectDir string) bool {
	return anyFileExists(projectDir, "brownie-config.yaml", "brownie-config.yml")
}

// LoadCompilation parses every artifact in buildDir.
func (b *Brownie) LoadCompilation(projectDir string, buildDir string) (*Compilation, error) {
	return loadContractArtifacts(b.logger, projectDir, buildDir)
}
