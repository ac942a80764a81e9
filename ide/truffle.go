package ide

import "github.com/crytic/fuzz-cli/logging"

// Truffle reads the per-contract artifacts written by `truffle compile`.
type Truffle struct {
	logger *logging.Logger
}

// NewTruffle creates the Truffle IDE.
func NewTruffle() *Truffle {
	return &Truffle{logger: logging.GlobalLogger.NewSubLogger("module", logging.IDE_SERVICE)}
}

// Name returns "truffle".
func (t *Truffle) Name() string {
	return "truffle"
}

// DefaultSourcesDir returns Truffle's default contracts directory.
func (t *Truffle) DefaultSourcesDir() string {
	return "contracts"
}

// DefaultBuildDir returns Truffle's default `contracts_build_directory`.
func (t *Truffle) DefaultBuildDir() string {
	return "build/contracts"
}

// Detect looks for a Truffle config file.
func (t *Truffle) Detect(projectDir string) bool {
	return anyFileExists(projectDir, "truffle-config.js", "truffle.js")
}

// LoadCompilation parses every artifact in buildDir.
func (t *Truffle) LoadCompilation(projectDir string, buildDir string) (*Compilation, error) {
	return loadContractArtifacts(t.logger, projectDir, buildDir)
}
