package ide

import (
	"path/filepath"

	"github.com/crytic/fuzz-cli/logging"
	"github.com/pkg/errors"
)

// Foundry reads the per-contract artifacts written by `forge build` (out/<File>.sol/<Contract>.json). Sources are
// read from disk.
type Foundry struct {
	logger *logging.Logger
}

// NewFoundry creates the Foundry IDE.
func NewFoundry() *Foundry {
	return &Foundry{logger: logging.GlobalLogger.NewSubLogger("module", logging.IDE_SERVICE)}
}

// Name returns "foundry".
func (f *Foundry) Name() string {
	return "foundry"
}

// DefaultSourcesDir returns forge's default `src`.
func (f *Foundry) DefaultSourcesDir() string {
	return "src"
}

// DefaultBuildDir returns forge's default `out`.
func (f *Foundry) DefaultBuildDir() string {
	return "out"
}

// Detect looks for foundry.toml.
func (f *Foundry) Detect(projectDir string) bool {
	return anyFileExists(projectDir, "foundry.toml")
}

// foundryArtifact is the content of out/<File>.sol/<Contract>.json.
type foundryArtifact struct {
	Bytecode         bytecodeObject  `json:"bytecode"`
	DeployedBytecode bytecodeObject  `json:"deployedBytecode"`
	ID               int             `json:"id"`
	AST              map[string]any  `json:"ast"`
	Metadata         foundryMetadata `json:"metadata"`
}

// foundryMetadata is the solc metadata forge embeds in every artifact.
type foundryMetadata struct {
	Compiler struct {
		Version string `json:"version"`
	} `json:"compiler"`
}

// LoadCompilation parses every contract artifact below buildDir. The artifact file name (minus .json) is the contract
// name.
func (f *Foundry) LoadCompilation(projectDir string, buildDir string) (*Compilation, error) {
	matches, err := filepath.Glob(filepath.Join(buildDir, "*.sol", "*.json"))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(matches) == 0 {
		return nil, errors.Errorf("no build artifacts found in %s, run `forge build --ast` first", buildDir)
	}

	compilation := NewCompilation(projectDir)
	for _, match := range matches {
		var artifact foundryArtifact
		if err = readJSONFile(match, &artifact); err != nil {
			return nil, err
		}
		sourcePath, _ := artifact.AST["absolutePath"].(string)
		if sourcePath == "" {
			f.logger.Debug("Skipping ", match, " as it carries no AST, build with `forge build --ast`")
			continue
		}

		if _, exists := compilation.Sources[sourcePath]; !exists {
			content, err := readSourceFile(compilation.AbsoluteSourcePath(sourcePath))
			if err != nil {
				return nil, err
			}
			compilation.Sources[sourcePath] = Source{FileIndex: artifact.ID, Source: content, AST: artifact.AST}
		}
		compilation.SetCompilerVersion(artifact.Metadata.Compiler.Version)

		if artifact.DeployedBytecode.Object == "" || artifact.DeployedBytecode.Object == "0x" {
			continue
		}
		compilation.Contracts = append(compilation.Contracts, Contract{
			ContractName:      fileNameWithoutExtension(match),
			MainSourceFile:    sourcePath,
			Bytecode:          prefixHex(artifact.Bytecode.Object),
			DeployedBytecode:  prefixHex(artifact.DeployedBytecode.Object),
			SourceMap:         artifact.Bytecode.SourceMap,
			DeployedSourceMap: artifact.DeployedBytecode.SourceMap,
		})
	}

	allSourcePaths := compilation.SourcePathsByIndex()
	for i := range compilation.Contracts {
		compilation.Contracts[i].SourcePaths = allSourcePaths
	}
	compilation.sortContracts()
	return compilation, nil
}

// fileNameWithoutExtension obtains a file name without the extension and without any preceding directory paths.
func fileNameWithoutExtension(filePath string) string {
	base := filepath.Base(filePath)
	return base[:len(base)-len(filepath.Ext(base))]
}
