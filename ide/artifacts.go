package ide

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/crytic/fuzz-cli/logging"
	"github.com/crytic/fuzz-cli/utils"
	"github.com/pkg/errors"
)

// bytecodeObject is the bytecode section of a solc standard JSON contract output.
type bytecodeObject struct {
	Object    string `json:"object"`
	SourceMap string `json:"sourceMap"`
}

// standardJSONContract is a contract entry of a solc standard JSON output.
type standardJSONContract struct {
	EVM struct {
		Bytecode         bytecodeObject `json:"bytecode"`
		DeployedBytecode bytecodeObject `json:"deployedBytecode"`
	} `json:"evm"`
}

// standardJSONOutput is the part of a solc standard JSON output the payload is built from.
type standardJSONOutput struct {
	Contracts map[string]map[string]standardJSONContract `json:"contracts"`
	Sources   map[string]struct {
		ID  int `json:"id"`
		AST any `json:"ast"`
	} `json:"sources"`
}

// addStandardJSONOutput merges a solc standard JSON output into the compilation. Source contents are looked up in
// contents first and read from disk (relative to the project directory) otherwise. Sources already present in the
// compilation are kept as they are.
func (c *Compilation) addStandardJSONOutput(output *standardJSONOutput, contents map[string]string) error {
	sourcePaths := make(map[int]string, len(output.Sources))
	for sourcePath, source := range output.Sources {
		sourcePaths[source.ID] = sourcePath
		if _, exists := c.Sources[sourcePath]; exists {
			continue
		}

		content, ok := contents[sourcePath]
		if !ok {
			var err error
			if content, err = readSourceFile(c.AbsoluteSourcePath(sourcePath)); err != nil {
				return err
			}
		}
		c.Sources[sourcePath] = Source{FileIndex: source.ID, Source: content, AST: source.AST}
	}

	for sourcePath, contracts := range output.Contracts {
		for contractName, contract := range contracts {
			// Interfaces and abstract contracts carry no bytecode and cannot be deployed
			if contract.EVM.DeployedBytecode.Object == "" {
				continue
			}
			c.Contracts = append(c.Contracts, Contract{
				ContractName:      contractName,
				MainSourceFile:    sourcePath,
				SourcePaths:       sourcePaths,
				Bytecode:          prefixHex(contract.EVM.Bytecode.Object),
				DeployedBytecode:  prefixHex(contract.EVM.DeployedBytecode.Object),
				SourceMap:         contract.EVM.Bytecode.SourceMap,
				DeployedSourceMap: contract.EVM.DeployedBytecode.SourceMap,
			})
			if c.CompilerVersion == nil {
				c.SetCompilerVersion(compilerVersionFromBytecode(contract.EVM.DeployedBytecode.Object))
			}
		}
	}
	return nil
}

// contractArtifact is a per-contract artifact as written by Truffle and Brownie.
type contractArtifact struct {
	ContractName      string            `json:"contractName"`
	Bytecode          string            `json:"bytecode"`
	DeployedBytecode  string            `json:"deployedBytecode"`
	SourceMap         string            `json:"sourceMap"`
	DeployedSourceMap string            `json:"deployedSourceMap"`
	Source            string            `json:"source"`
	SourcePath        string            `json:"sourcePath"`
	AST               map[string]any    `json:"ast"`
	AllSourcePaths    map[string]string `json:"allSourcePaths"`
	Compiler          struct {
		Version string `json:"version"`
	} `json:"compiler"`
}

// loadContractArtifacts parses every per-contract artifact (*.json) directly inside buildDir.
func loadContractArtifacts(logger *logging.Logger, projectDir string, buildDir string) (*Compilation, error) {
	matches, err := filepath.Glob(filepath.Join(buildDir, "*.json"))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(matches) == 0 {
		return nil, errors.Errorf("no build artifacts found in %s, compile the project first", buildDir)
	}

	compilation := NewCompilation(projectDir)
	explicitSourcePaths := make(map[string]map[int]string)
	for _, match := range matches {
		var artifact contractArtifact
		if err = readJSONFile(match, &artifact); err != nil {
			return nil, err
		}
		if artifact.ContractName == "" || artifact.SourcePath == "" {
			logger.Debug("Skipping ", match, " as it is not a contract artifact")
			continue
		}

		if _, exists := compilation.Sources[artifact.SourcePath]; !exists {
			compilation.Sources[artifact.SourcePath] = Source{
				FileIndex: fileIndexFromAST(artifact.AST, len(compilation.Sources)),
				Source:    artifact.Source,
				AST:       artifact.AST,
			}
		}
		compilation.SetCompilerVersion(artifact.Compiler.Version)

		if strings.TrimPrefix(artifact.DeployedBytecode, "0x") == "" {
			continue
		}
		compilation.Contracts = append(compilation.Contracts, Contract{
			ContractName:      artifact.ContractName,
			MainSourceFile:    artifact.SourcePath,
			Bytecode:          prefixHex(artifact.Bytecode),
			DeployedBytecode:  prefixHex(artifact.DeployedBytecode),
			SourceMap:         artifact.SourceMap,
			DeployedSourceMap: artifact.DeployedSourceMap,
		})

		if len(artifact.AllSourcePaths) > 0 {
			paths := make(map[int]string, len(artifact.AllSourcePaths))
			for index, path := range artifact.AllSourcePaths {
				if i, err := strconv.Atoi(index); err == nil {
					paths[i] = path
				}
			}
			explicitSourcePaths[artifact.ContractName+"@"+artifact.SourcePath] = paths
		}
	}

	// Contracts without an explicit index map reference every source in the build
	allSourcePaths := compilation.SourcePathsByIndex()
	for i, contract := range compilation.Contracts {
		if paths, ok := explicitSourcePaths[contract.ContractName+"@"+contract.MainSourceFile]; ok {
			compilation.Contracts[i].SourcePaths = paths
		} else {
			compilation.Contracts[i].SourcePaths = allSourcePaths
		}
	}
	compilation.sortContracts()
	return compilation, nil
}

// fileIndexFromAST returns the source unit index from the "src" attribute ("start:length:index") of a SourceUnit AST
// node, or fallback if it cannot be determined.
func fileIndexFromAST(ast map[string]any, fallback int) int {
	src, ok := ast["src"].(string)
	if !ok {
		return fallback
	}
	parts := strings.Split(src, ":")
	if len(parts) != 3 {
		return fallback
	}
	index, err := strconv.Atoi(parts[2])
	if err != nil {
		return fallback
	}
	return index
}

// readJSONFile decodes the JSON file at path into v.
func readJSONFile(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.WithStack(err)
	}
	if err = json.Unmarshal(b, v); err != nil {
		return errors.Wrapf(err, "could not parse build artifact %s", path)
	}
	return nil
}

// readSourceFile returns the content of a source file referenced by build artifacts.
func readSourceFile(path string) (string, error) {
	if !utils.IsFile(path) {
		return "", errors.Errorf("source file %s referenced by the build artifacts does not exist", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(b), nil
}

// anyFileExists returns whether any of the names exists as a file in directory.
func anyFileExists(directory string, names ...string) bool {
	for _, name := range names {
		if utils.IsFile(filepath.Join(directory, name)) {
			return true
		}
	}
	return false
}
