package ide

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/crytic/fuzz-cli/utils"
)

// Source describes a source file as submitted to the fuzzing service.
type Source struct {
	// FileIndex is the solc source unit id, referenced by source maps.
	FileIndex int `json:"fileIndex"`

	// Source is the file content.
	Source string `json:"source"`

	// AST is the solc AST of the source unit, if the artifacts carried it.
	AST any `json:"ast,omitempty"`
}

// Contract describes a compiled contract as submitted to the fuzzing service.
type Contract struct {
	// ContractName is the name of the contract within its source file.
	ContractName string `json:"contractName"`

	// MainSourceFile is the path of the source file declaring the contract.
	MainSourceFile string `json:"mainSourceFile"`

	// SourcePaths maps the file indexes referenced by the source maps to source paths.
	SourcePaths map[int]string `json:"sourcePaths"`

	// Bytecode is the 0x-prefixed init bytecode.
	Bytecode string `json:"bytecode"`

	// DeployedBytecode is the 0x-prefixed runtime bytecode.
	DeployedBytecode string `json:"deployedBytecode"`

	// SourceMap is the source map of the init bytecode.
	SourceMap string `json:"sourceMap"`

	// DeployedSourceMap is the source map of the runtime bytecode.
	DeployedSourceMap string `json:"deployedSourceMap"`
}

// Compilation is the set of sources and contracts parsed from a project's build artifacts.
type Compilation struct {
	// Sources maps source paths (as named in the artifacts) to their content.
	Sources map[string]Source `json:"sources"`

	// Contracts lists every compiled contract.
	Contracts []Contract `json:"contracts"`

	// CompilerVersion is the solc version that produced the artifacts, if it could be determined.
	CompilerVersion *semver.Version `json:"-"`

	// projectDir is used to resolve relative source paths when matching targets.
	projectDir string
}

// NewCompilation returns an empty Compilation for the project at projectDir.
func NewCompilation(projectDir string) *Compilation {
	return &Compilation{
		Sources:    make(map[string]Source),
		Contracts:  make([]Contract, 0),
		projectDir: projectDir,
	}
}

// SetCompilerVersion records the compiler version from its textual form. Unparseable versions and versions older than
// one that was already recorded are ignored. Build metadata ("+commit.<hash>") is dropped.
func (c *Compilation) SetCompilerVersion(version string) {
	version, _, _ = strings.Cut(strings.TrimSpace(version), "+")
	parsed, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return
	}
	if c.CompilerVersion == nil || c.CompilerVersion.LessThan(parsed) {
		c.CompilerVersion = parsed
	}
}

// SourcePathsByIndex returns every known source path keyed by file index.
func (c *Compilation) SourcePathsByIndex() map[int]string {
	paths := make(map[int]string, len(c.Sources))
	for path, source := range c.Sources {
		paths[source.FileIndex] = path
	}
	return paths
}

// AbsoluteSourcePath resolves a source path as named in the artifacts to an absolute path.
func (c *Compilation) AbsoluteSourcePath(sourcePath string) string {
	return utils.MakeAbsolute(filepath.FromSlash(sourcePath), c.projectDir)
}

// FilterByTargets returns a copy of the compilation keeping only the contracts declared in one of the targets. A
// target is either a source file or a directory containing source files; both are absolute or relative to the
// project directory. All sources are kept since the contracts may depend on any of them.
func (c *Compilation) FilterByTargets(targets []string) *Compilation {
	absTargets := make([]string, 0, len(targets))
	for _, target := range targets {
		absTargets = append(absTargets, utils.MakeAbsolute(target, c.projectDir))
	}

	filtered := &Compilation{
		Sources:         c.Sources,
		Contracts:       make([]Contract, 0),
		CompilerVersion: c.CompilerVersion,
		projectDir:      c.projectDir,
	}
	for _, contract := range c.Contracts {
		sourcePath := c.AbsoluteSourcePath(contract.MainSourceFile)
		for _, target := range absTargets {
			if sourcePath == target || strings.HasPrefix(sourcePath, target+string(filepath.Separator)) {
				filtered.Contracts = append(filtered.Contracts, contract)
				break
			}
		}
	}
	return filtered
}

// sortContracts orders contracts by source file and name so payloads are deterministic.
func (c *Compilation) sortContracts() {
	sort.Slice(c.Contracts, func(i, j int) bool {
		if c.Contracts[i].MainSourceFile != c.Contracts[j].MainSourceFile {
			return c.Contracts[i].MainSourceFile < c.Contracts[j].MainSourceFile
		}
		return c.Contracts[i].ContractName < c.Contracts[j].ContractName
	})
}

// prefixHex returns a bytecode string with a 0x prefix.
func prefixHex(bytecode string) string {
	if bytecode == "" || strings.HasPrefix(bytecode, "0x") {
		return bytecode
	}
	return "0x" + bytecode
}
