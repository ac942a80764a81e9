package ide

// IDE describes a smart contract build tool whose project layout and build artifacts the CLI understands.
type IDE interface {
	// Name returns the lower-case identifier of the IDE, as stored in the config file.
	Name() string

	// DefaultSourcesDir returns the project-relative directory contract sources are kept in.
	DefaultSourcesDir() string

	// DefaultBuildDir returns the project-relative directory build artifacts are written to.
	DefaultBuildDir() string

	// Detect reports whether the project at projectDir appears to be built with this IDE.
	Detect(projectDir string) bool

	// LoadCompilation parses the build artifacts in buildDir. Relative source paths found in artifacts are resolved
	// against projectDir.
	LoadCompilation(projectDir string, buildDir string) (*Compilation, error)
}
