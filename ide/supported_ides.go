package ide

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// detectionOrder lists IDE generators in the order Detect is attempted. Tools whose marker files are unambiguous come
// first, so a Hardhat project that also carries a foundry.toml is reported as Foundry.
var detectionOrder = []func() IDE{
	func() IDE { return NewFoundry() },
	func() IDE { return NewHardhat() },
	func() IDE { return NewTruffle() },
	func() IDE { return NewBrownie() },
	func() IDE { return NewDapptools() },
}

// supportedIDEs is a mapping of IDE identifier to the generator creating it. Items are populated in the init method.
var supportedIDEs map[string]func() IDE

// init populates supportedIDEs from detectionOrder.
func init() {
	supportedIDEs = make(map[string]func() IDE)
	for _, generator := range detectionOrder {
		name := generator().Name()

		// Each IDE should have a unique identifier.
		if _, exists := supportedIDEs[name]; exists {
			panic(fmt.Errorf("the IDE '%s' is registered with more than one provider", name))
		}
		supportedIDEs[name] = generator
	}
}

// ListIDEs returns the identifiers of all supported IDEs, sorted.
func ListIDEs() []string {
	names := make([]string, 0, len(supportedIDEs))
	for name := range supportedIDEs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsSupportedIDE returns whether name identifies a supported IDE. The comparison ignores case.
func IsSupportedIDE(name string) bool {
	_, ok := supportedIDEs[strings.ToLower(name)]
	return ok
}

// GetIDE returns the IDE identified by name, ignoring case.
func GetIDE(name string) (IDE, error) {
	generator, ok := supportedIDEs[strings.ToLower(name)]
	if !ok {
		return nil, errors.Errorf("unsupported IDE '%s' (options: %s)", name, strings.Join(ListIDEs(), ", "))
	}
	return generator(), nil
}

// DetectIDE returns the first IDE whose marker files are present in projectDir, or nil if none are.
func DetectIDE(projectDir string) IDE {
	for _, generator := range detectionOrder {
		candidate := generator()
		if candidate.Detect(projectDir) {
			return candidate
		}
	}
	return nil
}

// DisplayName returns the capitalized form of an IDE identifier, as shown in prompts.
func DisplayName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
