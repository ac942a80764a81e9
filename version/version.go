// Package version reports which build of the fuzz CLI is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

var (
	// Version is the release of the CLI. Release builds override it with
	// -ldflags "-X github.com/crytic/fuzz-cli/version.Version=<release>".
	Version = "0.1.0"

	// Commit overrides the VCS revision the Go toolchain embeds in the binary.
	Commit = ""
)

// Info describes the running build.
type Info struct {
	Version    string
	Commit     string
	CommitTime time.Time
	Modified   bool
	GoVersion  string
}

// GetInfo returns the build description, completed with the VCS settings embedded at build time when available.
func GetInfo() Info {
	info := Info{Version: Version, Commit: Commit, GoVersion: runtime.Version()}
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = setting.Value
			}
		case "vcs.time":
			if commitTime, err := time.Parse(time.RFC3339, setting.Value); err == nil {
				info.CommitTime = commitTime
			}
		case "vcs.modified":
			info.Modified = setting.Value == "true"
		}
	}
	return info
}

// Revision returns the abbreviated commit, suffixed with -dirty for modified trees. It is empty without VCS data.
func (i Info) Revision() string {
	revision := i.Commit
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if revision != "" && i.Modified {
		revision += "-dirty"
	}
	return revision
}

// Short returns the version with the revision as build metadata, e.g. 0.1.0+0123456.
func (i Info) Short() string {
	if revision := i.Revision(); revision != "" {
		return i.Version + "+" + revision
	}
	return i.Version
}

// UserAgent returns the User-Agent header sent to the authorization server and the fuzzing service.
func (i Info) UserAgent() string {
	return "fuzz-cli/" + i.Short() + " (" + i.GoVersion + ")"
}

// String returns the multi-line description printed by `fuzz version`.
func (i Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "fuzz version %s\n", i.Version)
	if revision := i.Revision(); revision != "" {
		fmt.Fprintf(&sb, "  Commit:     %s\n", revision)
	}
	if !i.CommitTime.IsZero() {
		fmt.Fprintf(&sb, "  Built:      %s\n", i.CommitTime.UTC().Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintf(&sb, "  Go version: %s\n", i.GoVersion)
	return sb.String()
}
