// Package version reports how the makegen binary was built.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string    `json:"version"`
	GitCommit string    `json:"git_commit"`
	BuildTime time.Time `json:"build_time"`
	GoVersion string    `json:"go_version"`
	Platform  string    `json:"platform"`
}

// Set at build time with -ldflags "-X github.com/deepalert/makegen/internal/version.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	// BuildTime is RFC3339
	BuildTime = "unknown"
)

// GetBuildInfo returns the build information of the running binary.
func GetBuildInfo() *BuildInfo {
	return &BuildInfo{
		Version:   GetVersion(),
		GitCommit: GetGitCommit(),
		BuildTime: parseBuildTime(BuildTime),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// GetVersion prefers the linker-set version, then the module version
// recorded by `go install`, then "dev".
func GetVersion() string {
	if Version != "" && Version != "dev" {
		return Version
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}

	return "dev"
}

// GetGitCommit returns the commit the binary was built from, or "unknown".
func GetGitCommit() string {
	if GitCommit != "" && GitCommit != "unknown" {
		return GitCommit
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}

	return "unknown"
}

// GetShortVersion returns a one-line version such as "v1.2.0 (abc1234)".
func GetShortVersion() string {
	return shortVersion(GetVersion(), GetGitCommit())
}

func shortVersion(version, commit string) string {
	if commit == "unknown" || len(commit) < 7 {
		return version
	}
	if version == "dev" {
		return "dev-" + commit[:7]
	}

	return fmt.Sprintf("%s (%s)", version, commit[:7])
}

// String renders the info one field per line.
func (b *BuildInfo) String() string {
	parts := []string{"makegen " + b.Version}
	if b.GitCommit != "unknown" {
		parts = append(parts, "commit: "+b.GitCommit)
	}
	if !b.BuildTime.IsZero() {
		parts = append(parts, "built: "+b.BuildTime.Format(time.RFC3339))
	}
	parts = append(parts, "go: "+b.GoVersion, "platform: "+b.Platform)

	return strings.Join(parts, "\n")
}

func parseBuildTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	return time.Time{}
}
