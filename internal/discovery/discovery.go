// Package discovery finds the independently buildable units of a project.
//
// A build target is an immediate subdirectory of a source root. The
// deployable functions live under one root and the test harness functions
// under another; each root is scanned on its own and yields its own ordered
// sequence of targets.
package discovery

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/deepalert/makegen/internal/errors"
)

// Default source roots and output directory.
const (
	DefaultFunctionsRoot = "./functions"
	DefaultTestRoot      = "./test"
	DefaultOutputDir     = "build"
)

// BuildTarget is one compilable unit, identified by its directory name.
type BuildTarget struct {
	// Name is the directory basename.
	Name string
	// SourceRoot is the scanned root the directory was found in.
	SourceRoot string
	// OutputPath is where the compiled binary is written.
	OutputPath string
}

// SourceDir returns the target's source directory, keeping the root's
// spelling (a leading "./" survives).
func (t BuildTarget) SourceDir() string {
	return joinSlash(t.SourceRoot, t.Name)
}

// Discoverer scans source roots on a filesystem.
type Discoverer struct {
	Fs        afero.Fs
	OutputDir string
	// Sort orders targets by name. Without it the order is whatever the
	// filesystem returns, which is not stable across platforms.
	Sort bool
}

// NewDiscoverer returns a Discoverer writing to the default output directory
// with sorted output.
func NewDiscoverer(fs afero.Fs) *Discoverer {
	return &Discoverer{
		Fs:        fs,
		OutputDir: DefaultOutputDir,
		Sort:      true,
	}
}

// Discover returns one BuildTarget per subdirectory of root. Regular files
// are skipped. A missing root, or one that is not a directory, is an
// InvalidSourceRoot error.
func (d *Discoverer) Discover(root string) ([]BuildTarget, error) {
	info, err := d.Fs.Stat(root)
	if err != nil {
		return nil, errors.InvalidSourceRoot(root, err)
	}
	if !info.IsDir() {
		return nil, errors.InvalidSourceRoot(root, fmt.Errorf("not a directory"))
	}

	dir, err := d.Fs.Open(root)
	if err != nil {
		return nil, errors.InvalidSourceRoot(root, err)
	}
	defer dir.Close()

	entries, err := dir.Readdir(-1)
	if err != nil {
		return nil, errors.InvalidSourceRoot(root, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if d.isDir(root, entry) {
			names = append(names, entry.Name())
		}
	}

	if d.Sort {
		sort.Strings(names)
	}

	targets := make([]BuildTarget, 0, len(names))
	for _, name := range names {
		targets = append(targets, BuildTarget{
			Name:       name,
			SourceRoot: root,
			OutputPath: path.Join(d.OutputDir, name),
		})
	}

	return targets, nil
}

// isDir follows symlinks so a linked function directory still counts.
func (d *Discoverer) isDir(root string, entry os.FileInfo) bool {
	if entry.Mode()&os.ModeSymlink == 0 {
		return entry.IsDir()
	}

	info, err := d.Fs.Stat(joinSlash(root, entry.Name()))
	if err != nil {
		return false
	}

	return info.IsDir()
}

// OutputPaths returns the output path of every target, in order.
func OutputPaths(targets []BuildTarget) []string {
	out := make([]string, len(targets))
	for i, t := range targets {
		out[i] = t.OutputPath
	}

	return out
}

func joinSlash(root, name string) string {
	trimmed := strings.TrimRight(root, "/")
	if trimmed == "" && root != "" {
		return "/" + name
	}
	if trimmed == "" {
		return name
	}

	return trimmed + "/" + name
}
