// Package workspace locates Bazel workspaces and the build files inside them.
package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoWorkspace is returned by FindRoot when no marker file is found.
var ErrNoWorkspace = errors.New("workspace: no WORKSPACE or MODULE.bazel found")

// Markers are the file names that identify a workspace root, in the order
// they are checked.
var Markers = []string{"WORKSPACE", "WORKSPACE.bazel", "MODULE.bazel", "WORKSPACE.bzl"}

// Kind classifies a Starlark file by name.
type Kind int

const (
	Unknown Kind = iota
	Build
	Workspace
	Bzl
)

func (k Kind) String() string {
	switch k {
	case Build:
		return "build"
	case Workspace:
		return "workspace"
	case Bzl:
		return "bzl"
	default:
		return "unknown"
	}
}

// KindOf classifies path by its base name.
func KindOf(path string) Kind {
	name := filepath.Base(path)
	switch name {
	case "BUILD", "BUILD.bazel":
		return Build
	case "WORKSPACE", "WORKSPACE.bazel", "MODULE.bazel", "WORKSPACE.bzlmod":
		return Workspace
	}
	switch {
	case strings.HasSuffix(name, ".bzl"):
		return Bzl
	case strings.HasSuffix(name, ".BUILD"):
		// third_party/zlib.BUILD and similar overlay files
		return Build
	}
	return Unknown
}

// FindRoot walks up from dir until it finds a directory holding one of the
// Markers.
func FindRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		for _, m := range Markers {
			if info, err := os.Stat(filepath.Join(dir, m)); err == nil && !info.IsDir() {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoWorkspace
		}
		dir = parent
	}
}

// PackageOf returns the package path of file relative to root, using forward
// slashes. A file at the root belongs to the root package "".
func PackageOf(root, file string) (string, error) {
	if !filepath.IsAbs(file) {
		file = filepath.Join(root, file)
	}
	rel, err := filepath.Rel(root, filepath.Dir(file))
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.New("workspace: " + file + " is outside " + root)
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel), nil
}
