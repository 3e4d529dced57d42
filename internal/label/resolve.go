package label

import (
	"os"
	"path/filepath"
	"strings"
)

// Build file names tried, in order, when a label does not name a file.
var buildFileNames = []string{"BUILD", "BUILD.bazel"}

// ResolveContext carries everything Resolve needs about the current session.
type ResolveContext struct {
	// WorkspaceRoot is the absolute path of the workspace root.
	WorkspaceRoot string

	// DeclaringFile is the path of the file containing the label. Relative
	// paths are taken relative to WorkspaceRoot.
	DeclaringFile string

	// FileExists reports whether path is an existing regular file. Nil means
	// OSFileExists.
	FileExists func(path string) bool
}

// OSFileExists reports whether path names a regular file on disk.
func OSFileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Resolve maps l to an absolute file path. The exact file named by the label
// is preferred; otherwise the package's BUILD, then BUILD.bazel, is returned.
// Labels in external workspaces yield ErrUnsupported; labels with no match
// yield a *NotFoundError, as do labels whose path leaves the workspace root.
func Resolve(l Label, rc ResolveContext) (string, error) {
	return resolve(l, rc, true)
}

// ResolveFile is Resolve without the build file fallback: it succeeds only
// when l names an existing file.
func ResolveFile(l Label, rc ResolveContext) (string, error) {
	return resolve(l, rc, false)
}

func resolve(l Label, rc ResolveContext, fallback bool) (string, error) {
	if l.HasWorkspace() {
		return "", ErrUnsupported
	}

	exists := rc.FileExists
	if exists == nil {
		exists = OSFileExists
	}
	root := filepath.Clean(rc.WorkspaceRoot)

	var pkgDir, target string
	switch {
	case l.IsLocal(), l.IsSourceFile():
		dir, ok := declaringPackage(root, rc.DeclaringFile)
		if !ok {
			return "", &NotFoundError{Label: l}
		}
		pkgDir = dir
		if l.IsLocal() {
			target = l.Name()
		} else {
			target = l.Pkg()
		}
	case l.HasPkg():
		pkgDir = filepath.FromSlash(l.Pkg())
		target = l.Name()
	default:
		target = l.Name()
	}

	var tried []string
	if target != "" {
		candidate := filepath.Join(root, pkgDir, filepath.FromSlash(target))
		if !within(root, candidate) {
			return "", &NotFoundError{Label: l}
		}
		tried = append(tried, candidate)
		if exists(candidate) {
			return candidate, nil
		}
	}
	if fallback {
		for _, name := range buildFileNames {
			candidate := filepath.Join(root, pkgDir, name)
			tried = append(tried, candidate)
			if within(root, candidate) && exists(candidate) {
				return candidate, nil
			}
		}
	}
	return "", &NotFoundError{Label: l, Tried: tried}
}

// declaringPackage returns the directory of file relative to root. It fails
// when file lies outside root.
func declaringPackage(root, file string) (string, bool) {
	if file == "" {
		return "", false
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(root, file)
	}
	dir := filepath.Dir(file)
	if !within(root, dir) {
		return "", false
	}
	rel, _ := filepath.Rel(root, dir)
	if rel == "." {
		rel = ""
	}
	return rel, true
}

// within reports whether path is root or lies below it. Labels may contain
// ".." words, so every candidate is checked before it is probed.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
