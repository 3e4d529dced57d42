package workspace

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// DiscoverOption configures BuildFiles.
type DiscoverOption func(*discoverer)

// WithIgnore adds gitignore-style patterns on top of the workspace's
// .gitignore.
func WithIgnore(patterns ...string) DiscoverOption {
	return func(d *discoverer) {
		d.extra = append(d.extra, patterns...)
	}
}

// WithKinds restricts discovery to the given kinds. The default is every
// known kind, which is also what an empty list means.
func WithKinds(kinds ...Kind) DiscoverOption {
	return func(d *discoverer) {
		if len(kinds) == 0 {
			return
		}
		d.kinds = make(map[Kind]bool, len(kinds))
		for _, k := range kinds {
			d.kinds[k] = true
		}
	}
}

type discoverer struct {
	extra []string
	kinds map[Kind]bool
}

// BuildFiles returns every Starlark file under root as root-relative,
// slash-separated paths in sorted order. Hidden directories, bazel-* output
// trees, directories listed in .bazelignore and paths matched by .gitignore
// are skipped.
func BuildFiles(root string, opts ...DiscoverOption) ([]string, error) {
	d := &discoverer{}
	for _, opt := range opts {
		opt(d)
	}
	gi := loadGitignore(root, d.extra)
	bazelIgnored := loadBazelignore(root)

	var results []string
	err := filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		name := entry.Name()

		if entry.IsDir() {
			if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "bazel-") {
				return filepath.SkipDir
			}
			if bazelIgnored[rel] || (gi != nil && gi.MatchesPath(rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}
		// bazel-out and friends are symlinks at the root.
		if entry.Type()&os.ModeSymlink != 0 {
			return nil
		}

		kind := KindOf(name)
		if kind == Unknown {
			return nil
		}
		if d.kinds != nil && !d.kinds[kind] {
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		results = append(results, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(results)
	return results, nil
}

func loadGitignore(root string, extra []string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err == nil {
		gi, err := ignore.CompileIgnoreFileAndLines(path, extra...)
		if err == nil {
			return gi
		}
	}
	if len(extra) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(extra...)
}

// loadBazelignore reads the directory list in root/.bazelignore. Each
// non-comment line names a directory relative to the root.
func loadBazelignore(root string) map[string]bool {
	f, err := os.Open(filepath.Join(root, ".bazelignore"))
	if err != nil {
		return nil
	}
	defer f.Close()

	dirs := make(map[string]bool)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		dirs[strings.Trim(filepath.ToSlash(line), "/")] = true
	}
	return dirs
}
