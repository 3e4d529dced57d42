package buildlens

import (
	"fmt"
	"path/filepath"

	"github.com/jward/buildlens/internal/label"
	"github.com/jward/buildlens/internal/store"
)

// Index is the query API over the SQLite target index. Labels passed to it
// must be absolute ("//pkg:name" or "//pkg").
type Index struct {
	store *store.Store
}

// absolute parses value and rejects labels that need a declaring package or
// live in an external workspace.
func absolute(value string) (label.Label, error) {
	l, err := label.Parse(value)
	if err != nil {
		return label.Label{}, err
	}
	if l.HasWorkspace() {
		return label.Label{}, label.ErrUnsupported
	}
	if !l.HasRoot() {
		return label.Label{}, fmt.Errorf("label %q is not absolute", value)
	}
	return l, nil
}

// TargetsIn returns the targets declared in the build file at path, which is
// relative to the workspace root.
func (q *Index) TargetsIn(path string) ([]*TargetRef, error) {
	refs, err := q.store.TargetsByFile(filepath.ToSlash(filepath.Clean(path)))
	if err != nil {
		return nil, fmt.Errorf("targets in %s: %w", path, err)
	}
	return refs, nil
}

// TargetsNamed returns every target called name, in any package.
func (q *Index) TargetsNamed(name string) ([]*TargetRef, error) {
	return q.store.TargetsByName(name)
}

// Target returns the target a label denotes, or nil when none is indexed.
func (q *Index) Target(value string) (*TargetRef, error) {
	l, err := absolute(value)
	if err != nil {
		return nil, err
	}
	return q.store.TargetByLabel(l.Pkg(), l.TargetName())
}

// Labels returns the srcs and deps of the target a label denotes, srcs
// first. An unknown target yields a *label.NotFoundError.
func (q *Index) Labels(value string) ([]*TargetLabel, error) {
	l, err := absolute(value)
	if err != nil {
		return nil, err
	}
	ref, err := q.store.TargetByLabel(l.Pkg(), l.TargetName())
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, &label.NotFoundError{Label: l}
	}
	return q.store.LabelsOfTarget(ref.ID)
}

// Dependents returns the targets that list the label in their deps, however
// they spell it.
func (q *Index) Dependents(value string) ([]*TargetRef, error) {
	l, err := absolute(value)
	if err != nil {
		return nil, err
	}
	return q.store.Dependents(l.Canonical(""))
}

// Stats summarizes the index contents.
func (q *Index) Stats() (Stats, error) {
	return q.store.Stats()
}
