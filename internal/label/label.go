// Package label parses, classifies and resolves Bazel target labels of the
// form [@workspace][//package][:name].
package label

import "strings"

// Label is a parsed target label. The zero Label is not a valid label; obtain
// one from Parse. Labels are comparable with ==.
type Label struct {
	workspace string
	pkg       string
	name      string

	hasWorkspace bool
	hasRoot      bool
	hasPkg       bool
	hasName      bool
}

// Parse parses value into a Label. The grammar is scanned left to right in a
// fixed order: "@workspace", "//", a package path, ":name". Every failure is a
// *SyntaxError.
func Parse(value string) (Label, error) {
	s := &scanner{src: value}
	var l Label

	if s.consume("@") {
		ws := s.word()
		if ws == "" {
			return Label{}, s.fail("expected a workspace name after '@'")
		}
		l.workspace, l.hasWorkspace = ws, true
	}

	if s.consume("//") {
		pkg, err := s.path()
		if err != nil {
			return Label{}, err
		}
		l.hasRoot = true
		l.pkg, l.hasPkg = pkg, true
	} else if !l.hasWorkspace {
		// No root marker: a relative package path or a bare file name.
		pkg, err := s.path()
		if err != nil {
			return Label{}, err
		}
		if pkg != "" {
			l.pkg, l.hasPkg = pkg, true
		}
	}

	if s.consume(":") {
		name, err := s.path()
		if err != nil {
			return Label{}, err
		}
		if name == "" {
			return Label{}, s.fail("expected a target name after ':'")
		}
		l.name, l.hasName = name, true
	}

	if !s.done() {
		return Label{}, s.fail("unexpected character %q", s.peek())
	}

	if !l.hasWorkspace && !l.hasPkg && !l.hasName {
		return Label{}, &SyntaxError{Value: value, Offset: 0, Msg: "a label may not be empty"}
	}

	if !l.hasWorkspace && !l.hasRoot && !l.hasName && strings.Contains(l.pkg, "/") {
		return Label{}, &SyntaxError{Value: value, Offset: strings.IndexByte(l.pkg, '/'),
			Msg: "a bare source-file reference may not contain a path separator"}
	}

	return l, nil
}

// MustParse is like Parse but panics on a syntax error.
func MustParse(value string) Label {
	l, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return l
}

// Workspace returns the external workspace name, or "" when absent.
func (l Label) Workspace() string { return l.workspace }

// Pkg returns the package path. It is "" both when absent and for the root
// package; use HasPkg to tell them apart.
func (l Label) Pkg() string { return l.pkg }

// Name returns the target name, or "" when absent.
func (l Label) Name() string { return l.name }

func (l Label) HasWorkspace() bool { return l.hasWorkspace }
func (l Label) HasRoot() bool      { return l.hasRoot }
func (l Label) HasPkg() bool       { return l.hasPkg }
func (l Label) HasName() bool      { return l.hasName }

// IsLocal reports whether l has the form ":name", a reference into the
// declaring package.
func (l Label) IsLocal() bool {
	return !l.hasWorkspace && !l.hasRoot && !l.hasPkg && l.hasName
}

// IsSourceFile reports whether l is a bare file reference such as "foo.cc".
func (l Label) IsSourceFile() bool {
	return !l.hasRoot && !l.hasWorkspace && l.hasPkg && !l.hasName
}

// Value returns the canonical string form of l.
func (l Label) Value() string {
	var b strings.Builder
	if l.hasWorkspace {
		b.WriteByte('@')
		b.WriteString(l.workspace)
	}
	if l.hasRoot {
		b.WriteString("//")
	}
	if l.hasPkg {
		b.WriteString(l.pkg)
	}
	if l.hasName {
		b.WriteByte(':')
		b.WriteString(l.name)
	}
	return b.String()
}

func (l Label) String() string { return l.Value() }

// InPackage returns l rewritten as an absolute label when it refers into the
// declaring package pkg (":name" or "file.cc"). Other labels are returned
// unchanged.
func (l Label) InPackage(pkg string) Label {
	switch {
	case l.IsLocal():
		return Label{pkg: pkg, name: l.name, hasRoot: true, hasPkg: true, hasName: true}
	case l.IsSourceFile():
		return Label{pkg: pkg, name: l.pkg, hasRoot: true, hasPkg: true, hasName: true}
	}
	return l
}

// TargetName is the name Bazel infers for l: the explicit name if present,
// otherwise the last package segment ("//foo/bar" names "bar").
func (l Label) TargetName() string {
	if l.hasName {
		return l.name
	}
	if l.hasPkg {
		if i := strings.LastIndexByte(l.pkg, '/'); i >= 0 {
			return l.pkg[i+1:]
		}
		return l.pkg
	}
	return l.workspace
}

// Canonical returns the absolute form of l as written in package pkg, with
// the inferred target name made explicit: ":a" in "foo" is "//foo:a", and
// "//foo/bar" is "//foo/bar:bar". Labels that are neither local nor absolute
// are returned as written.
func (l Label) Canonical(pkg string) string {
	l = l.InPackage(pkg)
	if !l.hasRoot {
		return l.Value()
	}
	if !l.hasName {
		if name := l.TargetName(); name != "" {
			l.name, l.hasName = name, true
		}
	}
	return l.Value()
}
