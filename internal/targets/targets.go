// Package targets recognizes target declarations in parsed build files and
// answers position queries against them.
//
// A target declaration is any top-level call with a string literal "name"
// keyword argument. Nothing is evaluated: "srcs" and "deps" are only kept when
// written as list literals, and their elements are returned as written.
package targets

import (
	"github.com/jward/buildlens/internal/syntax"
)

// Declaration is one target declared in a build file. Declarations are
// rebuilt from scratch on every extraction and never modified.
type Declaration struct {
	Name syntax.String
	Kind string // callee text, e.g. "cc_library"
	Srcs []syntax.Expr
	Deps []syntax.Expr
	Call syntax.Call
}

// Labels returns the srcs elements followed by the deps elements, each tagged
// with the attribute it came from.
func (d Declaration) Labels() []Attr {
	out := make([]Attr, 0, len(d.Srcs)+len(d.Deps))
	for i, e := range d.Srcs {
		out = append(out, Attr{Name: "srcs", Ordinal: i, Expr: e})
	}
	for i, e := range d.Deps {
		out = append(out, Attr{Name: "deps", Ordinal: i, Expr: e})
	}
	return out
}

// Attr is one element of a label list attribute.
type Attr struct {
	Name    string
	Ordinal int
	Expr    syntax.Expr
}

// Extract returns the target declarations of f in source order. Calls without
// a string literal name are skipped; positional arguments are ignored.
func Extract(f *syntax.File) []Declaration {
	if f == nil {
		return nil
	}
	var decls []Declaration
	for _, call := range f.Calls() {
		kw := call.Keywords()

		name, ok := kw["name"].AsString()
		if !ok {
			continue
		}
		d := Declaration{Name: name, Kind: call.Callee(), Call: call}
		if elems, ok := kw["srcs"].AsList(); ok {
			d.Srcs = elems
		}
		if elems, ok := kw["deps"].AsList(); ok {
			d.Deps = elems
		}
		decls = append(decls, d)
	}
	return decls
}

// Named returns the first declaration in f whose name is name.
func Named(f *syntax.File, name string) (Declaration, bool) {
	for _, d := range Extract(f) {
		if d.Name.Value() == name {
			return d, true
		}
	}
	return Declaration{}, false
}
