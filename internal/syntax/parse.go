// Package syntax parses Starlark build files with tree-sitter and exposes the
// small set of typed views buildlens needs: top-level expression statements,
// calls, keyword arguments, string literals and lists.
//
// Starlark is parsed with the tree-sitter python grammar; every construct that
// appears in BUILD, WORKSPACE and .bzl files is valid python syntax.
package syntax

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/jward/buildlens/internal/position"
)

// File is a successfully parsed source file. A File and all Expr values
// derived from it are read-only and safe to share between goroutines.
type File struct {
	Path string

	src  []byte
	tree *sitter.Tree
}

// ParseError reports source text the grammar could not recover from.
type ParseError struct {
	Path string
	At   position.Point
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.At, e.Msg)
	}
	return fmt.Sprintf("%s:%s: %s", e.Path, e.At, e.Msg)
}

// Language returns the tree-sitter grammar used for Starlark.
func Language() *sitter.Language {
	return python.GetLanguage()
}

// parseTree parses src with a fresh parser. Parsers are not safe for
// concurrent use, so one is created per call.
func parseTree(ctx context.Context, src []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(Language())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}
	return tree, nil
}

// Parse parses src. Source containing syntax errors yields a *ParseError
// describing the first one; no File is returned in that case.
func Parse(ctx context.Context, path string, src []byte) (*File, error) {
	tree, err := parseTree(ctx, src)
	if err != nil {
		return nil, err
	}

	root := tree.RootNode()
	if root.HasError() {
		problems := collectProblems(root, 1)
		tree.Close()
		pe := &ParseError{Path: path, Msg: "syntax error"}
		if len(problems) > 0 {
			pe.At = problems[0].Start
			pe.Msg = problems[0].Message()
		}
		return nil, pe
	}

	return &File{Path: path, src: src, tree: tree}, nil
}

// Source returns the text the File was parsed from.
func (f *File) Source() []byte { return f.src }

// Root returns the module node.
func (f *File) Root() *sitter.Node { return f.tree.RootNode() }

// Close releases the tree-sitter tree. Cached files are never closed
// explicitly because readers may still hold them; go-tree-sitter frees
// unreferenced trees through a finalizer.
func (f *File) Close() { f.tree.Close() }

// ExpressionStatements returns the expression of every top-level expression
// statement, in source order. Statements holding more than one expression
// (a bare tuple such as "a, b") are skipped.
func (f *File) ExpressionStatements() []Expr {
	root := f.Root()
	var exprs []Expr
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt.Type() != "expression_statement" {
			continue
		}
		children := namedChildren(stmt)
		if len(children) != 1 {
			continue
		}
		exprs = append(exprs, Expr{node: children[0], src: f.src})
	}
	return exprs
}

// namedChildren returns n's named children, leaving out comments.
func namedChildren(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func pointOf(p sitter.Point) position.Point {
	return position.Point{Row: int(p.Row), Col: int(p.Column)}
}

// Calls returns every top-level expression statement that is a call.
func (f *File) Calls() []Call {
	var calls []Call
	for _, e := range f.ExpressionStatements() {
		if c, ok := e.AsCall(); ok {
			calls = append(calls, c)
		}
	}
	return calls
}
