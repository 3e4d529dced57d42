package syntax

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/buildlens/internal/position"
)

// Problem is one location where the grammar had to recover: either an ERROR
// node wrapping unparseable text, or a MISSING token it inserted.
type Problem struct {
	Start   position.Point
	End     position.Point
	Missing string // expected token type when the grammar inserted one
}

// Message is a short human-readable description of p.
func (p Problem) Message() string {
	if p.Missing != "" {
		return fmt.Sprintf("syntax error: missing %q", p.Missing)
	}
	return "syntax error"
}

// Problems parses src and returns every syntax problem in source order. Valid
// source returns an empty slice.
func Problems(ctx context.Context, src []byte) ([]Problem, error) {
	f, problems, err := ParseTolerant(ctx, "", src)
	if err != nil {
		return nil, err
	}
	f.Close()
	return problems, nil
}

// ParseTolerant parses src and returns the tree even when it contains syntax
// errors, together with every problem found. Statements swallowed by an ERROR
// node do not appear in ExpressionStatements.
func ParseTolerant(ctx context.Context, path string, src []byte) (*File, []Problem, error) {
	tree, err := parseTree(ctx, src)
	if err != nil {
		return nil, nil, err
	}
	f := &File{Path: path, src: src, tree: tree}
	root := tree.RootNode()
	if !root.HasError() {
		return f, nil, nil
	}
	return f, collectProblems(root, 0), nil
}

// collectProblems walks n depth-first. It does not descend into ERROR nodes.
// A limit of 0 means no limit.
func collectProblems(n *sitter.Node, limit int) []Problem {
	var out []Problem
	var walk func(n *sitter.Node) bool
	walk = func(n *sitter.Node) bool {
		if limit > 0 && len(out) >= limit {
			return false
		}
		switch {
		case n.IsMissing():
			out = append(out, Problem{Start: pointOf(n.StartPoint()), End: pointOf(n.EndPoint()), Missing: n.Type()})
			return true
		case n.Type() == "ERROR":
			out = append(out, Problem{Start: pointOf(n.StartPoint()), End: pointOf(n.EndPoint())})
			return true
		case !n.HasError():
			return true
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if !walk(n.Child(i)) {
				return false
			}
		}
		return true
	}
	walk(n)
	return out
}
