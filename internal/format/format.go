// Package format rewrites Starlark files into canonical buildifier layout.
package format

import (
	"bytes"
	"fmt"

	"github.com/bazelbuild/buildtools/build"
	"go.lsp.dev/protocol"

	"github.com/jward/buildlens/internal/workspace"
)

// parserFor returns the buildtools parser for the dialect of path. Files of
// unknown kind are formatted as .bzl, which applies the fewest rewrites.
func parserFor(path string) func(string, []byte) (*build.File, error) {
	switch workspace.KindOf(path) {
	case workspace.Build:
		return build.ParseBuild
	case workspace.Workspace:
		return build.ParseWorkspace
	default:
		return build.ParseBzl
	}
}

// Format returns src in canonical form.
func Format(path string, src []byte) ([]byte, error) {
	f, err := parserFor(path)(path, src)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", path, err)
	}
	return build.Format(f), nil
}

// Changed reports whether formatting would alter src.
func Changed(path string, src []byte) (bool, error) {
	out, err := Format(path, src)
	if err != nil {
		return false, err
	}
	return !bytes.Equal(out, src), nil
}

// Edits returns the LSP edits that format src: none when it is already
// canonical, otherwise one edit replacing the whole document.
func Edits(path string, src []byte) ([]protocol.TextEdit, error) {
	out, err := Format(path, src)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(out, src) {
		return nil, nil
	}
	lines := bytes.Count(src, []byte("\n"))
	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: uint32(lines + 1), Character: 0},
		},
		NewText: string(out),
	}}, nil
}
