// Package diagnostics validates the labels and target declarations of a build
// file.
package diagnostics

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"go.lsp.dev/protocol"

	"github.com/jward/buildlens/internal/label"
	"github.com/jward/buildlens/internal/position"
	"github.com/jward/buildlens/internal/syntax"
	"github.com/jward/buildlens/internal/targets"
)

// Diagnostic codes.
const (
	CodeSyntaxError     = "syntax_error"
	CodeInvalidTarget   = "invalid_target"
	CodeDuplicateTarget = "duplicate_target"
)

// Source is reported as the origin of every diagnostic.
const Source = "buildlens"

// Severity of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
	SeverityInfo
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	}
	return "unknown"
}

// Diagnostic is one problem found in a file.
type Diagnostic struct {
	Range    position.Range
	Severity Severity
	Code     string
	Message  string
}

// Protocol converts d to its LSP form.
func (d Diagnostic) Protocol() protocol.Diagnostic {
	return protocol.Diagnostic{
		Range:    d.Range.Protocol(),
		Severity: protocol.DiagnosticSeverity(d.Severity),
		Code:     d.Code,
		Source:   Source,
		Message:  d.Message,
	}
}

// Check parses src and reports syntax errors, malformed or missing labels in
// srcs and deps, and targets declared more than once. Labels in external
// workspaces are not checked. An error is returned only when the parser
// itself fails.
func Check(ctx context.Context, path string, src []byte, rc label.ResolveContext) ([]Diagnostic, error) {
	f, problems, err := syntax.ParseTolerant(ctx, path, src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []Diagnostic
	for _, p := range problems {
		// The grammar does not say where an error ends; run to end of line.
		out = append(out, Diagnostic{
			Range:    position.Span(p.Start, position.Point{Row: p.Start.Row, Col: lineLen(src, p.Start.Row)}),
			Severity: SeverityError,
			Code:     CodeSyntaxError,
			Message:  p.Message(),
		})
	}

	decls := targets.Extract(f)
	declared := make(map[string]bool, len(decls))
	for _, d := range decls {
		name := d.Name.Value()
		if declared[name] {
			out = append(out, Diagnostic{
				Range:    targets.RangeOf(d.Name.Expr),
				Severity: SeverityError,
				Code:     CodeDuplicateTarget,
				Message:  fmt.Sprintf("Target '%s' is declared more than once.", name),
			})
		}
		declared[name] = true
	}

	for _, d := range decls {
		for _, attr := range d.Labels() {
			if diag, bad := checkLabel(attr.Expr, rc, declared); bad {
				out = append(out, diag)
			}
		}
	}
	return out, nil
}

func checkLabel(e syntax.Expr, rc label.ResolveContext, declared map[string]bool) (Diagnostic, bool) {
	invalid := func(msg string) (Diagnostic, bool) {
		return Diagnostic{
			Range:    targets.RangeOf(e),
			Severity: SeverityError,
			Code:     CodeInvalidTarget,
			Message:  msg,
		}, true
	}

	s, ok := e.AsString()
	if !ok {
		return invalid("A label must be a string.")
	}
	l, err := label.Parse(s.Value())
	if err != nil {
		return invalid("Invalid label syntax.")
	}
	if l.HasWorkspace() {
		return Diagnostic{}, false
	}
	if exists(l, rc, declared) {
		return Diagnostic{}, false
	}
	return invalid(fmt.Sprintf("Target '%s' does not exist.", s.Value()))
}

// exists reports whether l names something real. Labels relative to the
// current package must name a file or a target declared in this file; other
// labels only need to resolve.
func exists(l label.Label, rc label.ResolveContext, declared map[string]bool) bool {
	if l.IsLocal() || l.IsSourceFile() {
		if declared[l.TargetName()] {
			return true
		}
		_, err := label.ResolveFile(l, rc)
		return err == nil
	}
	_, err := label.Resolve(l, rc)
	return !errors.Is(err, label.ErrNotFound)
}

// lineLen returns the byte length of row in src, excluding the newline.
func lineLen(src []byte, row int) int {
	for i := 0; i < row; i++ {
		nl := bytes.IndexByte(src, '\n')
		if nl < 0 {
			return 0
		}
		src = src[nl+1:]
	}
	if nl := bytes.IndexByte(src, '\n'); nl >= 0 {
		return nl
	}
	return len(src)
}
