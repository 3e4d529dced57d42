// Package links turns the srcs and deps labels of a build file into
// clickable document links.
package links

import (
	"log/slog"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/jward/buildlens/internal/label"
	"github.com/jward/buildlens/internal/position"
	"github.com/jward/buildlens/internal/syntax"
	"github.com/jward/buildlens/internal/targets"
)

// Tooltip is shown for every link.
const Tooltip = "Links to a local target."

// Link points a label string at the file it resolves to.
type Link struct {
	Range   position.Range
	Target  string // absolute path
	Label   string
	Tooltip string
}

// Protocol converts l to its LSP form.
func (l Link) Protocol() protocol.DocumentLink {
	return protocol.DocumentLink{
		Range:   l.Range.Protocol(),
		Target:  protocol.DocumentURI(uri.File(l.Target)),
		Tooltip: l.Tooltip,
	}
}

// Collect returns a link for every string label in the srcs and deps of f's
// targets that resolves inside the workspace. Everything else is skipped.
func Collect(f *syntax.File, rc label.ResolveContext, logger *slog.Logger) []Link {
	if logger == nil {
		logger = slog.Default()
	}
	var out []Link
	for _, d := range targets.Extract(f) {
		for _, attr := range d.Labels() {
			s, ok := attr.Expr.AsString()
			if !ok {
				continue
			}
			l, err := label.Parse(s.Value())
			if err != nil || l.HasWorkspace() {
				continue
			}
			path, err := label.Resolve(l, rc)
			if err != nil {
				logger.Debug("label has no link target", "label", s.Value(), "error", err)
				continue
			}
			out = append(out, Link{
				Range:   targets.RangeOf(attr.Expr),
				Target:  path,
				Label:   s.Value(),
				Tooltip: Tooltip,
			})
		}
	}
	return out
}
