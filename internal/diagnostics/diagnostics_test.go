package diagnostics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"github.com/jward/buildlens/internal/label"
	"github.com/jward/buildlens/internal/position"
)

func resolveCtx(files ...string) label.ResolveContext {
	set := make(map[string]bool, len(files))
	for _, f := range files {
		set[f] = true
	}
	return label.ResolveContext{
		WorkspaceRoot: "/ws",
		DeclaringFile: "/ws/app/BUILD",
		FileExists:    func(p string) bool { return set[p] },
	}
}

func check(t *testing.T, src string, rc label.ResolveContext) []Diagnostic {
	t.Helper()
	diags, err := Check(context.Background(), "/ws/app/BUILD", []byte(src), rc)
	require.NoError(t, err)
	return diags
}

func messages(diags []Diagnostic) []string {
	var out []string
	for _, d := range diags {
		out = append(out, d.Message)
	}
	return out
}

func TestCheck_CleanFile(t *testing.T) {
	t.Parallel()
	rc := resolveCtx("/ws/app/BUILD", "/ws/app/main.cc", "/ws/lib/BUILD.bazel")
	diags := check(t, `cc_binary(
    name = "app",
    srcs = ["main.cc"],
    deps = [":helper", "//lib:util", "@abseil//absl/strings"],
)

cc_library(name = "helper")
`, rc)
	assert.Empty(t, diags)
}

func TestCheck_LabelProblems(t *testing.T) {
	t.Parallel()
	rc := resolveCtx("/ws/app/BUILD")
	diags := check(t, `cc_binary(
    name = "app",
    srcs = ["missing.cc", DEP],
    deps = [":nope", "//no/such:pkg", "bad label!"],
)
`, rc)
	assert.Equal(t, []string{
		"Target 'missing.cc' does not exist.",
		"A label must be a string.",
		"Target ':nope' does not exist.",
		"Target '//no/such:pkg' does not exist.",
		"Invalid label syntax.",
	}, messages(diags))
	for _, d := range diags {
		assert.Equal(t, CodeInvalidTarget, d.Code)
		assert.Equal(t, SeverityError, d.Severity)
	}

	// The range excludes the quotes of "missing.cc".
	assert.Equal(t, position.Span(position.At(2, 13), position.At(2, 23)), diags[0].Range)
}

func TestCheck_SyntaxErrorRunsToEndOfLine(t *testing.T) {
	t.Parallel()
	src := "cc_library(name = \"ok\")\ncc_binary(name = = \"x\")\n"
	diags := check(t, src, resolveCtx())
	require.NotEmpty(t, diags)

	d := diags[0]
	assert.Equal(t, CodeSyntaxError, d.Code)
	assert.Equal(t, 1, d.Range.Start.Row)
	assert.Equal(t, position.At(1, len("cc_binary(name = = \"x\")")), d.Range.End)
}

func TestCheck_DuplicateTarget(t *testing.T) {
	t.Parallel()
	diags := check(t, "a(name = \"x\")\nb(name = \"y\")\nc(name = \"x\")\n", resolveCtx())
	require.Len(t, diags, 1)
	assert.Equal(t, CodeDuplicateTarget, diags[0].Code)
	assert.Equal(t, 2, diags[0].Range.Start.Row)
	assert.Contains(t, diags[0].Message, "'x'")
}

func TestCheck_LocalLabelNeedsFileNotBuildFile(t *testing.T) {
	t.Parallel()
	// app/BUILD exists, but that does not make :ghost real.
	rc := resolveCtx("/ws/app/BUILD", "/ws/app/data.txt")
	diags := check(t, `filegroup(name = "g", srcs = [":data.txt", ":ghost"])`, rc)
	assert.Equal(t, []string{"Target ':ghost' does not exist."}, messages(diags))
}

func TestDiagnostic_Protocol(t *testing.T) {
	t.Parallel()
	d := Diagnostic{
		Range:    position.Span(position.At(1, 2), position.At(1, 5)),
		Severity: SeverityWarning,
		Code:     CodeInvalidTarget,
		Message:  "m",
	}
	p := d.Protocol()
	assert.Equal(t, protocol.DiagnosticSeverityWarning, p.Severity)
	assert.Equal(t, uint32(1), p.Range.Start.Line)
	assert.Equal(t, uint32(5), p.Range.End.Character)
	assert.Equal(t, CodeInvalidTarget, p.Code)
	assert.Equal(t, Source, p.Source)
}

func TestLineLen(t *testing.T) {
	t.Parallel()
	src := []byte("abc\n\nhello")
	assert.Equal(t, 3, lineLen(src, 0))
	assert.Equal(t, 0, lineLen(src, 1))
	assert.Equal(t, 5, lineLen(src, 2))
	assert.Equal(t, 0, lineLen(src, 7))
}

func TestSeverityString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "hint", SeverityHint.String())
}
