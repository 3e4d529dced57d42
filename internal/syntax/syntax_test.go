package syntax

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/buildlens/internal/position"
)

func mustParse(t *testing.T, src string) *File {
	t.Helper()
	f, err := Parse(context.Background(), "BUILD", []byte(src))
	require.NoError(t, err)
	return f
}

func TestParse_ValidBuildFile(t *testing.T) {
	t.Parallel()
	f := mustParse(t, `load("@rules_cc//cc:defs.bzl", "cc_binary")

# A binary.
cc_binary(
    name = "hello",
    srcs = ["hello.cc"],
)
`)
	exprs := f.ExpressionStatements()
	require.Len(t, exprs, 2)
	assert.Equal(t, KindCall, exprs[0].Kind())
	assert.Equal(t, KindCall, exprs[1].Kind())
}

func TestParse_EmptySource(t *testing.T) {
	t.Parallel()
	f := mustParse(t, "")
	assert.Empty(t, f.ExpressionStatements())
}

func TestParse_SyntaxError(t *testing.T) {
	t.Parallel()
	_, err := Parse(context.Background(), "pkg/BUILD", []byte("cc_library(name = \"x\",\n"))
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "pkg/BUILD", pe.Path)
	assert.Contains(t, pe.Error(), "pkg/BUILD:")
}

func TestExpressionStatements_SkipsNonExpressions(t *testing.T) {
	t.Parallel()
	f := mustParse(t, `X = 1
def macro(name):
    native.genrule(name = name)
"docstring"
foo()
`)
	exprs := f.ExpressionStatements()
	// The grammar wraps assignments in expression statements.
	require.Len(t, exprs, 3)
	assert.Equal(t, KindOther, exprs[0].Kind())
	assert.Equal(t, KindString, exprs[1].Kind())
	assert.Equal(t, KindCall, exprs[2].Kind())
}

func TestCall_ArgumentsAndKeywords(t *testing.T) {
	t.Parallel()
	f := mustParse(t, `native.cc_test("pos", name = "t", size = "small", *extra)`)
	call, ok := f.ExpressionStatements()[0].AsCall()
	require.True(t, ok)

	assert.Equal(t, "native.cc_test", call.Callee())

	args := call.Arguments()
	require.Len(t, args, 4)
	assert.Equal(t, "", args[0].Name)
	assert.Equal(t, "name", args[1].Name)
	assert.Equal(t, "size", args[2].Name)
	assert.Equal(t, "", args[3].Name)

	kw := call.Keywords()
	require.Contains(t, kw, "name")
	s, ok := kw["name"].AsString()
	require.True(t, ok)
	assert.Equal(t, "t", s.Value())
	assert.NotContains(t, kw, "")
}

func TestAsList_SkipsComments(t *testing.T) {
	t.Parallel()
	f := mustParse(t, `x(deps = [
    ":a",  # first
    # standalone
    "//b:c",
    SOME_VAR,
])`)
	call, _ := f.ExpressionStatements()[0].AsCall()
	elems, ok := call.Keywords()["deps"].AsList()
	require.True(t, ok)
	require.Len(t, elems, 3)
	assert.Equal(t, KindString, elems[0].Kind())
	assert.Equal(t, KindString, elems[1].Kind())
	assert.Equal(t, KindIdentifier, elems[2].Kind())
	assert.Equal(t, "SOME_VAR", elems[2].Text())
}

func TestAsString_Positions(t *testing.T) {
	t.Parallel()
	f := mustParse(t, `f(name = "abc")`)
	call, _ := f.ExpressionStatements()[0].AsCall()
	s, ok := call.Keywords()["name"].AsString()
	require.True(t, ok)

	assert.Equal(t, "abc", s.Value())
	assert.Equal(t, `"abc"`, s.Text())
	assert.Equal(t, position.At(0, 9), s.Start())
	assert.Equal(t, position.At(0, 10), s.ValueStart())
	assert.Equal(t, position.At(0, 14), s.End())
}

func TestAsString_NotAString(t *testing.T) {
	t.Parallel()
	f := mustParse(t, `f(name = NAME, srcs = ["a"] + ["b"])`)
	call, _ := f.ExpressionStatements()[0].AsCall()
	kw := call.Keywords()

	_, ok := kw["name"].AsString()
	assert.False(t, ok)
	_, ok = kw["srcs"].AsList()
	assert.False(t, ok)
	_, ok = Expr{}.AsCall()
	assert.False(t, ok)
}

func TestSplitQuoted(t *testing.T) {
	t.Parallel()
	tests := []struct {
		text   string
		prefix int
		quote  int
		value  string
	}{
		{`"abc"`, 0, 1, "abc"},
		{`'abc'`, 0, 1, "abc"},
		{`""`, 0, 1, ""},
		{`r"a\b"`, 1, 1, `a\b`},
		{`"""doc"""`, 0, 3, "doc"},
		{`'''x'''`, 0, 3, "x"},
		{`""""""`, 0, 3, ""},
	}
	for _, tt := range tests {
		prefix, quote, value, ok := splitQuoted(tt.text)
		require.True(t, ok, tt.text)
		assert.Equal(t, tt.prefix, prefix, tt.text)
		assert.Equal(t, tt.quote, quote, tt.text)
		assert.Equal(t, tt.value, value, tt.text)
	}

	_, _, _, ok := splitQuoted("abc")
	assert.False(t, ok)
}

func TestProblems(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	problems, err := Problems(ctx, []byte("cc_library(name = \"ok\")\n"))
	require.NoError(t, err)
	assert.Empty(t, problems)

	problems, err = Problems(ctx, []byte("ok()\ncc_library(name = \"x\"\n"))
	require.NoError(t, err)
	require.NotEmpty(t, problems)
	assert.Equal(t, 1, problems[0].Start.Row)
	assert.Contains(t, problems[0].Message(), "syntax error")
}

func TestKindString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "string", KindString.String())
	assert.Equal(t, "other", KindOther.String())
}

func TestParseTolerant_KeepsValidStatements(t *testing.T) {
	t.Parallel()
	src := "good(name = \"a\")\nbad(name = \n"
	f, problems, err := ParseTolerant(context.Background(), "BUILD", []byte(src))
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.NotEmpty(t, problems)

	calls := f.Calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, "good", calls[0].Callee())
}

func TestExpr_Zero(t *testing.T) {
	t.Parallel()
	var e Expr
	assert.True(t, e.IsZero())
	assert.Equal(t, KindOther, e.Kind())
	assert.Empty(t, e.Text())
	assert.Equal(t, position.Point{}, e.Start())
	assert.Equal(t, position.Point{}, e.End())
	assert.Equal(t, position.Point{}, e.FirstLineEnd())
}

func TestExpr_FirstLineEnd(t *testing.T) {
	t.Parallel()
	f := mustParse(t, "f(srcs = [\n    \"a\",\n])\n")
	call, _ := f.ExpressionStatements()[0].AsCall()
	srcs := call.Keywords()["srcs"]

	assert.Equal(t, position.At(0, 9), srcs.Start())
	assert.Equal(t, position.At(0, 10), srcs.FirstLineEnd())
	assert.Equal(t, position.At(2, 1), srcs.End())

	name, _ := mustParse(t, `f(name = NAME)`).ExpressionStatements()[0].AsCall()
	ident := name.Keywords()["name"]
	assert.Equal(t, ident.End(), ident.FirstLineEnd())
}
