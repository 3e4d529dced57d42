package label

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Parse
// =============================================================================

func TestParse_OnlyWorkspace(t *testing.T) {
	t.Parallel()
	l, err := Parse("@workspace")
	require.NoError(t, err)

	assert.True(t, l.HasWorkspace())
	assert.Equal(t, "workspace", l.Workspace())
	assert.False(t, l.HasRoot())
	assert.False(t, l.HasPkg())
	assert.False(t, l.HasName())
	assert.False(t, l.IsLocal())
	assert.False(t, l.IsSourceFile())
}

func TestParse_AbsoluteWithoutWorkspace(t *testing.T) {
	t.Parallel()
	l, err := Parse("//path/to:target")
	require.NoError(t, err)

	assert.False(t, l.HasWorkspace())
	assert.True(t, l.HasRoot())
	assert.Equal(t, "path/to", l.Pkg())
	assert.Equal(t, "target", l.Name())
	assert.False(t, l.IsLocal())
}

func TestParse_LocalTarget(t *testing.T) {
	t.Parallel()
	l, err := Parse(":something")
	require.NoError(t, err)

	assert.True(t, l.IsLocal())
	assert.False(t, l.HasPkg())
	assert.False(t, l.IsSourceFile())
	assert.Equal(t, "something", l.Name())
}

func TestParse_RootPackageReference(t *testing.T) {
	t.Parallel()
	l, err := Parse("@repo//:something")
	require.NoError(t, err)

	assert.True(t, l.HasWorkspace())
	assert.True(t, l.HasRoot())
	assert.True(t, l.HasPkg())
	assert.Equal(t, "", l.Pkg())
	assert.True(t, l.HasName())
	assert.Equal(t, "something", l.Name())
	assert.False(t, l.IsLocal())
}

func TestParse_SourceFileWithExtension(t *testing.T) {
	t.Parallel()
	l, err := Parse("hello_world.cc")
	require.NoError(t, err)

	assert.True(t, l.IsSourceFile())
	assert.False(t, l.IsLocal())
	assert.Equal(t, "hello_world.cc", l.Pkg())
	assert.False(t, l.HasName())
	assert.False(t, l.HasWorkspace())
}

func TestParse_SourceFileWithoutExtension(t *testing.T) {
	t.Parallel()
	l, err := Parse("hello")
	require.NoError(t, err)

	assert.True(t, l.IsSourceFile())
	assert.Equal(t, "hello", l.Pkg())
}

func TestParse_SourceFileFromAbsoluteReference(t *testing.T) {
	t.Parallel()
	l, err := Parse("@repo//path/to:my/src/file.cc")
	require.NoError(t, err)

	assert.Equal(t, "repo", l.Workspace())
	assert.Equal(t, "path/to", l.Pkg())
	assert.Equal(t, "my/src/file.cc", l.Name())
}

func TestParse_RelativePackageWithName(t *testing.T) {
	t.Parallel()
	l, err := Parse("sub/dir:lib")
	require.NoError(t, err)

	assert.False(t, l.HasRoot())
	assert.Equal(t, "sub/dir", l.Pkg())
	assert.Equal(t, "lib", l.Name())
	assert.False(t, l.IsLocal())
	assert.False(t, l.IsSourceFile())
}

func TestParse_RootOnly(t *testing.T) {
	t.Parallel()
	l, err := Parse("//")
	require.NoError(t, err)

	assert.True(t, l.HasRoot())
	assert.True(t, l.HasPkg())
	assert.Equal(t, "", l.Pkg())
	assert.Equal(t, "//", l.Value())
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		value string
	}{
		{"empty", ""},
		{"trailing slash before colon", "//path/to/:invalid"},
		{"bare file with separator", "path/to/file.cc"},
		{"empty name after colon", "//pkg:"},
		{"root with empty name", "//:"},
		{"lone colon", ":"},
		{"lone at sign", "@"},
		{"single slash after workspace", "@repo/pkg"},
		{"triple slash", "///pkg"},
		{"double slash inside package", "//a//b:c"},
		{"space", "//pkg:my target"},
		{"second colon", "//pkg:a:b"},
		{"trailing slash in name", ":dir/"},
		{"illegal character", "//pkg:na$me"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tt.value)
			require.Error(t, err)
			var syn *SyntaxError
			require.True(t, errors.As(err, &syn), "want *SyntaxError, got %T", err)
			assert.Equal(t, tt.value, syn.Value)
		})
	}
}

func TestParse_ErrorMessages(t *testing.T) {
	t.Parallel()
	_, err := Parse("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a label may not be empty")

	_, err = Parse("dir/file.cc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "may not contain a path separator")
}

func TestValue_RoundTrip(t *testing.T) {
	t.Parallel()
	values := []string{
		"@repo//path/to:my/src/file.cc",
		"@repo//:something",
		"@repo//pkg",
		"@repo:name",
		"@repo",
		"//path/to:target",
		"//path/to",
		"//:root_target",
		"//",
		":local",
		":nested/file.txt",
		"file.cc",
		"sub/dir:lib",
		"a-b_c.d",
	}
	for _, v := range values {
		l, err := Parse(v)
		require.NoError(t, err, v)
		assert.Equal(t, v, l.Value())
		assert.Equal(t, v, l.String())

		again, err := Parse(l.Value())
		require.NoError(t, err)
		assert.Equal(t, l, again)
	}
}

func TestMustParse(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "x", MustParse(":x").Name())
	assert.Panics(t, func() { MustParse("//bad/:x") })
}

func TestInPackage(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "//foo/bar:baz", MustParse(":baz").InPackage("foo/bar").Value())
	assert.Equal(t, "//foo:a.cc", MustParse("a.cc").InPackage("foo").Value())
	assert.Equal(t, "//:x", MustParse(":x").InPackage("").Value())
	assert.Equal(t, "//other:y", MustParse("//other:y").InPackage("foo").Value())
	assert.Equal(t, "@ext//p:q", MustParse("@ext//p:q").InPackage("foo").Value())
}

func TestTargetName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "baz", MustParse("//foo:baz").TargetName())
	assert.Equal(t, "bar", MustParse("//foo/bar").TargetName())
	assert.Equal(t, "file.cc", MustParse("file.cc").TargetName())
	assert.Equal(t, "maven", MustParse("@maven").TargetName())
}

func TestCanonical(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, pkg, want string
	}{
		{":a", "foo", "//foo:a"},
		{"a.cc", "foo", "//foo:a.cc"},
		{"//foo/bar", "x", "//foo/bar:bar"},
		{"//foo:baz", "x", "//foo:baz"},
		{"@ws//foo", "x", "@ws//foo:foo"},
		{"@ws", "x", "@ws"},
		{"//", "x", "//"},
		{":a", "", "//:a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MustParse(tt.in).Canonical(tt.pkg), tt.in)
	}
}
