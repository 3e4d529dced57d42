package links

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/buildlens/internal/label"
	"github.com/jward/buildlens/internal/position"
	"github.com/jward/buildlens/internal/syntax"
)

func TestCollect(t *testing.T) {
	t.Parallel()
	files := map[string]bool{
		"/ws/app/BUILD":   true,
		"/ws/app/main.cc": true,
		"/ws/lib/BUILD":   true,
	}
	rc := label.ResolveContext{
		WorkspaceRoot: "/ws",
		DeclaringFile: "/ws/app/BUILD",
		FileExists:    func(p string) bool { return files[p] },
	}
	f, err := syntax.Parse(context.Background(), "/ws/app/BUILD", []byte(`cc_binary(
    name = "app",
    srcs = ["main.cc", GENERATED],
    deps = ["//lib:util", "@ext//x:y", "//gone:thing", "not a label"],
)
`))
	require.NoError(t, err)

	got := Collect(f, rc, nil)
	require.Len(t, got, 2)

	assert.Equal(t, Link{
		Range:   position.Span(position.At(2, 13), position.At(2, 20)),
		Target:  "/ws/app/main.cc",
		Label:   "main.cc",
		Tooltip: Tooltip,
	}, got[0])
	assert.Equal(t, "/ws/lib/BUILD", got[1].Target)
	assert.Equal(t, "//lib:util", got[1].Label)
}

func TestCollect_SkipsLabelsOutsideWorkspace(t *testing.T) {
	t.Parallel()
	files := map[string]bool{
		"/ws/app/BUILD": true,
		"/etc/passwd":   true,
		"/etc/hosts":    true,
	}
	rc := label.ResolveContext{
		WorkspaceRoot: "/ws",
		DeclaringFile: "/ws/app/BUILD",
		FileExists:    func(p string) bool { return files[p] },
	}
	f, err := syntax.Parse(context.Background(), "/ws/app/BUILD", []byte(`filegroup(
    name = "app",
    srcs = [":../../etc/passwd", "//:../../../etc/hosts"],
)
`))
	require.NoError(t, err)

	assert.Empty(t, Collect(f, rc, nil))
}

func TestLink_Protocol(t *testing.T) {
	t.Parallel()
	l := Link{
		Range:   position.Span(position.At(0, 1), position.At(0, 4)),
		Target:  "/ws/lib/BUILD",
		Tooltip: Tooltip,
	}
	p := l.Protocol()
	assert.Equal(t, "file:///ws/lib/BUILD", string(p.Target))
	assert.Equal(t, Tooltip, p.Tooltip)
	assert.Equal(t, uint32(4), p.Range.End.Character)
}
