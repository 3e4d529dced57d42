// Package wizard keeps the most recent successfully parsed syntax tree of
// every document the editor has shown us.
//
// Documents are re-parsed on every Sync. A parse that fails leaves the
// previous tree in place, so queries keep answering from the last good
// version while the user is mid-edit.
package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/patrickmn/go-cache"
	"go.lsp.dev/uri"

	"github.com/jward/buildlens/internal/position"
	"github.com/jward/buildlens/internal/syntax"
	"github.com/jward/buildlens/internal/targets"
)

// DocumentTracker supplies the current text of a document. ok is false when
// the document is unknown.
type DocumentTracker interface {
	Contents(u uri.URI) (text string, ok bool)
}

// Wizard is the parsed-tree cache. It is safe for concurrent use; callers
// must still deliver syncs for one document in order.
type Wizard struct {
	tracker DocumentTracker
	files   *cache.Cache
	logger  *slog.Logger
	parse   func(ctx context.Context, path string, src []byte) (*syntax.File, error)
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithLogger sets the logger used to report parse failures.
func WithLogger(l *slog.Logger) Option {
	return func(w *Wizard) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a Wizard reading document text from tracker.
func New(tracker DocumentTracker, opts ...Option) *Wizard {
	w := &Wizard{
		tracker: tracker,
		files:   cache.New(cache.NoExpiration, cache.NoExpiration),
		logger:  slog.Default(),
		parse:   syntax.Parse,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Tracker returns the document tracker the Wizard reads from.
func (w *Wizard) Tracker() DocumentTracker { return w.tracker }

// Sync re-reads and re-parses u. It returns the new tree, or false when the
// document is unknown or fails to parse; in both cases the cached tree, if
// any, is left untouched.
func (w *Wizard) Sync(ctx context.Context, u uri.URI) (*syntax.File, bool) {
	text, ok := w.tracker.Contents(u)
	if !ok {
		w.logger.Debug("sync of unknown document", "uri", string(u))
		return nil, false
	}

	f, err := w.safeParse(ctx, u, []byte(text))
	if err != nil {
		w.logger.Warn("parse failed", "uri", string(u), "error", err)
		return nil, false
	}
	w.files.Set(string(u), f, cache.NoExpiration)
	return f, true
}

// safeParse turns a panic inside the parser into an error.
func (w *Wizard) safeParse(ctx context.Context, u uri.URI, src []byte) (f *syntax.File, err error) {
	defer func() {
		if r := recover(); r != nil {
			f, err = nil, fmt.Errorf("parser panic: %v", r)
		}
	}()
	return w.parse(ctx, pathOf(u), src)
}

// Get returns the cached tree for u, syncing it first if it has never been
// parsed.
func (w *Wizard) Get(ctx context.Context, u uri.URI) (*syntax.File, bool) {
	if v, ok := w.files.Get(string(u)); ok {
		return v.(*syntax.File), true
	}
	return w.Sync(ctx, u)
}

// Contains reports whether a tree is cached for u.
func (w *Wizard) Contains(u uri.URI) bool {
	_, ok := w.files.Get(string(u))
	return ok
}

// Forget drops the cached tree for u.
func (w *Wizard) Forget(u uri.URI) {
	w.files.Delete(string(u))
}

// Clear drops every cached tree.
func (w *Wizard) Clear() {
	w.files.Flush()
}

// Len returns the number of cached trees.
func (w *Wizard) Len() int {
	return w.files.ItemCount()
}

// Targets returns the declarations of u, or nil when it cannot be parsed.
func (w *Wizard) Targets(ctx context.Context, u uri.URI) []targets.Declaration {
	f, ok := w.Get(ctx, u)
	if !ok {
		return nil
	}
	return targets.Extract(f)
}

// TargetExists reports whether u declares a target called name.
func (w *Wizard) TargetExists(ctx context.Context, u uri.URI, name string) bool {
	f, ok := w.Get(ctx, u)
	if !ok {
		return false
	}
	_, found := targets.Named(f, name)
	return found
}

// AnyCallContains reports whether p lies inside any target declaration of u.
func (w *Wizard) AnyCallContains(ctx context.Context, u uri.URI, p position.Point) bool {
	f, ok := w.Get(ctx, u)
	if !ok {
		return false
	}
	return targets.AnyContains(f, p)
}

// pathOf returns the filesystem path of a file URI, or the URI itself for
// other schemes.
func pathOf(u uri.URI) string {
	if strings.HasPrefix(string(u), "file://") {
		return u.Filename()
	}
	return string(u)
}
