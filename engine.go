package buildlens

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/jward/buildlens/internal/config"
	"github.com/jward/buildlens/internal/diagnostics"
	"github.com/jward/buildlens/internal/docs"
	"github.com/jward/buildlens/internal/format"
	"github.com/jward/buildlens/internal/label"
	"github.com/jward/buildlens/internal/links"
	"github.com/jward/buildlens/internal/position"
	"github.com/jward/buildlens/internal/store"
	"github.com/jward/buildlens/internal/syntax"
	"github.com/jward/buildlens/internal/wizard"
)

var (
	// ErrUnknownDocument is returned when neither the editor nor the disk
	// can supply a document's text.
	ErrUnknownDocument = errors.New("buildlens: unknown document")

	// ErrNoIndex is returned by index operations on an Engine created
	// without WithIndex or WithStore.
	ErrNoIndex = errors.New("buildlens: no index configured")
)

// Engine is one analysis session over a workspace: the open documents, their
// parsed trees, the resolution context and, optionally, the target index.
type Engine struct {
	root    string
	docs    *docs.Tracker
	source  docs.Source
	wizard  *wizard.Wizard
	exists  func(path string) bool
	logger  *slog.Logger
	store   *store.Store
	dbPath  string
	ignore  []string
	workers int

	// useParallel enables the parallel parse phase of indexing.
	useParallel bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger shared by the Engine and its components.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSource replaces the default document source (open documents, then
// disk).
func WithSource(s docs.Source) Option {
	return func(e *Engine) {
		e.source = s
	}
}

// WithFileExists replaces the file-existence check used by label resolution.
func WithFileExists(fn func(path string) bool) Option {
	return func(e *Engine) {
		e.exists = fn
	}
}

// WithIndex opens (creating if needed) the SQLite target index at dbPath.
// Relative paths are taken relative to the workspace root.
func WithIndex(dbPath string) Option {
	return func(e *Engine) {
		e.dbPath = dbPath
	}
}

// WithStore uses an already opened and migrated Store as the target index.
// The Engine takes ownership and closes it on Close.
func WithStore(s *store.Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithIgnore adds gitignore-style patterns excluded from workspace discovery.
func WithIgnore(patterns ...string) Option {
	return func(e *Engine) {
		e.ignore = append(e.ignore, patterns...)
	}
}

// WithWorkers bounds the number of files parsed concurrently during
// indexing. Values below 1 mean runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithParallel controls parallel parsing during indexing. When false, files
// are parsed one at a time. Default true.
func WithParallel(parallel bool) Option {
	return func(e *Engine) {
		e.useParallel = parallel
	}
}

// WithConfig applies the index, discovery and logging settings of cfg. Later
// options override it.
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) {
		if cfg == nil {
			return
		}
		e.dbPath = cfg.Index.DB
		e.workers = cfg.Index.Workers
		e.ignore = append(e.ignore, cfg.Discovery.Ignore...)
	}
}

// New creates an Engine for the workspace rooted at root.
func New(root string, opts ...Option) (*Engine, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("buildlens: workspace root: %w", err)
	}

	e := &Engine{
		root:        abs,
		docs:        docs.NewTracker(),
		logger:      slog.Default(),
		useParallel: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.source == nil {
		e.source = docs.Overlay{e.docs, docs.Disk{}}
	}
	if e.exists == nil {
		e.exists = label.OSFileExists
	}
	if e.workers < 1 {
		e.workers = runtime.NumCPU()
	}
	e.wizard = wizard.New(e.source, wizard.WithLogger(e.logger))

	if e.store == nil && e.dbPath != "" {
		path := e.dbPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(e.root, path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("buildlens: create index dir: %w", err)
		}
		s, err := store.NewStore(path)
		if err != nil {
			return nil, fmt.Errorf("buildlens: create store: %w", err)
		}
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, fmt.Errorf("buildlens: migrate: %w", err)
		}
		e.store = s
	}
	return e, nil
}

// Close releases the Engine's index, if any.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Root returns the absolute workspace root.
func (e *Engine) Root() string { return e.root }

// Documents returns the tracker of open documents.
func (e *Engine) Documents() *docs.Tracker { return e.docs }

// URI returns the file URI of path. Relative paths are taken relative to the
// workspace root.
func (e *Engine) URI(path string) uri.URI {
	return uri.File(e.abs(path))
}

func (e *Engine) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(e.root, filepath.FromSlash(path))
}

func (e *Engine) resolveContext(declaringFile string) label.ResolveContext {
	return label.ResolveContext{
		WorkspaceRoot: e.root,
		DeclaringFile: e.abs(declaringFile),
		FileExists:    e.exists,
	}
}

// --- Documents ---

// OpenDocument records an editor-opened document and parses it.
func (e *Engine) OpenDocument(ctx context.Context, u uri.URI, version int32, text string) {
	e.docs.Open(u, version, text)
	e.wizard.Sync(ctx, u)
}

// ChangeDocument replaces the text of an open document and re-parses it.
// A parse failure keeps the previous tree.
func (e *Engine) ChangeDocument(ctx context.Context, u uri.URI, version int32, text string) error {
	if err := e.docs.Change(u, version, text); err != nil {
		return fmt.Errorf("buildlens: change: %w", err)
	}
	e.wizard.Sync(ctx, u)
	return nil
}

// CloseDocument forgets an open document and its tree.
func (e *Engine) CloseDocument(u uri.URI) error {
	e.wizard.Forget(u)
	if err := e.docs.Close(u); err != nil {
		return fmt.Errorf("buildlens: close: %w", err)
	}
	return nil
}

// Sync re-parses u from its current text.
func (e *Engine) Sync(ctx context.Context, u uri.URI) (*syntax.File, bool) {
	return e.wizard.Sync(ctx, u)
}

// Get returns the cached tree of u, parsing it on first use.
func (e *Engine) Get(ctx context.Context, u uri.URI) (*syntax.File, bool) {
	return e.wizard.Get(ctx, u)
}

// Clear drops every cached tree.
func (e *Engine) Clear() {
	e.wizard.Clear()
}

// --- Session queries ---

// Targets returns the declarations of u in source order.
func (e *Engine) Targets(ctx context.Context, u uri.URI) []Declaration {
	return e.wizard.Targets(ctx, u)
}

// Resolve maps value, a label written in declaringFile, to the file it
// denotes.
func (e *Engine) Resolve(value, declaringFile string) (string, error) {
	l, err := label.Parse(value)
	if err != nil {
		return "", err
	}
	return label.Resolve(l, e.resolveContext(declaringFile))
}

// Diagnostics checks the current text of u.
func (e *Engine) Diagnostics(ctx context.Context, u uri.URI) ([]Diagnostic, error) {
	text, ok := e.source.Contents(u)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, u)
	}
	path := pathOf(u)
	ds, err := diagnostics.Check(ctx, path, []byte(text), e.resolveContext(path))
	if err != nil {
		return nil, fmt.Errorf("buildlens: diagnostics: %w", err)
	}
	return ds, nil
}

// Links returns the document links of u's srcs and deps labels.
func (e *Engine) Links(ctx context.Context, u uri.URI) ([]Link, error) {
	f, ok := e.wizard.Get(ctx, u)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, u)
	}
	return links.Collect(f, e.resolveContext(pathOf(u)), e.logger), nil
}

// CompletionAllowed reports whether p lies inside a target declaration of u,
// where label completion makes sense.
func (e *Engine) CompletionAllowed(ctx context.Context, u uri.URI, p position.Point) bool {
	return e.wizard.AnyCallContains(ctx, u, p)
}

// FormatEdits returns the edits that bring u into canonical buildifier
// layout; none when it already is.
func (e *Engine) FormatEdits(u uri.URI) ([]protocol.TextEdit, error) {
	text, ok := e.source.Contents(u)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, u)
	}
	return format.Edits(pathOf(u), []byte(text))
}

// Index returns the query API over the target index, or nil when the Engine
// has none.
func (e *Engine) Index() *Index {
	if e.store == nil {
		return nil
	}
	return &Index{store: e.store}
}

// Store returns the underlying Store, or nil.
func (e *Engine) Store() *Store {
	return e.store
}

func pathOf(u uri.URI) string {
	if strings.HasPrefix(string(u), "file://") {
		return u.Filename()
	}
	return string(u)
}
