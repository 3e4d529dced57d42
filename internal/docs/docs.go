// Package docs provides document trackers: the current text of every open
// document, and a read-through view of files on disk.
package docs

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.lsp.dev/uri"
)

// ErrNotOpen is returned when changing or closing a document that is not open.
var ErrNotOpen = errors.New("docs: document not open")

// Document is the tracked state of one open document.
type Document struct {
	URI     uri.URI
	Version int32
	Text    string
}

// Tracker holds the text of open documents. It is safe for concurrent use.
type Tracker struct {
	mu   sync.RWMutex
	docs map[uri.URI]*Document
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{docs: make(map[uri.URI]*Document)}
}

// Open starts tracking u with the given text, replacing any previous state.
func (t *Tracker) Open(u uri.URI, version int32, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.docs[u] = &Document{URI: u, Version: version, Text: text}
}

// Change replaces the full text of an open document. Changes with a version
// older than the tracked one are ignored.
func (t *Tracker) Change(u uri.URI, version int32, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	doc, ok := t.docs[u]
	if !ok {
		return fmt.Errorf("change %s: %w", u, ErrNotOpen)
	}
	if version < doc.Version {
		return nil
	}
	doc.Version = version
	doc.Text = text
	return nil
}

// Close stops tracking u.
func (t *Tracker) Close(u uri.URI) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.docs[u]; !ok {
		return fmt.Errorf("close %s: %w", u, ErrNotOpen)
	}
	delete(t.docs, u)
	return nil
}

// Contents returns the current text of u.
func (t *Tracker) Contents(u uri.URI) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	doc, ok := t.docs[u]
	if !ok {
		return "", false
	}
	return doc.Text, true
}

// Get returns a copy of the tracked state of u.
func (t *Tracker) Get(u uri.URI) (Document, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	doc, ok := t.docs[u]
	if !ok {
		return Document{}, false
	}
	return *doc, true
}

// URIs returns the URIs of every open document, in no particular order.
func (t *Tracker) URIs() []uri.URI {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]uri.URI, 0, len(t.docs))
	for u := range t.docs {
		out = append(out, u)
	}
	return out
}

// Disk serves file:// URIs from the filesystem.
type Disk struct{}

// Contents reads the file behind u. Non-file URIs and unreadable files report
// false.
func (Disk) Contents(u uri.URI) (string, bool) {
	if !strings.HasPrefix(string(u), "file://") {
		return "", false
	}
	data, err := os.ReadFile(u.Filename())
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Source is anything that can supply document text.
type Source interface {
	Contents(u uri.URI) (string, bool)
}

// Overlay consults each source in order and returns the first hit. An
// overlay of a Tracker over Disk lets open editor buffers shadow saved files.
type Overlay []Source

// Contents implements Source.
func (o Overlay) Contents(u uri.URI) (string, bool) {
	for _, s := range o {
		if text, ok := s.Contents(u); ok {
			return text, true
		}
	}
	return "", false
}
