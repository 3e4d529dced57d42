// Package buildlens answers editor questions about Bazel build files: which
// targets a BUILD file declares, where a label points, which labels are
// broken, and whether the cursor sits inside a target declaration.
//
// # Pipeline
//
// buildlens works at two levels:
//
//  1. Session: an [Engine] tracks open documents, re-parses them with
//     tree-sitter on every change and keeps the last good tree of each, so
//     queries keep working while a file is being edited.
//
//  2. Index: [Engine.IndexWorkspace] walks the workspace, parses every
//     build file that changed since the last run and stores its targets and
//     labels in SQLite for cross-file queries.
//
// # Usage
//
//	e, err := buildlens.New("/path/to/workspace", buildlens.WithIndex(".buildlens/index.db"))
//	if err != nil { ... }
//	defer e.Close()
//
//	ctx := context.Background()
//	u := e.URI("foo/BUILD")
//	e.Sync(ctx, u)
//	decls := e.Targets(ctx, u)
//	path, err := e.Resolve("//bar:baz", "foo/BUILD")
//
//	res, err := e.IndexWorkspace(ctx)
//	deps, err := e.Index().Dependents("//bar:baz")
//
// # Session queries
//
//   - [Engine.Targets]: declarations in a document.
//   - [Engine.Resolve]: label to file path.
//   - [Engine.Diagnostics]: syntax errors, unresolvable and duplicate targets.
//   - [Engine.Links]: clickable srcs and deps labels.
//   - [Engine.CompletionAllowed]: whether a position is inside a target call.
//   - [Engine.FormatEdits]: buildifier formatting as text edits.
//
// # Index queries
//
// The [Index] returned by [Engine.Index] looks up targets by file, by name
// and by label, lists a target's labels and finds dependents of a label.
// Re-indexing is incremental: files whose SHA-256 content hash is unchanged
// are skipped and deleted files are pruned.
package buildlens
