package buildlens

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jward/buildlens/internal/label"
	"github.com/jward/buildlens/internal/position"
	"github.com/jward/buildlens/internal/store"
	"github.com/jward/buildlens/internal/syntax"
	"github.com/jward/buildlens/internal/targets"
	"github.com/jward/buildlens/internal/workspace"
)

// extractorVersion identifies the shape of the indexed rows. Bump it when
// extraction changes so existing indexes are rebuilt.
const extractorVersion = "1"

// IndexResult counts what one indexing run did.
type IndexResult struct {
	Discovered int
	Indexed    int
	Unchanged  int
	Pruned     int
	Failed     int
}

// indexJob holds everything the parse phase needs for one file.
type indexJob struct {
	path string // workspace-relative, slash-separated
	src  []byte
	hash string
	pkg  string
	kind workspace.Kind

	rec *store.FileRecord
	err error
}

// IndexWorkspace discovers every build file under the root, indexes the ones
// that changed and prunes index entries of files that no longer exist.
func (e *Engine) IndexWorkspace(ctx context.Context) (IndexResult, error) {
	if e.store == nil {
		return IndexResult{}, ErrNoIndex
	}
	files, err := workspace.BuildFiles(e.root, workspace.WithIgnore(e.ignore...))
	if err != nil {
		return IndexResult{}, fmt.Errorf("buildlens: discover: %w", err)
	}

	if err := e.checkExtractorVersion(); err != nil {
		return IndexResult{}, err
	}

	res, indexErr := e.IndexFiles(ctx, files)
	res.Discovered = len(files)
	if err := ctx.Err(); err != nil {
		return res, err
	}

	pruned, err := e.store.PruneFiles(files)
	if err != nil {
		return res, fmt.Errorf("buildlens: %w", err)
	}
	res.Pruned = pruned
	if err := e.store.SetMetadata("extractor_version", extractorVersion); err != nil {
		return res, fmt.Errorf("buildlens: %w", err)
	}
	e.logger.Info("indexed workspace",
		"root", e.root, "files", res.Discovered, "indexed", res.Indexed,
		"unchanged", res.Unchanged, "pruned", res.Pruned, "failed", res.Failed)
	return res, indexErr
}

// checkExtractorVersion empties the index when it was built by a different
// extractor, forcing every file to be re-indexed.
func (e *Engine) checkExtractorVersion() error {
	stored, err := e.store.GetMetadata("extractor_version")
	if err != nil {
		return fmt.Errorf("buildlens: %w", err)
	}
	if stored == extractorVersion {
		return nil
	}
	if stored != "" {
		e.logger.Info("index built by another extractor version, rebuilding", "stored", stored, "current", extractorVersion)
	}
	if _, err := e.store.PruneFiles(nil); err != nil {
		return fmt.Errorf("buildlens: %w", err)
	}
	return nil
}

// IndexFiles indexes the given build files using a three-phase pipeline:
//
//	Phase A (serial):   read, hash and skip files whose content is unchanged.
//	Phase B (parallel): parse and extract targets, bounded by the worker limit.
//	Phase C (serial):   commit each file to SQLite in its own transaction.
//
// Paths may be absolute or relative to the workspace root. Errors on
// individual files are collected and processing continues.
func (e *Engine) IndexFiles(ctx context.Context, paths []string) (IndexResult, error) {
	var res IndexResult
	if e.store == nil {
		return res, ErrNoIndex
	}

	// ---- Phase A: Serial file preparation ----
	var (
		jobs []*indexJob
		errs []error
	)
	for _, path := range paths {
		job, skip, err := e.prepareFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("prepare %s: %w", path, err))
			continue
		}
		if skip {
			res.Unchanged++
			continue
		}
		jobs = append(jobs, job)
	}

	// ---- Phase B: Parallel extraction ----
	limit := e.workers
	if !e.useParallel {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			job.rec, job.err = e.extractFile(gctx, job)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	// ---- Phase C: Serial commit ----
	for _, job := range jobs {
		if job.err != nil {
			errs = append(errs, fmt.Errorf("extract %s: %w", job.path, job.err))
			continue
		}
		if err := e.store.CommitFile(job.rec); err != nil {
			errs = append(errs, fmt.Errorf("commit %s: %w", job.path, err))
			continue
		}
		res.Indexed++
	}

	res.Failed = len(errs)
	if len(errs) > 0 {
		for _, err := range errs {
			e.logger.Warn("index failed", "error", err)
		}
		return res, fmt.Errorf("buildlens: indexing had %d error(s): %w", len(errs), errs[0])
	}
	return res, nil
}

// prepareFile reads path and reports whether the index already holds its
// current content.
func (e *Engine) prepareFile(path string) (*indexJob, bool, error) {
	abs := e.abs(path)
	rel, err := filepath.Rel(e.root, abs)
	if err != nil {
		return nil, false, err
	}
	rel = filepath.ToSlash(rel)

	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, false, fmt.Errorf("read file: %w", err)
	}
	hash := store.ContentHash(src)
	unchanged, err := e.store.Unchanged(rel, hash)
	if err != nil {
		return nil, false, err
	}
	if unchanged {
		return nil, true, nil
	}

	pkg, err := workspace.PackageOf(e.root, abs)
	if err != nil {
		return nil, false, err
	}
	return &indexJob{path: rel, src: src, hash: hash, pkg: pkg, kind: workspace.KindOf(rel)}, false, nil
}

// extractFile parses one file and turns its declarations into a record.
// Files with syntax errors are indexed with the statements that did parse.
func (e *Engine) extractFile(ctx context.Context, job *indexJob) (*store.FileRecord, error) {
	f, problems, err := syntax.ParseTolerant(ctx, job.path, job.src)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if len(problems) > 0 {
		e.logger.Debug("indexing file with syntax errors", "path", job.path, "problems", len(problems))
	}

	rec := &store.FileRecord{File: store.File{
		Path:        job.path,
		Kind:        job.kind.String(),
		Package:     job.pkg,
		Hash:        job.hash,
		LastIndexed: time.Now(),
	}}
	for _, d := range targets.Extract(f) {
		r := position.Span(d.Call.Start(), d.Call.End())
		tr := store.TargetRecord{Target: store.Target{
			Name:      d.Name.Value(),
			Kind:      d.Kind,
			StartLine: r.Start.Row,
			StartCol:  r.Start.Col,
			EndLine:   r.End.Row,
			EndCol:    r.End.Col,
		}}
		for _, attr := range d.Labels() {
			s, ok := attr.Expr.AsString()
			if !ok {
				continue
			}
			lr := targets.RangeOf(attr.Expr)
			tr.Labels = append(tr.Labels, store.TargetLabel{
				Attr:      attr.Name,
				Ordinal:   attr.Ordinal,
				Value:     s.Value(),
				Canonical: canonicalLabel(s.Value(), job.pkg),
				StartLine: lr.Start.Row,
				StartCol:  lr.Start.Col,
				EndLine:   lr.End.Row,
				EndCol:    lr.End.Col,
			})
		}
		rec.Targets = append(rec.Targets, tr)
	}
	return rec, nil
}

// canonicalLabel returns the absolute form of value written in pkg, or "" when
// value is not a label.
func canonicalLabel(value, pkg string) string {
	l, err := label.Parse(value)
	if err != nil {
		return ""
	}
	return l.Canonical(pkg)
}
