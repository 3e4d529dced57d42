package store

import (
	"database/sql"
	"fmt"
)

// --- File operations ---

func (s *Store) InsertFile(f *File) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO files (path, kind, package, hash, last_indexed) VALUES (?, ?, ?, ?, ?)",
		f.Path, f.Kind, f.Package, f.Hash, f.LastIndexed,
	)
	if err != nil {
		return 0, fmt.Errorf("insert file: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	f.ID = id
	return id, nil
}

// FileByPath returns the file at path, or nil when it is not indexed.
func (s *Store) FileByPath(path string) (*File, error) {
	f := &File{}
	err := s.db.QueryRow(
		"SELECT id, path, kind, package, hash, last_indexed FROM files WHERE path = ?", path,
	).Scan(&f.ID, &f.Path, &f.Kind, &f.Package, &f.Hash, &f.LastIndexed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by path: %w", err)
	}
	return f, nil
}

// Files returns every indexed file ordered by path.
func (s *Store) Files() ([]*File, error) {
	rows, err := s.db.Query(
		"SELECT id, path, kind, package, hash, last_indexed FROM files ORDER BY path",
	)
	if err != nil {
		return nil, fmt.Errorf("files: %w", err)
	}
	defer rows.Close()
	var files []*File
	for rows.Next() {
		f := &File{}
		if err := rows.Scan(&f.ID, &f.Path, &f.Kind, &f.Package, &f.Hash, &f.LastIndexed); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// DeleteFile removes a file and, through cascading foreign keys, its targets
// and labels. Deleting an unknown path is not an error.
func (s *Store) DeleteFile(path string) error {
	if _, err := s.db.Exec("DELETE FROM files WHERE path = ?", path); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// PruneFiles deletes every file whose path is not in keep and returns the
// number removed. The keep list is staged in a temporary table, so its size
// is not bounded by SQLite's limit on bound parameters.
func (s *Store) PruneFiles(keep []string) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("prune files: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("CREATE TEMP TABLE IF NOT EXISTS prune_keep (path TEXT PRIMARY KEY)"); err != nil {
		return 0, fmt.Errorf("prune files: stage: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM prune_keep"); err != nil {
		return 0, fmt.Errorf("prune files: stage: %w", err)
	}
	for start := 0; start < len(keep); start += pruneChunk {
		chunk := keep[start:min(start+pruneChunk, len(keep))]
		q := "INSERT OR IGNORE INTO prune_keep (path) VALUES " + valuesList(len(chunk))
		if _, err := tx.Exec(q, stringsToArgs(chunk)...); err != nil {
			return 0, fmt.Errorf("prune files: stage: %w", err)
		}
	}

	res, err := tx.Exec("DELETE FROM files WHERE path NOT IN (SELECT path FROM prune_keep)")
	if err != nil {
		return 0, fmt.Errorf("prune files: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune files: %w", err)
	}
	if _, err := tx.Exec("DROP TABLE prune_keep"); err != nil {
		return 0, fmt.Errorf("prune files: drop stage: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("prune files: commit: %w", err)
	}
	return int(n), nil
}

// --- Target operations ---

const targetRefColumns = `t.id, t.file_id, t.name, t.kind, t.start_line, t.start_col, t.end_line, t.end_col, f.path, f.package`

func scanTargetRefs(rows *sql.Rows) ([]*TargetRef, error) {
	defer rows.Close()
	var out []*TargetRef
	for rows.Next() {
		r := &TargetRef{}
		if err := rows.Scan(
			&r.ID, &r.FileID, &r.Name, &r.Kind,
			&r.StartLine, &r.StartCol, &r.EndLine, &r.EndCol,
			&r.Path, &r.Package,
		); err != nil {
			return nil, fmt.Errorf("scan target: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// TargetsByFile returns the targets declared in the file at path, in source
// order.
func (s *Store) TargetsByFile(path string) ([]*TargetRef, error) {
	rows, err := s.db.Query(
		`SELECT `+targetRefColumns+`
		 FROM targets t JOIN files f ON f.id = t.file_id
		 WHERE f.path = ?
		 ORDER BY t.start_line, t.start_col`, path,
	)
	if err != nil {
		return nil, fmt.Errorf("targets by file: %w", err)
	}
	return scanTargetRefs(rows)
}

// TargetsByName returns every target called name across the workspace.
func (s *Store) TargetsByName(name string) ([]*TargetRef, error) {
	rows, err := s.db.Query(
		`SELECT `+targetRefColumns+`
		 FROM targets t JOIN files f ON f.id = t.file_id
		 WHERE t.name = ?
		 ORDER BY f.path, t.start_line`, name,
	)
	if err != nil {
		return nil, fmt.Errorf("targets by name: %w", err)
	}
	return scanTargetRefs(rows)
}

// TargetByLabel returns the target declared as name in package pkg, or nil.
func (s *Store) TargetByLabel(pkg, name string) (*TargetRef, error) {
	rows, err := s.db.Query(
		`SELECT `+targetRefColumns+`
		 FROM targets t JOIN files f ON f.id = t.file_id
		 WHERE f.package = ? AND t.name = ? AND f.kind = 'build'
		 ORDER BY f.path LIMIT 1`, pkg, name,
	)
	if err != nil {
		return nil, fmt.Errorf("target by label: %w", err)
	}
	refs, err := scanTargetRefs(rows)
	if err != nil || len(refs) == 0 {
		return nil, err
	}
	return refs[0], nil
}

// LabelsOfTarget returns the srcs and deps elements of a target, srcs first.
func (s *Store) LabelsOfTarget(targetID int64) ([]*TargetLabel, error) {
	rows, err := s.db.Query(
		`SELECT id, target_id, attr, ordinal, value, canonical, start_line, start_col, end_line, end_col
		 FROM target_labels WHERE target_id = ?
		 ORDER BY CASE attr WHEN 'srcs' THEN 0 ELSE 1 END, ordinal`, targetID,
	)
	if err != nil {
		return nil, fmt.Errorf("labels of target: %w", err)
	}
	defer rows.Close()
	var out []*TargetLabel
	for rows.Next() {
		l := &TargetLabel{}
		if err := rows.Scan(
			&l.ID, &l.TargetID, &l.Attr, &l.Ordinal, &l.Value, &l.Canonical,
			&l.StartLine, &l.StartCol, &l.EndLine, &l.EndCol,
		); err != nil {
			return nil, fmt.Errorf("scan label: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Dependents returns the targets whose deps contain the canonical label.
func (s *Store) Dependents(canonical string) ([]*TargetRef, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT `+targetRefColumns+`
		 FROM target_labels l
		 JOIN targets t ON t.id = l.target_id
		 JOIN files f ON f.id = t.file_id
		 WHERE l.attr = 'deps' AND l.canonical = ?
		 ORDER BY f.path, t.start_line`, canonical,
	)
	if err != nil {
		return nil, fmt.Errorf("dependents: %w", err)
	}
	return scanTargetRefs(rows)
}

// Stats counts the rows of each table.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	for _, q := range []struct {
		table string
		dst   *int
	}{
		{"files", &st.Files},
		{"targets", &st.Targets},
		{"target_labels", &st.Labels},
	} {
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + q.table).Scan(q.dst); err != nil {
			return Stats{}, fmt.Errorf("stats %s: %w", q.table, err)
		}
	}
	return st, nil
}
