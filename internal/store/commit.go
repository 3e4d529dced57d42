package store

import (
	"database/sql"
	"fmt"
)

// CommitFile replaces everything stored for rec.File.Path with rec in a
// single transaction. Real IDs are assigned on insert and written back into
// rec.
//
// Insert order respects FK dependencies:
//  1. File (the old row is deleted first; its targets and labels cascade)
//  2. Targets (depend on file_id)
//  3. Labels (depend on target_id)
func (s *Store) CommitFile(rec *FileRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("commit file: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM files WHERE path = ?", rec.File.Path); err != nil {
		return fmt.Errorf("commit file: delete %q: %w", rec.File.Path, err)
	}

	fileID, err := insertFileTx(tx, &rec.File)
	if err != nil {
		return fmt.Errorf("commit file: file %q: %w", rec.File.Path, err)
	}
	rec.File.ID = fileID

	for i := range rec.Targets {
		tr := &rec.Targets[i]
		tr.Target.FileID = fileID
		targetID, err := insertTargetTx(tx, &tr.Target)
		if err != nil {
			return fmt.Errorf("commit file: target %q: %w", tr.Target.Name, err)
		}
		tr.Target.ID = targetID

		for j := range tr.Labels {
			l := &tr.Labels[j]
			l.TargetID = targetID
			labelID, err := insertLabelTx(tx, l)
			if err != nil {
				return fmt.Errorf("commit file: label %q: %w", l.Value, err)
			}
			l.ID = labelID
		}
	}

	return tx.Commit()
}

func insertFileTx(tx *sql.Tx, f *File) (int64, error) {
	res, err := tx.Exec(
		"INSERT INTO files (path, kind, package, hash, last_indexed) VALUES (?, ?, ?, ?, ?)",
		f.Path, f.Kind, f.Package, f.Hash, f.LastIndexed,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func insertTargetTx(tx *sql.Tx, t *Target) (int64, error) {
	res, err := tx.Exec(
		`INSERT INTO targets (file_id, name, kind, start_line, start_col, end_line, end_col)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.FileID, t.Name, t.Kind, t.StartLine, t.StartCol, t.EndLine, t.EndCol,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func insertLabelTx(tx *sql.Tx, l *TargetLabel) (int64, error) {
	res, err := tx.Exec(
		`INSERT INTO target_labels (target_id, attr, ordinal, value, canonical, start_line, start_col, end_line, end_col)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.TargetID, l.Attr, l.Ordinal, l.Value, l.Canonical,
		l.StartLine, l.StartCol, l.EndLine, l.EndCol,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
