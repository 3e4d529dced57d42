package store

import (
	"crypto/sha256"
	"fmt"
)

// ContentHash returns the hex SHA-256 of a file's contents. It is the change
// detection key: a file whose stored hash matches is not re-indexed.
func ContentHash(src []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(src))
}

// Unchanged reports whether the file at path is indexed with the given hash.
func (s *Store) Unchanged(path, hash string) (bool, error) {
	f, err := s.FileByPath(path)
	if err != nil {
		return false, err
	}
	return f != nil && f.Hash == hash, nil
}
