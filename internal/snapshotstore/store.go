// Package snapshotstore persists fetched page bodies to disk, content
// addressed by sha256 so re-fetching an unchanged page is a cheap no-op
// for the rest of the pipeline.
package snapshotstore

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// Store writes fetched bodies under baseDir/<sourceSlug>/<hash[:2]>/<hash>.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Hash returns the content address for body, independent of storage.
func Hash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// Write saves body under its content hash and returns the path it was
// written to along with the hash, so callers can skip the write entirely
// when GetLatestByURL in the snapshot repository already reports the same
// hash as the most recent fetch.
func (s *Store) Write(sourceSlug string, body []byte) (path string, hash string, err error) {
	hash = Hash(body)
	dir := filepath.Join(s.baseDir, sourceSlug, hash[:2])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("snapshotstore: mkdir %s: %w", dir, err)
	}
	path = filepath.Join(dir, hash)
	if _, err := os.Stat(path); err == nil {
		return path, hash, nil
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", "", fmt.Errorf("snapshotstore: write %s: %w", path, err)
	}
	return path, hash, nil
}

func (s *Store) Read(path string) ([]byte, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshotstore: read %s: %w", path, err)
	}
	return body, nil
}
