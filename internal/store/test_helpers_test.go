package store

import (
	"path/filepath"
	"testing"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestStatement creates a statement with the given id and seq.
func createTestStatement(id, name, statement string, seq int64) Statement {
	return Statement{
		ID:          id,
		Name:        name,
		Statement:   statement,
		RecordedSeq: seq,
	}
}
