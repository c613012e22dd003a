package snapshotstore

import (
	"testing"
)

func TestStore_WriteIsIdempotentByHash(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	body := []byte("hello picks board")
	path1, hash1, err := s.Write("example-source", body)
	if err != nil {
		t.Fatalf("first Write: %v", err)
	}
	path2, hash2, err := s.Write("example-source", body)
	if err != nil {
		t.Fatalf("second Write: %v", err)
	}
	if path1 != path2 || hash1 != hash2 {
		t.Fatalf("expected identical path/hash for identical body, got (%s,%s) vs (%s,%s)", path1, hash1, path2, hash2)
	}

	got, err := s.Read(path1)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(body) {
		t.Fatalf("Read returned %q, want %q", got, body)
	}
}

func TestStore_DifferentBodiesDifferentHashes(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	_, hashA, err := s.Write("example-source", []byte("a"))
	if err != nil {
		t.Fatalf("Write a: %v", err)
	}
	_, hashB, err := s.Write("example-source", []byte("b"))
	if err != nil {
		t.Fatalf("Write b: %v", err)
	}
	if hashA == hashB {
		t.Fatal("expected different hashes for different bodies")
	}
}
