package store

import (
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(log, filepath.Join(t.TempDir(), "snapshot"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutAndHas(t *testing.T) {
	s := newTestStore(t)

	if err := s.Put("abcde"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	ok, err := s.Has("abcde")
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if !ok {
		t.Fatal("expected abcde to be present")
	}

	ok, err = s.Has("zzzzz")
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if ok {
		t.Fatal("zzzzz should not be present")
	}
}

func TestPutBatchAndLoadAll(t *testing.T) {
	s := newTestStore(t)

	words := []string{"abcde", "fghij", "klmno"}
	if err := s.PutBatch(words); err != nil {
		t.Fatalf("PutBatch: %v", err)
	}

	got, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	sort.Strings(got)
	sort.Strings(words)

	if len(got) != len(words) {
		t.Fatalf("LoadAll returned %d words, want %d", len(got), len(words))
	}
	for i := range words {
		if got[i] != words[i] {
			t.Errorf("position %d: got %q want %q", i, got[i], words[i])
		}
	}
}
