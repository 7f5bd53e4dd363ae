package loader

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name string, gz bool, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, name)

	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}

	data := buf.Bytes()
	if gz {
		var gzbuf bytes.Buffer
		w := gzip.NewWriter(&gzbuf)
		if _, err := w.Write(data); err != nil {
			t.Fatalf("gzip write: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("gzip close: %v", err)
		}
		data = gzbuf.Bytes()
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadWordsFiltersBadLines(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "dict.txt", false, []string{
		"abcde", "shrt", "abc d", "ABCDE", "fghi!", "fghij",
	})

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := New(log, path)

	words, err := l.LoadWords(context.Background(), 5)
	if err != nil {
		t.Fatalf("LoadWords: %v", err)
	}

	want := map[string]bool{"abcde": true, "ABCDE": true, "fghij": true}
	if len(words) != len(want) {
		t.Fatalf("got %d words, want %d: %v", len(words), len(want), words)
	}
	for _, w := range words {
		if !want[w] {
			t.Errorf("unexpected word %q", w)
		}
	}
}

func TestLoadWordsGzip(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "dict.txt.gz", true, []string{"abcde", "fghij"})

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := New(log, path)

	words, err := l.LoadWords(context.Background(), 5)
	if err != nil {
		t.Fatalf("LoadWords: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("got %d words, want 2", len(words))
	}
}

func TestLoadWordsMissingFile(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := New(log, "/nonexistent/path.txt")

	if _, err := l.LoadWords(context.Background(), 5); err == nil {
		t.Fatal("expected error for missing file")
	}
}
