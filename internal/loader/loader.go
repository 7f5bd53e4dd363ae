// Package loader reads the bulk dictionary a match starts from: one word
// per line, optionally gzip-compressed. Adapted from
// internal/services/fts/loader.Loader, trading its Wikipedia XML dump
// decoding for the flat word-list format this domain actually needs.
package loader

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"wordguess/internal/alphabet"
	"wordguess/internal/lib/logger/sl"
)

// Loader reads words of a fixed length from a dictionary file.
type Loader struct {
	log  *slog.Logger
	path string
}

// New returns a Loader reading from path. A ".gz" suffix is decompressed
// transparently.
func New(log *slog.Logger, path string) *Loader {
	return &Loader{log: log, path: path}
}

// LoadWords reads every line of the configured file, filters to lines of
// exactly wordSize valid-alphabet characters, and returns them uppercase
// and lowercase preserved (the alphabet already distinguishes case).
// Malformed lines are skipped and counted rather than aborting the load,
// matching the teacher's tolerance for partially dirty input data.
func (l *Loader) LoadWords(ctx context.Context, wordSize int) ([]string, error) {
	const op = "loader.LoadWords"

	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			l.log.Error("failed to close dictionary file", "error", sl.Err(cerr))
		}
	}()

	var r io.Reader = f
	if strings.HasSuffix(l.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		defer gz.Close()
		r = gz
	}

	var words []string
	skipped := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if len(line) != wordSize || !alphabet.ValidWord(line) {
			skipped++
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	l.log.Info("dictionary loaded", "words", len(words), "skipped", skipped, "word_size", wordSize)

	return words, nil
}
