// Package store persists the working dictionary to disk so a warm restart
// can skip re-reading the bulk word list. It is optional: the engine runs
// entirely in memory when no snapshot path is configured. Adapted from
// internal/storage/leveldb.Storage, trading its document/word-index schema
// for a flat word-per-key snapshot and dropping the batched write channel
// (each accepted word is written with its own Put as it is inserted).
package store

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/util"

	"wordguess/internal/lib/logger/sl"
)

// ErrNotFound mirrors leveldb.ErrNotFound without leaking the driver type
// to callers.
var ErrNotFound = errors.New("word not found")

const wordPrefix = "w:"

// Store is a LevelDB-backed snapshot of the accepted-word dictionary.
type Store struct {
	log *slog.Logger
	db  *leveldb.DB
}

// Open creates or reuses the LevelDB database at path.
func Open(log *slog.Logger, path string) (*Store, error) {
	const op = "store.Open"

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Store{log: log, db: db}, nil
}

// Put records word as part of the snapshot.
func (s *Store) Put(word string) error {
	return s.db.Put([]byte(wordPrefix+word), nil, nil)
}

// PutBatch records many words in a single write.
func (s *Store) PutBatch(words []string) error {
	batch := new(leveldb.Batch)
	for _, w := range words {
		batch.Put([]byte(wordPrefix+w), nil)
	}
	return s.db.Write(batch, nil)
}

// Has reports whether word was recorded in a previous snapshot.
func (s *Store) Has(word string) (bool, error) {
	_, err := s.db.Get([]byte(wordPrefix+word), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// LoadAll returns every word recorded in the snapshot, for a warm start
// that rebuilds the trie without re-reading the original dictionary file.
func (s *Store) LoadAll() ([]string, error) {
	var words []string

	var iter iterator.Iterator
	iter = s.db.NewIterator(util.BytesPrefix([]byte(wordPrefix)), nil)
	defer iter.Release()

	for iter.Next() {
		key := bytes.TrimPrefix(iter.Key(), []byte(wordPrefix))
		words = append(words, string(key))
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}

	return words, nil
}

// Stats reports the underlying database's internal diagnostics string.
func (s *Store) Stats() (string, error) {
	return s.db.GetProperty("leveldb.stats")
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		s.log.Error("failed to close snapshot store", "error", sl.Err(err))
		return err
	}
	return nil
}
