// Command wordguess runs the line-oriented word-guessing protocol over
// stdin/stdout. Grounded on the teacher's cmd/fts/main.go: config load,
// logger setup, wiring, then drive the core loop to completion.
package main

import (
	"context"
	"log/slog"
	"os"

	"wordguess/config"
	"wordguess/internal/engine"
	"wordguess/internal/lib/logger/sl"
	"wordguess/internal/loader"
	"wordguess/internal/store"
	"wordguess/internal/workers"
)

const (
	envDev  = "dev"
	envProd = "prod"
)

func main() {
	cfg := config.MustLoad()
	log := setupLogger(cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	log.Info("wordguess starting", "env", cfg.Env, "workers", cfg.Workers)

	var snapshot *store.Store
	if cfg.SnapshotPath != "" {
		s, err := store.Open(log, cfg.SnapshotPath)
		if err != nil {
			log.Error("failed to open snapshot store", "error", sl.Err(err))
			os.Exit(1)
		}
		defer s.Close()
		snapshot = s
	}

	var opts []engine.Option
	if snapshot != nil {
		opts = append(opts, engine.WithWordHook(func(word string) {
			if err := snapshot.Put(word); err != nil {
				log.Error("failed to persist word to snapshot", "error", sl.Err(err))
			}
		}))
	}

	if bl := bulkLoader(cfg, log, snapshot); bl != nil {
		var pool *workers.Pool
		if cfg.Workers > 1 {
			pool = workers.New(cfg.Workers, log)
		}
		opts = append(opts, engine.WithBulkDictionary(bl, pool))
	}

	e := engine.New(log, os.Stdin, os.Stdout, opts...)

	if err := e.Run(ctx); err != nil {
		log.Error("session ended with error", "error", sl.Err(err))
		os.Exit(1)
	}

	log.Info("session ended cleanly")
}

// bulkLoader picks the source of a pre-session dictionary load, if any:
// --warm-start takes the snapshot store over --dictionary when both are
// set, since the store already reflects every word a prior run accepted.
func bulkLoader(cfg *config.Config, log *slog.Logger, snapshot *store.Store) engine.BulkLoader {
	if cfg.WarmStart {
		if snapshot == nil {
			log.Warn("warm-start requested but no --snapshot path was given")
			return nil
		}
		return snapshotLoader{snapshot}
	}
	if cfg.DictionaryPath != "" {
		return loader.New(log, cfg.DictionaryPath)
	}
	return nil
}

// snapshotLoader adapts store.Store to engine.BulkLoader, ignoring the
// requested word size since a snapshot only ever holds one session's
// worth of same-length words.
type snapshotLoader struct {
	store *store.Store
}

func (s snapshotLoader) LoadWords(context.Context, int) ([]string, error) {
	return s.store.LoadAll()
}

func setupLogger(env, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	switch env {
	case envDev, envProd:
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	default:
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
