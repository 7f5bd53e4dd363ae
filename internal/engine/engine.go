package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"wordguess/internal/alphabet"
	"wordguess/internal/lib/logger/sl"
	"wordguess/internal/trie"
	"wordguess/internal/wordle"
	"wordguess/internal/workers"
)

// BulkLoader supplies a dictionary file's words once the session's word
// size is known, letting a large pre-existing dictionary seed the trie
// without inflating the stdin initial_dict block. It is optional: a
// session with no BulkLoader behaves exactly as spec.md §4.5 describes.
type BulkLoader interface {
	LoadWords(ctx context.Context, wordSize int) ([]string, error)
}

// FatalError wraps an I/O failure that must terminate the process with a
// nonzero exit code, per §7: input truncation or read failure is fatal,
// with no partial-failure recovery.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *FatalError) Unwrap() error { return e.Err }

// Engine drives one session: the initial dictionary load, then matches
// until end-of-input. It owns the trie exclusively for the session's
// lifetime; no other component may hold a live reference to it across an
// event boundary, per §5.
type Engine struct {
	log    *slog.Logger
	in     *bufio.Scanner
	out    *bufio.Writer
	trie   *trie.Trie
	rate   *wordle.GuessRate
	onWord func(word string) // optional hook, e.g. snapshot persistence
	bulk   BulkLoader
	pool   *workers.Pool
}

// Option configures optional Engine behavior.
type Option func(*Engine)

// WithWordHook registers a callback invoked for every word accepted into
// the trie, whether from the initial load or a mid-session insert block.
// Used to mirror insertions into an optional snapshot store.
func WithWordHook(fn func(word string)) Option {
	return func(e *Engine) { e.onWord = fn }
}

// WithBulkDictionary seeds the trie from bl as soon as the session's word
// size is known, before the stdin initial_dict block is consumed. When
// pool is non-nil, insertion is parallelized across it; pass nil for the
// sequential, single-threaded default.
func WithBulkDictionary(bl BulkLoader, pool *workers.Pool) Option {
	return func(e *Engine) {
		e.bulk = bl
		e.pool = pool
	}
}

// New returns an Engine reading the session protocol from r and writing
// responses to w.
func New(log *slog.Logger, r io.Reader, w io.Writer, opts ...Option) *Engine {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	e := &Engine{
		log:  log,
		in:   scanner,
		out:  bufio.NewWriter(w),
		rate: wordle.NewGuessRate(5 * time.Second),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the session loop: read K, read the initial dictionary,
// then iterate matches until end-of-input. It returns a *FatalError on
// any I/O failure and nil on a clean end-of-stream.
func (e *Engine) Run(ctx context.Context) error {
	defer e.out.Flush()

	wordSize, err := e.readWordSize()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	e.trie = trie.New(wordSize)
	e.log.Info("session started", "word_size", wordSize)

	if e.bulk != nil {
		if err := e.loadBulkDictionary(ctx, wordSize); err != nil {
			return err
		}
	}

	if err := e.loadInitialDictionary(wordSize); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	for {
		ref, ok, err := e.readLine()
		if err != nil {
			return err
		}
		if !ok {
			return nil // clean EOF between matches
		}
		if len(ref) != wordSize || !alphabet.ValidWord(ref) {
			return &FatalError{Op: "engine.Run", Err: fmt.Errorf("invalid reference word %q", ref)}
		}

		count, ok, err := e.readLine()
		if err != nil {
			return err
		}
		if !ok {
			return &FatalError{Op: "engine.Run", Err: errors.New("truncated input: missing guesses_count")}
		}
		guesses, err := strconv.Atoi(count)
		if err != nil || guesses < 1 {
			return &FatalError{Op: "engine.Run", Err: fmt.Errorf("invalid guesses_count %q", count)}
		}

		if err := e.runMatch(ref, guesses); err != nil {
			return err
		}

		cont, err := e.afterMatch()
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}

// readWordSize reads and validates the session's fixed word length K.
func (e *Engine) readWordSize() (int, error) {
	line, ok, err := e.readLine()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, io.EOF
	}
	k, err := strconv.Atoi(line)
	if err != nil || k < 1 || k > 255 {
		return 0, &FatalError{Op: "engine.readWordSize", Err: fmt.Errorf("invalid word size %q", line)}
	}
	return k, nil
}

// loadBulkDictionary seeds the trie from e.bulk before the stdin
// protocol's own initial_dict block is read. Insertion runs sequentially
// unless a worker pool was configured via WithBulkDictionary.
func (e *Engine) loadBulkDictionary(ctx context.Context, wordSize int) error {
	words, err := e.bulk.LoadWords(ctx, wordSize)
	if err != nil {
		return &FatalError{Op: "engine.loadBulkDictionary", Err: err}
	}

	if e.pool == nil {
		for _, w := range words {
			e.insertWord(w, wordSize)
		}
		e.log.Info("bulk dictionary loaded", "words", len(words))
		return nil
	}

	go func() {
		for _, w := range words {
			word := w
			e.pool.AddJob(workers.Job{
				Args: word,
				ExecFn: func(context.Context, string) error {
					e.insertWord(word, wordSize)
					return nil
				},
			})
		}
		e.pool.Close()
	}()
	e.pool.Run(ctx)
	e.pool.Metrics().Log(e.log)

	return nil
}

// loadInitialDictionary consumes initial_dict: word* (insert_block)?
// new_match_cmd, inserting every word into the trie.
func (e *Engine) loadInitialDictionary(wordSize int) error {
	count := 0
	for {
		line, ok, err := e.readLine()
		if err != nil {
			return err
		}
		if !ok {
			return io.EOF
		}

		switch line {
		case cmdNewMatch:
			e.log.Info("initial dictionary loaded", "words", count)
			return nil
		case cmdInsertBegin:
			n, err := e.consumeInsertBlock(wordSize)
			if err != nil {
				return err
			}
			count += n
			// grammar requires new_match_cmd immediately after the block
			line, ok, err := e.readLine()
			if err != nil {
				return err
			}
			if !ok {
				return io.EOF
			}
			if line != cmdNewMatch {
				return &FatalError{Op: "engine.loadInitialDictionary", Err: fmt.Errorf("expected %s, got %q", cmdNewMatch, line)}
			}
			e.log.Info("initial dictionary loaded", "words", count)
			return nil
		default:
			e.insertWord(line, wordSize)
			count++
		}
	}
}

// runMatch drives §4.4's game loop for a single reference word.
func (e *Engine) runMatch(ref string, guessesLeft int) error {
	r := wordle.NewRequirements(ref)
	insertPending := false
	lastCount := 0
	won := false

	for guessesLeft > 0 {
		line, ok, err := e.readLine()
		if err != nil {
			return err
		}
		if !ok {
			return &FatalError{Op: "engine.runMatch", Err: errors.New("truncated input: match ended mid-event")}
		}

		switch {
		case line == cmdPrintFiltred:
			if insertPending {
				lastCount = e.fullPrune(r, true)
				insertPending = false
			}
			if err := e.printAlive(); err != nil {
				return err
			}

		case line == cmdInsertBegin:
			if _, err := e.consumeInsertBlock(r.WordSize()); err != nil {
				return err
			}
			insertPending = true
			lastCount = 0

		default:
			guess := line
			if isCommand(guess) {
				return &FatalError{Op: "engine.runMatch", Err: fmt.Errorf("unknown command %q", guess)}
			}
			if len(guess) != r.WordSize() || !alphabet.ValidWord(guess) {
				return &FatalError{Op: "engine.runMatch", Err: fmt.Errorf("invalid guess %q", guess)}
			}

			if guess == ref {
				e.writeLine(respOK)
				won = true
				guessesLeft = 0
				continue
			}

			if !e.trie.Search(guess) {
				e.writeLine(respNotExist)
				continue // does not consume a guess, per §4.4
			}

			eval := wordle.Evaluate(guess, r)
			e.writeLine(eval)

			// §4.4's skip_prune short-circuit: once exactly one candidate
			// remains and nothing has been inserted since, re-pruning
			// cannot change the answer. An insert always forces a full
			// re-prune first, per the resolved dispatch priority (the
			// insert-pending branch is checked before the lastCount==1
			// shortcut, mirroring the original's insert_flag-before-
			// prune_flag ordering in new_game()).
			switch {
			case insertPending:
				lastCount = e.fullPrune(r, true)
				insertPending = false
			case lastCount == 1:
				// keep lastCount as-is
			default:
				lastCount = e.incrementalPrune(r)
			}

			e.writeLine(strconv.Itoa(lastCount))
			e.rate.Add(1)
			e.rate.Check(e.log)
			guessesLeft--
		}
	}

	if !won {
		e.writeLine(respKO)
	}
	return nil
}

// afterMatch consumes post_match: EOF | new_match_cmd | insert_block
// new_match_cmd, applying any insertions to the trie only (no live
// requirements exist between matches), then clears prune state for the
// next match. Returns false when the session should end.
func (e *Engine) afterMatch() (bool, error) {
	line, ok, err := e.readLine()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if line == cmdInsertBegin {
		if _, err := e.consumeInsertBlock(e.trie.WordSize()); err != nil {
			return false, err
		}
		line, ok, err = e.readLine()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	if line != cmdNewMatch {
		return false, &FatalError{Op: "engine.afterMatch", Err: fmt.Errorf("expected %s, got %q", cmdNewMatch, line)}
	}

	e.trie.ClearPrune()
	return true, nil
}

// consumeInsertBlock reads word* terminated by insert_block's end marker
// and inserts each into the trie, returning the count inserted.
func (e *Engine) consumeInsertBlock(wordSize int) (int, error) {
	count := 0
	for {
		line, ok, err := e.readLine()
		if err != nil {
			return count, err
		}
		if !ok {
			return count, io.EOF
		}
		if line == cmdInsertEnd {
			return count, nil
		}
		e.insertWord(line, wordSize)
		count++
	}
}

func (e *Engine) insertWord(word string, wordSize int) {
	if len(word) != wordSize || !alphabet.ValidWord(word) {
		e.log.Warn("skipping malformed word", "word", word)
		return
	}
	e.trie.Insert(word)
	if e.onWord != nil {
		e.onWord(word)
	}
}

func (e *Engine) fullPrune(r *wordle.Requirements, revisitTempPruned bool) int {
	start := time.Now()
	count := wordle.FullPrune(e.trie, r, revisitTempPruned)
	wordle.LogMatchStats(e.log, "full", wordle.MatchStats{
		Stats:    e.trie.Stats(),
		Live:     count,
		Duration: time.Since(start),
	})
	return count
}

func (e *Engine) incrementalPrune(r *wordle.Requirements) int {
	start := time.Now()
	count := wordle.IncrementalPrune(e.trie, r)
	wordle.LogMatchStats(e.log, "incremental", wordle.MatchStats{
		Stats:    e.trie.Stats(),
		Live:     count,
		Duration: time.Since(start),
	})
	return count
}

func (e *Engine) printAlive() error {
	if err := e.trie.PrintAlive(e.out); err != nil {
		return &FatalError{Op: "engine.printAlive", Err: err}
	}
	return nil
}

// readLine returns the next input line with its trailing newline
// stripped, ok=false on clean EOF, or a *FatalError on a read failure.
func (e *Engine) readLine() (line string, ok bool, err error) {
	if !e.in.Scan() {
		if scanErr := e.in.Err(); scanErr != nil {
			return "", false, &FatalError{Op: "engine.readLine", Err: scanErr}
		}
		return "", false, nil
	}
	return e.in.Text(), true, nil
}

func (e *Engine) writeLine(s string) {
	if _, err := e.out.WriteString(s); err != nil {
		e.log.Error("write failed", "error", sl.Err(err))
		return
	}
	if err := e.out.WriteByte('\n'); err != nil {
		e.log.Error("write failed", "error", sl.Err(err))
	}
	// Flush promptly: each response must be visible before the next event
	// is read, matching §5's synchronous line-buffered emission.
	if err := e.out.Flush(); err != nil {
		e.log.Error("flush failed", "error", sl.Err(err))
	}
}
