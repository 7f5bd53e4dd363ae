// Package workers runs bulk trie insertion across a fixed pool of
// goroutines, used only for the pre-match dictionary load. Adapted from
// the teacher's generic internal/workers job/pool pair.
package workers

import "context"

// Job inserts a single word into the shared trie. ExecFn does the actual
// insertion; Args is the word to insert.
type Job struct {
	ID     int
	ExecFn func(ctx context.Context, word string) error
	Args   string
}

// Result reports whether a Job succeeded.
type Result struct {
	ID  int
	Err error
}

func (j Job) execute(ctx context.Context) Result {
	if err := j.ExecFn(ctx, j.Args); err != nil {
		return Result{ID: j.ID, Err: err}
	}
	return Result{ID: j.ID}
}
