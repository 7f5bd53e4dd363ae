package wordle

import (
	"fmt"
	"log/slog"
	"time"

	"wordguess/internal/trie"
)

// MatchStats summarizes one prune step: the trie shape it left behind and
// how long the walk took. Grounded on internal/utils.TrieStats from the
// indexing side of the teacher, trimmed to the fields a prune step can
// actually report (no document counts, no per-level branching factor).
type MatchStats struct {
	trie.Stats
	Live     int
	Duration time.Duration
}

// LogMatchStats reports a prune step at debug level, matching the teacher's
// habit of logging trie shape after bulk mutations rather than per node.
func LogMatchStats(log *slog.Logger, guess string, s MatchStats) {
	log.Debug("prune",
		"guess", guess,
		"live", s.Live,
		"nodes", s.Nodes,
		"leaves", s.Leaves,
		"max_depth", s.MaxDepth,
		"duration", formatDuration(s.Duration),
	)
}

// formatDuration renders a duration with fixed precision per magnitude,
// adapted from internal/utils.FormatDuration.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%.3fns", float64(d)/float64(time.Nanosecond))
	case d < time.Millisecond:
		return fmt.Sprintf("%.3fµs", float64(d)/float64(time.Microsecond))
	case d < time.Second:
		return fmt.Sprintf("%.3fms", float64(d)/float64(time.Millisecond))
	default:
		return fmt.Sprintf("%.3fs", float64(d)/float64(time.Second))
	}
}
