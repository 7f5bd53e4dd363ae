package wordle

import (
	"log/slog"
	"time"
)

// GuessRate tracks a rolling guesses-per-second figure and emits it no more
// often than Interval, adapted from internal/utils/frequency.Frequency.
type GuessRate struct {
	Interval time.Duration
	count    int
	total    int
	lastTime time.Time
}

// NewGuessRate returns a rate tracker that reports at most once per interval.
func NewGuessRate(interval time.Duration) *GuessRate {
	return &GuessRate{Interval: interval, lastTime: time.Now()}
}

// Add records n more guesses processed since the last report.
func (g *GuessRate) Add(n int) {
	g.count += n
	g.total += n
}

// Check logs the current rate and resets the window if Interval has
// elapsed since the last report; it is a no-op otherwise.
func (g *GuessRate) Check(log *slog.Logger) {
	now := time.Now()
	elapsed := now.Sub(g.lastTime)
	if elapsed < g.Interval {
		return
	}
	average := float64(g.count) / elapsed.Seconds()
	log.Info("guess rate", "count", g.count, "per_second", average)
	g.count = 0
	g.lastTime = now
}
