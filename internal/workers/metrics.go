package workers

import (
	"log/slog"
	"sync"
	"time"
)

// Metrics accumulates job outcomes for one pool run, adapted from
// internal/utils/metrics.Metrics.
type Metrics struct {
	mu                 sync.Mutex
	totalJobs          int
	successfulJobs     int
	failedJobs         int
	totalExecutionTime time.Duration
}

// RecordSuccess records a successfully completed job.
func (m *Metrics) RecordSuccess(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalJobs++
	m.successfulJobs++
	m.totalExecutionTime += d
}

// RecordFailure records a failed job.
func (m *Metrics) RecordFailure(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalJobs++
	m.failedJobs++
	m.totalExecutionTime += d
}

// Log reports the accumulated counters at info level.
func (m *Metrics) Log(log *slog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()

	avg := time.Duration(0)
	if m.totalJobs > 0 {
		avg = m.totalExecutionTime / time.Duration(m.totalJobs)
	}

	log.Info("dictionary load",
		"total", m.totalJobs,
		"succeeded", m.successfulJobs,
		"failed", m.failedJobs,
		"avg_duration", avg,
	)
}
