// Package progress emits rate-limited progress logs for long batch runs, so
// a million-candidate scan reports steadily instead of flooding the log.
package progress

import (
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Reporter counts completed work items and logs at a bounded rate. Safe for
// concurrent use by any number of workers.
type Reporter struct {
	log     *slog.Logger
	limiter *rate.Limiter
	total   int64
	started time.Time
	done    atomic.Int64
}

// New creates a reporter for total items logging at most logsPerSec lines per
// second; returns nil if args are invalid, and a nil Reporter is a no-op.
func New(log *slog.Logger, logsPerSec float64, total int64) *Reporter {
	if log == nil || logsPerSec <= 0 {
		return nil
	}
	return &Reporter{
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(logsPerSec), 1),
		total:   total,
		started: time.Now(),
	}
}

// Add records n completed items and possibly logs a progress line.
func (r *Reporter) Add(n int) {
	if r == nil {
		return
	}
	done := r.done.Add(int64(n))
	if !r.limiter.Allow() {
		return
	}
	elapsed := time.Since(r.started)
	perSec := float64(0)
	if s := elapsed.Seconds(); s > 0 {
		perSec = float64(done) / s
	}
	r.log.Info("scan progress",
		"done", done,
		"total", r.total,
		"per_sec", int64(perSec),
	)
}

// Finish logs the final tally unconditionally.
func (r *Reporter) Finish() {
	if r == nil {
		return
	}
	r.log.Info("scan finished",
		"done", r.done.Load(),
		"total", r.total,
		"elapsed", time.Since(r.started).String(),
	)
}
