// Package progress aggregates per-worker attempt counts into hash-rate
// events and forwards them to an observer (a terminal spinner or a
// structured logger). Reporting is always fire-and-forget: it must
// never sit on the hash hot path's critical dependency chain, so a
// dropped event is always an acceptable outcome.
package progress

import (
	"sync/atomic"
	"time"
)

// Event is a single progress update for one worker.
type Event struct {
	WorkerID int
	Total    uint64
	HashRate uint64 // attempts/sec, advisory only (see doc below)
	Elapsed  time.Duration
}

// Observer receives progress events. Implementations must be safe to
// call from many goroutines concurrently.
type Observer interface {
	OnProgress(Event)
}

// workerCounter tracks one worker's cumulative attempts since it
// started searching.
type workerCounter struct {
	total atomic.Uint64
	start time.Time
}

// Reporter accumulates per-worker batch-attempt counts and derives a
// hash rate for each, forwarding structured events to an Observer.
//
// hash_rate uses integer division (total*1000/elapsedMs); for very
// small elapsed times this can report inflated values. The formula is
// kept as specified and is advisory only, never used for correctness.
type Reporter struct {
	obs      Observer
	counters []*workerCounter
}

// NewReporter creates a Reporter for workerCount workers reporting to
// obs. obs may be nil, in which case Report is a no-op.
func NewReporter(obs Observer, workerCount int) *Reporter {
	counters := make([]*workerCounter, workerCount)
	now := time.Now()
	for i := range counters {
		counters[i] = &workerCounter{start: now}
	}
	return &Reporter{obs: obs, counters: counters}
}

// Report records a batch of batchAttempts completed by workerID and
// emits the resulting event to the observer. Safe for concurrent use
// across distinct workerIDs; a single workerID must only be reported
// from one goroutine at a time (each solver worker owns its counter).
func (r *Reporter) Report(workerID int, batchAttempts uint64) {
	if r.obs == nil || workerID < 0 || workerID >= len(r.counters) {
		return
	}

	c := r.counters[workerID]
	total := c.total.Add(batchAttempts)
	elapsed := time.Since(c.start)

	elapsedMs := elapsed.Milliseconds()
	if elapsedMs < 1 {
		elapsedMs = 1
	}
	hashRate := total * 1000 / uint64(elapsedMs)

	r.obs.OnProgress(Event{
		WorkerID: workerID,
		Total:    total,
		HashRate: hashRate,
		Elapsed:  elapsed,
	})
}
