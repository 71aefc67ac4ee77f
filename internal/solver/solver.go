// Package solver implements the parallel proof-of-work solver: a pool
// of workers that cooperatively enumerate the nonce space under a
// stride/offset partitioning, with early-abort once any worker finds a
// valid solution, bounded memory, accurate per-worker progress, and
// deterministic correctness under concurrent cancellation.
package solver

import (
	"math"
	"sync/atomic"

	"github.com/jpequegn/powclient/internal/oracle"
	"github.com/jpequegn/powclient/internal/pow"
	"github.com/jpequegn/powclient/internal/progress"
)

// defaultBatchSize is the number of hash calls a worker makes between
// cancellation polls and progress events. Amortizes the atomic load of
// the cancellation flag and the observer call across many hash
// evaluations, avoiding contention while preserving sub-second
// responsiveness to cancellation.
const defaultBatchSize = 1 << 16

// resultKind tags a worker's outcome.
type resultKind int

const (
	kindSolved resultKind = iota
	kindCancelled
	kindExhausted
	kindErr
)

// workerResult is the outcome of one worker's search.
type workerResult struct {
	kind     resultKind
	response *pow.ChallengeResponse
	err      error
}

// cancellationFlag is a single-bit, single-writer-many-reader signal.
// Once set it never clears for the lifetime of one solve invocation.
type cancellationFlag struct {
	flag atomic.Bool
}

func (c *cancellationFlag) set()        { c.flag.Store(true) }
func (c *cancellationFlag) isSet() bool { return c.flag.Load() }

// worker enumerates nonce = offset, offset+stride, offset+2*stride, …
// against challenge via oracle, polling cancelled and reporting
// batchSize-call batches to reporter at every boundary.
type worker struct {
	id        int
	challenge *pow.Challenge
	oracle    oracle.Oracle
	offset    int64
	stride    int64
	batchSize int64
	cancelled *cancellationFlag
	reporter  *progress.Reporter
}

// run executes the worker's search loop to completion: a solution, the
// nonce space bound, or a cancellation signal.
func (w *worker) run() workerResult {
	nonce := w.offset
	var sinceCheckpoint int64

	for {
		digest, satisfies := w.oracle.Evaluate(w.challenge.Params, nonce)
		if satisfies {
			_ = digest
			return workerResult{kind: kindSolved, response: &pow.ChallengeResponse{
				Params:    w.challenge.Params,
				Solution:  nonce,
				Signature: w.challenge.Signature,
			}}
		}

		if nonce > math.MaxInt64-w.stride {
			// The next nonce would overflow the signed 64-bit positive
			// range; terminate rather than wrap.
			return workerResult{kind: kindExhausted}
		}

		nonce += w.stride
		sinceCheckpoint++

		if sinceCheckpoint >= w.batchSize {
			if w.cancelled.isSet() {
				return workerResult{kind: kindCancelled}
			}
			if w.reporter != nil {
				w.reporter.Report(w.id, uint64(sinceCheckpoint))
			}
			sinceCheckpoint = 0
		}
	}
}
