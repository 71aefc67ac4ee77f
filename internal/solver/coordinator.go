package solver

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/jpequegn/powclient/internal/errs"
	"github.com/jpequegn/powclient/internal/oracle"
	"github.com/jpequegn/powclient/internal/pow"
	"github.com/jpequegn/powclient/internal/progress"
	"github.com/jpequegn/powclient/internal/workerpool"
)

// SolveConfig configures one solve invocation.
type SolveConfig struct {
	ThreadCount      int
	UseMultithreaded bool
}

// NewSolveConfig derives a SolveConfig from an optional thread-count
// override and the caller's multithreading preference. When override is
// nil, the thread count is auto-sized to roughly 4/5 of available
// cores, reserving the rest for the caller's I/O and interactive work.
func NewSolveConfig(override *int, useMultithreaded bool) SolveConfig {
	if !useMultithreaded {
		return SolveConfig{ThreadCount: 1, UseMultithreaded: false}
	}

	threadCount := 1
	if override != nil {
		threadCount = *override
	} else {
		threadCount = max(1, (runtime.NumCPU()*4)/5)
	}

	return SolveConfig{ThreadCount: threadCount, UseMultithreaded: true}
}

// Coordinator solves proof-of-work challenges by spawning workers on a
// blocking-task pool, awaiting the first success, and cancelling peers.
type Coordinator struct {
	newOracle oracle.Factory
	batchSize int64
	logger    *slog.Logger
}

// NewCoordinator creates a Coordinator that evaluates candidate nonces
// with the Oracle newOracle produces. newOracle is invoked once per
// Solve call with the fetched challenge's own difficulty, since the
// issuing service sets difficulty per challenge rather than once for
// the client's lifetime. A nil logger falls back to slog.Default().
func NewCoordinator(newOracle oracle.Factory, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{newOracle: newOracle, batchSize: defaultBatchSize, logger: logger}
}

// Solve searches for a nonce satisfying challenge's difficulty
// predicate. obs may be nil. ctx, if cancelled, requests the solver to
// stop at the next batch boundary and returns ctx.Err(); solver
// timeouts are not otherwise provided — callers that need one should
// derive ctx from context.WithTimeout.
func (c *Coordinator) Solve(ctx context.Context, challenge *pow.Challenge, cfg SolveConfig, obs progress.Observer) (*pow.ChallengeResponse, error) {
	if cfg.ThreadCount < 1 {
		return nil, errs.NewInvalidRequest("thread count must be >= 1, got %d", cfg.ThreadCount)
	}

	o := c.newOracle(challenge.LeadingZeroBits)

	if cfg.ThreadCount == 1 || !cfg.UseMultithreaded {
		return c.solveSingleThreaded(ctx, challenge, o, obs)
	}

	return c.solveMultithreaded(ctx, challenge, o, cfg.ThreadCount, obs)
}

// solveSingleThreaded runs one worker with offset=0, stride=1. There are
// no peers to signal; the cancellation flag is set only when the
// caller's ctx is done, which is the only way to stop early.
func (c *Coordinator) solveSingleThreaded(ctx context.Context, challenge *pow.Challenge, o oracle.Oracle, obs progress.Observer) (*pow.ChallengeResponse, error) {
	cancelled := &cancellationFlag{}
	reporter := progress.NewReporter(obs, 1)

	done := make(chan workerResult, 1)
	go func() {
		w := &worker{
			id:        0,
			challenge: challenge,
			oracle:    o,
			offset:    0,
			stride:    1,
			batchSize: c.batchSize,
			cancelled: cancelled,
			reporter:  reporter,
		}
		done <- w.run()
	}()

	select {
	case <-ctx.Done():
		cancelled.set()
		<-done
		return nil, ctx.Err()
	case res := <-done:
		return interpretResult(res)
	}
}

// solveMultithreaded spawns threadCount workers with offset=i,
// stride=threadCount, awaits the first success, and sets the shared
// cancellation flag so peers stop reporting progress and exit at their
// next batch boundary.
func (c *Coordinator) solveMultithreaded(ctx context.Context, challenge *pow.Challenge, o oracle.Oracle, threadCount int, obs progress.Observer) (*pow.ChallengeResponse, error) {
	cancelled := &cancellationFlag{}
	reporter := progress.NewReporter(obs, threadCount)

	results := make(chan workerResult, threadCount)

	wp := workerpool.New(ctx, threadCount)
	for i := 0; i < threadCount; i++ {
		w := &worker{
			id:        i,
			challenge: challenge,
			oracle:    o,
			offset:    int64(i),
			stride:    int64(threadCount),
			batchSize: c.batchSize,
			cancelled: cancelled,
			reporter:  reporter,
		}
		wp.Go(func(ctx context.Context) error {
			results <- safeRun(w)
			return nil
		})
	}

	go func() {
		_ = wp.Wait()
		close(results)
	}()

	for {
		select {
		case <-ctx.Done():
			cancelled.set()
			return nil, ctx.Err()
		case res, ok := <-results:
			if !ok {
				return nil, errs.ErrNoSolution
			}
			switch res.kind {
			case kindSolved:
				cancelled.set()
				return res.response, nil
			case kindErr:
				c.logger.Warn("solver worker failed", "error", res.err)
			}
			// kindCancelled and kindExhausted: no peer is aborted further;
			// just keep awaiting the rest.
		}
	}
}

// safeRun recovers a panicking worker so one bad goroutine never leaks
// past the coordinator as a process crash; it is surfaced as a worker
// error and the remaining peers are still awaited.
func safeRun(w *worker) (res workerResult) {
	defer func() {
		if r := recover(); r != nil {
			res = workerResult{kind: kindErr, err: fmt.Errorf("%w: worker %d panicked: %v", errs.ErrChallengeSolving, w.id, r)}
		}
	}()
	return w.run()
}

func interpretResult(res workerResult) (*pow.ChallengeResponse, error) {
	switch res.kind {
	case kindSolved:
		return res.response, nil
	case kindExhausted:
		return nil, errs.ErrNoSolution
	case kindCancelled:
		return nil, context.Canceled
	default:
		return nil, res.err
	}
}
