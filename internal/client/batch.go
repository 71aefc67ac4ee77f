package client

import (
	"context"

	"github.com/jpequegn/powclient/internal/pow"
	"github.com/jpequegn/powclient/internal/workerpool"
)

// BatchResult pairs one endpoint's Validate outcome with the endpoint
// itself, since results may complete out of order.
type BatchResult struct {
	Endpoint string
	Token    *pow.Token
	Err      error
}

// ValidateBatch validates many endpoints concurrently, each against its
// own challenge, solver, and cancellation flag; one endpoint's failure
// does not abort the others. Concurrency is bounded by maxConcurrent
// (<=0 means unbounded).
//
// This is a convenience the core protocol does not require on its own,
// but which falls out naturally once the solver coordinator already
// owns a bounded worker pool: it lets a caller validate a whole list of
// protected endpoints in one call instead of looping sequentially. The
// CLI's validate command takes a single endpoint and does not use it.
func (f *Facade) ValidateBatch(ctx context.Context, endpoints []string, useMultithreaded bool, maxConcurrent int) []BatchResult {
	results := make([]BatchResult, len(endpoints))

	p := workerpool.New(ctx, maxConcurrent)
	for i, endpoint := range endpoints {
		i, endpoint := i, endpoint
		p.Go(func(ctx context.Context) error {
			token, err := f.Validate(ctx, endpoint, useMultithreaded)
			results[i] = BatchResult{Endpoint: endpoint, Token: token, Err: err}
			// Never propagate a single endpoint's failure as the pool's
			// error: each result is reported individually to the caller.
			return nil
		})
	}
	_ = p.Wait()

	return results
}
