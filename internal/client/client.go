// Package client implements the client facade: fetch a challenge,
// solve it, and submit the solution for a token, in that order,
// aborting on the first error.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jpequegn/powclient/internal/config"
	"github.com/jpequegn/powclient/internal/errs"
	"github.com/jpequegn/powclient/internal/oracle"
	"github.com/jpequegn/powclient/internal/pow"
	"github.com/jpequegn/powclient/internal/progress"
	"github.com/jpequegn/powclient/internal/solver"
	"github.com/jpequegn/powclient/internal/transport"
)

// Facade orchestrates the three-step proof-of-work protocol against one
// issuing service.
type Facade struct {
	cfg         config.ClientConfig
	transport   *transport.Client
	coordinator *solver.Coordinator
	logger      *slog.Logger
}

// New builds a Facade from cfg. cfg must already have passed
// config.ClientConfig.Validate. newOracle builds the Hash Oracle used to
// evaluate candidate nonces, once per solve with the challenge's
// difficulty; logger defaults to slog.Default() when nil.
func New(cfg config.ClientConfig, newOracle oracle.Factory, logger *slog.Logger) *Facade {
	if logger == nil {
		logger = slog.Default()
	}
	return &Facade{
		cfg:         cfg,
		transport:   transport.New(cfg.APIBaseURL, cfg.UserAgent, cfg.Timeout),
		coordinator: solver.NewCoordinator(newOracle, logger),
		logger:      logger,
	}
}

// requestBody is the /request payload.
type requestBody struct {
	Endpoint    string `json:"endpoint"`
	TimestampMs int64  `json:"timestamp_ms"`
}

// ValidateResult carries everything a caller might need downstream
// (e.g. the CLI's history cache) alongside the Token that the core
// protocol actually requires.
type ValidateResult struct {
	Token       *pow.Token
	Response    *pow.ChallengeResponse
	ThreadCount int
}

// Validate executes fetch-challenge -> solve -> submit-solution for
// endpoint, returning the issued Token. Any step's error aborts the
// sequence and is propagated unchanged.
func (f *Facade) Validate(ctx context.Context, endpoint string, useMultithreaded bool) (*pow.Token, error) {
	result, err := f.ValidateDetailed(ctx, endpoint, useMultithreaded)
	if err != nil {
		return nil, err
	}
	return result.Token, nil
}

// ValidateDetailed is Validate plus the winning ChallengeResponse and
// the thread count actually used, for callers (the CLI's history
// subcommand) that want more than the bare Token.
func (f *Facade) ValidateDetailed(ctx context.Context, endpoint string, useMultithreaded bool) (*ValidateResult, error) {
	challenge, err := f.FetchChallenge(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	obs := f.newObserver()
	if spinner, ok := obs.(*progress.Spinner); ok {
		spinner.Start()
		defer spinner.Stop()
	}

	solveCfg := solver.NewSolveConfig(f.cfg.NumThreads, useMultithreaded)
	response, err := f.coordinator.Solve(ctx, challenge, solveCfg, obs)
	if err != nil {
		return nil, err
	}

	token, err := f.SubmitSolution(ctx, response)
	if err != nil {
		return nil, err
	}

	return &ValidateResult{Token: token, Response: response, ThreadCount: solveCfg.ThreadCount}, nil
}

// FetchChallenge requests a new challenge for endpoint.
func (f *Facade) FetchChallenge(ctx context.Context, endpoint string) (*pow.Challenge, error) {
	body := requestBody{Endpoint: endpoint, TimestampMs: time.Now().UnixMilli()}

	env, err := f.transport.PostJSON(ctx, "/request", body)
	if err != nil {
		return nil, err
	}

	var challenge pow.Challenge
	if err := env.Field("challenge", &challenge); err != nil {
		return nil, err
	}
	return &challenge, nil
}

// SubmitSolution submits a solved challenge response and returns the
// resulting access token.
func (f *Facade) SubmitSolution(ctx context.Context, response *pow.ChallengeResponse) (*pow.Token, error) {
	if response.Solution < 0 {
		return nil, errs.NewSerialization(fmt.Errorf("solution %d is negative", response.Solution))
	}

	env, err := f.transport.PostJSON(ctx, "/response", response)
	if err != nil {
		return nil, err
	}

	var token pow.Token
	if err := env.Field("token", &token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (f *Facade) newObserver() progress.Observer {
	if f.cfg.Verbose {
		return progress.NewVerboseLogger(f.logger)
	}
	return progress.NewSpinner(nil, "Solving challenge")
}
