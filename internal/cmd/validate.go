package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpequegn/powclient/internal/cache"
	"github.com/jpequegn/powclient/internal/client"
	"github.com/jpequegn/powclient/internal/config"
	"github.com/jpequegn/powclient/internal/oracle"
)

var validateCmd = &cobra.Command{
	Use:   "validate <endpoint>",
	Short: "Fetch a challenge for endpoint, solve it, and exchange it for a token",
	Long: `Validate runs the full proof-of-work protocol against one protected
endpoint: fetch a challenge, solve it with a parallel nonce search, and
submit the solution for an access token.

Example:
  powclient validate https://example.com/protected --threads 4
  powclient validate https://example.com/protected --single-threaded`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().IntP("threads", "t", 0, "worker thread count override (default: auto-sized)")
	validateCmd.Flags().Bool("single-threaded", false, "disable multithreaded solving")
}

func runValidate(cmd *cobra.Command, args []string) error {
	endpoint := args[0]
	ctx := context.Background()

	cfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if threads, _ := cmd.Flags().GetInt("threads"); threads > 0 {
		cfg.NumThreads = &threads
	}
	singleThreaded, _ := cmd.Flags().GetBool("single-threaded")
	useMultithreaded := !singleThreaded

	facade := client.New(cfg, oracle.SHA256Factory(), logger)

	start := time.Now()
	result, err := facade.ValidateDetailed(ctx, endpoint, useMultithreaded)
	if err != nil {
		return fmt.Errorf("validating %s: %w", endpoint, err)
	}
	elapsed := time.Since(start)

	logger.Info("challenge solved", "endpoint", endpoint, "duration", elapsed.Round(time.Millisecond))
	fmt.Printf("token: %s (expires %s)\n", result.Token.Value, result.Token.ExpiresAt.Format(time.RFC3339))

	if cfg.CachePath != "" {
		if err := recordSolve(cfg.CachePath, endpoint, result, elapsed); err != nil {
			logger.Warn("failed to record solve history", "error", err)
		}
	}

	return nil
}

// recordSolve persists one Validate outcome to the local history cache.
// hashRate is derived from the winning response's solution magnitude and
// elapsed wall time since the coordinator does not otherwise surface a
// final aggregate rate to callers outside the progress Observer.
func recordSolve(cachePath, endpoint string, result *client.ValidateResult, elapsed time.Duration) error {
	store, err := cache.Open(cachePath)
	if err != nil {
		return fmt.Errorf("opening history cache: %w", err)
	}
	defer func() { _ = store.Close() }()

	var hashRate uint64
	if ms := elapsed.Milliseconds(); ms > 0 && result.Response.Solution > 0 {
		hashRate = uint64(result.Response.Solution) * 1000 / uint64(ms)
	}

	return store.Save(cache.Record{
		Endpoint:    endpoint,
		Solution:    result.Response.Solution,
		ThreadCount: result.ThreadCount,
		HashRate:    hashRate,
		SolvedAt:    time.Now(),
		TokenValue:  result.Token.Value,
	})
}
