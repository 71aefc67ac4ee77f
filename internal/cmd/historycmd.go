package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpequegn/powclient/internal/cache"
	"github.com/jpequegn/powclient/internal/config"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously solved challenges from the local cache",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Int("limit", 20, "maximum number of records to show (<=0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if cfg.CachePath == "" {
		fmt.Println("no cache_path configured, nothing to show")
		return nil
	}

	store, err := cache.Open(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("opening history cache: %w", err)
	}
	defer func() { _ = store.Close() }()

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := store.Recent(limit)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("no solves recorded")
		return nil
	}

	for _, r := range records {
		fmt.Printf("%s  %-40s  solution=%d  threads=%d  rate=%d/s  token=%s\n",
			r.SolvedAt.Format("2006-01-02 15:04:05"), r.Endpoint, r.Solution, r.ThreadCount, r.HashRate, r.TokenValue)
	}
	return nil
}
