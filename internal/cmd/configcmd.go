package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpequegn/powclient/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or initialize the client configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath())
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		fmt.Printf("api_base_url    = %s\n", cfg.APIBaseURL)
		fmt.Printf("timeout         = %ds\n", cfg.TimeoutSeconds)
		if cfg.NumThreads != nil {
			fmt.Printf("num_threads     = %d\n", *cfg.NumThreads)
		} else {
			fmt.Printf("num_threads     = auto\n")
		}
		fmt.Printf("user_agent      = %s\n", cfg.UserAgent)
		fmt.Printf("verbose         = %t\n", cfg.Verbose)
		fmt.Printf("testing_profile = %t\n", cfg.TestingProfile)
		fmt.Printf("cache_path      = %s\n", cfg.CachePath)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write out a default configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		if err := config.Save(config.Default(), path); err != nil {
			return fmt.Errorf("writing configuration: %w", err)
		}
		fmt.Printf("wrote default configuration to %s\n", path)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file without running anything",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath())
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		fmt.Println("configuration is valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd, configValidateCmd)
}
