// Package cmd implements the powclient CLI: a thin cobra/viper
// collaborator around the client facade. None of the proof-of-work
// protocol logic lives here — this package only wires configuration,
// logging, and command dispatch.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	logger  *slog.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "powclient",
	Short: "Proof-of-work challenge solver for gated HTTPS endpoints",
	Long: `powclient is the client-side engine of a proof-of-work
challenge/response protocol used to gate access to protected HTTPS
endpoints. It fetches a challenge, solves it with a parallel nonce
search, and exchanges the solution for an access token.`,
	Version: "0.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./powclient.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig points viper at the file configPath resolves to and reads
// it, falling back to defaults on a quiet stderr notice. Subcommands
// load their own config.ClientConfig independently through
// config.Load(configPath()) — this call only drives the --verbose
// "Using config file" notice and keeps viper's own view of the file in
// sync with it.
func initConfig() {
	viper.SetConfigFile(configPath())
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("POWCLIENT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "config file not found, using default configuration")
	} else if verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// initLogger sets up the global logger based on verbosity.
func initLogger() {
	level := slog.LevelInfo
	if verbose || viper.GetBool("verbose") {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// configPath resolves the config file path: the explicit --config flag
// if set, otherwise ./powclient.toml in the current directory. Both
// initConfig (for viper's own env/verbose-notice view) and every
// subcommand's config.Load call resolve through this one function, so
// there is exactly one place that decides where the config file lives.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return "powclient.toml"
}
