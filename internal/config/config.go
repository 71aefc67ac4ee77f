// Package config loads and validates the client's TOML configuration
// file, mapping 1:1 to ClientConfig's fields with environment-variable
// overrides bound through viper.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/jpequegn/powclient/internal/errs"
)

// knownConfigKeys are the only top-level TOML keys Load accepts; anything
// else is a typo or a stale key from an older release and is rejected
// rather than silently ignored.
var knownConfigKeys = map[string]bool{
	"api_base_url":    true,
	"timeout":         true,
	"user_agent":      true,
	"verbose":         true,
	"testing_profile": true,
	"cache_path":      true,
	"num_threads":     true,
}

// ClientConfig holds the options that govern a client's behavior for
// its whole lifetime: the issuing service's base URL, per-request
// timeout, an optional worker-count override, the User-Agent header
// value, and whether output is verbose (structured logs) or a spinner.
type ClientConfig struct {
	APIBaseURL     string        `mapstructure:"api_base_url"`
	Timeout        time.Duration `mapstructure:"-"`
	TimeoutSeconds int64         `mapstructure:"timeout"`
	NumThreads     *int          `mapstructure:"num_threads"`
	UserAgent      string        `mapstructure:"user_agent"`
	Verbose        bool          `mapstructure:"verbose"`
	TestingProfile bool          `mapstructure:"testing_profile"`
	CachePath      string        `mapstructure:"cache_path"`
}

const defaultUserAgent = "powclient/1.0"

// Default returns the out-of-the-box configuration: the production
// issuing endpoint, a 30s timeout, auto-sized threads, and the spinner
// (non-verbose) observer.
func Default() ClientConfig {
	return ClientConfig{
		APIBaseURL:     "https://api.powclient.cloud",
		Timeout:        30 * time.Second,
		TimeoutSeconds: 30,
		NumThreads:     nil,
		UserAgent:      defaultUserAgent,
		Verbose:        false,
		TestingProfile: false,
	}
}

// Load reads a TOML configuration file from path, falling back silently
// to Default (with a single stderr notice) if the file does not exist.
// The loaded configuration is validated before it is returned.
func Load(path string) (ClientConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "config file %q not found, using default configuration\n", path)
			return Default(), nil
		}
		return ClientConfig{}, errs.NewConfiguration("reading config file %q: %v", path, err)
	}

	var rawKeys map[string]any
	if err := toml.Unmarshal(raw, &rawKeys); err != nil {
		return ClientConfig{}, errs.NewConfiguration("parsing config file %q: %v", path, err)
	}
	for key := range rawKeys {
		if !knownConfigKeys[key] {
			return ClientConfig{}, errs.NewConfiguration("unknown configuration key %q in %q", key, path)
		}
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix("POWCLIENT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	def := Default()
	v.SetDefault("api_base_url", def.APIBaseURL)
	v.SetDefault("timeout", def.TimeoutSeconds)
	v.SetDefault("user_agent", def.UserAgent)
	v.SetDefault("verbose", def.Verbose)
	v.SetDefault("testing_profile", def.TestingProfile)

	if err := v.ReadConfig(bytes.NewReader(raw)); err != nil {
		return ClientConfig{}, errs.NewConfiguration("parsing config file %q: %v", path, err)
	}

	cfg := def
	cfg.APIBaseURL = v.GetString("api_base_url")
	cfg.TimeoutSeconds = v.GetInt64("timeout")
	cfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	cfg.UserAgent = v.GetString("user_agent")
	cfg.Verbose = v.GetBool("verbose")
	cfg.TestingProfile = v.GetBool("testing_profile")
	cfg.CachePath = v.GetString("cache_path")
	if v.IsSet("num_threads") {
		n := v.GetInt("num_threads")
		cfg.NumThreads = &n
	}

	if err := cfg.Validate(); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

// Save serializes cfg as TOML to path after validating it.
func Save(cfg ClientConfig, path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "api_base_url = %q\n", cfg.APIBaseURL)
	fmt.Fprintf(&sb, "timeout = %d\n", cfg.TimeoutSeconds)
	fmt.Fprintf(&sb, "user_agent = %q\n", cfg.UserAgent)
	fmt.Fprintf(&sb, "verbose = %t\n", cfg.Verbose)
	fmt.Fprintf(&sb, "testing_profile = %t\n", cfg.TestingProfile)
	if cfg.NumThreads != nil {
		fmt.Fprintf(&sb, "num_threads = %d\n", *cfg.NumThreads)
	}
	if cfg.CachePath != "" {
		fmt.Fprintf(&sb, "cache_path = %q\n", cfg.CachePath)
	}

	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

// Validate enforces the configuration constraints: an HTTPS base URL
// (unless TestingProfile permits localhost), a timeout between 1 and
// 600 seconds, and a positive thread-count override when one is set.
func (c ClientConfig) Validate() error {
	if !strings.HasPrefix(c.APIBaseURL, "https://") {
		if !(c.TestingProfile && isLocalhostURL(c.APIBaseURL)) {
			return errs.NewConfiguration("api_base_url must be a valid HTTPS URL, got %q", c.APIBaseURL)
		}
	}

	if c.TimeoutSeconds < 1 || c.TimeoutSeconds > 600 {
		return errs.NewConfiguration("timeout must be between 1 and 600 seconds, got %d", c.TimeoutSeconds)
	}

	if c.NumThreads != nil && *c.NumThreads < 1 {
		return errs.NewConfiguration("num_threads must be >= 1, got %d", *c.NumThreads)
	}

	if c.UserAgent == "" {
		return errs.NewConfiguration("user_agent must not be empty")
	}

	return nil
}

func isLocalhostURL(url string) bool {
	return strings.HasPrefix(url, "http://localhost:") ||
		strings.HasPrefix(url, "http://localhost") ||
		strings.HasPrefix(url, "http://127.0.0.1:") ||
		strings.HasPrefix(url, "http://127.0.0.1")
}
