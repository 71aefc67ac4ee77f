package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileFallsBackToDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want Default()", cfg)
	}
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "powclient.toml")

	threads := 3
	cfg := ClientConfig{
		APIBaseURL:     "https://challenges.example.com",
		TimeoutSeconds: 45,
		NumThreads:     &threads,
		UserAgent:      "powclient-test/1.0",
		Verbose:        true,
		TestingProfile: false,
	}

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.APIBaseURL != cfg.APIBaseURL {
		t.Errorf("api_base_url = %q, want %q", loaded.APIBaseURL, cfg.APIBaseURL)
	}
	if loaded.TimeoutSeconds != cfg.TimeoutSeconds {
		t.Errorf("timeout = %d, want %d", loaded.TimeoutSeconds, cfg.TimeoutSeconds)
	}
	if loaded.NumThreads == nil || *loaded.NumThreads != threads {
		t.Errorf("num_threads = %v, want %d", loaded.NumThreads, threads)
	}
	if loaded.UserAgent != cfg.UserAgent {
		t.Errorf("user_agent = %q, want %q", loaded.UserAgent, cfg.UserAgent)
	}
	if loaded.Verbose != cfg.Verbose {
		t.Errorf("verbose = %t, want %t", loaded.Verbose, cfg.Verbose)
	}
}

func TestValidate_RejectsNonHTTPSBaseURL(t *testing.T) {
	cfg := Default()
	cfg.APIBaseURL = "http://api.powclient.cloud"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for a non-HTTPS base URL")
	}
}

func TestValidate_AllowsLocalhostUnderTestingProfile(t *testing.T) {
	cfg := Default()
	cfg.APIBaseURL = "http://localhost:8080"
	cfg.TestingProfile = true

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_RejectsOutOfRangeTimeout(t *testing.T) {
	for _, seconds := range []int64{0, -1, 601} {
		cfg := Default()
		cfg.TimeoutSeconds = seconds
		if err := cfg.Validate(); err == nil {
			t.Errorf("timeout=%d: expected an error", seconds)
		}
	}
}

func TestValidate_RejectsNonPositiveThreadOverride(t *testing.T) {
	cfg := Default()
	zero := 0
	cfg.NumThreads = &zero

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for num_threads=0")
	}
}

func TestValidate_RejectsEmptyUserAgent(t *testing.T) {
	cfg := Default()
	cfg.UserAgent = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an empty user_agent")
	}
}

func TestLoad_RejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "powclient.toml")
	contents := "api_base_url = \"https://challenges.example.com\"\nmax_retries = 3\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unrecognized configuration key")
	}
}

func TestSave_RejectsInvalidConfig(t *testing.T) {
	cfg := Default()
	cfg.APIBaseURL = "ftp://not-https"

	if err := Save(cfg, filepath.Join(t.TempDir(), "powclient.toml")); err == nil {
		t.Fatal("expected Save to validate before writing")
	}
}
