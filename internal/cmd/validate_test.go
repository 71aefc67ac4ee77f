package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jpequegn/powclient/internal/cache"
	"github.com/jpequegn/powclient/internal/client"
	"github.com/jpequegn/powclient/internal/pow"
)

func TestRecordSolve_PersistsToCache(t *testing.T) {
	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

	cachePath := filepath.Join(t.TempDir(), "history.db")
	result := &client.ValidateResult{
		Token:       &pow.Token{Value: "tok-xyz", ExpiresAt: time.Now().Add(time.Hour)},
		Response:    &pow.ChallengeResponse{Solution: 123},
		ThreadCount: 4,
	}

	if err := recordSolve(cachePath, "/protected", result, 250*time.Millisecond); err != nil {
		t.Fatalf("recordSolve: %v", err)
	}

	store, err := cache.Open(cachePath)
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	defer func() { _ = store.Close() }()

	records, err := store.Recent(0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Endpoint != "/protected" || records[0].TokenValue != "tok-xyz" || records[0].Solution != 123 {
		t.Errorf("got %+v, want endpoint=/protected token=tok-xyz solution=123", records[0])
	}
}

func TestConfigPath_DefaultsToPowclientTOML(t *testing.T) {
	orig := cfgFile
	defer func() { cfgFile = orig }()

	cfgFile = ""
	if got := configPath(); got != "powclient.toml" {
		t.Errorf("configPath() = %q, want %q", got, "powclient.toml")
	}
}

func TestConfigPath_HonorsExplicitFlag(t *testing.T) {
	orig := cfgFile
	defer func() { cfgFile = orig }()

	cfgFile = "/tmp/custom-powclient.toml"
	if got := configPath(); got != cfgFile {
		t.Errorf("configPath() = %q, want %q", got, cfgFile)
	}
}
