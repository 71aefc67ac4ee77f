package cache

import (
	"path/filepath"
	"testing"
	"time"
)

func TestStore_SaveAndRecent_RoundTrips(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = store.Close() }()

	now := time.Now().Truncate(time.Second)
	records := []Record{
		{Endpoint: "/a", Solution: 10, ThreadCount: 4, HashRate: 1000, SolvedAt: now, TokenValue: "tok-a"},
		{Endpoint: "/b", Solution: 20, ThreadCount: 1, HashRate: 500, SolvedAt: now.Add(time.Second), TokenValue: "tok-b"},
	}
	for _, r := range records {
		if err := store.Save(r); err != nil {
			t.Fatalf("Save(%+v): %v", r, err)
		}
	}

	got, err := store.Recent(0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	// Recent orders newest first.
	if got[0].Endpoint != "/b" || got[1].Endpoint != "/a" {
		t.Errorf("got order %q, %q; want /b, /a", got[0].Endpoint, got[1].Endpoint)
	}
}

func TestStore_Recent_RespectsLimit(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = store.Close() }()

	for i := 0; i < 5; i++ {
		r := Record{Endpoint: "/x", Solution: int64(i), ThreadCount: 1, HashRate: 1, SolvedAt: time.Now().Add(time.Duration(i) * time.Second), TokenValue: "t"}
		if err := store.Save(r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := store.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
}

func TestStore_Recent_EmptyDatabase(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = store.Close() }()

	got, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d records, want 0", len(got))
	}
}
