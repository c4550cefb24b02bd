package testsupport

import (
	"testing"
	"time"

	"techscout/internal/catalog"
	"techscout/internal/config"
	"techscout/internal/logging"
	"techscout/internal/runhistory"
	"techscout/internal/snapshot"
)

// MustOpenSnapshot opens a snapshot.Store for tests.
func MustOpenSnapshot(t testing.TB, cfg *config.Config) *snapshot.Store {
	t.Helper()

	store, err := snapshot.NewStore(cfg.Paths.SnapshotPath, logging.NewNop())
	if err != nil {
		t.Fatalf("snapshot.NewStore: %v", err)
	}
	return store
}

// MustOpenHistory opens a runhistory.Store for tests and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *runhistory.Store {
	t.Helper()

	store, err := runhistory.Open(cfg.Paths.DataDir)
	if err != nil {
		t.Fatalf("runhistory.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedRecord inserts a minimal catalog record for tests.
func SeedRecord(t testing.TB, store *snapshot.Store, name string, popularity int) catalog.Record {
	t.Helper()

	record := catalog.Record{
		Name:       name,
		Slug:       catalog.Slugify(name),
		Popularity: popularity,
		UpdatedAt:  time.Now().UTC(),
	}
	if err := store.Upsert(record); err != nil {
		t.Fatalf("seed record %q: %v", name, err)
	}
	return record
}
