// Package snapshot persists the enriched catalog as a local JSON file.
//
// The file holds a single JSON array sorted by popularity descending. Every
// write rewrites the whole file atomically through a temp file and rename,
// guarded by a process mutex and a cross-process file lock so concurrent
// runs never interleave partial writes. A missing or corrupt file reads as
// an empty catalog; the next successful write replaces it.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/gofrs/flock"

	"techscout/internal/catalog"
	"techscout/internal/logging"
)

// Store reads and writes the catalog snapshot file.
type Store struct {
	path     string
	mu       sync.Mutex
	fileLock *flock.Flock
	logger   *slog.Logger
}

// NewStore creates a snapshot store for the given file path, creating the
// parent directory if needed.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot: path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: create directory: %w", err)
	}
	return &Store{
		path:     path,
		fileLock: flock.New(path + ".lock"),
		logger:   logging.NewComponentLogger(logger, "snapshot"),
	}, nil
}

// Path returns the snapshot file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns all records sorted by popularity descending. A missing file
// yields an empty catalog. A corrupt file is logged and also yields an
// empty catalog, since the next write restores a valid snapshot.
func (s *Store) Load() ([]catalog.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fileLock.Lock(); err != nil {
		return nil, fmt.Errorf("snapshot: acquire lock: %w", err)
	}
	defer s.fileLock.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() ([]catalog.Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: read %s: %w", s.path, err)
	}
	var records []catalog.Record
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("snapshot file is corrupt, starting from empty",
			logging.String("path", s.path),
			logging.Error(err))
		return nil, nil
	}
	sortRecords(records)
	return records, nil
}

// Upsert inserts or replaces the record with the same slug and rewrites the
// snapshot. The operation is idempotent.
func (s *Store) Upsert(record catalog.Record) error {
	record.Normalize()
	if record.Slug == "" {
		return fmt.Errorf("snapshot: record has no slug")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fileLock.Lock(); err != nil {
		return fmt.Errorf("snapshot: acquire lock: %w", err)
	}
	defer s.fileLock.Unlock()

	records, err := s.loadLocked()
	if err != nil {
		return err
	}

	kept := records[:0]
	for _, existing := range records {
		if existing.Slug != record.Slug {
			kept = append(kept, existing)
		}
	}
	kept = append(kept, record)
	sortRecords(kept)

	if err := s.writeLocked(kept); err != nil {
		return err
	}
	s.logger.Debug("record persisted",
		logging.String(logging.FieldSlug, record.Slug),
		logging.Int("total", len(kept)))
	return nil
}

func (s *Store) writeLocked(records []catalog.Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	data = append(data, '\n')

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("snapshot: write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("snapshot: replace %s: %w", s.path, err)
	}
	return nil
}

// Slugs returns the set of slugs currently in the snapshot.
func (s *Store) Slugs() (map[string]struct{}, error) {
	records, err := s.Load()
	if err != nil {
		return nil, err
	}
	slugs := make(map[string]struct{}, len(records))
	for _, record := range records {
		slugs[record.Slug] = struct{}{}
	}
	return slugs, nil
}

// CategoryCounts returns how many records each category holds.
func (s *Store) CategoryCounts() (map[catalog.Category]int, error) {
	records, err := s.Load()
	if err != nil {
		return nil, err
	}
	counts := make(map[catalog.Category]int)
	for _, record := range records {
		counts[record.Category]++
	}
	return counts, nil
}

// sortRecords orders by popularity descending, name ascending on ties so
// output is stable across runs.
func sortRecords(records []catalog.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Popularity != records[j].Popularity {
			return records[i].Popularity > records[j].Popularity
		}
		return records[i].Name < records[j].Name
	})
}
