package runner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"techscout/internal/catalog"
	"techscout/internal/logging"
)

type stubProcessor struct {
	mu         sync.Mutex
	inFlight   int32
	maxSeen    int32
	delay      time.Duration
	failNames  map[string]error
	panicNames map[string]struct{}
}

func (s *stubProcessor) Process(ctx context.Context, name string) (*catalog.Record, error) {
	current := atomic.AddInt32(&s.inFlight, 1)
	defer atomic.AddInt32(&s.inFlight, -1)
	for {
		seen := atomic.LoadInt32(&s.maxSeen)
		if current <= seen || atomic.CompareAndSwapInt32(&s.maxSeen, seen, current) {
			break
		}
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if _, ok := s.panicNames[name]; ok {
		panic("boom: " + name)
	}
	if err, ok := s.failNames[name]; ok {
		return nil, err
	}
	return &catalog.Record{Name: name, Slug: catalog.Slugify(name), Popularity: 50}, nil
}

type memorySnapshot struct {
	mu        sync.Mutex
	records   map[string]catalog.Record
	upsertErr error
}

func newMemorySnapshot() *memorySnapshot {
	return &memorySnapshot{records: make(map[string]catalog.Record)}
}

func (m *memorySnapshot) Upsert(record catalog.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.records[record.Slug] = record
	return nil
}

func (m *memorySnapshot) Load() ([]catalog.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]catalog.Record, 0, len(m.records))
	for _, record := range m.records {
		out = append(out, record)
	}
	return out, nil
}

func (m *memorySnapshot) CategoryCounts() (map[catalog.Category]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[catalog.Category]int)
	for _, record := range m.records {
		counts[record.Category]++
	}
	return counts, nil
}

type stubRemote struct {
	mu    sync.Mutex
	slugs []string
	err   error
}

func (s *stubRemote) Upsert(ctx context.Context, record catalog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.slugs = append(s.slugs, record.Slug)
	return nil
}

func TestRunRespectsConcurrencyCap(t *testing.T) {
	processor := &stubProcessor{delay: 20 * time.Millisecond}
	runner := New(processor, newMemorySnapshot(), nil, 2, logging.NewNop())

	names := []string{"React", "Svelte", "HTMX", "Astro", "Bun", "Deno"}
	report, err := runner.Run(context.Background(), names)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Succeeded != len(names) {
		t.Fatalf("succeeded = %d, want %d", report.Succeeded, len(names))
	}
	if seen := atomic.LoadInt32(&processor.maxSeen); seen > 2 {
		t.Fatalf("observed %d concurrent pipelines, cap is 2", seen)
	}
}

func TestRunIsolatesItemFailures(t *testing.T) {
	processor := &stubProcessor{failNames: map[string]error{"Svelte": errors.New("enhancement failed")}}
	store := newMemorySnapshot()
	runner := New(processor, store, nil, 2, logging.NewNop())

	report, err := runner.Run(context.Background(), []string{"React", "Svelte", "HTMX"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Succeeded != 2 || report.Failed != 1 {
		t.Fatalf("counts = %d/%d", report.Succeeded, report.Failed)
	}
	if report.TotalRecords != 2 {
		t.Fatalf("total records = %d", report.TotalRecords)
	}
	for _, outcome := range report.Outcomes {
		if outcome.Name == "Svelte" && outcome.Err == nil {
			t.Fatal("expected failure outcome for Svelte")
		}
	}
}

func TestRunRecoversPanics(t *testing.T) {
	processor := &stubProcessor{panicNames: map[string]struct{}{"HTMX": {}}}
	runner := New(processor, newMemorySnapshot(), nil, 2, logging.NewNop())

	report, err := runner.Run(context.Background(), []string{"React", "HTMX"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Failed != 1 || report.Succeeded != 1 {
		t.Fatalf("counts = %d/%d", report.Succeeded, report.Failed)
	}
}

func TestRunRemoteFailureNonFatal(t *testing.T) {
	remote := &stubRemote{err: errors.New("connection refused")}
	runner := New(&stubProcessor{}, newMemorySnapshot(), remote, 2, logging.NewNop())

	report, err := runner.Run(context.Background(), []string{"React"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Failed != 0 {
		t.Fatalf("remote failure should not fail the item: %+v", report.Outcomes)
	}
}

func TestRunMirrorsToRemote(t *testing.T) {
	remote := &stubRemote{}
	runner := New(&stubProcessor{}, newMemorySnapshot(), remote, 2, logging.NewNop())

	if _, err := runner.Run(context.Background(), []string{"React", "Svelte"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(remote.slugs) != 2 {
		t.Fatalf("remote received %d records, want 2", len(remote.slugs))
	}
}

func TestRunSnapshotFailureFailsItem(t *testing.T) {
	store := newMemorySnapshot()
	store.upsertErr = errors.New("disk full")
	runner := New(&stubProcessor{}, store, nil, 1, logging.NewNop())

	report, err := runner.Run(context.Background(), []string{"React"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Failed != 1 {
		t.Fatalf("expected snapshot failure to fail the item")
	}
}

func TestRunEmptyList(t *testing.T) {
	runner := New(&stubProcessor{}, newMemorySnapshot(), nil, 2, logging.NewNop())
	report, err := runner.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Attempted != 0 || report.Succeeded != 0 || report.Failed != 0 {
		t.Fatalf("report = %+v", report)
	}
}
