// Package runner executes the enrichment pipeline across many technologies
// with bounded concurrency and aggregates the results into a run report.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	"techscout/internal/catalog"
	"techscout/internal/logging"
	"techscout/internal/services"
)

// Processor enriches one technology name into a record.
type Processor interface {
	Process(ctx context.Context, name string) (*catalog.Record, error)
}

// SnapshotStore is the slice of the local store the runner needs.
type SnapshotStore interface {
	Upsert(record catalog.Record) error
	Load() ([]catalog.Record, error)
	CategoryCounts() (map[catalog.Category]int, error)
}

// RemoteStore mirrors records to the shared database. A nil store disables
// the mirror.
type RemoteStore interface {
	Upsert(ctx context.Context, record catalog.Record) error
}

// Outcome is the result of one technology's pipeline run.
type Outcome struct {
	Name string
	Slug string
	Err  error
}

// Report summarizes a full run.
type Report struct {
	Attempted      int
	Succeeded      int
	Failed         int
	Outcomes       []Outcome
	TotalRecords   int
	CategoryCounts map[catalog.Category]int
}

// Runner fans the pipeline out over a candidate list.
type Runner struct {
	processor     Processor
	snapshot      SnapshotStore
	remote        RemoteStore
	maxConcurrent int64
	logger        *slog.Logger
}

// New builds a runner. maxConcurrent values below one are clamped to one.
// remote may be nil when no shared database is configured.
func New(processor Processor, snapshot SnapshotStore, remote RemoteStore, maxConcurrent int, logger *slog.Logger) *Runner {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Runner{
		processor:     processor,
		snapshot:      snapshot,
		remote:        remote,
		maxConcurrent: int64(maxConcurrent),
		logger:        logging.NewComponentLogger(logger, "runner"),
	}
}

// Run processes every name, admitting at most the configured number of
// pipelines at once. Item failures are isolated: each name gets an outcome
// and the run always completes. The report's totals come from re-reading
// the snapshot after the last item finishes.
func (r *Runner) Run(ctx context.Context, names []string) (Report, error) {
	sem := semaphore.NewWeighted(r.maxConcurrent)
	outcomes := make([]Outcome, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		if err := sem.Acquire(ctx, 1); err != nil {
			outcomes[i] = Outcome{Name: name, Slug: catalog.Slugify(name), Err: err}
			continue
		}
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			defer sem.Release(1)
			outcomes[i] = r.runOne(ctx, name)
		}(i, name)
	}
	wg.Wait()

	report := Report{Outcomes: outcomes, Attempted: len(names)}
	for _, outcome := range outcomes {
		if outcome.Err == nil {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}

	if err := r.fillTotals(&report); err != nil {
		return report, fmt.Errorf("runner: read snapshot totals: %w", err)
	}

	r.logger.Info("run complete",
		logging.Int("attempted", report.Attempted),
		logging.Int("succeeded", report.Succeeded),
		logging.Int("failed", report.Failed),
		logging.Int("total_records", report.TotalRecords))
	return report, nil
}

func (r *Runner) runOne(ctx context.Context, name string) (outcome Outcome) {
	outcome = Outcome{Name: name, Slug: catalog.Slugify(name)}
	logger := logging.WithContext(services.WithTech(ctx, name), r.logger)

	defer func() {
		if rec := recover(); rec != nil {
			outcome.Err = fmt.Errorf("pipeline panic: %v", rec)
			logger.Error("pipeline panicked", logging.Any("panic", rec))
		}
	}()

	record, err := r.processor.Process(ctx, name)
	if err != nil {
		outcome.Err = err
		logger.Warn("enrichment failed", logging.Error(err))
		return outcome
	}
	outcome.Slug = record.Slug

	if err := r.snapshot.Upsert(*record); err != nil {
		outcome.Err = err
		logger.Error("snapshot write failed", logging.Error(err))
		return outcome
	}

	if r.remote != nil {
		// Best effort: the snapshot is the durable record.
		if err := r.remote.Upsert(ctx, *record); err != nil {
			logger.Warn("remote mirror failed", logging.Error(err))
		}
	}
	return outcome
}

func (r *Runner) fillTotals(report *Report) error {
	records, err := r.snapshot.Load()
	if err != nil {
		return err
	}
	report.TotalRecords = len(records)
	counts, err := r.snapshot.CategoryCounts()
	if err != nil {
		return err
	}
	report.CategoryCounts = counts
	return nil
}
