// Package pipeline runs one fetch cycle end to end:
// fetch → normalize → dedupe → write → record → notify → publish.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/jobpulse/internal/dedupe"
	"github.com/amishk599/jobpulse/internal/model"
	"github.com/amishk599/jobpulse/internal/normalize"
)

// Publisher copies a freshly written snapshot somewhere else.
type Publisher interface {
	Publish(ctx context.Context, localPath string) error
}

// Pipeline owns the full refresh of the canonical dataset.
type Pipeline struct {
	fetcher    model.PostingFetcher
	normalizer *normalize.Normalizer
	writer     model.DatasetWriter
	store      model.RunStore
	notifier   model.Notifier
	publisher  Publisher // nil disables publishing
	logger     *slog.Logger

	newID func() string
	now   func() time.Time
}

// New creates a pipeline wired with all its dependencies. publisher may be nil.
func New(
	fetcher model.PostingFetcher,
	normalizer *normalize.Normalizer,
	writer model.DatasetWriter,
	store model.RunStore,
	notifier model.Notifier,
	publisher Publisher,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		fetcher:    fetcher,
		normalizer: normalizer,
		writer:     writer,
		store:      store,
		notifier:   notifier,
		publisher:  publisher,
		logger:     logger,
		newID:      uuid.NewString,
		now:        time.Now,
	}
}

// Collect fetches, normalizes and deduplicates without writing anything.
// The returned summary has no dataset path. Fetch is only fatal when ctx is
// cancelled; per-term failures are absorbed by the fetcher.
func (p *Pipeline) Collect(ctx context.Context) ([]model.Job, model.RunSummary, error) {
	run := model.RunSummary{RunID: p.newID(), StartedAt: p.now()}
	logger := p.logger.With("run_id", run.RunID)

	raws, err := p.fetcher.FetchPostings(ctx)
	if err != nil {
		return nil, run, fmt.Errorf("fetching postings: %w", err)
	}
	run.Fetched = len(raws)

	jobs, dropped := p.normalizer.NormalizeAll(raws)
	run.Normalized = len(jobs)
	run.Dropped = dropped

	unique := dedupe.Dedupe(jobs)
	run.Unique = len(unique)
	run.FinishedAt = p.now()

	logger.Info("collected jobs",
		"fetched", run.Fetched,
		"normalized", run.Normalized,
		"dropped", run.Dropped,
		"unique", run.Unique,
	)
	return unique, run, nil
}

// Run performs one full refresh. A write failure fails the run and leaves
// the previous snapshot in place. Failures after the write (history,
// notification, publishing) are logged and do not fail the run.
func (p *Pipeline) Run(ctx context.Context) (model.RunSummary, error) {
	jobs, run, err := p.Collect(ctx)
	if err != nil {
		return run, err
	}
	logger := p.logger.With("run_id", run.RunID)

	if err := p.writer.Write(jobs); err != nil {
		return run, fmt.Errorf("writing dataset: %w", err)
	}
	run.DatasetPath = p.writer.Path()
	run.FinishedAt = p.now()
	logger.Info("dataset written", "path", run.DatasetPath, "jobs", len(jobs))

	if err := p.store.RecordRun(run); err != nil {
		logger.Error("recording run history failed", "error", err)
	}
	if err := p.notifier.Notify(run); err != nil {
		logger.Error("run notification failed", "error", err)
	}
	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, run.DatasetPath); err != nil {
			logger.Error("publishing dataset failed", "error", err)
		}
	}

	return run, nil
}
