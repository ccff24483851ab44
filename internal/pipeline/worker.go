package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/hintcheck/internal/dom"
	"github.com/dgallion1/hintcheck/internal/hints"
	"github.com/dgallion1/hintcheck/internal/sites"
	"github.com/dgallion1/hintcheck/internal/snapshot"
)

// Worker audits a single page per job.
type Worker struct {
	src          snapshot.Source
	exclusions   func() *sites.Matcher
	stats        *PassStats
	log          *slog.Logger
	fetchTimeout time.Duration
	backoff      func(attempt int) time.Duration
}

func NewWorker(src snapshot.Source, exclusions func() *sites.Matcher, stats *PassStats, log *slog.Logger, fetchTimeout time.Duration) *Worker {
	return &Worker{
		src:          src,
		exclusions:   exclusions,
		stats:        stats,
		log:          log,
		fetchTimeout: fetchTimeout,
		backoff:      Backoff,
	}
}

// Process runs exclusion check, fetch, parse and hint pass for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "url", job.URL)

	if w.exclusions != nil {
		if pattern, ok := w.exclusions().MatchedBy(job.URL); ok {
			log.Info("site excluded, skipping", "pattern", pattern)
			job.SetExcluded(pattern)
			return
		}
	}

	// Phase 1: Fetch
	job.SetStatus(StatusFetching, "fetching")
	snap, err := w.fetch(ctx, log, job.URL)
	if err != nil {
		log.Error("fetch failed", "error", err)
		job.AddError(fmt.Sprintf("fetch: %s", err))
		job.SetStatus(StatusFailed, "fetching")
		return
	}
	job.SetSnapshotHash(snap.Hash)

	// Phase 2: Parse and classify
	job.SetStatus(StatusClassifying, "classifying")
	doc, err := dom.Parse(bytes.NewReader(snap.HTML))
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "classifying")
		return
	}

	start := time.Now()
	report := hints.Run(doc, job.URL)
	if w.stats != nil {
		w.stats.Record(time.Since(start), report.Candidates, report.Hinted)
	}
	job.SetReport(report)

	log.Info("hint pass complete", "candidates", report.Candidates, "hinted", report.Hinted)
	job.SetStatus(StatusCompleted, "done")
}

func (w *Worker) fetch(ctx context.Context, log *slog.Logger, pageURL string) (*snapshot.Snapshot, error) {
	var snap *snapshot.Snapshot
	var lastErr error
	for attempt := range MaxRetries {
		snap, lastErr = w.fetchOnce(ctx, pageURL)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		log.Warn("retryable fetch error", "attempt", attempt, "error", lastErr)
		if attempt == MaxRetries-1 {
			break
		}
		select {
		case <-time.After(w.backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return snap, lastErr
}

func (w *Worker) fetchOnce(ctx context.Context, pageURL string) (*snapshot.Snapshot, error) {
	if w.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.fetchTimeout)
		defer cancel()
	}
	return w.src.Fetch(ctx, pageURL)
}
