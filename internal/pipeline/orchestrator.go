package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/hintcheck/internal/config"
	"github.com/dgallion1/hintcheck/internal/sites"
	"github.com/dgallion1/hintcheck/internal/snapshot"
)

// ErrStopped is returned by Submit once the pipeline has been stopped.
var ErrStopped = errors.New("pipeline is stopped")

// Orchestrator runs hint audits of remote pages on a pool of workers.
type Orchestrator struct {
	jobs    *JobStore
	queue   chan *Job
	src     snapshot.Source
	stats   *PassStats
	log     *slog.Logger
	cfg     config.Config
	backoff func(attempt int) time.Duration

	mu      sync.RWMutex
	exclude *sites.Matcher

	// queueMu guards sends on queue against its close in Stop.
	queueMu sync.Mutex
	stopped bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, src snapshot.Source, exclude *sites.Matcher, stats *PassStats, log *slog.Logger) *Orchestrator {
	if exclude == nil {
		exclude = sites.NewMatcher(nil)
	}
	if stats == nil {
		stats = NewPassStats(time.Hour)
	}
	return &Orchestrator{
		jobs:    NewJobStore(cfg.JobTTL),
		queue:   make(chan *Job, cfg.MaxQueueSize),
		src:     src,
		stats:   stats,
		log:     log,
		cfg:     cfg,
		backoff: Backoff,
		exclude: exclude,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.src, o.Exclusions, o.stats, o.log, o.cfg.FetchTimeout)
			w.backoff = o.backoff
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline. Later calls are no-ops.
func (o *Orchestrator) Stop() {
	o.queueMu.Lock()
	if o.stopped {
		o.queueMu.Unlock()
		return
	}
	o.stopped = true
	close(o.queue)
	o.queueMu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Submit queues a new job for processing. After Stop the job is marked
// failed and ErrStopped is returned.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)

	o.queueMu.Lock()
	defer o.queueMu.Unlock()
	if o.stopped {
		job.SetStatus(StatusFailed, "stopped")
		return ErrStopped
	}
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats returns the pass latency tracker shared by all workers.
func (o *Orchestrator) Stats() *PassStats {
	return o.stats
}

// Exclusions returns the current excluded-site matcher.
func (o *Orchestrator) Exclusions() *sites.Matcher {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.exclude
}

// SetExclusions swaps the excluded-site matcher used by subsequent jobs.
func (o *Orchestrator) SetExclusions(m *sites.Matcher) {
	if m == nil {
		m = sites.NewMatcher(nil)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.exclude = m
}
