package pipeline

import (
	"sync"
	"time"

	"github.com/dgallion1/hintcheck/internal/hints"
)

// JobStatus represents the state of an audit job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusFetching    JobStatus = "fetching"
	StatusClassifying JobStatus = "classifying"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
	StatusExcluded    JobStatus = "excluded"
)

// Job tracks the hint audit of a single page.
type Job struct {
	mu sync.Mutex

	ID  string `json:"job_id"`
	URL string `json:"url"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	ExcludedBy   string    `json:"excluded_by,omitempty"`
	SnapshotHash string    `json:"snapshot_hash,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Internal: not serialized.
	report *hints.Report
	errors []string
}

// NewJob returns a queued job for pageURL.
func NewJob(pageURL string) *Job {
	now := time.Now()
	return &Job{
		ID:        generateULID(),
		URL:       pageURL,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// SetExcluded marks the job as skipped because pattern matched its URL.
func (j *Job) SetExcluded(pattern string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusExcluded
	j.Phase = "excluded"
	j.ExcludedBy = pattern
	j.UpdatedAt = time.Now()
}

// SetSnapshotHash records the hash of the fetched HTML.
func (j *Job) SetSnapshotHash(hash string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.SnapshotHash = hash
	j.UpdatedAt = time.Now()
}

// SetReport stores the hint pass result.
func (j *Job) SetReport(r hints.Report) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.report = &r
	j.UpdatedAt = time.Now()
}

// Report returns the hint pass result, or nil before completion.
func (j *Job) Report() *hints.Report {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.report
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID           string        `json:"job_id"`
	URL          string        `json:"url"`
	Status       JobStatus     `json:"status"`
	Phase        string        `json:"phase"`
	ExcludedBy   string        `json:"excluded_by,omitempty"`
	SnapshotHash string        `json:"snapshot_hash,omitempty"`
	Errors       []string      `json:"errors"`
	Report       *hints.Report `json:"report,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.errors...)
	return JobSnapshot{
		ID:           j.ID,
		URL:          j.URL,
		Status:       j.Status,
		Phase:        j.Phase,
		ExcludedBy:   j.ExcludedBy,
		SnapshotHash: j.SnapshotHash,
		Errors:       errs,
		Report:       j.report,
	}
}
