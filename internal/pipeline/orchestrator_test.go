package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/hintcheck/internal/config"
	"github.com/dgallion1/hintcheck/internal/sites"
	"github.com/dgallion1/hintcheck/internal/snapshot"
)

const testPage = `<html><head><title>Inbox</title></head><body>
<a href="/compose">Compose</a>
<button><img src="x.png"></button>
<input id="q">
<select><option>1</option><option>Spam</option></select>
</body></html>`

type fakeSource struct {
	mu    sync.Mutex
	calls int
	errs  []error
	html  string
}

func (f *fakeSource) Fetch(ctx context.Context, pageURL string) (*snapshot.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	return &snapshot.Snapshot{URL: pageURL, HTML: []byte(f.html), Hash: "h1", StatusCode: 200}, nil
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOrchestrator(t *testing.T, src snapshot.Source, exclude []string) *Orchestrator {
	t.Helper()
	cfg := config.Config{WorkerCount: 2, MaxQueueSize: 4, JobTTL: time.Hour, FetchTimeout: time.Second}
	o := NewOrchestrator(cfg, src, sites.NewMatcher(exclude), nil, testLogger())
	o.backoff = func(int) time.Duration { return 0 }
	o.Start(context.Background())
	t.Cleanup(o.Stop)
	return o
}

func waitDone(t *testing.T, job *Job) JobSnapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap := job.Snapshot()
		switch snap.Status {
		case StatusCompleted, StatusFailed, StatusExcluded:
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish, status %q", job.ID, job.Snapshot().Status)
	return JobSnapshot{}
}

func TestOrchestrator_Completes(t *testing.T) {
	src := &fakeSource{html: testPage}
	o := testOrchestrator(t, src, nil)

	job := NewJob("https://mail.example.com/")
	if err := o.Submit(job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := waitDone(t, job)
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q (errors %v)", snap.Status, snap.Errors)
	}
	if snap.Report == nil {
		t.Fatal("expected report")
	}
	if snap.Report.Title != "Inbox" {
		t.Errorf("expected title Inbox, got %q", snap.Report.Title)
	}
	// Compose link and the select have text; the image button and unlabeled input do not.
	if snap.Report.Candidates != 4 || snap.Report.Hinted != 2 {
		t.Errorf("expected 4 candidates with 2 hinted, got %d/%d", snap.Report.Candidates, snap.Report.Hinted)
	}
	if snap.SnapshotHash != "h1" {
		t.Errorf("expected snapshot hash, got %q", snap.SnapshotHash)
	}
	if o.GetJob(job.ID) != job {
		t.Error("expected job to be retrievable")
	}
	if st := o.Stats().Snapshot(); st.Passes != 1 || st.Candidates != 4 {
		t.Errorf("expected one recorded pass, got %+v", st)
	}
}

func TestOrchestrator_Excluded(t *testing.T) {
	src := &fakeSource{html: testPage}
	o := testOrchestrator(t, src, []string{"*://meet.google.com/*"})

	job := NewJob("https://MEET.google.com/abc-defg")
	if err := o.Submit(job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := waitDone(t, job)
	if snap.Status != StatusExcluded {
		t.Fatalf("expected excluded, got %q", snap.Status)
	}
	if snap.ExcludedBy != "*://meet.google.com/*" {
		t.Errorf("unexpected pattern %q", snap.ExcludedBy)
	}
	if src.Calls() != 0 {
		t.Errorf("expected no fetch for excluded site, got %d", src.Calls())
	}
}

func TestOrchestrator_SetExclusions(t *testing.T) {
	o := testOrchestrator(t, &fakeSource{html: testPage}, nil)
	if o.Exclusions().Match("https://zoom.us/j/1") {
		t.Fatal("expected no exclusions")
	}
	o.SetExclusions(sites.NewMatcher([]string{"*://zoom.us/*"}))
	if !o.Exclusions().Match("https://zoom.us/j/1") {
		t.Error("expected new exclusions to apply")
	}
	o.SetExclusions(nil)
	if o.Exclusions().Len() != 0 {
		t.Error("expected nil to clear exclusions")
	}
}

func TestOrchestrator_RetriesRetryable(t *testing.T) {
	src := &fakeSource{
		html: testPage,
		errs: []error{
			&snapshot.RetryableError{StatusCode: 502, Err: errors.New("bad gateway")},
			&snapshot.RetryableError{StatusCode: 503, Err: errors.New("unavailable")},
		},
	}
	o := testOrchestrator(t, src, nil)

	job := NewJob("https://example.com/")
	o.Submit(job)
	snap := waitDone(t, job)
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed after retries, got %q", snap.Status)
	}
	if src.Calls() != 3 {
		t.Errorf("expected 3 fetch attempts, got %d", src.Calls())
	}
}

func TestOrchestrator_GivesUpAfterMaxRetries(t *testing.T) {
	var errs []error
	for range MaxRetries + 1 {
		errs = append(errs, &snapshot.RetryableError{StatusCode: 500, Err: errors.New("boom")})
	}
	src := &fakeSource{html: testPage, errs: errs}
	o := testOrchestrator(t, src, nil)

	job := NewJob("https://example.com/")
	o.Submit(job)
	snap := waitDone(t, job)
	if snap.Status != StatusFailed {
		t.Fatalf("expected failed, got %q", snap.Status)
	}
	if src.Calls() != MaxRetries {
		t.Errorf("expected %d attempts, got %d", MaxRetries, src.Calls())
	}
	if len(snap.Errors) != 1 {
		t.Errorf("expected one recorded error, got %v", snap.Errors)
	}
}

func TestOrchestrator_PermanentErrorNotRetried(t *testing.T) {
	src := &fakeSource{html: testPage, errs: []error{errors.New("fetch: 404 Not Found")}}
	o := testOrchestrator(t, src, nil)

	job := NewJob("https://example.com/missing")
	o.Submit(job)
	snap := waitDone(t, job)
	if snap.Status != StatusFailed {
		t.Fatalf("expected failed, got %q", snap.Status)
	}
	if src.Calls() != 1 {
		t.Errorf("expected a single attempt, got %d", src.Calls())
	}
}

type blockingSource struct{ release chan struct{} }

func (b blockingSource) Fetch(ctx context.Context, pageURL string) (*snapshot.Snapshot, error) {
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &snapshot.Snapshot{URL: pageURL}, nil
}

func TestOrchestrator_QueueFull(t *testing.T) {
	src := blockingSource{release: make(chan struct{})}
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}
	o := NewOrchestrator(cfg, src, nil, nil, testLogger())
	// Workers are not started, so the queue only drains on Stop.
	defer close(src.release)

	if err := o.Submit(NewJob("https://a.example/")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	job := NewJob("https://b.example/")
	if err := o.Submit(job); err == nil {
		t.Fatal("expected queue full error")
	}
	if job.Snapshot().Status != StatusFailed {
		t.Errorf("expected rejected job to be failed, got %q", job.Snapshot().Status)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
}

func TestIsRetryable(t *testing.T) {
	wrapped := errors.Join(errors.New("ctx"), &snapshot.RetryableError{Err: errors.New("reset")})
	if !IsRetryable(wrapped) {
		t.Error("expected wrapped RetryableError to be retryable")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("expected plain error not to be retryable")
	}
}

func TestBackoff(t *testing.T) {
	for attempt, base := range []time.Duration{time.Second, 2 * time.Second, 4 * time.Second} {
		d := Backoff(attempt)
		if d < base || d >= base+base/2 {
			t.Errorf("attempt %d: backoff %v outside [%v, %v)", attempt, d, base, base+base/2)
		}
	}
	if d := Backoff(10); d < 30*time.Second || d >= 45*time.Second {
		t.Errorf("expected capped backoff, got %v", d)
	}
}

func TestOrchestrator_SubmitAfterStop(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 4, JobTTL: time.Hour}
	o := NewOrchestrator(cfg, &fakeSource{html: testPage}, nil, nil, testLogger())
	o.Start(context.Background())
	o.Stop()

	job := NewJob("https://late.example/")
	err := o.Submit(job)
	if !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if job.Snapshot().Status != StatusFailed {
		t.Errorf("expected rejected job to be failed, got %q", job.Snapshot().Status)
	}

	// A second Stop must not close the queue again.
	o.Stop()
}
