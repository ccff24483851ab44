package pipeline

import (
	"testing"
	"time"
)

func TestPassStats_Percentiles(t *testing.T) {
	stats := NewPassStats(time.Hour)
	for i := 1; i <= 5; i++ {
		stats.Record(time.Duration(i*100)*time.Millisecond, 10, i)
	}

	snap := stats.Snapshot()
	if snap.Passes != 5 {
		t.Fatalf("expected passes=5, got %d", snap.Passes)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
	if snap.Candidates != 50 || snap.Hinted != 15 {
		t.Fatalf("expected candidates=50 hinted=15, got %d/%d", snap.Candidates, snap.Hinted)
	}
}

func TestPassStats_PrunesExpiredSamples(t *testing.T) {
	stats := NewPassStats(10 * time.Millisecond)
	stats.Record(100*time.Millisecond, 1, 1)
	time.Sleep(25 * time.Millisecond)

	if snap := stats.Snapshot(); snap.Passes != 0 {
		t.Fatalf("expected passes=0 after prune, got %d", snap.Passes)
	}

	stats.Record(200*time.Millisecond, 3, 0)
	snap := stats.Snapshot()
	if snap.Passes != 1 {
		t.Fatalf("expected passes=1 for fresh sample, got %d", snap.Passes)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.Candidates != 3 {
		t.Fatalf("expected expired candidates to be dropped, got %d", snap.Candidates)
	}
}

func TestPassStats_ClampsNegativeDuration(t *testing.T) {
	stats := NewPassStats(time.Hour)
	stats.Record(-10*time.Millisecond, 0, 0)
	snap := stats.Snapshot()
	if snap.Passes != 1 {
		t.Fatalf("expected passes=1, got %d", snap.Passes)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestPassStats_Empty(t *testing.T) {
	if snap := NewPassStats(0).Snapshot(); snap != (StatsSnapshot{}) {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
}
