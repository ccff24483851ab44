package pipeline

import (
	"slices"
	"sync"
	"time"
)

type passSample struct {
	at         time.Time
	durationMs int64
	candidates int
	hinted     int
}

// StatsSnapshot aggregates the hint passes still inside the window.
type StatsSnapshot struct {
	Passes     int     `json:"passes"`
	Candidates int     `json:"candidates"`
	Hinted     int     `json:"hinted"`
	MinMs      int64   `json:"min_ms"`
	MaxMs      int64   `json:"max_ms"`
	AvgMs      float64 `json:"avg_ms"`
	P50Ms      float64 `json:"p50_ms"`
	P95Ms      float64 `json:"p95_ms"`
	P99Ms      float64 `json:"p99_ms"`
}

// PassStats tracks recent hint pass latencies within a rolling window.
type PassStats struct {
	mu      sync.Mutex
	samples []passSample
	window  time.Duration
}

func NewPassStats(window time.Duration) *PassStats {
	if window <= 0 {
		window = time.Hour
	}
	return &PassStats{
		samples: make([]passSample, 0, 256),
		window:  window,
	}
}

// Record adds one pass. Negative durations count as zero.
func (s *PassStats) Record(d time.Duration, candidates, hinted int) {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, passSample{
		at:         now,
		durationMs: ms,
		candidates: candidates,
		hinted:     hinted,
	})
}

func (s *PassStats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	snap := StatsSnapshot{Passes: len(s.samples)}
	durations := make([]int64, 0, len(s.samples))
	var sum int64
	for _, sm := range s.samples {
		durations = append(durations, sm.durationMs)
		sum += sm.durationMs
		snap.Candidates += sm.candidates
		snap.Hinted += sm.hinted
	}
	slices.Sort(durations)

	snap.MinMs = durations[0]
	snap.MaxMs = durations[len(durations)-1]
	snap.AvgMs = float64(sum) / float64(len(durations))
	snap.P50Ms = percentile(durations, 50)
	snap.P95Ms = percentile(durations, 95)
	snap.P99Ms = percentile(durations, 99)
	return snap
}

func (s *PassStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	kept := s.samples[:0]
	for _, sm := range s.samples {
		if !sm.at.Before(cutoff) {
			kept = append(kept, sm)
		}
	}
	s.samples = kept
}

// percentile interpolates linearly between the two nearest ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}

	rank := float64(len(sorted)-1) * pct / 100
	lower := int(rank)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*(rank-float64(lower))
}
