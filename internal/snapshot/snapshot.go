// Package snapshot acquires the HTML of a page for a hint pass, either with a
// plain HTTP GET or by rendering it in headless Chrome.
package snapshot

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"
)

// maxBody caps how much HTML a single fetch reads.
const maxBody = 10 << 20

// Snapshot is the HTML of a page at one point in time.
type Snapshot struct {
	URL        string
	HTML       []byte
	Hash       string
	StatusCode int
	FetchedAt  time.Time
}

// Source produces snapshots.
type Source interface {
	Fetch(ctx context.Context, pageURL string) (*Snapshot, error)
}

// RetryableError marks a fetch failure worth retrying (5xx, 429, transport errors).
type RetryableError struct {
	StatusCode int
	Err        error
}

func (e *RetryableError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("retryable fetch error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("retryable fetch error: %v", e.Err)
}

func (e *RetryableError) Unwrap() error { return e.Err }

func hashHTML(b []byte) string {
	h := sha256.Sum256(b)
	return fmt.Sprintf("%x", h[:])
}
