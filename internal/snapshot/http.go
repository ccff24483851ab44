package snapshot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// HTTPSource fetches raw HTML without running scripts.
type HTTPSource struct {
	client *http.Client
	ua     string
	log    *slog.Logger
}

// Option configures an HTTPSource.
type Option func(*HTTPSource)

// WithClient sets a custom HTTP client.
func WithClient(c *http.Client) Option {
	return func(s *HTTPSource) { s.client = c }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *HTTPSource) { s.ua = ua }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *HTTPSource) { s.log = l }
}

func NewHTTPSource(opts ...Option) *HTTPSource {
	s := &HTTPSource{
		client: &http.Client{Timeout: 30 * time.Second},
		ua:     "Mozilla/5.0 (compatible; hintcheck/1.0)",
		log:    slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *HTTPSource) Fetch(ctx context.Context, pageURL string) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", s.ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
		}
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &RetryableError{StatusCode: resp.StatusCode, Err: fmt.Errorf("fetch %s: %s", pageURL, resp.Status)}
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch %s: %s", pageURL, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	s.log.Debug("fetched page", "url", pageURL, "status", resp.StatusCode, "size", len(body))

	return &Snapshot{
		URL:        pageURL,
		HTML:       body,
		Hash:       hashHTML(body),
		StatusCode: resp.StatusCode,
		FetchedAt:  time.Now(),
	}, nil
}
