package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodSource renders pages in headless Chrome so script-built DOMs are seen
// as the extension would see them.
type RodSource struct {
	remoteURL  string
	navTimeout time.Duration
	log        *slog.Logger

	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
}

// NewRodSource creates a source that connects lazily. An empty remoteURL
// launches a local headless Chrome.
func NewRodSource(remoteURL string, navTimeout time.Duration, log *slog.Logger) *RodSource {
	if navTimeout <= 0 {
		navTimeout = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &RodSource{remoteURL: remoteURL, navTimeout: navTimeout, log: log}
}

func (s *RodSource) connect() (*rod.Browser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser != nil {
		return s.browser, nil
	}

	wsURL := s.remoteURL
	if wsURL == "" {
		l := launcher.New().Headless(true)
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		wsURL = u
		s.lnch = l
		s.log.Info("launched local chrome", "url", wsURL)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect chrome: %w", err)
	}
	s.browser = b
	return b, nil
}

func (s *RodSource) Fetch(ctx context.Context, pageURL string) (*Snapshot, error) {
	b, err := s.connect()
	if err != nil {
		return nil, &RetryableError{Err: err}
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("create tab: %w", err)}
	}
	defer page.Close()

	navCtx, cancel := context.WithTimeout(ctx, s.navTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		s.log.Warn("wait load timeout", "url", pageURL, "error", err)
	}

	res, err := page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return nil, fmt.Errorf("read dom: %w", err)
	}
	body := []byte(res.Value.Str())
	if len(body) > maxBody {
		body = body[:maxBody]
	}

	return &Snapshot{
		URL:        pageURL,
		HTML:       body,
		Hash:       hashHTML(body),
		StatusCode: 200,
		FetchedAt:  time.Now(),
	}, nil
}

// Close shuts down the browser connection and any launched Chrome.
func (s *RodSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	if s.lnch != nil {
		s.lnch.Kill()
		s.lnch = nil
	}
	return err
}
