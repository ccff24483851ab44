package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Render modes for page snapshots.
const (
	RenderHTTP = "http"
	RenderRod  = "rod"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// User settings file (excluded sites, tab marker delimiter)
	SettingsPath string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Request limits
	MaxDocumentBytes int64

	// Job state
	JobTTL time.Duration

	// Snapshots
	FetchTimeout    time.Duration
	RenderMode      string
	ChromeRemoteURL string

	// Tab title marker used when a request leaves it empty
	DefaultTabMarker string

	// Rolling window for hint pass latency stats
	StatsWindow time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("HINTCHECK_API_KEY"),

		SettingsPath: envOr("SETTINGS_PATH", "settings.yaml"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxDocumentBytes: envInt64("MAX_DOCUMENT_BYTES", 10485760), // 10MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		FetchTimeout:    envDuration("FETCH_TIMEOUT", 30*time.Second),
		RenderMode:      strings.ToLower(envOr("RENDER_MODE", RenderHTTP)),
		ChromeRemoteURL: os.Getenv("CHROME_REMOTE_URL"),

		DefaultTabMarker: os.Getenv("TAB_MARKER_DEFAULT"),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxDocumentBytes <= 0 {
		cfg.MaxDocumentBytes = 10485760
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("HINTCHECK_API_KEY is required")
	}
	switch c.RenderMode {
	case RenderHTTP, RenderRod:
	default:
		return fmt.Errorf("RENDER_MODE must be %q or %q, got %q", RenderHTTP, RenderRod, c.RenderMode)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
