package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/hintcheck/internal/api"
	"github.com/dgallion1/hintcheck/internal/clipboard"
	"github.com/dgallion1/hintcheck/internal/config"
	"github.com/dgallion1/hintcheck/internal/pipeline"
	"github.com/dgallion1/hintcheck/internal/settings"
	"github.com/dgallion1/hintcheck/internal/sites"
	"github.com/dgallion1/hintcheck/internal/snapshot"
	"github.com/joho/godotenv"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("could not load .env", "error", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := settings.Open(cfg.SettingsPath)
	if err != nil {
		log.Error("failed to load settings", "path", cfg.SettingsPath, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Page source for audits.
	var src snapshot.Source
	var rodSrc *snapshot.RodSource
	switch cfg.RenderMode {
	case config.RenderRod:
		rodSrc = snapshot.NewRodSource(cfg.ChromeRemoteURL, cfg.FetchTimeout, log)
		src = rodSrc
	default:
		src = snapshot.NewHTTPSource(
			snapshot.WithClient(&http.Client{Timeout: cfg.FetchTimeout}),
			snapshot.WithLogger(log),
		)
	}

	// Initialize pipeline.
	stats := pipeline.NewPassStats(cfg.StatsWindow)
	exclude := sites.NewMatcher(store.Get().ExcludedSites)
	orch := pipeline.NewOrchestrator(cfg, src, exclude, stats, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, store, clipboard.SystemWriter{}, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		// Drain HTTP first so no handler submits to a closed queue.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()

		if rodSrc != nil {
			if err := rodSrc.Close(); err != nil {
				log.Warn("closing browser", "error", err)
			}
		}
	}()

	log.Info("starting hintcheck",
		"port", cfg.Port,
		"render_mode", cfg.RenderMode,
		"excluded_sites", exclude.Len(),
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
