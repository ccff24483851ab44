package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dgallion1/hintcheck/internal/clipboard"
	"github.com/dgallion1/hintcheck/internal/config"
	"github.com/dgallion1/hintcheck/internal/pipeline"
	"github.com/dgallion1/hintcheck/internal/settings"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for hintcheck.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	settings     *settings.Store
	clip         *clipboardBridge
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. clip is the clipboard
// that writes reach when no interception is active.
func NewServer(orch *pipeline.Orchestrator, store *settings.Store, clip clipboard.Writer, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		settings:     store,
		clip:         newClipboardBridge(clip),
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/classify", s.handleClassify)

		r.Post("/api/audits", s.handleSubmitAudit)
		r.Get("/api/audits/{jobID}", s.handleAuditStatus)
		r.Get("/api/stats/passes", s.handlePassStats)

		r.Post("/api/sites/check", s.handleSiteCheck)
		r.Post("/api/sites/validate", s.handleValidatePatterns)

		r.Post("/api/title", s.handleDecorateTitle)
		r.Post("/api/title/strip", s.handleStripTitle)

		r.Get("/api/settings", s.handleGetSettings)
		r.Put("/api/settings", s.handlePutSettings)

		r.Post("/api/clipboard/messages", s.handleClipboardMessage)
		r.Get("/api/clipboard/messages", s.handleClipboardOutbox)
		r.Post("/api/clipboard/write", s.handleClipboardWrite)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
