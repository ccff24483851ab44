package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/hintcheck/internal/settings"
	"github.com/dgallion1/hintcheck/internal/sites"
	"github.com/dgallion1/hintcheck/internal/tabtitle"
)

func (s *Server) handleSiteCheck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	pattern, excluded := s.orchestrator.Exclusions().MatchedBy(req.URL)
	resp := map[string]any{"url": req.URL, "excluded": excluded}
	if excluded {
		resp["pattern"] = pattern
	}
	writeJSON(w, http.StatusOK, resp)
}

type patternResult struct {
	Pattern string `json:"pattern"`
	Valid   bool   `json:"valid"`
}

func (s *Server) handleValidatePatterns(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Patterns []string `json:"patterns"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	results := make([]patternResult, 0, len(req.Patterns))
	allValid := true
	for _, p := range req.Patterns {
		ok := sites.IsValidPattern(p)
		allValid = allValid && ok
		results = append(results, patternResult{Pattern: p, Valid: ok})
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": allValid, "results": results})
}

type titleRequest struct {
	Marker         string `json:"marker"`
	PreviousMarker string `json:"previous_marker"`
	Title          string `json:"title"`
	URL            string `json:"url"`
	Compact        *bool  `json:"compact"`
}

func (s *Server) handleDecorateTitle(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	d := tabtitle.Decoration{
		Marker:         req.Marker,
		PreviousMarker: req.PreviousMarker,
		Title:          req.Title,
		URL:            req.URL,
		Compact:        s.settings.Get().UseCompactTabMarkerDelimiter,
	}
	if d.Marker == "" {
		d.Marker = s.cfg.DefaultTabMarker
	}
	if req.Compact != nil {
		d.Compact = *req.Compact
	}
	writeJSON(w, http.StatusOK, map[string]string{"title": tabtitle.Decorate(d)})
}

func (s *Server) handleStripTitle(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"title": tabtitle.Strip(req.Title)})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.settings.Get())
}

// handlePutSettings replaces the settings and applies the new excluded sites
// to audits submitted afterwards.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var in settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	out, err := s.settings.Update(in)
	if err != nil {
		var ipe *settings.InvalidPatternError
		if errors.As(err, &ipe) {
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		s.log.Error("settings update failed", "error", err)
		jsonError(w, "failed to save settings", http.StatusInternalServerError)
		return
	}
	s.orchestrator.SetExclusions(sites.NewMatcher(out.ExcludedSites))
	s.log.Info("settings updated", "excluded_sites", len(out.ExcludedSites))
	writeJSON(w, http.StatusOK, out)
}
