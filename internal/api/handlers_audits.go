package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dgallion1/hintcheck/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

type auditRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleSubmitAudit(w http.ResponseWriter, r *http.Request) {
	var req auditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		jsonError(w, "url must be an absolute http(s) URL", http.StatusBadRequest)
		return
	}

	job := pipeline.NewJob(req.URL)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"url":      job.URL,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/audits/%s", job.ID),
	})
}

func (s *Server) handleAuditStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}
