package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dgallion1/hintcheck/internal/dom"
	"github.com/dgallion1/hintcheck/internal/hints"
)

// handleClassify runs a hint pass over the posted document.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxDocumentBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("document exceeds max size (%d bytes)", s.cfg.MaxDocumentBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "failed to read document", http.StatusBadRequest)
		return
	}

	var doc *dom.Document
	switch format := strings.ToLower(r.URL.Query().Get("format")); format {
	case "", "html":
		doc, err = dom.Parse(bytes.NewReader(data))
	case "markdown", "md":
		doc, err = dom.ParseMarkdown(data)
	default:
		jsonError(w, fmt.Sprintf("unsupported format: %s", format), http.StatusBadRequest)
		return
	}
	if err != nil {
		jsonError(w, "failed to parse document: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	start := time.Now()
	report := hints.Run(doc, r.URL.Query().Get("url"))
	s.orchestrator.Stats().Record(time.Since(start), report.Candidates, report.Hinted)

	writeJSON(w, http.StatusOK, report)
}
