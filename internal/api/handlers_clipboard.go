package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/dgallion1/hintcheck/internal/clipboard"
)

// clipboardOrigin is the origin the bridge accepts messages from when a
// request does not name one.
const clipboardOrigin = "hintcheck"

// clipboardBridge queues interceptor messages until a client polls for them.
type clipboardBridge struct {
	mu     sync.Mutex
	outbox []clipboard.Message
	ic     *clipboard.Interceptor
}

func newClipboardBridge(w clipboard.Writer) *clipboardBridge {
	b := &clipboardBridge{}
	b.ic = clipboard.Install(clipboardOrigin, w, b.post)
	return b
}

func (b *clipboardBridge) post(m clipboard.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.outbox = append(b.outbox, m)
}

func (b *clipboardBridge) drain() []clipboard.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.outbox
	b.outbox = nil
	if out == nil {
		out = []clipboard.Message{}
	}
	return out
}

func (s *Server) writeOutbox(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{
		"intercepting": s.clip.ic.Intercepting(),
		"messages":     s.clip.drain(),
	})
}

func (s *Server) handleClipboardMessage(w http.ResponseWriter, r *http.Request) {
	var msg clipboard.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if msg.Origin == "" {
		msg.Origin = clipboardOrigin
	}
	s.clip.ic.Handle(msg)
	s.writeOutbox(w)
}

func (s *Server) handleClipboardOutbox(w http.ResponseWriter, r *http.Request) {
	s.writeOutbox(w)
}

func (s *Server) handleClipboardWrite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.clip.ic.WriteText(req.Text); err != nil {
		s.log.Warn("clipboard write failed", "error", err)
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}
	s.writeOutbox(w)
}
