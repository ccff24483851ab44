// Package clipboard captures the next clipboard write of a page so a voice
// command can read the copied text instead of letting it reach the system
// clipboard.
//
// An Interceptor lives once per page context. It keeps the original writer
// so interception can be torn down, and talks to the extension side through
// typed messages.
package clipboard

import (
	"fmt"
	"sync"
)

// MessageType identifies bridge messages.
type MessageType string

const (
	MsgStart       MessageType = "start"
	MsgStop        MessageType = "stop"
	MsgCheckLoaded MessageType = "check_loaded"
	MsgReady       MessageType = "ready"
	MsgIntercepted MessageType = "intercepted"
	MsgLoaded      MessageType = "loaded"
)

// Message is exchanged between the page context and the extension.
type Message struct {
	Type   MessageType `json:"type"`
	Origin string      `json:"origin"`
	// Text is set on intercepted messages when the write carried text.
	Text *string `json:"text,omitempty"`
	// Reinjection is set on loaded messages when the interceptor already existed.
	Reinjection bool `json:"reinjection,omitempty"`
}

// Writer is the clipboard sink the page would normally write to.
type Writer interface {
	WriteText(text string) error
	Write(data []byte) error
}

// PostFunc delivers a message to the extension side.
type PostFunc func(Message)

// Interceptor diverts clipboard writes while interception is active.
type Interceptor struct {
	mu           sync.Mutex
	origin       string
	original     Writer
	post         PostFunc
	intercepting bool
}

// NewInterceptor returns an interceptor that posts to post and forwards
// writes to original while idle.
func NewInterceptor(origin string, original Writer, post PostFunc) *Interceptor {
	if post == nil {
		post = func(Message) {}
	}
	return &Interceptor{origin: origin, original: original, post: post}
}

// Handle processes a message from the extension. Messages from other origins
// are ignored.
func (i *Interceptor) Handle(msg Message) {
	if msg.Origin != i.origin {
		return
	}
	switch msg.Type {
	case MsgStart:
		i.Start()
	case MsgStop:
		i.Stop()
	case MsgCheckLoaded:
		i.send(Message{Type: MsgLoaded})
	}
}

// Start begins interception and announces readiness.
func (i *Interceptor) Start() {
	i.mu.Lock()
	i.intercepting = true
	i.mu.Unlock()
	i.send(Message{Type: MsgReady})
}

// Stop restores the original writer.
func (i *Interceptor) Stop() {
	i.mu.Lock()
	i.intercepting = false
	i.mu.Unlock()
}

// Intercepting reports whether the next write will be captured.
func (i *Interceptor) Intercepting() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.intercepting
}

// WriteText captures text if intercepting, otherwise writes it through.
func (i *Interceptor) WriteText(text string) error {
	if i.capture(&text) {
		return nil
	}
	if i.original == nil {
		return fmt.Errorf("clipboard: no writer")
	}
	return i.original.WriteText(text)
}

// Write captures a binary write. The payload is not forwarded to the
// extension, only the fact that a write happened.
func (i *Interceptor) Write(data []byte) error {
	if i.capture(nil) {
		return nil
	}
	if i.original == nil {
		return fmt.Errorf("clipboard: no writer")
	}
	return i.original.Write(data)
}

// ExecCommand mirrors document.execCommand. A "copy" while intercepting is
// captured with the current selection; anything else runs through next.
func (i *Interceptor) ExecCommand(command, selection string, next func() error) error {
	if command == "copy" && i.capture(&selection) {
		return nil
	}
	if next == nil {
		return nil
	}
	return next()
}

// capture posts an intercepted message and stops interception. Only the
// first write after Start is captured.
func (i *Interceptor) capture(text *string) bool {
	i.mu.Lock()
	if !i.intercepting {
		i.mu.Unlock()
		return false
	}
	i.intercepting = false
	i.mu.Unlock()

	i.send(Message{Type: MsgIntercepted, Text: text})
	return true
}

func (i *Interceptor) send(msg Message) {
	i.mu.Lock()
	post := i.post
	i.mu.Unlock()

	msg.Origin = i.origin
	post(msg)
}

var (
	installMu sync.Mutex
	installed *Interceptor
)

// Install returns the page context's interceptor, creating it on first use.
// A second install keeps the original writer captured the first time, so a
// re-injected script never mistakes a patched writer for the original. The
// loaded message reports whether this was a re-injection.
func Install(origin string, original Writer, post PostFunc) *Interceptor {
	installMu.Lock()
	reinjection := installed != nil
	if !reinjection {
		installed = NewInterceptor(origin, original, post)
	} else if post != nil {
		installed.mu.Lock()
		installed.post = post
		installed.mu.Unlock()
	}
	i := installed
	installMu.Unlock()

	i.send(Message{Type: MsgLoaded, Reinjection: reinjection})
	return i
}

// Uninstall stops interception and forgets the page context's interceptor.
func Uninstall() {
	installMu.Lock()
	defer installMu.Unlock()
	if installed != nil {
		installed.Stop()
		installed = nil
	}
}
