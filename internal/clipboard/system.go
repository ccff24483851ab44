package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// SystemWriter writes to the operating system clipboard.
type SystemWriter struct{}

func (SystemWriter) WriteText(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard: unsupported on this system")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: write: %w", err)
	}
	return nil
}

// Write stores data as text; the system clipboard here is text-only.
func (w SystemWriter) Write(data []byte) error {
	return w.WriteText(string(data))
}

// ReadText returns the current system clipboard text.
func (SystemWriter) ReadText() (string, error) {
	s, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("clipboard: read: %w", err)
	}
	return s, nil
}
