// Package settings loads the user-facing options shared with the extension:
// excluded sites and the tab marker delimiter style.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/hintcheck/internal/sites"
	"gopkg.in/yaml.v3"
)

// Settings mirrors the options the settings page edits.
type Settings struct {
	ExcludedSites                []string `yaml:"excluded_sites" json:"excluded_sites"`
	UseCompactTabMarkerDelimiter bool     `yaml:"use_compact_tab_marker_delimiter" json:"use_compact_tab_marker_delimiter"`
	KeyboardClicking             bool     `yaml:"keyboard_clicking" json:"keyboard_clicking"`
}

// InvalidPatternError reports an excluded-site pattern that cannot be used.
type InvalidPatternError struct {
	Index   int
	Pattern string
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("excluded_sites[%d]: invalid pattern %q", e.Index, e.Pattern)
}

// Default returns the settings used when no file exists.
func Default() Settings {
	return Settings{ExcludedSites: []string{}}
}

// Normalize trims patterns and drops blank rows left by the settings page.
func (s *Settings) Normalize() {
	kept := make([]string, 0, len(s.ExcludedSites))
	for _, p := range s.ExcludedSites {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	s.ExcludedSites = kept
}

// Validate checks every excluded-site pattern.
func (s Settings) Validate() error {
	for i, p := range s.ExcludedSites {
		if !sites.IsValidPattern(p) {
			return &InvalidPatternError{Index: i, Pattern: p}
		}
	}
	return nil
}

// Load reads settings from a YAML file. A missing file yields defaults.
func Load(path string) (Settings, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML settings, normalizes and validates them.
func Parse(data []byte) (Settings, error) {
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	s.Normalize()
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// Save writes settings as YAML, creating the parent directory.
func Save(path string, s Settings) error {
	s.Normalize()
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
