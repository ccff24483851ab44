// Package sites decides whether a page URL falls under the user's excluded
// site patterns.
//
// Patterns are case-insensitive globs over the whole URL: "*" matches any
// run of characters, "?" matches exactly one, and "{a,b}" matches either
// alternative. Square brackets are literal.
package sites

import (
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// Matcher holds a precompiled set of patterns.
type Matcher struct {
	patterns []pattern
}

type pattern struct {
	raw string
	g   glob.Glob
	// substr is used when the pattern does not compile.
	substr string
}

func (p pattern) match(url string) bool {
	if p.g != nil {
		return p.g.Match(url)
	}
	return strings.Contains(url, p.substr)
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`)

// NewMatcher compiles patterns. Blank patterns are skipped. A pattern that is
// not a valid glob falls back to substring containment.
func NewMatcher(patterns []string) *Matcher {
	m := &Matcher{}
	for _, raw := range patterns {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		lower := strings.ToLower(raw)
		g, err := glob.Compile(literalEscaper.Replace(lower))
		if err != nil {
			m.patterns = append(m.patterns, pattern{raw: raw, substr: lower})
			continue
		}
		m.patterns = append(m.patterns, pattern{raw: raw, g: g})
	}
	return m
}

// Len returns the number of active patterns.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.patterns)
}

// Match reports whether url matches any pattern.
func (m *Matcher) Match(url string) bool {
	_, ok := m.MatchedBy(url)
	return ok
}

// MatchedBy returns the first pattern that matches url.
func (m *Matcher) MatchedBy(url string) (string, bool) {
	if m == nil || url == "" {
		return "", false
	}
	lower := strings.ToLower(url)
	for _, p := range m.patterns {
		if p.match(lower) {
			return p.raw, true
		}
	}
	return "", false
}

// Matches reports whether url matches any of patterns.
func Matches(url string, patterns []string) bool {
	if url == "" || len(patterns) == 0 {
		return false
	}
	return NewMatcher(patterns).Match(url)
}

// IsExcluded reports whether the page at url should be left alone.
func IsExcluded(url string, excluded []string) bool {
	return Matches(url, excluded)
}

var (
	invalidChars     = regexp.MustCompile(`[<>"|\\]`)
	validPatternChar = regexp.MustCompile(`^[\w\-.~:/?#@!$&'()*+,;=\[\]{}]+$`)
)

// IsValidPattern reports whether p is usable as an excluded-site pattern: it
// must be non-empty, contain no spaces and only URL or glob characters.
func IsValidPattern(p string) bool {
	if p == "" {
		return false
	}
	if invalidChars.MatchString(p) {
		return false
	}
	return validPatternChar.MatchString(p)
}
