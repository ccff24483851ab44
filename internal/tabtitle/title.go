// Package tabtitle builds document titles that carry a tab marker and the
// current URL, so voice commands can address tabs by marker.
package tabtitle

import (
	"net/url"
	"strings"
	"unicode"
)

const (
	LongDelimiter    = " | "
	CompactDelimiter = "|"
	urlSeparator     = " - "
)

// Decoration describes one title update. PreviousMarker names the marker a
// prior update may have put on Title, when it differs from Marker.
type Decoration struct {
	Marker         string
	PreviousMarker string
	Title          string
	URL            string
	Compact        bool
}

// Delimiter returns the marker delimiter for the compact setting.
func Delimiter(compact bool) string {
	if compact {
		return CompactDelimiter
	}
	return LongDelimiter
}

// Decorate returns "<marker><delimiter><title> - <url>". A URL suffix and a
// leading Marker or PreviousMarker left by an earlier update are removed
// first, so repeated updates do not stack. Any other prefix is part of the
// page's own title and is kept. Without a marker only the URL suffix is added.
func Decorate(d Decoration) string {
	title := stripURL(d.Title)
	title = stripMarkers(title, d.Marker, d.PreviousMarker)

	var b strings.Builder
	if m := strings.TrimSpace(d.Marker); m != "" {
		b.WriteString(m)
		b.WriteString(Delimiter(d.Compact))
	}
	b.WriteString(title)
	if d.URL != "" {
		b.WriteString(urlSeparator)
		b.WriteString(d.URL)
	}
	return b.String()
}

// stripMarkers removes the first of markers found as a decoration prefix.
func stripMarkers(title string, markers ...string) string {
	for _, m := range markers {
		if m = strings.TrimSpace(m); m == "" {
			continue
		}
		for _, delim := range []string{LongDelimiter, CompactDelimiter} {
			if rest, ok := strings.CutPrefix(title, m+delim); ok {
				return rest
			}
		}
	}
	return title
}

// Strip removes a leading tab marker and a trailing URL suffix added by
// Decorate. It does not know which marker was used, so any one or two letter
// prefix before a delimiter is taken as a marker; use it only on titles known
// to be decorated.
func Strip(title string) string {
	title = stripURL(title)
	return stripMarker(title)
}

func stripURL(title string) string {
	i := strings.LastIndex(title, urlSeparator)
	if i < 0 {
		return title
	}
	u, err := url.Parse(title[i+len(urlSeparator):])
	if err != nil || u.Scheme == "" || strings.ContainsAny(u.String(), " \t") {
		return title
	}
	return title[:i]
}

// stripMarker removes a marker of one or two letters followed by either delimiter.
func stripMarker(title string) string {
	for _, delim := range []string{LongDelimiter, CompactDelimiter} {
		i := strings.Index(title, delim)
		if i < 1 || i > 2 {
			continue
		}
		if !isMarker(title[:i]) {
			continue
		}
		return title[i+len(delim):]
	}
	return title
}

func isMarker(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
