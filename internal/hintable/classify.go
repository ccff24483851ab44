// Package hintable decides whether a page element already exposes text that a
// voice command can target, or whether it needs a synthetic hint marker.
//
// The decision runs four ordered gates. Icons and media always need a hint.
// Selection controls are judged by their option text. Other form controls
// with neither a label nor a placeholder need a hint. Everything else is
// judged by the best text it exposes.
package hintable

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Reason names the gate that decided a verdict.
type Reason string

const (
	ReasonIcon      Reason = "icon"
	ReasonOptions   Reason = "options"
	ReasonUnlabeled Reason = "unlabeled"
	ReasonText      Reason = "text"
	ReasonNoText    Reason = "no_text"
)

// Verdict is the outcome of classifying one element.
type Verdict struct {
	HasText bool   `json:"has_text"`
	Reason  Reason `json:"reason"`
	// Text is the candidate string the text gate looked at, if any.
	Text string `json:"text,omitempty"`
}

// NeedsHint is the inverse of HasText.
func (v Verdict) NeedsHint() bool { return !v.HasText }

// HasVisibleText reports whether el has text a voice command could use to
// select it. False means the element should get a hint.
func HasVisibleText(el Element) bool {
	return Classify(el).HasText
}

// Classify runs the gates in order and returns the first decision.
func Classify(el Element) Verdict {
	if el == nil {
		return Verdict{Reason: ReasonNoText}
	}
	if IsIconOrImage(el) {
		return Verdict{Reason: ReasonIcon}
	}

	cat := CategoryOf(el)

	// A list with any non-trivial option is speakable by its option text,
	// labeled or not.
	if cat == CategorySelect {
		if text, ok := meaningfulOption(el); ok {
			return Verdict{HasText: true, Reason: ReasonOptions, Text: text}
		}
		return Verdict{Reason: ReasonOptions}
	}

	if IsUnlabeledFormControl(el) {
		return Verdict{Reason: ReasonUnlabeled}
	}

	text := bestText(el, cat)
	if IsMeaningful(text) {
		return Verdict{HasText: true, Reason: ReasonText, Text: text}
	}
	return Verdict{Reason: ReasonNoText, Text: text}
}

// IsIconOrImage matches media elements, role="img" and icon-font glyphs.
// It takes precedence over any text, ARIA or label content.
func IsIconOrImage(el Element) bool {
	cat := CategoryOf(el)
	if cat.IsMedia() {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(attr(el, "role")), "img") {
		return true
	}
	if cat != CategoryGlyph {
		return false
	}
	for _, class := range strings.Fields(attr(el, "class")) {
		class = strings.ToLower(class)
		if strings.Contains(class, "icon") || strings.HasPrefix(class, "fa-") {
			return true
		}
	}
	return false
}

var selfLabeledInputTypes = []string{"submit", "button", "reset"}

// IsUnlabeledFormControl reports whether a form control has no associated
// label, either by identifier reference or by wrapping. Button-like inputs
// with a value longer than one character label themselves, and a non-blank
// placeholder labels a text field. A typed value never does.
func IsUnlabeledFormControl(el Element) bool {
	cat := CategoryOf(el)
	if !cat.IsFormControl() {
		return false
	}

	if cat == CategoryInput && slices.Contains(selfLabeledInputTypes, InputType(el)) {
		if utf8.RuneCountInString(strings.TrimSpace(el.Value())) > 1 {
			return false
		}
	}
	if strings.TrimSpace(el.Placeholder()) != "" {
		return false
	}

	return len(labels(el)) == 0
}

// LabelText returns the text of the control's associated label. The
// identifier label is consulted before the wrapping one; the first label with
// meaningful text wins, otherwise the first non-empty one.
func LabelText(el Element) string {
	var fallback string
	for _, l := range labels(el) {
		t := strings.TrimSpace(l.TextContent())
		if IsMeaningful(t) {
			return t
		}
		if fallback == "" {
			fallback = t
		}
	}
	return fallback
}

func labels(el Element) []Element {
	var out []Element
	if id := strings.TrimSpace(attr(el, "id")); id != "" {
		if l, ok := el.LabelFor(id); ok && l != nil {
			out = append(out, l)
		}
	}
	if l, ok := el.ClosestLabel(); ok && l != nil {
		out = append(out, l)
	}
	return out
}

// bestText picks the first non-empty text candidate for the element.
func bestText(el Element, cat Category) string {
	if cat == CategoryInput || cat == CategoryTextArea {
		return firstNonEmpty(
			func() string { return el.Value() },
			func() string { return el.Placeholder() },
			func() string { return LabelText(el) },
			func() string { return el.TextContent() },
		)
	}
	return strings.TrimSpace(el.TextContent())
}

func firstNonEmpty(sources ...func() string) string {
	for _, src := range sources {
		if s := strings.TrimSpace(src()); s != "" {
			return s
		}
	}
	return ""
}

func meaningfulOption(el Element) (string, bool) {
	for _, opt := range el.Options() {
		opt = strings.TrimSpace(opt)
		if utf8.RuneCountInString(opt) > 1 {
			return opt, true
		}
	}
	return "", false
}

// IsMeaningful applies the triviality rule to a candidate string. Empty
// strings, single letters and pure punctuation are not meaningful; a single
// digit is.
func IsMeaningful(s string) bool {
	s = strings.TrimSpace(s)
	switch utf8.RuneCountInString(s) {
	case 0:
		return false
	case 1:
		r, _ := utf8.DecodeRuneInString(s)
		return r >= '0' && r <= '9'
	}
	return strings.IndexFunc(s, isWordRune) >= 0
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
