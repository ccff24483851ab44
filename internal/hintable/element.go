package hintable

import "strings"

// Element is a read-only view of a DOM element. Implementations must not
// mutate the underlying document and must return empty values for absent
// data instead of failing.
type Element interface {
	Tag() string
	Attr(name string) (string, bool)

	// Value is the current value of an editable control, "" for anything else.
	Value() string
	// Placeholder is the placeholder hint of an editable control.
	Placeholder() string
	// TextContent is the concatenation of all descendant text.
	TextContent() string
	// Options returns the text of each option of a selection control.
	Options() []string

	// LabelFor returns the first label, in document order, whose "for"
	// attribute equals id.
	LabelFor(id string) (Element, bool)
	// ClosestLabel returns the nearest label ancestor, the element included.
	ClosestLabel() (Element, bool)
}

// Category is the element kind the classifier dispatches on.
type Category int

const (
	CategoryOther Category = iota
	CategoryImage
	CategoryVector
	CategoryCanvas
	CategoryVideo
	CategoryAudio
	CategoryGlyph
	CategoryInput
	CategorySelect
	CategoryTextArea
	CategoryLabel
)

// CategoryOf maps an element's tag to its category.
func CategoryOf(el Element) Category {
	if el == nil {
		return CategoryOther
	}
	switch strings.ToLower(el.Tag()) {
	case "img":
		return CategoryImage
	case "svg":
		return CategoryVector
	case "canvas":
		return CategoryCanvas
	case "video":
		return CategoryVideo
	case "audio":
		return CategoryAudio
	case "i":
		return CategoryGlyph
	case "input":
		return CategoryInput
	case "select":
		return CategorySelect
	case "textarea":
		return CategoryTextArea
	case "label":
		return CategoryLabel
	}
	return CategoryOther
}

// IsMedia reports whether the category never carries text of its own.
func (c Category) IsMedia() bool {
	switch c {
	case CategoryImage, CategoryVector, CategoryCanvas, CategoryVideo, CategoryAudio:
		return true
	}
	return false
}

// IsFormControl reports whether the category is a text box, text area or selection list.
func (c Category) IsFormControl() bool {
	return c == CategoryInput || c == CategorySelect || c == CategoryTextArea
}

// InputType returns the lower-cased type attribute of an input, "text" when absent.
func InputType(el Element) string {
	t, ok := el.Attr("type")
	t = strings.ToLower(strings.TrimSpace(t))
	if !ok || t == "" {
		return "text"
	}
	return t
}

func attr(el Element, name string) string {
	if el == nil {
		return ""
	}
	v, _ := el.Attr(name)
	return v
}
