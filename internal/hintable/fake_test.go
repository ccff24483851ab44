package hintable

import "strings"

// fakeDoc is an in-memory document for classifier tests. Labels are kept in
// insertion order, which stands in for document order.
type fakeDoc struct {
	labels []*fakeElement
}

type fakeElement struct {
	doc         *fakeDoc
	tag         string
	attrs       map[string]string
	value       string
	placeholder string
	text        string
	options     []string
	parent      *fakeElement

	textReads int
}

func (d *fakeDoc) el(tag string, attrs ...string) *fakeElement {
	e := &fakeElement{doc: d, tag: tag, attrs: map[string]string{}}
	for i := 0; i+1 < len(attrs); i += 2 {
		e.attrs[attrs[i]] = attrs[i+1]
	}
	if tag == "label" {
		d.labels = append(d.labels, e)
	}
	return e
}

func (e *fakeElement) withText(t string) *fakeElement  { e.text = t; return e }
func (e *fakeElement) withValue(v string) *fakeElement { e.value = v; return e }
func (e *fakeElement) withOptions(o ...string) *fakeElement {
	e.options = o
	return e
}
func (e *fakeElement) withPlaceholder(p string) *fakeElement {
	e.placeholder = p
	return e
}
func (e *fakeElement) in(parent *fakeElement) *fakeElement {
	e.parent = parent
	return e
}

func (e *fakeElement) Tag() string { return e.tag }

func (e *fakeElement) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func (e *fakeElement) Value() string       { return e.value }
func (e *fakeElement) Placeholder() string { return e.placeholder }
func (e *fakeElement) Options() []string   { return e.options }

func (e *fakeElement) TextContent() string {
	e.textReads++
	return e.text
}

func (e *fakeElement) LabelFor(id string) (Element, bool) {
	for _, l := range e.doc.labels {
		if l.attrs["for"] == id {
			return l, true
		}
	}
	return nil, false
}

func (e *fakeElement) ClosestLabel() (Element, bool) {
	for n := e; n != nil; n = n.parent {
		if strings.EqualFold(n.tag, "label") {
			return n, true
		}
	}
	return nil, false
}
