package dom

import (
	"fmt"
	"strings"

	"github.com/dgallion1/hintcheck/internal/hintable"
	"golang.org/x/net/html"
)

// Element is a read-only handle on one element of a Document. A nil
// *Element behaves like a detached node: every read is empty.
type Element struct {
	node *html.Node
	doc  *Document
}

var _ hintable.Element = (*Element)(nil)

func (e *Element) valid() bool {
	return e != nil && e.node != nil && e.node.Type == html.ElementNode
}

func (e *Element) Tag() string {
	if !e.valid() {
		return ""
	}
	return strings.ToLower(e.node.Data)
}

func (e *Element) Attr(name string) (string, bool) {
	if !e.valid() {
		return "", false
	}
	return getAttr(e.node, name)
}

// Value is the value attribute of an input, or the text of a textarea.
// Parsed markup has no live state, so these are the initial values.
func (e *Element) Value() string {
	switch e.Tag() {
	case "input":
		v, _ := getAttr(e.node, "value")
		return v
	case "textarea":
		return textContent(e.node)
	}
	return ""
}

func (e *Element) Placeholder() string {
	switch e.Tag() {
	case "input", "textarea":
		v, _ := getAttr(e.node, "placeholder")
		return v
	}
	return ""
}

func (e *Element) TextContent() string {
	if !e.valid() {
		return ""
	}
	return textContent(e.node)
}

// Options returns the text of the <option> elements under a <select>.
func (e *Element) Options() []string {
	if e.Tag() != "select" {
		return nil
	}
	var out []string
	walk(e.node, func(n *html.Node) bool {
		if isTag(n, "option") {
			out = append(out, textContent(n))
			return false
		}
		return true
	})
	return out
}

func (e *Element) LabelFor(id string) (hintable.Element, bool) {
	if !e.valid() || e.doc == nil || id == "" {
		return nil, false
	}
	if n := e.doc.labelFor(id); n != nil {
		return e.doc.wrap(n), true
	}
	return nil, false
}

func (e *Element) ClosestLabel() (hintable.Element, bool) {
	if !e.valid() {
		return nil, false
	}
	for n := e.node; n != nil; n = n.Parent {
		if isTag(n, "label") {
			return e.doc.wrap(n), true
		}
	}
	return nil, false
}

// Path returns a CSS-like locator such as "html > body > div:nth-of-type(2) > button".
func (e *Element) Path() string {
	if !e.valid() {
		return ""
	}
	var parts []string
	for n := e.node; n != nil && n.Type == html.ElementNode; n = n.Parent {
		parts = append(parts, step(n))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

func step(n *html.Node) string {
	tag := strings.ToLower(n.Data)
	if id, ok := getAttr(n, "id"); ok && id != "" && !strings.ContainsAny(id, " \t\n") {
		return tag + "#" + id
	}
	if n.Parent == nil {
		return tag
	}
	index, total := 0, 0
	for s := n.Parent.FirstChild; s != nil; s = s.NextSibling {
		if isTag(s, tag) {
			total++
			if s == n {
				index = total
			}
		}
	}
	if total > 1 {
		return fmt.Sprintf("%s:nth-of-type(%d)", tag, index)
	}
	return tag
}
