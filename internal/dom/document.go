// Package dom adapts parsed HTML documents to the hintable element view.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
)

// Document is an immutable parsed page.
type Document struct {
	root *html.Node
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString is Parse for an in-memory string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// ParseMarkdown renders Markdown to HTML and parses the result.
func ParseMarkdown(src []byte) (*Document, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return Parse(&buf)
}

// Title returns the trimmed text of the first <title> element.
func (d *Document) Title() string {
	if n := findFirst(d.root, func(n *html.Node) bool { return isTag(n, "title") }); n != nil {
		return strings.TrimSpace(textContent(n))
	}
	return ""
}

// Body returns the <body> element, or nil if the document has none.
func (d *Document) Body() *Element {
	return d.wrap(findFirst(d.root, func(n *html.Node) bool { return isTag(n, "body") }))
}

// ElementByID returns the first element with the given id.
func (d *Document) ElementByID(id string) *Element {
	return d.wrap(findFirst(d.root, func(n *html.Node) bool {
		v, ok := getAttr(n, "id")
		return ok && v == id
	}))
}

// Query returns every element, in document order, with the given tag.
func (d *Document) Query(tag string) []*Element {
	tag = strings.ToLower(tag)
	var out []*Element
	walk(d.root, func(n *html.Node) bool {
		if isTag(n, tag) {
			out = append(out, d.wrap(n))
		}
		return true
	})
	return out
}

// Candidates lists elements a hinting pass considers, in document order.
func (d *Document) Candidates() []*Element {
	var out []*Element
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && isCandidate(n) {
			out = append(out, d.wrap(n))
		}
		// Nothing inside these is rendered as page content.
		return !isTag(n, "head") && !isTag(n, "script") && !isTag(n, "style") && !isTag(n, "template")
	})
	return out
}

func (d *Document) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	return &Element{node: n, doc: d}
}

// labelFor scans the whole document so the first label in document order wins.
func (d *Document) labelFor(id string) *html.Node {
	return findFirst(d.root, func(n *html.Node) bool {
		if !isTag(n, "label") {
			return false
		}
		v, ok := getAttr(n, "for")
		return ok && v == id
	})
}

var interactiveRoles = map[string]bool{
	"button":           true,
	"link":             true,
	"checkbox":         true,
	"radio":            true,
	"tab":              true,
	"menuitem":         true,
	"menuitemcheckbox": true,
	"menuitemradio":    true,
	"option":           true,
	"switch":           true,
	"treeitem":         true,
}

func isCandidate(n *html.Node) bool {
	switch strings.ToLower(n.Data) {
	case "a":
		if _, ok := getAttr(n, "href"); ok {
			return true
		}
	case "button", "select", "textarea", "summary":
		return true
	case "input":
		t, _ := getAttr(n, "type")
		return !strings.EqualFold(strings.TrimSpace(t), "hidden")
	}

	if role, ok := getAttr(n, "role"); ok && interactiveRoles[strings.ToLower(strings.TrimSpace(role))] {
		return true
	}
	if _, ok := getAttr(n, "onclick"); ok {
		return true
	}
	if v, ok := getAttr(n, "contenteditable"); ok && !strings.EqualFold(v, "false") {
		return true
	}
	if v, ok := getAttr(n, "tabindex"); ok {
		v = strings.TrimSpace(v)
		return v != "" && !strings.HasPrefix(v, "-")
	}
	return false
}

// walk visits n and its descendants in document order. Returning false from
// fn skips the node's children.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func isTag(n *html.Node, tag string) bool {
	return n != nil && n.Type == html.ElementNode && strings.EqualFold(n.Data, tag)
}

func getAttr(n *html.Node, name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

// textContent concatenates descendant text nodes without trimming, like the
// DOM property of the same name.
func textContent(n *html.Node) string {
	var buf strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			buf.WriteString(c.Data)
		}
		return true
	})
	return buf.String()
}
