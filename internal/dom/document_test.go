package dom

import (
	"strings"
	"testing"

	"github.com/dgallion1/hintcheck/internal/hintable"
	"golang.org/x/net/html"
)

// lastInBody parses markup and returns the last element child of <body>.
func lastInBody(t *testing.T, markup string) *Element {
	t.Helper()
	doc, err := ParseString("<html><body>" + markup + "</body></html>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := doc.Body()
	if body == nil {
		t.Fatal("expected a body element")
	}
	var last *Element
	for c := body.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			last = doc.wrap(c)
		}
	}
	if last == nil {
		t.Fatalf("no element in %q", markup)
	}
	return last
}

func TestHasVisibleText_HTMLDocuments(t *testing.T) {
	cases := []struct {
		name   string
		markup string
		want   bool
	}{
		{"img", `<img src="test.jpg" alt="Test Image">`, false},
		{"svg", `<svg><circle cx="50" cy="50" r="40" /></svg>`, false},
		{"canvas", `<canvas></canvas>`, false},
		{"video", `<video src="test.mp4"></video>`, false},
		{"audio", `<audio src="test.mp3"></audio>`, false},
		{"role img", `<div role="img">Icon</div>`, false},
		{"font awesome", `<i class="fa-solid fa-home"></i>`, false},
		{"material icons", `<i class="material-icons">search</i>`, false},
		{"icon with nested text", `<i class="icon-search"><span>nested content</span></i>`, false},
		{"button text", `<button>Click Me</button>`, true},
		{"whitespace", "<div>   \n  \t  </div>", false},
		{"single letter", `<button>x</button>`, false},
		{"single digit", `<button>5</button>`, true},
		{"symbol", `<button>&times;</button>`, false},
		{"punctuation", `<span>...</span>`, false},
		{"mixed text", `<div>Page 1 of 10</div>`, true},
		{"nested text", `<a href="/x"><span>Open</span> <b>settings</b></a>`, true},
		{"input no label", `<input type="text">`, false},
		{"bare input", `<input>`, false},
		{"bare input placeholder", `<input placeholder="Enter your name">`, true},
		{"input placeholder no label", `<input type="text" placeholder="Enter your name">`, true},
		{"input blank placeholder", `<input type="text" placeholder="  ">`, false},
		{"textarea placeholder no label", `<textarea placeholder="Write your message here"></textarea>`, true},
		{"input value no label", `<input type="text" value="Long enough value">`, false},
		{"submit value", `<input type="submit" value="Send">`, true},
		{"submit short value", `<input type="submit" value="&gt;">`, false},
		{"select meaningful", `<select><option>Option One</option><option>Option Two</option></select>`, true},
		{"select letters", `<select><option>A</option><option>B</option></select>`, false},
		{"select mixed", `<select><option>A</option><option>B</option><option>Full Option Name</option></select>`, true},
		{"select grouped", `<select><optgroup label="g"><option>Grouped Option</option></optgroup></select>`, true},
		{"select empty", `<select></select>`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			el := lastInBody(t, tc.markup)
			if got := hintable.HasVisibleText(el); got != tc.want {
				t.Errorf("%s: expected %v, got %v", tc.markup, tc.want, got)
			}
		})
	}
}

func TestHasVisibleText_HTMLLabels(t *testing.T) {
	cases := []struct {
		name   string
		markup string
		want   bool
	}{
		{"label for", `<label for="email">Email Address</label><input id="email" type="email">`, true},
		{"single letter label", `<label for="a">x</label><input id="a" type="text">`, false},
		{"single digit label", `<label for="a">1</label><input id="a" type="text">`, true},
		{"textarea label", `<label for="m">Message</label><textarea id="m"></textarea>`, true},
		{"textarea placeholder", `<label for="m">M</label><textarea id="m" placeholder="Write your message here"></textarea>`, true},
		{"select label trivial options", `<label for="c">Country</label><select id="c"><option>A</option></select>`, false},
		{"placeholder", `<label for="n">N</label><input id="n" placeholder="Enter your name">`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			el := lastInBody(t, tc.markup)
			if got := hintable.HasVisibleText(el); got != tc.want {
				t.Errorf("%s: expected %v, got %v", tc.markup, tc.want, got)
			}
		})
	}
}

func TestWrappingLabel(t *testing.T) {
	doc, err := ParseString(`<body><label>Username <span><input id="u" type="text"></span></label></body>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	input := doc.ElementByID("u")
	if input == nil {
		t.Fatal("expected input")
	}
	if !hintable.HasVisibleText(input) {
		t.Error("expected wrapped input to use its label text")
	}
}

func TestLabelFor_FirstInDocumentOrder(t *testing.T) {
	doc, err := ParseString(`<body>
		<label for="dup">First Label</label>
		<label for="dup">Second Label</label>
		<input id="dup" type="text">
	</body>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	input := doc.ElementByID("dup")
	l, ok := input.LabelFor("dup")
	if !ok {
		t.Fatal("expected a label")
	}
	if got := strings.TrimSpace(l.TextContent()); got != "First Label" {
		t.Errorf("expected %q, got %q", "First Label", got)
	}
	if got := hintable.LabelText(input); got != "First Label" {
		t.Errorf("expected label text %q, got %q", "First Label", got)
	}
}

func TestElement_ValuesAndOptions(t *testing.T) {
	doc, err := ParseString(`<body>
		<input id="i" value=" typed " placeholder="hint">
		<textarea id="t" placeholder="p">  body text </textarea>
		<select id="s"><option> One </option><option>Two</option></select>
		<div id="d" placeholder="ignored">text</div>
	</body>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v := doc.ElementByID("i").Value(); v != " typed " {
		t.Errorf("input value: got %q", v)
	}
	if p := doc.ElementByID("i").Placeholder(); p != "hint" {
		t.Errorf("input placeholder: got %q", p)
	}
	if v := doc.ElementByID("t").Value(); v != "  body text " {
		t.Errorf("textarea value: got %q", v)
	}
	opts := doc.ElementByID("s").Options()
	if len(opts) != 2 || opts[0] != " One " || opts[1] != "Two" {
		t.Errorf("options: got %q", opts)
	}
	d := doc.ElementByID("d")
	if d.Placeholder() != "" || d.Value() != "" || d.Options() != nil {
		t.Error("expected non-controls to expose no value, placeholder or options")
	}
}

func TestElement_NilIsDetached(t *testing.T) {
	var e *Element
	if e.Tag() != "" || e.TextContent() != "" || e.Value() != "" || e.Path() != "" {
		t.Error("expected empty reads from nil element")
	}
	if _, ok := e.LabelFor("x"); ok {
		t.Error("expected no label for nil element")
	}
	if hintable.HasVisibleText(e) {
		t.Error("expected nil element to need a hint")
	}
}

func TestCandidates(t *testing.T) {
	doc, err := ParseString(`<html><head><title> Demo page </title><script>var a = "<button>";</script></head><body>
		<a href="/home">Home</a>
		<a name="anchor">Not a link</a>
		<button>Save</button>
		<input type="hidden" value="secret">
		<input type="text" id="q">
		<div role="button">Menu</div>
		<div onclick="go()">Go</div>
		<span tabindex="0">Focusable</span>
		<span tabindex="-1">Skipped</span>
		<div contenteditable="true">Edit</div>
		<div contenteditable="false">Static</div>
		<p>Plain paragraph</p>
	</body></html>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := doc.Title(); got != "Demo page" {
		t.Errorf("expected title %q, got %q", "Demo page", got)
	}

	var got []string
	for _, c := range doc.Candidates() {
		got = append(got, strings.TrimSpace(c.TextContent())+"|"+c.Tag())
	}
	want := []string{"Home|a", "Save|button", "|input", "Menu|div", "Go|div", "Focusable|span", "Edit|div"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("candidates:\n got  %q\n want %q", got, want)
	}
}

func TestPath(t *testing.T) {
	doc, err := ParseString(`<body><div>a</div><div><button>one</button><button>two</button></div><form id="f"><input></form></body>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	buttons := doc.Query("button")
	if len(buttons) != 2 {
		t.Fatalf("expected 2 buttons, got %d", len(buttons))
	}
	if got := buttons[1].Path(); got != "html > body > div:nth-of-type(2) > button:nth-of-type(2)" {
		t.Errorf("unexpected path %q", got)
	}
	if got := doc.Query("input")[0].Path(); got != "html > body > form#f > input" {
		t.Errorf("unexpected path %q", got)
	}
}

func TestParseMarkdown(t *testing.T) {
	doc, err := ParseMarkdown([]byte("# Title\n\nSee [the docs](https://example.com) or [x](/x).\n\n![logo](logo.png)\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	links := doc.Query("a")
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}
	if !hintable.HasVisibleText(links[0]) {
		t.Error("expected link with text to have visible text")
	}
	if hintable.HasVisibleText(links[1]) {
		t.Error("expected single letter link to need a hint")
	}
	imgs := doc.Query("img")
	if len(imgs) != 1 || hintable.HasVisibleText(imgs[0]) {
		t.Error("expected image to need a hint")
	}
}
