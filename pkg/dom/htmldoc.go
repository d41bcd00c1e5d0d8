package dom

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLDocument is a Document over parsed HTML.
type HTMLDocument struct {
	doc *goquery.Document
}

// ParseHTML parses a page.
func ParseHTML(r io.Reader) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &HTMLDocument{doc: doc}, nil
}

// ParseHTMLString parses a page held in a string.
func ParseHTMLString(s string) (*HTMLDocument, error) {
	return ParseHTML(strings.NewReader(s))
}

// ElementByID implements Document. With duplicate ids the first element in
// document order wins.
func (d *HTMLDocument) ElementByID(id string) (Element, bool) {
	el, ok := d.Element(id)
	if !ok {
		return nil, false
	}
	return el, true
}

// Element is ElementByID returning the concrete type.
func (d *HTMLDocument) Element(id string) (*HTMLElement, bool) {
	if id == "" {
		return nil, false
	}
	sel := d.doc.Find(idSelector(id)).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return &HTMLElement{id: id, sel: sel}, true
}

// Body returns the body element.
func (d *HTMLDocument) Body() *goquery.Selection {
	return d.doc.Find("body")
}

// Render serializes the document back to HTML.
func (d *HTMLDocument) Render() (string, error) {
	return d.doc.Html()
}

// HTMLElement is an element of an HTMLDocument.
type HTMLElement struct {
	id  string
	sel *goquery.Selection
}

// ID implements Element.
func (e *HTMLElement) ID() string { return e.id }

// HasClass implements Element.
func (e *HTMLElement) HasClass(class string) bool { return e.sel.HasClass(class) }

// AddClass implements Element.
func (e *HTMLElement) AddClass(class string) { e.sel.AddClass(class) }

// RemoveClass implements Element.
func (e *HTMLElement) RemoveClass(class string) { e.sel.RemoveClass(class) }

// Text returns the element's text content.
func (e *HTMLElement) Text() string { return e.sel.Text() }

// Attr returns an attribute value.
func (e *HTMLElement) Attr(name string) (string, bool) { return e.sel.Attr(name) }

// Selection returns the underlying selection.
func (e *HTMLElement) Selection() *goquery.Selection { return e.sel }

// idSelector builds an attribute selector so ids need no CSS escaping beyond
// the quoted string.
func idSelector(id string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `[id="` + r.Replace(id) + `"]`
}

// ElementSpec describes an element for CreateElement. Attrs named
// "className" set the class attribute. When HTML is set it replaces Text as
// the content.
type ElementSpec struct {
	Tag   string
	Attrs map[string]string
	Text  string
	HTML  string
}

// CreateElement builds a detached element. Attributes are written in sorted
// order.
func CreateElement(spec ElementSpec) (*goquery.Selection, error) {
	// The parser uses DataAtom to pick the fragment context.
	node := &html.Node{Type: html.ElementNode, Data: spec.Tag, DataAtom: atom.Lookup([]byte(spec.Tag))}

	keys := make([]string, 0, len(spec.Attrs))
	for k := range spec.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		name := k
		if name == "className" {
			name = "class"
		}
		node.Attr = append(node.Attr, html.Attribute{Key: name, Val: spec.Attrs[k]})
	}

	sel := goquery.NewDocumentFromNode(node).Selection
	switch {
	case spec.HTML != "":
		nodes, err := html.ParseFragment(strings.NewReader(spec.HTML), node)
		if err != nil {
			return nil, fmt.Errorf("parse inner html: %w", err)
		}
		for _, n := range nodes {
			node.AppendChild(n)
		}
	case spec.Text != "":
		node.AppendChild(&html.Node{Type: html.TextNode, Data: spec.Text})
	}
	return sel, nil
}

// AppendTo appends a detached element to the element with id parent.
func (d *HTMLDocument) AppendTo(parent string, el *goquery.Selection) bool {
	p, ok := d.Element(parent)
	if !ok {
		return false
	}
	p.sel.AppendSelection(el)
	return true
}
