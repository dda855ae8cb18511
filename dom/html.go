package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/saga/model"
	"github.com/npillmayer/saga/parser"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Carrier is the tag of model nodes holding text in mixed content.
var Carrier = parser.DefaultCarrier

// FromHTML imports an HTML DOM node into m, as the last child of parent.
// For a document node, all of its children are imported; if parent is the
// root of m and the document element has the root's tag, the document
// element is merged into the root, dropping its attributes. Comments and
// doctype nodes are skipped.
//
// Elements with a name which is not a valid tag are dropped, but their
// content is kept. The same goes for attributes with invalid keys.
func FromHTML(m *model.Model, parent model.Entity, n *html.Node) error {
	switch n.Type {
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && parent.IsRoot() && strings.EqualFold(c.Data, parent.Tag.String()) {
				if err := importChildren(m, parent, c); err != nil {
					return err
				}
				continue
			}
			if err := FromHTML(m, parent, c); err != nil {
				return err
			}
		}
	case html.ElementNode:
		return importElement(m, parent, n)
	case html.TextNode:
		return m.AppendText(parent, purify(n.Data), Carrier)
	default:
		tracer().Debugf("skipping HTML node of type %d", n.Type)
	}
	return nil
}

func importElement(m *model.Model, parent model.Entity, n *html.Node) error {
	tag, err := model.ToTag(strings.ToLower(n.Data))
	if err != nil {
		tracer().Infof("dropping element <%s>: %v", n.Data, err)
		return importChildren(m, parent, n)
	}
	attrs := make([]model.Attribute, 0, len(n.Attr))
	for _, a := range n.Attr {
		k, err := model.ToKey(strings.ToLower(a.Key))
		if err != nil {
			tracer().Debugf("dropping attribute %q of <%s>", a.Key, n.Data)
			continue
		}
		attrs = append(attrs, model.Attribute{Key: k, Value: model.NormalizeValue(a.Val)})
	}
	if err := m.DemoteData(parent, Carrier); err != nil {
		return err
	}
	e, err := m.CreateEntity(tag, parent, attrs...)
	if err != nil {
		return err
	}
	return importChildren(m, e, n)
}

func importChildren(m *model.Model, parent model.Entity, n *html.Node) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := FromHTML(m, parent, c); err != nil {
			return err
		}
	}
	return nil
}

// purify drops a leading line break together with surrounding whitespace,
// as package parser does.
func purify(s string) string {
	if strings.HasPrefix(s, "\n") {
		return strings.TrimSpace(s[1:])
	}
	return s
}

// ParseHTML parses HTML with golang.org/x/net/html and imports the result
// into m.
func ParseHTML(m *model.Model, r io.Reader) error {
	doc, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("parsing HTML: %w", err)
	}
	return FromHTML(m, m.Root(), doc)
}

// --- Export ----------------------------------------------------------------

// ToHTML converts the subtree of e into an HTML DOM. Carrier nodes and the
// data of elements become text nodes.
func ToHTML(m *model.Model, e model.Entity) *html.Node {
	return convert(m, e, nil)
}

// convert builds an HTML node for e. If index is not nil, it records the
// entity of each element node created.
func convert(m *model.Model, e model.Entity, index map[*html.Node]model.Entity) *html.Node {
	if e.Tag == Carrier && !e.IsRoot() {
		return &html.Node{Type: html.TextNode, Data: m.Data(e)}
	}
	name := e.Tag.String()
	h := &html.Node{
		Type:     html.ElementNode,
		Data:     name,
		DataAtom: atom.Lookup([]byte(name)),
	}
	as := m.Attributes(e)
	for i := 0; i < as.Len(); i++ {
		h.Attr = append(h.Attr, html.Attribute{Key: as.At(i).Key.String(), Val: as.At(i).Value.String()})
	}
	if index != nil {
		index[h] = e
	}
	if data := m.Data(e); data != "" {
		h.AppendChild(&html.Node{Type: html.TextNode, Data: data})
	}
	for _, ch := range m.Children(e) {
		h.AppendChild(convert(m, ch, index))
	}
	return h
}

// Render writes the subtree of e as HTML.
func Render(w io.Writer, m *model.Model, e model.Entity) error {
	return html.Render(w, ToHTML(m, e))
}
