package dom

import (
	"strings"

	"github.com/npillmayer/saga/model"
	"github.com/npillmayer/saga/style"
	"golang.org/x/net/html"
)

// Node is a read-only view of a model node, modelled after the W3C DOM
// interface Node.
//
// See also https://www.w3schools.com/XML/dom_intro.asp
type Node struct {
	m      *model.Model
	e      model.Entity
	parent *Node
	index  int // position within parent's children
}

// NodeOf returns a view of the subtree rooted at e. The view is live, i.e.
// it reflects later changes of the model, but it will not know about any
// parent of e.
func NodeOf(m *model.Model, e model.Entity) *Node {
	return &Node{m: m, e: e}
}

// Entity returns the entity viewed by n.
func (n *Node) Entity() model.Entity {
	return n.e
}

// IsText is a predicate to match text nodes, i.e. carrier nodes.
func IsText(n *Node) bool {
	return n != nil && n.e.Tag == Carrier && !n.e.IsRoot()
}

// NodeType returns html.TextNode for carrier nodes, html.DocumentNode for
// the model's root and html.ElementNode otherwise.
func (n *Node) NodeType() html.NodeType {
	switch {
	case IsText(n):
		return html.TextNode
	case n.e.IsRoot():
		return html.DocumentNode
	}
	return html.ElementNode
}

// NodeName returns "#text" for text nodes and the tag otherwise.
func (n *Node) NodeName() string {
	if IsText(n) {
		return "#text"
	}
	return n.e.Tag.String()
}

// NodeValue returns the data of n.
func (n *Node) NodeValue() string {
	return n.m.Data(n.e)
}

// HasAttributes checks for existence of attributes.
func (n *Node) HasAttributes() bool {
	return n.m.Attributes(n.e).Len() > 0
}

// ParentNode returns the parent node, if known.
func (n *Node) ParentNode() *Node {
	return n.parent
}

// HasChildNodes checks for existence of sub-nodes.
func (n *Node) HasChildNodes() bool {
	return len(n.m.Children(n.e)) > 0
}

// ChildNodes returns a list of all children.
func (n *Node) ChildNodes() *NodeList {
	children := n.m.Children(n.e)
	l := &NodeList{nodes: make([]*Node, len(children))}
	for i, ch := range children {
		l.nodes[i] = &Node{m: n.m, e: ch, parent: n, index: i}
	}
	return l
}

// Children returns a list of element children.
func (n *Node) Children() *NodeList {
	all := n.ChildNodes()
	l := &NodeList{}
	for _, ch := range all.nodes {
		if !IsText(ch) {
			l.nodes = append(l.nodes, ch)
		}
	}
	return l
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	return n.ChildNodes().Item(0)
}

// NextSibling returns the next sibling, or nil if n is the last child or if
// its parent is unknown.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	return n.parent.ChildNodes().Item(n.index + 1)
}

// Attributes returns all attributes of n.
func (n *Node) Attributes() *NamedNodeMap {
	return &NamedNodeMap{attrs: n.m.Attributes(n.e)}
}

// ComputedStyles returns the styles of n. Styles are available after a
// cascade has been applied to the model.
func (n *Node) ComputedStyles() *ComputedStyles {
	return &ComputedStyles{n: n}
}

// TextContent returns the text of n and all of its descendants.
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.m.Walk(n.e, func(e model.Entity, _ int) bool {
		sb.WriteString(n.m.Data(e))
		return true
	})
	return sb.String()
}

// --- Lists -----------------------------------------------------------------

// NodeList is a list of nodes.
type NodeList struct {
	nodes []*Node
}

// Length returns the number of nodes in l.
func (l *NodeList) Length() int {
	return len(l.nodes)
}

// Item returns the i-th node of l, or nil if i is out of range.
func (l *NodeList) Item(i int) *Node {
	if i < 0 || i >= len(l.nodes) {
		return nil
	}
	return l.nodes[i]
}

func (l *NodeList) String() string {
	names := make([]string, len(l.nodes))
	for i, n := range l.nodes {
		names[i] = n.NodeName()
	}
	return "[" + strings.Join(names, " ") + "]"
}

// NamedNodeMap is the list of attributes of a node.
type NamedNodeMap struct {
	attrs model.Attributes
}

// Length returns the number of attributes.
func (nm *NamedNodeMap) Length() int {
	return nm.attrs.Len()
}

// Item returns the i-th attribute.
func (nm *NamedNodeMap) Item(i int) model.Attribute {
	return nm.attrs.At(i)
}

// GetNamedItem returns an attribute by name.
func (nm *NamedNodeMap) GetNamedItem(name string) (model.Attribute, bool) {
	k, err := model.ToKey(name)
	if err != nil {
		return model.Attribute{}, false
	}
	v, ok := nm.attrs.Get(k)
	return model.Attribute{Key: k, Value: v}, ok
}

// ComputedStyles gives access to the resolved styles of a node.
type ComputedStyles struct {
	n *Node
}

// GetPropertyValue returns the value of a style property. A value of
// "inherit" is resolved from the ancestors of the node, as far as they are
// known. A value of "initial" yields NullStyle.
func (cs *ComputedStyles) GetPropertyValue(key string) style.Property {
	for n := cs.n; n != nil; n = n.parent {
		attr, ok := n.Attributes().GetNamedItem(key)
		if !ok {
			return style.NullStyle
		}
		p := style.Property(attr.Value.String())
		if p.IsInitial() {
			return style.NullStyle
		}
		if !p.IsInherit() {
			return p
		}
	}
	return style.NullStyle
}
