package parser

import (
	"github.com/npillmayer/saga/model"
)

// node is a structural copy of a model (sub-)tree, suited for comparison
// with go-cmp.
type node struct {
	Tag      string
	Attrs    []string // key=value, in order
	Data     string
	Children []node
}

func treeOf(m *model.Model, e model.Entity) node {
	n := node{Tag: e.Tag.String(), Data: m.Data(e)}
	as := m.Attributes(e)
	for i := 0; i < as.Len(); i++ {
		n.Attrs = append(n.Attrs, as.At(i).Key.String()+"="+as.At(i).Value.String())
	}
	for _, ch := range m.Children(e) {
		n.Children = append(n.Children, treeOf(m, ch))
	}
	return n
}

func leaf(tag, data string, attrs ...string) node {
	return node{Tag: tag, Data: data, Attrs: attrs}
}

func branch(tag string, children ...node) node {
	return node{Tag: tag, Children: children}
}

func tags(m *model.Model, es []model.Entity) []string {
	var r []string
	for _, e := range es {
		r = append(r, e.Tag.String())
	}
	return r
}
