package model

import (
	"bufio"
	"io"
	"strings"
)

// Content serializes the subtree rooted at e to the canonical text format.
func (m *Model) Content(e Entity) string {
	var sb strings.Builder
	_ = m.WriteContent(&sb, e) // strings.Builder does not fail
	return sb.String()
}

// WriteContent serializes the subtree rooted at e to w, using the canonical
// text format. Nested elements are indented by two blanks per level. The
// model's root is written without attributes.
func (m *Model) WriteContent(w io.Writer, e Entity) error {
	bw := bufio.NewWriter(w)
	m.writeElement(bw, e, 0)
	return bw.Flush()
}

func (m *Model) writeElement(w *bufio.Writer, e Entity, depth int) {
	st := m.lookup(e).state()
	for i := 0; i < depth; i++ {
		w.WriteString("  ")
	}
	w.WriteByte('<')
	w.WriteString(e.Tag.name)
	for _, a := range st.attrs.list {
		w.WriteByte(' ')
		w.WriteString(a.Key.name)
		w.WriteString(`="`)
		attrEscaper.WriteString(w, a.Value.s)
		w.WriteByte('"')
	}
	switch {
	case st.hasChildren():
		w.WriteString(">\n")
		for _, ch := range st.children {
			m.writeElement(w, ch, depth+1)
		}
		for i := 0; i < depth; i++ {
			w.WriteString("  ")
		}
		w.WriteString("</")
		w.WriteString(e.Tag.name)
		w.WriteString(">\n")
	case st.data != "":
		w.WriteByte('>')
		writeData(w, st.data)
		w.WriteString("</")
		w.WriteString(e.Tag.name)
		w.WriteString(">\n")
	default:
		w.WriteString("/>\n")
	}
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")

var dataEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;")

// writeData escapes data. A leading line break is written as a character
// reference, as readers drop it otherwise.
func writeData(w *bufio.Writer, data string) {
	if data[0] == '\n' {
		w.WriteString("&#10;")
		data = data[1:]
	}
	dataEscaper.WriteString(w, data)
}
