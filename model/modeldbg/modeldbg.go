/*
Package modeldbg implements helpers to debug a model tree.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package modeldbg

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"text/template"

	"github.com/npillmayer/saga/model"
	"github.com/xlab/treeprint"
)

// PrintTree returns an indented drawing of the subtree of e, one node per
// line, e.g.
//
//     <doc #0>
//     ├── <p #1> {class=x} "text"
//     └── <br #2>
//
func PrintTree(m *model.Model, e model.Entity) string {
	t := treeprint.New()
	t.SetValue(label(m, e))
	addChildren(m, e, t)
	return t.String()
}

func addChildren(m *model.Model, e model.Entity, t treeprint.Tree) {
	for _, ch := range m.Children(e) {
		if len(m.Children(ch)) == 0 {
			t.AddNode(label(m, ch))
			continue
		}
		addChildren(m, ch, t.AddBranch(label(m, ch)))
	}
}

func label(m *model.Model, e model.Entity) string {
	var sb strings.Builder
	sb.WriteString(e.String())
	if as := m.Attributes(e); as.Len() > 0 {
		sb.WriteString(" ")
		sb.WriteString(as.String())
	}
	if data := m.Data(e); data != "" {
		fmt.Fprintf(&sb, " %q", data)
	}
	return sb.String()
}

// --- GraphViz ----------------------------------------------------------

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname string
	NodeTmpl *template.Template
	EdgeTmpl *template.Template
	AttrTmpl *template.Template
}

// ToGraphViz outputs a diagram for the subtree of e. The diagram is in
// GraphViz (DOT) format. Attributes of a node are drawn as a table
// connected to the node.
func ToGraphViz(m *model.Model, e model.Entity, w io.Writer) error {
	tmpl, err := template.New("model").Parse(graphHeadTmpl)
	if err != nil {
		return err
	}
	gparams := graphParamsType{Fontname: "Helvetica"}
	gparams.NodeTmpl = template.Must(template.New("node").Funcs(
		template.FuncMap{
			"shortstring": shortText,
		}).Parse(nodeTmpl))
	gparams.EdgeTmpl = template.Must(template.New("edge").Parse(edgeTmpl))
	gparams.AttrTmpl = template.Must(template.New("attrs").Parse(attrTmpl))
	if err = tmpl.Execute(w, gparams); err != nil {
		return err
	}
	if err = nodes(m, e, w, &gparams); err != nil {
		return err
	}
	_, err = w.Write([]byte("}\n"))
	return err
}

// Dotty is a helper for testing. Given a model entity and a testing.T, it
// will create a GraphViz image of the subtree under e and write it to the
// test's temporary directory. The image is in SVG format.
//
// If the dot executable cannot be found, the test is skipped.
func Dotty(m *model.Model, e model.Entity, t *testing.T) string {
	dot, err := exec.LookPath("dot")
	if err != nil {
		t.Skip("GraphViz dot not available")
	}
	dotfile := filepath.Join(t.TempDir(), "model.dot")
	f, err := os.Create(dotfile)
	if err != nil {
		t.Fatal(err)
	}
	err = ToGraphViz(m, e, f)
	f.Close()
	if err != nil {
		t.Fatal(err)
	}
	svgfile := dotfile + ".svg"
	t.Logf("writing model tree image to %s", svgfile)
	cmd := exec.Command(dot, "-Tsvg", "-o"+svgfile, dotfile)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Error(err.Error())
	}
	return svgfile
}

type node struct {
	Tag  string
	Data string
	Name string
}

type attrs struct {
	Name  string
	Attrs []model.Attribute
}

type edge struct {
	N1, N2 string
}

func nodeName(e model.Entity) string {
	return fmt.Sprintf("node%05d", e.UID)
}

func nodes(m *model.Model, e model.Entity, w io.Writer, gparams *graphParamsType) error {
	n := node{Tag: e.Tag.String(), Data: m.Data(e), Name: nodeName(e)}
	if err := gparams.NodeTmpl.Execute(w, n); err != nil {
		return err
	}
	if as := m.Attributes(e); as.Len() > 0 {
		if err := gparams.AttrTmpl.Execute(w, attrs{Name: n.Name, Attrs: as.Slice()}); err != nil {
			return err
		}
	}
	for _, ch := range m.Children(e) {
		if err := nodes(m, ch, w, gparams); err != nil {
			return err
		}
		if err := gparams.EdgeTmpl.Execute(w, edge{n.Name, nodeName(ch)}); err != nil {
			return err
		}
	}
	return nil
}

func shortText(s string) string {
	r := []rune(s)
	if len(r) > 10 {
		s = string(r[:10]) + "..."
	}
	s = strings.Replace(s, `\`, `\\`, -1)
	s = strings.Replace(s, `"`, `\"`, -1)
	s = strings.Replace(s, "\n", `\\n`, -1)
	s = strings.Replace(s, "\t", `\\t`, -1)
	s = strings.Replace(s, " ", "␣", -1)
	return `"\"` + s + `\""`
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  graph [fontname = "{{ .Fontname }}" fontsize=14] ;
   node [fontname = "{{ .Fontname }}" fontsize=14] ;
   edge [fontname = "{{ .Fontname }}" fontsize=14] ;
`

const nodeTmpl = `{{ if .Data }}
{{ .Name }}	[ label="{{ .Tag }}" shape=ellipse style=filled fillcolor=lightblue3 ] ;
{{ .Name }}_data	[ label={{ shortstring .Data }} shape=box style=filled fillcolor=grey95 fontname="Courier" fontsize=11.0 ] ;
{{ .Name }} -> {{ .Name }}_data [dir=none weight=1] ;
{{ else }}
{{ .Name }}	[ label="{{ .Tag }}" shape=ellipse style=filled fillcolor=lightblue3 ] ;
{{ end }}
`

const attrTmpl = `{{ .Name }}_attrs [ style="filled" penwidth=1 fillcolor="ivory3" shape="Mrecord" fontsize=12
    label=<<table border="0" cellborder="0" cellpadding="2" cellspacing="0" bgcolor="ivory3">
      <tr><td bgcolor="azure4" align="center" colspan="2"><font color="white">attributes</font></td></tr>
      {{ range .Attrs }}
      <tr><td align="right">{{ .Key }}:</td><td>{{ .Value | html }}</td></tr>
      {{ end }}
    </table>> ] ;
{{ .Name }} -> {{ .Name }}_attrs [dir=none weight=1 style="dashed"] ;
`

const edgeTmpl = `{{ .N1 }} -> {{ .N2 }} [weight=1] ;
`
