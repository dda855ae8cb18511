package parser

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/saga/model"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "saga.parser")
	defer teardown()
	//
	m := model.New(model.MustTag("doc"))
	sec, _ := m.CreateEntity(model.MustTag("section"), m.Root(),
		model.MustAttr("id", "s1"),
		model.MustAttr("title", `Tom & "Jerry" <3`))
	m.CreateDataEntity(model.MustTag("h1"), sec, "Fish & Chips")
	m.CreateDataEntity(model.MustTag("p"), sec, "\nstarts with a line break  ")
	m.CreateDataEntity(model.MustTag("p"), sec, "  spaced <b>markup</b>  ")
	m.CreateEntity(model.MustTag("hr"), sec)
	list, _ := m.CreateEntity(model.MustTag("list"), m.Root(), model.MustAttr("empty", ""))
	for _, item := range []string{"one", "two", "&amp;"} {
		m.CreateDataEntity(model.MustTag("item"), list, item)
	}
	m.CreateDataEntity(model.MustTag("blob"), m.Root(), model.BytesValue([]byte("hi!")).String())
	content := m.Content(m.Root())
	t.Logf("content =\n%s", content)
	//
	m2 := model.New(model.MustTag("doc"))
	require.NoError(t, ParseString(m2, content))
	if diff := cmp.Diff(treeOf(m, m.Root()), treeOf(m2, m2.Root())); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, content, m2.Content(m2.Root()))
}

func TestOptionalClose(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "saga.parser")
	defer teardown()
	//
	m := model.New(model.MustTag("doc"))
	require.NoError(t, ParseString(m, "<doc><p>A<p>B</doc>", OptionalClose("p")))
	want := branch("doc", leaf("p", "A"), leaf("p", "B"))
	if diff := cmp.Diff(want, treeOf(m, m.Root())); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	// without the option, paragraphs nest
	m = model.New(model.MustTag("doc"))
	require.NoError(t, ParseString(m, "<doc><p>A<p>B</doc>"))
	want = branch("doc", branch("p", leaf("text", "A"), leaf("p", "B")))
	if diff := cmp.Diff(want, treeOf(m, m.Root())); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestOptionalCloseInheritsStops(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "saga.parser")
	defer teardown()
	//
	m := model.New(model.MustTag("table"))
	input := "<table><tr><td>1<td>2<tr><td>3</table>"
	require.NoError(t, ParseString(m, input, OptionalClose("tr", "td")))
	want := branch("table",
		branch("tr", leaf("td", "1"), leaf("td", "2")),
		branch("tr", leaf("td", "3")))
	if diff := cmp.Diff(want, treeOf(m, m.Root())); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	// elements with required end tags start with a fresh stop set
	m = model.New(model.MustTag("ul"))
	input = "<ul><li>a<ul><li>b<li>c</ul><li>d</ul>"
	require.NoError(t, ParseString(m, input, OptionalClose("li")))
	want = branch("ul",
		branch("li", leaf("text", "a"), branch("ul", leaf("li", "b"), leaf("li", "c"))),
		leaf("li", "d"))
	if diff := cmp.Diff(want, treeOf(m, m.Root())); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestMismatchedEndTag(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "saga.parser")
	defer teardown()
	//
	m := model.New(model.MustTag("doc"))
	require.NoError(t, ParseString(m, "<doc><a><b><c>x</a><d/></doc>"))
	want := branch("doc", branch("a", branch("b", leaf("c", "x"))), leaf("d", ""))
	if diff := cmp.Diff(want, treeOf(m, m.Root())); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	// stray end tags are ignored
	m = model.New(model.MustTag("doc"))
	require.NoError(t, ParseString(m, "<doc><a>x</b>y</a></doc>"))
	want = branch("doc", leaf("a", "xy"))
	if diff := cmp.Diff(want, treeOf(m, m.Root())); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestBreakHasNoChildren(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "saga.parser")
	defer teardown()
	//
	input := "<!DOCTYPE html>\n" +
		"<html>\n" +
		"<head>\n" +
		"</head>\n" +
		"<body>\n" +
		"\n" +
		"<h2>Header 1</h1>\n" +
		"<br>\n" +
		"<p>A paragraph.</p>\n" +
		"\n" +
		"</body>\n" +
		"</html>"
	m := model.New(model.MustTag("html"))
	p := New(m, HTML())
	require.NoError(t, p.Parse(bytes.NewBufferString(input)))
	t.Logf("content =\n%s", m.Content(m.Root()))
	brs := m.Nodes(model.MustTag("br"))
	require.Len(t, brs, 1)
	assert.Empty(t, m.Children(brs[0]))
	h2 := m.Nodes(model.MustTag("h2"))
	require.Len(t, h2, 1)
	assert.Equal(t, []string{"text", "br", "p"}, tags(m, m.Children(h2[0])))
	assert.Equal(t, []string{"head", "body"}, tags(m, m.Children(m.Root())))
	dt, ok := p.Doctype()
	assert.True(t, ok)
	assert.Equal(t, "html", dt.Name)
}

func TestInvalidRoot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "saga.parser")
	defer teardown()
	//
	m := model.New(model.MustTag("doc"))
	err := ParseString(m, "<html><p>x</p></html>")
	if !errors.Is(err, ErrInvalidRoot) {
		t.Errorf("expected invalid root error, have %v", err)
	}
	assert.True(t, m.IsEmpty())
}

func TestRootIsReused(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "saga.parser")
	defer teardown()
	//
	m := model.New(model.MustTag("doc"))
	require.NoError(t, ParseString(m, `<DOC lang="en"><p>x</p></DOC><p>ignored</p>`))
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 0, m.Attributes(m.Root()).Len())
	// parsing into a non-empty model appends to the root
	require.NoError(t, ParseString(m, `<p>y</p>`))
	want := branch("doc", leaf("p", "x"), leaf("p", "y"))
	if diff := cmp.Diff(want, treeOf(m, m.Root())); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestCommentsAndInstructions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "saga.parser")
	defer teardown()
	//
	m := model.New(model.MustTag("doc"))
	input := `<?xml version="1.0"?><doc><!-- a -- b ---  ><?pi x?><p>t</p><!ELEMENT p ANY></doc>`
	require.NoError(t, ParseString(m, input))
	want := branch("doc", leaf("p", "t"))
	if diff := cmp.Diff(want, treeOf(m, m.Root())); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestCDATA(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "saga.parser")
	defer teardown()
	//
	m := model.New(model.MustTag("doc"))
	require.NoError(t, ParseString(m, "<doc><p>a &lt; <![CDATA[<b>&amp;]]</b>]]> c</p></doc>"))
	p := m.Nodes(model.MustTag("p"))
	require.Len(t, p, 1)
	assert.Equal(t, "a < <b>&amp;]]</b> c", m.Data(p[0]))
}

func TestDoctype(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "saga.parser")
	defer teardown()
	//
	input := `<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01//EN" "http://www.w3.org/TR/html4/strict.dtd">` +
		`<html></html>`
	m := model.New(model.MustTag("html"))
	p := New(m)
	require.NoError(t, p.Parse(bytes.NewBufferString(input)))
	dt, ok := p.Doctype()
	require.True(t, ok)
	assert.Equal(t, Doctype{
		Name:     "html",
		PublicID: "-//W3C//DTD HTML 4.01//EN",
		SystemID: "http://www.w3.org/TR/html4/strict.dtd",
	}, dt)
	assert.Equal(t, 1, m.Len(), "doctype is not attached")
}

func TestAttributes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "saga.parser")
	defer teardown()
	//
	m := model.New(model.MustTag("doc"))
	input := `<doc><p a=1 b='two' C="thr&amp;ee" d x:y="z" f="multi
line" e=x/></doc>`
	require.NoError(t, ParseString(m, input))
	want := branch("doc", leaf("p", "", "a=1", "b=two", "c=thr&ee", "d=", "f=multi line", "e=x"))
	if diff := cmp.Diff(want, treeOf(m, m.Root())); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestInvalidTagsAreTransparent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "saga.parser")
	defer teardown()
	//
	m := model.New(model.MustTag("doc"))
	require.NoError(t, ParseString(m, `<doc><P Class="x">t</P><foo1 a="b">u</foo1></doc>`))
	want := branch("doc", leaf("p", "t", "class=x"), leaf("text", "u"))
	if diff := cmp.Diff(want, treeOf(m, m.Root())); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLiteralLessThan(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "saga.parser")
	defer teardown()
	//
	m := model.New(model.MustTag("doc"))
	require.NoError(t, ParseString(m, "<doc><p>a < b <= c</p></doc>"))
	assert.Equal(t, "a < b <= c", m.Data(m.Children(m.Root())[0]))
}

func TestVoidAndRawText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "saga.parser")
	defer teardown()
	//
	m := model.New(model.MustTag("doc"))
	input := "<doc><br><style>\na > b { content: \"<y>&amp;\" }\n</style><p>x</p></doc>"
	require.NoError(t, ParseString(m, input, Void("br"), RawText("style")))
	want := branch("doc",
		leaf("br", ""),
		leaf("style", `a > b { content: "<y>&amp;" }`),
		leaf("p", "x"))
	if diff := cmp.Diff(want, treeOf(m, m.Root())); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "saga.parser")
	defer teardown()
	//
	conf := testconfig.Conf{
		ConfigOptionalClose: "item",
		ConfigVoid:          "sep, br",
		ConfigCarrier:       "span",
	}
	m := model.New(model.MustTag("doc"))
	require.NoError(t, ParseString(m, "<doc><item>a<sep>b<item>c</doc>", OptionsFromConfig(conf)...))
	want := branch("doc",
		branch("item", leaf("span", "a"), leaf("sep", ""), leaf("span", "b")),
		leaf("item", "c"))
	if diff := cmp.Diff(want, treeOf(m, m.Root())); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestCharsetSource(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "saga.parser")
	defer teardown()
	//
	src, err := NewSource(bytes.NewReader([]byte("<doc>caf\xe9</doc>")), "iso-8859-1")
	require.NoError(t, err)
	m := model.New(model.MustTag("doc"))
	require.NoError(t, New(m).Parse(src))
	assert.Equal(t, "café", m.Data(m.Root()))
	_, err = NewSource(bytes.NewReader(nil), "no-such-charset")
	assert.Error(t, err)
}
