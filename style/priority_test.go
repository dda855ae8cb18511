package style

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestSpecificity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "saga.style")
	defer teardown()
	//
	for _, c := range []struct {
		selector             string
		ids, classes, types int
	}{
		{"", 0, 0, 0},
		{"h1", 0, 0, 1},
		{".important", 0, 1, 0},
		{"p.important", 0, 1, 1},
		{"#nav", 1, 0, 0},
		{"a:hover", 0, 1, 1},
		{"p::first", 0, 0, 2},
		{"a:hover::before", 0, 1, 2},
		{"div > p", 0, 0, 2},
		{"ul li.item #x", 1, 1, 2},
		{`input[type="text"]`, 0, 1, 2},
	} {
		ids, classes, types := Specificity(c.selector)
		if ids != c.ids || classes != c.classes || types != c.types {
			t.Errorf("specificity of %q = (%d,%d,%d), expected (%d,%d,%d)",
				c.selector, ids, classes, types, c.ids, c.classes, c.types)
		}
	}
}

func TestPriorityPacking(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "saga.style")
	defer teardown()
	//
	p := PriorityOf(Internal, true, "ul li.item #x", 42)
	t.Logf("priority = %s", p)
	assert.True(t, p.Important())
	assert.Equal(t, Internal, p.Origin())
	ids, classes, types := p.Specificity()
	assert.Equal(t, []int{1, 1, 2}, []int{ids, classes, types})
	assert.Equal(t, 42, p.Order())
	//
	p = PriorityOf(External, false, "p", 1<<40)
	assert.Equal(t, orderMask, p.Order(), "order saturates")
	assert.False(t, p.Important())
}

func TestPriorityRanking(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "saga.style")
	defer teardown()
	//
	inline := PriorityOf(Inline, false, "", 0)
	for i, c := range []struct {
		higher, lower Priority
		msg           string
	}{
		{inline, PriorityOf(Internal, false, "#a #b .c", 1000), "inline outranks any selector"},
		{PriorityOf(External, true, "p", 0), inline, "important outranks inline"},
		{PriorityOf(Internal, false, "p", 0), PriorityOf(External, false, "#x", 9), "origin outranks specificity"},
		{PriorityOf(Internal, false, ".a", 0), PriorityOf(Internal, false, "p", 9), "specificity outranks order"},
		{PriorityOf(Internal, false, "p", 2), PriorityOf(Internal, false, "p", 1), "later outranks earlier"},
	} {
		if c.higher <= c.lower {
			t.Errorf("%d: %s, but %s <= %s", i, c.msg, c.higher, c.lower)
		}
	}
}
