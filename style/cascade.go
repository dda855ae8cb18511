package style

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/npillmayer/saga/model"
)

// Cascade holds rule sets, indexed by selector, and applies them to model
// trees. A Cascade is safe for concurrent use, but a tree should not be
// modified by other clients while the cascade is applied to it.
type Cascade struct {
	mx      sync.RWMutex
	index   map[string][]RuleSet
	count   int // rule sets ingested so far
	skip    map[string]bool
	fetcher Fetcher
}

// New creates an empty cascade.
func New(opts ...Option) *Cascade {
	c := &Cascade{
		index: make(map[string][]RuleSet),
		skip:  make(map[string]bool),
	}
	for _, n := range defaultSkip {
		c.skip[n] = true
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddStylesheet parses stylesheet text and adds its rule sets with the given
// origin.
func (c *Cascade) AddStylesheet(origin Origin, text string) {
	c.AddSheet(origin, ParseStylesheet(text))
}

// AddSheet adds the rules of a stylesheet with the given origin.
func (c *Cascade) AddSheet(origin Origin, sheet StyleSheet) {
	if sheet == nil || sheet.Empty() {
		return
	}
	var rules []RuleSet
	for _, r := range sheet.Rules() {
		rs := RuleSet{Origin: origin, Selector: r.Selector()}
		for _, prop := range r.Properties() {
			rs.Declarations = append(rs.Declarations, Declaration{
				Property:  prop,
				Value:     r.Value(prop),
				Important: r.IsImportant(prop),
			})
		}
		rules = append(rules, rs)
	}
	c.AddRules(rules...)
}

// AddRules adds rule sets to the cascade. Selector lists are split at commas.
// Every rule set is assigned the next position in the order of ingestion;
// a pre-set Order is ignored.
func (c *Cascade) AddRules(rules ...RuleSet) {
	c.mx.Lock()
	defer c.mx.Unlock()
	for _, rs := range rules {
		rs.Order = c.count
		c.count++
		for _, sel := range strings.Split(rs.Selector, ",") {
			key, ok := indexKey(sel)
			if !ok {
				tracer().Debugf("selector %q is not supported", strings.TrimSpace(sel))
				continue
			}
			r := rs
			r.Selector = strings.TrimSpace(sel)
			c.index[key] = append(c.index[key], r)
		}
	}
}

// Len returns the number of rule sets ingested.
func (c *Cascade) Len() int {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.count
}

var selectorPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9]*)?(\.[\w-]+)?$`)

// indexKey checks if a selector is a bare type, a class or a qualified
// class, and returns it with the type lowercased.
func indexKey(sel string) (string, bool) {
	sel = strings.TrimSpace(sel)
	if sel == "" {
		return "", false
	}
	m := selectorPattern.FindStringSubmatch(sel)
	if m == nil {
		return "", false
	}
	return strings.ToLower(m[1]) + m[2], true
}

// --- Resolution ------------------------------------------------------------

var (
	classKey = model.MustKey("class")
	styleKey = model.MustKey("style")
)

// Resolve computes the declarations applying to e, one per property, ordered
// by property name. Candidates are the declarations of e's style attribute,
// and those of rule sets selected by e's tag or by any of e's classes.
func (c *Cascade) Resolve(m *model.Model, e model.Entity) []Declaration {
	type winner struct {
		d Declaration
		p Priority
	}
	final := make(map[string]winner)
	put := func(d Declaration, p Priority) {
		if w, ok := final[d.Property]; !ok || p >= w.p {
			final[d.Property] = winner{d: d, p: p}
		}
	}
	if style, ok := m.Attribute(e, styleKey); ok {
		for _, d := range ParseDeclarations(style.String()) {
			put(d, PriorityOf(Inline, d.Important, "", 0))
		}
	}
	for _, rs := range c.selectRules(m, e) {
		for _, d := range rs.Declarations {
			put(d, PriorityOf(rs.Origin, d.Important, rs.Selector, rs.Order))
		}
	}
	decls := make([]Declaration, 0, len(final))
	for _, w := range final {
		decls = append(decls, w.d)
	}
	sort.Slice(decls, func(i, j int) bool {
		return decls[i].Property < decls[j].Property
	})
	return decls
}

func (c *Cascade) selectRules(m *model.Model, e model.Entity) []RuleSet {
	tag := e.Tag.String()
	c.mx.RLock()
	defer c.mx.RUnlock()
	rules := append([]RuleSet(nil), c.index[tag]...)
	if class, ok := m.Attribute(e, classKey); ok {
		for _, cl := range strings.Fields(class.String()) {
			rules = append(rules, c.index["."+cl]...)
			rules = append(rules, c.index[tag+"."+cl]...)
		}
	}
	return rules
}

// Apply resolves the styles of e and all its descendants. For every element,
// attributes "class" and "style" are replaced by the resolved properties.
// Elements of skipped tags are left untouched, together with their subtrees.
// The root of a model has no attributes and is not changed, but its
// children are.
func (c *Cascade) Apply(m *model.Model, e model.Entity) error {
	if c.skip[e.Tag.String()] {
		tracer().Debugf("skipping styles for %s", e)
		return nil
	}
	if !e.IsRoot() {
		decls := c.Resolve(m, e)
		attrs := make([]model.Attribute, 0, len(decls))
		for _, d := range decls {
			k, err := model.ToKey(d.Property)
			if err != nil {
				tracer().Debugf("dropping property %q of %s: %v", d.Property, e, err)
				continue
			}
			attrs = append(attrs, model.Attribute{Key: k, Value: model.NormalizeValue(d.Value.String())})
		}
		if err := m.ChangeAttributes(e, []model.Key{classKey, styleKey}, attrs...); err != nil {
			return fmt.Errorf("applying styles to %s: %w", e, err)
		}
	}
	for _, ch := range m.Children(e) {
		if err := c.Apply(m, ch); err != nil {
			return err
		}
	}
	return nil
}
