package style

import (
	"regexp"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// StyleSheet is an interface to abstract away a stylesheet implementation.
// Sheet is the implementation used by ParseStylesheet, but clients may bring
// their own.
//
// See interface Rule.
type StyleSheet interface {
	AppendRules(StyleSheet) // append rules from another stylesheet
	Empty() bool            // does this stylesheet contain any rules?
	Rules() []Rule          // all the rules of a stylesheet
}

// Rule is the type stylesheets consists of.
//
// See interface StyleSheet.
type Rule interface {
	Selector() string        // the prelude / selectors of the rule
	Properties() []string    // property keys, e.g. "margin-top"
	Value(string) Property   // property value for key, e.g. "15px"
	IsImportant(string) bool // is property key marked as important?
}

// Sheet is a list of rules.
type Sheet struct {
	rules []Rule
}

var _ StyleSheet = &Sheet{}

// Empty checks if this stylesheet contains any rules.
func (sheet *Sheet) Empty() bool {
	return len(sheet.rules) == 0
}

// AppendRules appends rules from another stylesheet.
func (sheet *Sheet) AppendRules(other StyleSheet) {
	if other == nil {
		return
	}
	sheet.rules = append(sheet.rules, other.Rules()...)
}

// Rules returns all the rules of a stylesheet.
func (sheet *Sheet) Rules() []Rule {
	return sheet.rules
}

// ParseStylesheet parses stylesheet text. Comments are ignored, as are
// at-rules. Malformed input never fails, but will be interpreted on a
// best-effort basis.
func ParseStylesheet(text string) *Sheet {
	if strings.TrimSpace(text) == "" {
		return &Sheet{}
	}
	if c, err := parser.Parse(text); err != nil {
		tracer().Debugf("stylesheet rejected, splitting: %v", err)
	} else if sheet, ok := wrap(c); ok {
		return sheet
	}
	return splitStylesheet(text)
}

// Wrap converts a douceur stylesheet. At-rules are dropped.
func Wrap(c *css.Stylesheet) *Sheet {
	sheet, _ := wrap(c)
	return sheet
}

// wrap returns false if it finds declarations without value. douceur drops
// the value of a final declaration not terminated by ';'.
func wrap(c *css.Stylesheet) (*Sheet, bool) {
	sheet := &Sheet{}
	complete := true
	for _, r := range c.Rules {
		if r.Kind != css.QualifiedRule {
			tracer().Debugf("skipping at-rule %s", r.Name)
			continue
		}
		for _, d := range r.Declarations {
			if strings.TrimSpace(d.Value) == "" {
				complete = false
			}
		}
		sheet.rules = append(sheet.rules, douceurRule(*r))
	}
	return sheet, complete
}

// --- douceur adapter -------------------------------------------------------

// douceurRule is an adapter for interface Rule.
type douceurRule css.Rule

var _ Rule = douceurRule{}

// Selector returns the prelude / selectors of the rule.
func (r douceurRule) Selector() string {
	return r.Prelude
}

// Properties returns the property keys of a rule, e.g. "margin-top".
func (r douceurRule) Properties() []string {
	props := make([]string, 0, len(r.Declarations))
	for _, d := range r.Declarations {
		props = appendUnique(props, strings.ToLower(d.Property))
	}
	return props
}

// Value returns the property value for a given key, e.g. "15px". If a rule
// sets a property more than once, the last setting counts.
func (r douceurRule) Value(key string) Property {
	if d := r.find(key); d != nil {
		v, _ := splitImportant(d.Value)
		return Property(v)
	}
	return NullStyle
}

// IsImportant returns true if a style key is marked as important ("!").
func (r douceurRule) IsImportant(key string) bool {
	if d := r.find(key); d != nil {
		_, imp := splitImportant(d.Value)
		return d.Important || imp
	}
	return false
}

func (r douceurRule) find(key string) *css.Declaration {
	for i := len(r.Declarations) - 1; i >= 0; i-- {
		if strings.EqualFold(r.Declarations[i].Property, key) {
			return r.Declarations[i]
		}
	}
	return nil
}

// --- Tolerant splitting ----------------------------------------------------

// block is a rule produced by splitting stylesheet text.
type block struct {
	selector string
	decls    []Declaration
}

var _ Rule = block{}

func (b block) Selector() string {
	return b.selector
}

func (b block) Properties() []string {
	props := make([]string, 0, len(b.decls))
	for _, d := range b.decls {
		props = appendUnique(props, d.Property)
	}
	return props
}

func (b block) Value(key string) Property {
	if d := b.find(key); d != nil {
		return d.Value
	}
	return NullStyle
}

func (b block) IsImportant(key string) bool {
	if d := b.find(key); d != nil {
		return d.Important
	}
	return false
}

func (b block) find(key string) *Declaration {
	for i := len(b.decls) - 1; i >= 0; i-- {
		if b.decls[i].Property == key {
			return &b.decls[i]
		}
	}
	return nil
}

var commentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)

// splitStylesheet splits text at '}' into blocks, and every block at '{' into
// selector and declarations. Blocks not having exactly one '{' are dropped.
func splitStylesheet(text string) *Sheet {
	sheet := &Sheet{}
	text = commentPattern.ReplaceAllString(text, "")
	for _, part := range strings.Split(text, "}") {
		sd := strings.Split(part, "{")
		if len(sd) != 2 {
			if strings.TrimSpace(part) != "" {
				tracer().Debugf("dropping malformed block %q", strings.TrimSpace(part))
			}
			continue
		}
		sel := strings.TrimSpace(sd[0])
		if sel == "" || strings.HasPrefix(sel, "@") {
			continue
		}
		sheet.rules = append(sheet.rules, block{selector: sel, decls: ParseDeclarations(sd[1])})
	}
	return sheet
}

// ParseDeclarations splits a declaration list, as found in style attributes.
// Declarations are separated by ';' and split into property and value at the
// first ':'. A trailing "!important" is removed from the value and recorded.
// Declarations without a property name or value are dropped.
func ParseDeclarations(text string) []Declaration {
	var decls []Declaration
	for _, src := range strings.Split(text, ";") {
		i := strings.IndexByte(src, ':')
		if i < 0 {
			continue
		}
		prop := strings.ToLower(strings.TrimSpace(src[:i]))
		value, important := splitImportant(src[i+1:])
		if prop == "" || value == "" {
			continue
		}
		decls = append(decls, Declaration{Property: prop, Value: Property(value), Important: important})
	}
	return decls
}

// splitImportant trims a value and removes a trailing "!important".
func splitImportant(value string) (string, bool) {
	value = strings.TrimSpace(value)
	j := len(value) - len("!important")
	if j < 0 || !strings.EqualFold(value[j:], "!important") {
		return value, false
	}
	return strings.TrimSpace(value[:j]), true
}

func appendUnique(l []string, s string) []string {
	for _, x := range l {
		if x == s {
			return l
		}
	}
	return append(l, s)
}
