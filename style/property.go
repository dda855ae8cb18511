package style

import (
	"fmt"
	"strings"
)

// Property is a raw value for a CSS property. For example, with
//
//     color: black
//
// a property value of "black" is set. Wrapping the raw string value into
// type Property provides a small set of helpers.
type Property string

// NullStyle is an empty property value.
const NullStyle Property = ""

func (p Property) String() string {
	return string(p)
}

// IsInitial denotes if a property is of inheritence-type "initial"
func (p Property) IsInitial() bool {
	return strings.EqualFold(string(p), "initial")
}

// IsInherit denotes if a property is of inheritence-type "inherit"
func (p Property) IsInherit() bool {
	return strings.EqualFold(string(p), "inherit")
}

// IsEmpty checks wether a property is empty, i.e. the null-string.
func (p Property) IsEmpty() bool {
	return p == ""
}

// Declaration is a single property setting, as in
//
//     margin-top: 4px !important
type Declaration struct {
	Property  string // lowercase property name
	Value     Property
	Important bool
}

func (d Declaration) String() string {
	if d.Important {
		return fmt.Sprintf("%s: %s !important", d.Property, d.Value)
	}
	return fmt.Sprintf("%s: %s", d.Property, d.Value)
}

// Origin is the source of a rule set. Origins are ranked, with Inline being
// the highest.
type Origin uint8

// Origins in ascending rank.
const (
	External Origin = iota // from a linked stylesheet
	Internal               // from a <style> element
	Inline                 // from a style attribute
)

func (o Origin) String() string {
	switch o {
	case External:
		return "external"
	case Internal:
		return "internal"
	case Inline:
		return "inline"
	}
	return fmt.Sprintf("origin(%d)", uint8(o))
}

// RuleSet is a list of declarations for a selector. Order is the position
// of the rule set within all rule sets of a cascade.
type RuleSet struct {
	Origin       Origin
	Selector     string
	Declarations []Declaration
	Order        int
}

func (rs RuleSet) String() string {
	var sb strings.Builder
	sb.WriteString(rs.Selector)
	sb.WriteString(" {")
	for _, d := range rs.Declarations {
		sb.WriteString(" ")
		sb.WriteString(d.String())
		sb.WriteString(";")
	}
	sb.WriteString(" }")
	return sb.String()
}
