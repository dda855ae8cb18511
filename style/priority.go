package style

import (
	"fmt"
	"regexp"
)

// Priority ranks declarations for the same property. It packs, from most to
// least significant bits:
//
//     1 bit   important flag
//     2 bits  origin
//     10 bits number of id selectors
//     10 bits number of class, attribute and pseudo-class selectors
//     10 bits number of type and pseudo-element selectors
//     29 bits order
//
// Counts and order saturate at their maximum.
type Priority uint64

const (
	countMask = 0x3FF
	orderMask = 0x1FFFFFFF
)

// PriorityOf calculates the priority of a declaration. selector is empty for
// inline declarations.
func PriorityOf(origin Origin, important bool, selector string, order int) Priority {
	var p Priority
	if important {
		p |= 1 << 62
	}
	p |= Priority(origin&0x3) << 60
	ids, classes, types := Specificity(selector)
	p |= Priority(saturate(ids, countMask)) << 49
	p |= Priority(saturate(classes, countMask)) << 39
	p |= Priority(saturate(types, countMask)) << 29
	p |= Priority(saturate(order, orderMask))
	return p
}

func saturate(n, max int) int {
	if n < 0 {
		return 0
	}
	if n > max {
		return max
	}
	return n
}

// Important returns the important flag of p.
func (p Priority) Important() bool {
	return p>>62&1 == 1
}

// Origin returns the origin of p.
func (p Priority) Origin() Origin {
	return Origin(p >> 60 & 0x3)
}

// Specificity returns the selector counts of p.
func (p Priority) Specificity() (ids, classes, types int) {
	return int(p >> 49 & countMask), int(p >> 39 & countMask), int(p >> 29 & countMask)
}

// Order returns the order of p.
func (p Priority) Order() int {
	return int(p & orderMask)
}

func (p Priority) String() string {
	ids, classes, types := p.Specificity()
	return fmt.Sprintf("[%v,%s,(%d,%d,%d),%d]", p.Important(), p.Origin(), ids, classes, types, p.Order())
}

var (
	idPattern            = regexp.MustCompile(`#\w+`)
	classPattern         = regexp.MustCompile(`\.\w+`)
	attributePattern     = regexp.MustCompile(`\[\w+(?:\W*=\W*".+?")?`)
	colonPattern         = regexp.MustCompile(`:\w+`)
	typePattern          = regexp.MustCompile(`(^|\s|[\[>+~])\w+`)
	pseudoElementPattern = regexp.MustCompile(`::\w+`)
)

// Specificity counts the components of a selector. The counts are taken
// from independent scans of the selector text, so a component may be
// counted in more than one bucket. Pseudo-classes are colon-prefixed names
// not preceded by another colon; a pseudo-element such as ::before counts
// as a type only.
func Specificity(selector string) (ids, classes, types int) {
	if selector == "" {
		return
	}
	count := func(re *regexp.Regexp) int {
		return len(re.FindAllStringIndex(selector, -1))
	}
	pseudoElements := count(pseudoElementPattern)
	ids = count(idPattern)
	classes = count(classPattern) + count(attributePattern) + count(colonPattern) - pseudoElements
	types = count(typePattern) + pseudoElements
	return
}
