package parser

import "github.com/npillmayer/saga/model"

// element is a start tag which has been read, but for which no node has been
// created yet.
type element struct {
	name  string // lowercase local name
	tag   model.Tag
	attrs []model.Attribute
	empty bool // self-closing, as in <br/>
}

// step is the outcome of parsing the content of an element. It is one of
//
//     closed        the end tag of the element has been read
//     endOf(name)   an end tag of an ancestor has been read
//     handoff(el)   a start tag has been read which ends the element
//     endOfInput    input has been exhausted
//
// Clients decompose a step with a type switch on its matcher:
//
//     switch m := s.Match(); m {
//     case m.Closed():
//     case m.EndOf(&name):
//     …
//     }
type step struct {
	kind stepKind
	name string
	el   *element
}

type stepKind int8

const (
	stepClosed stepKind = iota + 1
	stepEndOf
	stepHandoff
	stepEndOfInput
)

func closed() step { return step{kind: stepClosed} }

func endOf(name string) step { return step{kind: stepEndOf, name: name} }

func handoff(el *element) step { return step{kind: stepHandoff, el: el} }

func endOfInput() step { return step{kind: stepEndOfInput} }

// Match returns a matcher for decomposing s.
func (s step) Match() stepMatcher { return matcher{s: s} }

// --- Matching --------------------------------------------------------------

type stepMatcher interface {
	Closed() stepMatcher
	EndOf(*string) stepMatcher
	Handoff(**element) stepMatcher
	EndOfInput() stepMatcher
}

type matcher struct {
	s step
}

func (m matcher) Closed() stepMatcher {
	if m.s.kind == stepClosed {
		return m
	}
	return nil
}

func (m matcher) EndOf(name *string) stepMatcher {
	if m.s.kind == stepEndOf {
		*name = m.s.name
		return m
	}
	return nil
}

func (m matcher) Handoff(el **element) stepMatcher {
	if m.s.kind == stepHandoff {
		*el = m.s.el
		return m
	}
	return nil
}

func (m matcher) EndOfInput() stepMatcher {
	if m.s.kind == stepEndOfInput {
		return m
	}
	return nil
}
