package parser

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/npillmayer/saga/model"
)

// ErrInvalidRoot is returned if the first element read into an empty model
// does not match the model's root tag.
var ErrInvalidRoot = errors.New("invalid root element")

// Doctype is the content of a document type declaration.
type Doctype struct {
	Name     string
	PublicID string
	SystemID string
}

var doctypePattern = regexp.MustCompile(`(\S+)\s+PUBLIC\s+"([^"]*)"\s+"([^"]*)".*>`)

// Parser reads markup into a model. A parser is not safe for concurrent use,
// and no two parsers should read into the same model at the same time.
type Parser struct {
	m       *model.Model
	conf    config
	sc      *scanner
	doctype *Doctype
	err     error
}

// New creates a parser reading into m.
func New(m *model.Model, opts ...Option) *Parser {
	p := &Parser{m: m, conf: defaultConfig()}
	for _, opt := range opts {
		opt(&p.conf)
	}
	return p
}

// ParseString is a shortcut to parse a string into m.
func ParseString(m *model.Model, s string, opts ...Option) error {
	return New(m, opts...).Parse(strings.NewReader(s))
}

// Doctype returns the document type declaration of the most recent input,
// if there was one. The declaration is informational only and is never
// attached to the model.
func (p *Parser) Doctype() (Doctype, bool) {
	if p.doctype == nil {
		return Doctype{}, false
	}
	return *p.doctype, true
}

// Parse reads markup from src into the parser's model. If the model is empty,
// the first element of src has to match the root tag of the model; it is
// read into the root node, with its attributes discarded. Otherwise the
// input is appended to the children of the root. Parsing stops with the end
// of the root element or at end of input.
//
// Malformed markup does not cause Parse to fail, but will be interpreted on
// a best-effort basis. Errors are returned for an invalid root element and
// for read errors of src.
func (p *Parser) Parse(src io.RuneReader) error {
	p.sc = newScanner(src)
	p.doctype, p.err = nil, nil
	if err := p.document(); err != nil {
		return err
	}
	if p.err != nil {
		return p.err
	}
	if p.sc.err != nil {
		return fmt.Errorf("reading markup: %w", p.sc.err)
	}
	return nil
}

type stopSet map[string]bool

// childStops returns the stop set for the content of an element name, given
// the stop set of its parent. Elements with an optional end tag inherit
// their parent's stops and add their own name; others start afresh.
func (p *Parser) childStops(name string, stops stopSet) stopSet {
	if !p.conf.optional[name] {
		return nil
	}
	s := make(stopSet, len(stops)+1)
	for k := range stops {
		s[k] = true
	}
	s[name] = true
	return s
}

// document reads up to the root element and then parses its content.
func (p *Parser) document() error {
	root := p.m.Root()
	rootName := root.Tag.String()
	for {
		text, more := p.readText()
		if strings.TrimSpace(text) != "" {
			tracer().Infof("ignoring text outside of root element: %q", text)
		}
		if !more {
			return nil
		}
		tok := p.readMarkup()
		switch tok.kind {
		case tokenEOF:
			return nil
		case tokenEnd:
			tracer().Debugf("ignoring end tag </%s> outside of root element", tok.name)
		case tokenStart:
			var pending *element
			if p.m.IsEmpty() {
				if tok.el.name != rootName {
					return fmt.Errorf("found <%s>, expected <%s>: %w", tok.el.name, rootName, ErrInvalidRoot)
				}
				if len(tok.el.attrs) > 0 {
					tracer().Infof("dropping %d attributes of root element", len(tok.el.attrs))
				}
				if tok.el.empty {
					return nil
				}
			} else if tok.el.tag.IsZero() {
				continue
			} else {
				pending = tok.el
			}
			s := p.content(root, rootName, p.childStops(rootName, nil), nil, pending)
			var el *element
			if m := s.Match(); m.Handoff(&el) != nil {
				tracer().Infof("ignoring <%s> after end of root element", el.name)
			}
			return nil
		}
	}
}

// content parses the content of element e up to its end tag. name is the
// lowercase tag name of e, stops its stop set, and ancestors holds the names
// of all enclosing elements, innermost last. If pending is not nil, it is
// a start tag read beforehand which is opened first.
func (p *Parser) content(e model.Entity, name string, stops stopSet, ancestors []string, pending *element) step {
	inner := append(ancestors[:len(ancestors):len(ancestors)], name)
	for {
		if pending == nil {
			text, more := p.readText()
			p.addText(e, text)
			if !more {
				return endOfInput()
			}
			tok := p.readMarkup()
			switch tok.kind {
			case tokenEOF:
				return endOfInput()
			case tokenOther:
				continue
			case tokenEnd:
				if tok.name == name {
					return closed()
				}
				if isAncestor(tok.name, ancestors) {
					tracer().Debugf("</%s> closes <%s> implicitly", tok.name, name)
					return endOf(tok.name)
				}
				tracer().Debugf("ignoring stray end tag </%s> in <%s>", tok.name, name)
				continue
			case tokenStart:
				if tok.el.tag.IsZero() {
					tracer().Infof("skipping element with invalid tag <%s>", tok.el.name)
					continue
				}
				if stops[tok.el.name] {
					return handoff(tok.el)
				}
				pending = tok.el
			}
		}
		el := pending
		pending = nil
		var endName string
		s := p.open(e, el, stops, inner)
		switch m := s.Match(); m {
		case m.Closed():
		case m.EndOf(&endName):
			if endName == name {
				return closed()
			}
			return s
		case m.EndOfInput():
			return s
		case m.Handoff(&pending):
			if stops[pending.name] {
				return s
			}
			tracer().Debugf("<%s> ends <%s> implicitly", pending.name, el.name)
		}
	}
}

// isAncestor searches the open elements, innermost first, for name.
func isAncestor(name string, ancestors []string) bool {
	for i := len(ancestors) - 1; i >= 0; i-- {
		if ancestors[i] == name {
			return true
		}
	}
	return false
}

// open creates a node for el as the last child of parent and parses its
// content. The node is attached before its content is read.
func (p *Parser) open(parent model.Entity, el *element, stops stopSet, ancestors []string) step {
	if err := p.m.DemoteData(parent, p.conf.carrier); err != nil {
		p.err = err
		return endOfInput()
	}
	e, err := p.m.CreateEntity(el.tag, parent, el.attrs...)
	if err != nil {
		p.err = err
		return endOfInput()
	}
	if el.empty || p.conf.void[el.name] {
		return closed()
	}
	if p.conf.raw[el.name] {
		p.addText(e, purify(p.readRawText(el.name)))
		return closed()
	}
	return p.content(e, el.name, p.childStops(el.name, stops), ancestors, nil)
}

func (p *Parser) addText(e model.Entity, text string) {
	if text == "" || p.err != nil {
		return
	}
	if err := p.m.AppendText(e, text, p.conf.carrier); err != nil {
		p.err = err
	}
}

// --- Text ------------------------------------------------------------------

// readText reads text up to the next markup. more is false if input ended
// before any markup was found. A '<' not starting markup is taken as text.
// CDATA sections are inlined verbatim.
func (p *Parser) readText() (text string, more bool) {
	var tb textBuffer
	for {
		r, ok := p.sc.next()
		if !ok {
			return tb.text(), false
		}
		if r != '<' {
			tb.add(r)
			continue
		}
		r, ok = p.sc.peek()
		switch {
		case !ok:
			tb.add('<')
		case r == '!':
			p.sc.next()
			if p.sc.lookingAt("[CDATA[") {
				tb.addVerbatim(p.readCDATA())
				continue
			}
			p.sc.unread('!')
			return tb.text(), true
		case isLetter(r) || r == '/' || r == '?':
			return tb.text(), true
		default:
			tb.add('<')
		}
	}
}

func (p *Parser) readCDATA() string {
	var sb strings.Builder
	for {
		r, ok := p.sc.next()
		if !ok {
			return sb.String()
		}
		if r == ']' && p.sc.lookingAt("]>") {
			return sb.String()
		}
		sb.WriteRune(r)
	}
}

// readRawText reads the content of a raw text element verbatim, up to its
// end tag.
func (p *Parser) readRawText(name string) string {
	var sb strings.Builder
	for {
		r, ok := p.sc.next()
		if !ok {
			return sb.String()
		}
		if r == '<' && p.sc.lookingAt("/") {
			if p.sc.lookingAtFold(name) {
				if r, ok := p.sc.peek(); !ok || r == '>' || isSpace(r) {
					p.sc.skipTo('>')
					return sb.String()
				}
				sb.WriteString("</" + name)
				continue
			}
			sb.WriteString("</")
			continue
		}
		sb.WriteRune(r)
	}
}

// textBuffer collects a run of text. Parts from CDATA sections are kept
// apart, as they are exempt from entity decoding.
type textBuffer struct {
	parts []textPart
	cur   strings.Builder
}

type textPart struct {
	text     string
	verbatim bool
}

func (tb *textBuffer) add(r rune) {
	tb.cur.WriteRune(r)
}

func (tb *textBuffer) addVerbatim(s string) {
	tb.flush()
	tb.parts = append(tb.parts, textPart{text: s, verbatim: true})
}

func (tb *textBuffer) flush() {
	if tb.cur.Len() > 0 {
		tb.parts = append(tb.parts, textPart{text: tb.cur.String()})
		tb.cur.Reset()
	}
}

// text purifies the collected text, then decodes entities. Text starting
// with a line break loses the line break and surrounding whitespace.
func (tb *textBuffer) text() string {
	tb.flush()
	if len(tb.parts) == 0 {
		return ""
	}
	first, last := &tb.parts[0], &tb.parts[len(tb.parts)-1]
	if !first.verbatim && strings.HasPrefix(first.text, "\n") {
		first.text = strings.TrimLeftFunc(first.text[1:], unicode.IsSpace)
		if !last.verbatim {
			last.text = strings.TrimRightFunc(last.text, unicode.IsSpace)
		}
	}
	var sb strings.Builder
	for _, part := range tb.parts {
		if part.verbatim {
			sb.WriteString(part.text)
		} else {
			sb.WriteString(decodeEntities(part.text))
		}
	}
	return sb.String()
}

func purify(s string) string {
	if strings.HasPrefix(s, "\n") {
		return strings.TrimSpace(s[1:])
	}
	return s
}

// --- Markup ----------------------------------------------------------------

type tokenKind int8

const (
	tokenOther tokenKind = iota // comment, doctype, processing instruction
	tokenStart
	tokenEnd
	tokenEOF
)

type token struct {
	kind tokenKind
	name string   // end tags
	el   *element // start tags
}

// readMarkup reads a tag after its opening '<'.
func (p *Parser) readMarkup() token {
	r, ok := p.sc.next()
	if !ok {
		return token{kind: tokenEOF}
	}
	switch r {
	case '!':
		if p.sc.lookingAt("--") {
			c := p.readComment()
			tracer().Debugf("comment %q", decodeEntities(c))
			return token{kind: tokenOther}
		}
		if p.sc.lookingAtFold("doctype") {
			decl, _ := p.sc.skipTo('>')
			p.readDoctype(decl)
			return token{kind: tokenOther}
		}
		decl, _ := p.sc.skipTo('>')
		tracer().Debugf("skipping declaration <!%s>", decl)
		return token{kind: tokenOther}
	case '?':
		pi, _ := p.sc.skipTo('>')
		tracer().Debugf("processing instruction <?%s>", pi)
		return token{kind: tokenOther}
	case '/':
		s, _ := p.sc.skipTo('>')
		fields := strings.Fields(s)
		if len(fields) == 0 {
			return token{kind: tokenOther}
		}
		return token{kind: tokenEnd, name: localName(fields[0])}
	}
	p.sc.unread(r)
	name := localName(p.readWhile(func(r rune) bool {
		return !isSpace(r) && r != '/' && r != '>'
	}))
	el := &element{name: name}
	if tag, err := model.ToTag(name); err == nil {
		el.tag = tag
	}
	p.readAttributes(el)
	return token{kind: tokenStart, el: el}
}

// readComment reads a comment up to "-->". Any number of dashes and
// whitespace is allowed between "--" and '>'.
func (p *Parser) readComment() string {
	var sb strings.Builder
	for {
		r, ok := p.sc.next()
		if !ok {
			return sb.String()
		}
		if r != '-' || !p.sc.lookingAt("-") {
			sb.WriteRune(r)
			continue
		}
		trailer := []rune{'-', '-'}
		for {
			r, ok = p.sc.next()
			if !ok {
				sb.WriteString(string(trailer))
				return sb.String()
			}
			if r == '>' {
				return sb.String()
			}
			if r == '-' || isSpace(r) {
				trailer = append(trailer, r)
				continue
			}
			sb.WriteString(string(trailer))
			sb.WriteRune(r)
			break
		}
	}
}

func (p *Parser) readDoctype(decl string) {
	dt := &Doctype{}
	if match := doctypePattern.FindStringSubmatch(decl + ">"); match != nil {
		dt.Name, dt.PublicID, dt.SystemID = match[1], match[2], match[3]
	} else if fields := strings.Fields(decl); len(fields) > 0 {
		dt.Name = fields[0]
	}
	tracer().Debugf("doctype %q public=%q system=%q", dt.Name, dt.PublicID, dt.SystemID)
	p.doctype = dt
}

// readWhile reads runes as long as f is true. The first rune failing f is
// left in the input.
func (p *Parser) readWhile(f func(rune) bool) string {
	var sb strings.Builder
	for {
		r, ok := p.sc.next()
		if !ok {
			return sb.String()
		}
		if !f(r) {
			p.sc.unread(r)
			return sb.String()
		}
		sb.WriteRune(r)
	}
}

func (p *Parser) skipSpace() {
	p.readWhile(isSpace)
}

// readAttributes reads name[=value] pairs up to the end of a start tag.
// Values may be unquoted, single- or double-quoted. A name without a value
// is given an empty value. A '/' right before the closing '>' marks the
// element as empty.
func (p *Parser) readAttributes(el *element) {
	for {
		p.skipSpace()
		r, ok := p.sc.next()
		if !ok || r == '>' {
			return
		}
		if r == '/' {
			if p.sc.lookingAt(">") {
				el.empty = true
				return
			}
			continue
		}
		p.sc.unread(r)
		name := p.readWhile(func(r rune) bool {
			return !isSpace(r) && r != '=' && r != '>' && r != '/'
		})
		p.skipSpace()
		value := ""
		if p.sc.lookingAt("=") {
			p.skipSpace()
			value = p.readAttributeValue(el)
		}
		p.setAttribute(el, name, value)
	}
}

func (p *Parser) readAttributeValue(el *element) string {
	r, ok := p.sc.next()
	if !ok {
		return ""
	}
	if r == '"' || r == '\'' {
		v, _ := p.sc.skipTo(r)
		return decodeEntities(v)
	}
	var sb strings.Builder
	for {
		switch {
		case isSpace(r):
			return decodeEntities(sb.String())
		case r == '>':
			p.sc.unread(r)
			return decodeEntities(sb.String())
		case r == '/' && p.sc.lookingAt(">"):
			el.empty = true
			p.sc.unread('>')
			return decodeEntities(sb.String())
		}
		sb.WriteRune(r)
		if r, ok = p.sc.next(); !ok {
			return decodeEntities(sb.String())
		}
	}
}

func (p *Parser) setAttribute(el *element, name, value string) {
	key, err := model.ToKey(strings.ToLower(name))
	if err != nil {
		tracer().Debugf("skipping attribute %q of <%s>: %v", name, el.name, err)
		return
	}
	attr := model.Attribute{Key: key, Value: model.NormalizeValue(value)}
	for i := range el.attrs {
		if el.attrs[i].Key == key {
			el.attrs[i] = attr
			return
		}
	}
	el.attrs = append(el.attrs, attr)
}

// localName lowercases a tag name and strips a namespace prefix.
func localName(s string) string {
	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		s = s[i+1:]
	}
	return strings.ToLower(s)
}
