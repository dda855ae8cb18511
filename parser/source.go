package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// NewSource creates a code point source from a byte stream in the given
// charset. Charset names are WHATWG encoding labels, e.g. "utf-8",
// "iso-8859-1" or "windows-1252". An empty charset denotes UTF-8.
func NewSource(r io.Reader, charset string) (io.RuneReader, error) {
	charset = strings.TrimSpace(charset)
	if charset == "" || strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8") {
		return bufio.NewReader(r), nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", charset, err)
	}
	tracer().Debugf("decoding source from %s", charset)
	return bufio.NewReader(enc.NewDecoder().Reader(r)), nil
}

// scanner reads runes from a source and allows an arbitrary number of runes
// to be pushed back.
type scanner struct {
	src  io.RuneReader
	back []rune
	err  error
	eof  bool
}

func newScanner(src io.RuneReader) *scanner {
	return &scanner{src: src}
}

// next returns the next rune. ok is false at end of input or after a read
// error, which is remembered in s.err.
func (s *scanner) next() (r rune, ok bool) {
	if n := len(s.back); n > 0 {
		r = s.back[n-1]
		s.back = s.back[:n-1]
		return r, true
	}
	if s.eof {
		return 0, false
	}
	r, _, err := s.src.ReadRune()
	if err != nil {
		s.eof = true
		if err != io.EOF {
			s.err = err
		}
		return 0, false
	}
	return r, true
}

// unread pushes back runes, to be returned by next in the order given.
func (s *scanner) unread(rs ...rune) {
	for i := len(rs) - 1; i >= 0; i-- {
		s.back = append(s.back, rs[i])
	}
}

func (s *scanner) peek() (rune, bool) {
	r, ok := s.next()
	if ok {
		s.unread(r)
	}
	return r, ok
}

// lookingAt checks if the input continues with prefix. It consumes prefix
// on success and nothing otherwise.
func (s *scanner) lookingAt(prefix string) bool {
	var read []rune
	for _, want := range prefix {
		r, ok := s.next()
		if !ok {
			s.unread(read...)
			return false
		}
		read = append(read, r)
		if r != want {
			s.unread(read...)
			return false
		}
	}
	return true
}

// lookingAtFold is like lookingAt, ignoring ASCII case.
func (s *scanner) lookingAtFold(prefix string) bool {
	var read []rune
	for _, want := range prefix {
		r, ok := s.next()
		if !ok {
			s.unread(read...)
			return false
		}
		read = append(read, r)
		if toLower(r) != toLower(want) {
			s.unread(read...)
			return false
		}
	}
	return true
}

// skipTo consumes input up to and including stop. It returns the runes
// read before stop and false if input ended first.
func (s *scanner) skipTo(stop rune) (string, bool) {
	var sb strings.Builder
	for {
		r, ok := s.next()
		if !ok {
			return sb.String(), false
		}
		if r == stop {
			return sb.String(), true
		}
		sb.WriteRune(r)
	}
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + 'a' - 'A'
	}
	return r
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}
