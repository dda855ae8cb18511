package model

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html/atom"
)

// --- Tags and keys ---------------------------------------------------------

// Tag is the type name of a node. Tags consist of lowercase ASCII letters.
// As an exception, names of well-known HTML elements containing digits
// (h1…h6) are valid tags as well.
type Tag struct {
	name string
}

// ToTag creates a tag from a string. It returns an ErrInvalidIdentifier
// if s is not a valid tag name.
func ToTag(s string) (Tag, error) {
	if !isLetters(s) && !isHTMLName(s) {
		return Tag{}, fmt.Errorf("tag %q: %w", s, ErrInvalidIdentifier)
	}
	return Tag{name: s}, nil
}

// MustTag is like ToTag, but panics for invalid input.
func MustTag(s string) Tag {
	t, err := ToTag(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Tag) String() string {
	return t.name
}

// IsZero is true for the zero tag, which is not a valid tag.
func (t Tag) IsZero() bool {
	return t.name == ""
}

// Key is the name of an attribute. Keys consist of lowercase ASCII letters,
// optionally joined by single hyphens, e.g. "background-color".
type Key struct {
	name string
}

// ToKey creates a key from a string. It returns an ErrInvalidIdentifier
// if s is not a valid attribute name.
func ToKey(s string) (Key, error) {
	if s == "" || s[0] == '-' || s[len(s)-1] == '-' || strings.Contains(s, "--") {
		return Key{}, fmt.Errorf("key %q: %w", s, ErrInvalidIdentifier)
	}
	for _, seg := range strings.Split(s, "-") {
		if !isLetters(seg) {
			return Key{}, fmt.Errorf("key %q: %w", s, ErrInvalidIdentifier)
		}
	}
	return Key{name: s}, nil
}

// MustKey is like ToKey, but panics for invalid input.
func MustKey(s string) Key {
	k, err := ToKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

func (k Key) String() string {
	return k.name
}

// IsZero is true for the zero key, which is not a valid key.
func (k Key) IsZero() bool {
	return k.name == ""
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

// isHTMLName accepts element names like "h1", which are lowercase
// alphanumerics known to the HTML atom table.
func isHTMLName(s string) bool {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return atom.Lookup([]byte(s)) != 0
}

// --- Values ----------------------------------------------------------------

// Value is the payload of an attribute. Values may not contain line separators.
type Value struct {
	s string
}

// ToValue creates a value from a string. It returns an ErrInvalidValue
// if s contains a line separator.
func ToValue(s string) (Value, error) {
	if i := strings.IndexFunc(s, isLineSeparator); i >= 0 {
		return Value{}, fmt.Errorf("value %q contains line separator at %d: %w", s, i, ErrInvalidValue)
	}
	return Value{s: s}, nil
}

// MustValue is like ToValue, but panics for invalid input.
func MustValue(s string) Value {
	v, err := ToValue(s)
	if err != nil {
		panic(err)
	}
	return v
}

// NormalizeValue creates a value from s, replacing line separators with blanks.
func NormalizeValue(s string) Value {
	return Value{s: strings.Map(func(r rune) rune {
		if isLineSeparator(r) {
			return ' '
		}
		return r
	}, s)}
}

func isLineSeparator(r rune) bool {
	return r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029'
}

// IntValue creates a value from an integer.
func IntValue(n int64) Value {
	return Value{s: strconv.FormatInt(n, 10)}
}

// FloatValue creates a value from a float.
func FloatValue(f float64) Value {
	return Value{s: strconv.FormatFloat(f, 'g', -1, 64)}
}

// BoolValue creates a value from a boolean.
func BoolValue(b bool) Value {
	return Value{s: strconv.FormatBool(b)}
}

// BytesValue encodes a byte slice as a value of lowercase hex digit pairs.
func BytesValue(b []byte) Value {
	return Value{s: hex.EncodeToString(b)}
}

func (v Value) String() string {
	return v.s
}

// Int interprets a value as a decimal integer.
func (v Value) Int() (int64, error) {
	n, err := strconv.ParseInt(v.s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("value %q is not an integer: %w", v.s, ErrParse)
	}
	return n, nil
}

// Float interprets a value as a floating point number.
func (v Value) Float() (float64, error) {
	f, err := strconv.ParseFloat(v.s, 64)
	if err != nil {
		return 0, fmt.Errorf("value %q is not a number: %w", v.s, ErrParse)
	}
	return f, nil
}

// Bool interprets a value as a boolean. Only "true" and "false" are accepted,
// ignoring case.
func (v Value) Bool() (bool, error) {
	switch strings.ToLower(v.s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("value %q is not a boolean: %w", v.s, ErrParse)
}

// Bytes decodes a value created by BytesValue.
func (v Value) Bytes() ([]byte, error) {
	b, err := hex.DecodeString(v.s)
	if err != nil {
		return nil, fmt.Errorf("value is not hex encoded (%v): %w", err, ErrParse)
	}
	return b, nil
}
