package model

import (
	"strings"
)

// Attribute is a key/value pair.
type Attribute struct {
	Key   Key
	Value Value
}

// Attr creates an attribute from strings. It returns an error if either k
// is not a valid key or v is not a valid value.
func Attr(k, v string) (Attribute, error) {
	key, err := ToKey(k)
	if err != nil {
		return Attribute{}, err
	}
	val, err := ToValue(v)
	if err != nil {
		return Attribute{}, err
	}
	return Attribute{Key: key, Value: val}, nil
}

// MustAttr is like Attr, but panics for invalid input.
func MustAttr(k, v string) Attribute {
	a, err := Attr(k, v)
	if err != nil {
		panic(err)
	}
	return a
}

// Attributes is an immutable, ordered set of attributes. Keys are unique and
// iteration follows insertion order. The zero value is an empty set.
type Attributes struct {
	list []Attribute
}

// NewAttributes creates a set of attributes. Later duplicates of a key
// overwrite the value of earlier ones, keeping the position of the first.
func NewAttributes(attrs ...Attribute) Attributes {
	return Attributes{}.with(attrs...)
}

// Len returns the number of attributes.
func (as Attributes) Len() int {
	return len(as.list)
}

// At returns the i-th attribute in insertion order.
func (as Attributes) At(i int) Attribute {
	return as.list[i]
}

// Get returns the value for key k, if present.
func (as Attributes) Get(k Key) (Value, bool) {
	if i := as.index(k); i >= 0 {
		return as.list[i].Value, true
	}
	return Value{}, false
}

// Slice returns a copy of the attributes in insertion order.
func (as Attributes) Slice() []Attribute {
	if len(as.list) == 0 {
		return nil
	}
	s := make([]Attribute, len(as.list))
	copy(s, as.list)
	return s
}

// Map returns the attributes as a plain map from key name to value string.
func (as Attributes) Map() map[string]string {
	m := make(map[string]string, len(as.list))
	for _, a := range as.list {
		m[a.Key.name] = a.Value.s
	}
	return m
}

func (as Attributes) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, a := range as.list {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(a.Key.name)
		b.WriteString("=")
		b.WriteString(a.Value.s)
	}
	b.WriteByte('}')
	return b.String()
}

func (as Attributes) index(k Key) int {
	for i, a := range as.list {
		if a.Key == k {
			return i
		}
	}
	return -1
}

// with returns a copy of as with attrs set.
func (as Attributes) with(attrs ...Attribute) Attributes {
	if len(attrs) == 0 {
		return as
	}
	list := make([]Attribute, len(as.list), len(as.list)+len(attrs))
	copy(list, as.list)
	r := Attributes{list: list}
	for _, a := range attrs {
		if i := r.index(a.Key); i >= 0 {
			r.list[i].Value = a.Value
			continue
		}
		r.list = append(r.list, a)
	}
	return r
}

// without returns a copy of as with keys removed.
func (as Attributes) without(keys ...Key) Attributes {
	if len(keys) == 0 || len(as.list) == 0 {
		return as
	}
	list := make([]Attribute, 0, len(as.list))
outer:
	for _, a := range as.list {
		for _, k := range keys {
			if a.Key == k {
				continue outer
			}
		}
		list = append(list, a)
	}
	return Attributes{list: list}
}
