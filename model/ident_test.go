package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentifiers(t *testing.T) {
	for _, s := range []string{"Hello", "hello2", "", "hello world", "hé"} {
		if _, err := ToTag(s); !errors.Is(err, ErrInvalidIdentifier) {
			t.Errorf("expected tag %q to be invalid, got err=%v", s, err)
		}
		if _, err := ToKey(s); !errors.Is(err, ErrInvalidIdentifier) {
			t.Errorf("expected key %q to be invalid, got err=%v", s, err)
		}
	}
	for _, s := range []string{"hello", "helloworld"} {
		if _, err := ToTag(s); err != nil {
			t.Errorf("expected tag %q to be valid, got %v", s, err)
		}
		if _, err := ToKey(s); err != nil {
			t.Errorf("expected key %q to be valid, got %v", s, err)
		}
	}
}

func TestHTMLTagsAndHyphenatedKeys(t *testing.T) {
	_, err := ToTag("h1")
	assert.NoError(t, err)
	_, err = ToTag("x1")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
	_, err = ToKey("background-color")
	assert.NoError(t, err)
	for _, s := range []string{"-color", "color-", "back--ground", "h1"} {
		_, err = ToKey(s)
		assert.ErrorIs(t, err, ErrInvalidIdentifier, "key %q", s)
	}
}

func TestValues(t *testing.T) {
	_, err := ToValue("hello\n2")
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = ToValue("hello\r")
	assert.ErrorIs(t, err, ErrInvalidValue)
	v, err := ToValue("hello")
	assert.NoError(t, err)
	assert.Equal(t, "hello", v.String())
	assert.Equal(t, "a b", NormalizeValue("a\nb").String())
}

func TestTypedValues(t *testing.T) {
	n, err := MustValue("42").Int()
	assert.NoError(t, err)
	assert.Equal(t, int64(42), n)
	_, err = MustValue("4x2").Int()
	assert.ErrorIs(t, err, ErrParse)
	//
	f, err := MustValue("2.5").Float()
	assert.NoError(t, err)
	assert.Equal(t, 2.5, f)
	_, err = MustValue("two").Float()
	assert.ErrorIs(t, err, ErrParse)
	//
	b, err := MustValue("TRUE").Bool()
	assert.NoError(t, err)
	assert.True(t, b)
	_, err = MustValue("yes").Bool()
	assert.ErrorIs(t, err, ErrParse)
	//
	assert.Equal(t, "-7", IntValue(-7).String())
	assert.Equal(t, "false", BoolValue(false).String())
	assert.Equal(t, "0.25", FloatValue(0.25).String())
}

func TestBytesRoundTrip(t *testing.T) {
	data := []byte{0x00, 0x7f, 0xab, 0xff}
	v := BytesValue(data)
	if v.String() != "007fabff" {
		t.Errorf("expected lowercase hex pairs, got %q", v.String())
	}
	back, err := v.Bytes()
	assert.NoError(t, err)
	assert.Equal(t, data, back)
	_, err = MustValue("abc").Bytes()
	assert.ErrorIs(t, err, ErrParse)
}

func TestAttributesKeepInsertionOrder(t *testing.T) {
	as := NewAttributes(MustAttr("b", "1"), MustAttr("a", "2"), MustAttr("b", "3"))
	assert.Equal(t, 2, as.Len())
	assert.Equal(t, "b", as.At(0).Key.String())
	assert.Equal(t, "3", as.At(0).Value.String())
	assert.Equal(t, "{b=3 a=2}", as.String())
	as2 := as.without(MustKey("b"))
	assert.Equal(t, 1, as2.Len())
	assert.Equal(t, 2, as.Len(), "original set must be unchanged")
}
