package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Character references longer than this are not considered.
const maxReferenceLength = 32

// decodeEntities resolves character references in s: named references
// like &amp; as well as numeric references like &#169; or &#xA9;. Lookup of
// named references is case-sensitive first, then falls back to lowercase.
// References which cannot be resolved are kept literally.
func decodeEntities(s string) string {
	if strings.IndexByte(s, '&') < 0 {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for {
		amp := strings.IndexByte(s, '&')
		if amp < 0 {
			sb.WriteString(s)
			return sb.String()
		}
		sb.WriteString(s[:amp])
		s = s[amp:]
		semi := strings.IndexByte(s, ';')
		if semi < 0 || semi > maxReferenceLength {
			sb.WriteByte('&')
			s = s[1:]
			continue
		}
		r, ok := resolveReference(s[1:semi])
		if !ok {
			sb.WriteByte('&')
			s = s[1:]
			continue
		}
		sb.WriteString(r)
		s = s[semi+1:]
	}
}

func resolveReference(ref string) (string, bool) {
	if ref == "" {
		return "", false
	}
	if ref[0] == '#' {
		return resolveNumeric(ref[1:])
	}
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return "", false
		}
	}
	if r, ok := resolveNamed(ref); ok {
		return r, true
	}
	if lower := strings.ToLower(ref); lower != ref {
		return resolveNamed(lower)
	}
	return "", false
}

// resolveNamed looks up a named reference in the HTML entity table.
// UnescapeString will decode legacy entities without a trailing semicolon
// as well, e.g. "&notit;" to "¬it;". We only accept complete matches, which
// decode to one or two code points.
func resolveNamed(name string) (string, bool) {
	ref := "&" + name + ";"
	r := html.UnescapeString(ref)
	if r == ref || utf8.RuneCountInString(r) > 2 {
		return "", false
	}
	return r, true
}

func resolveNumeric(num string) (string, bool) {
	base := 10
	if len(num) > 0 && (num[0] == 'x' || num[0] == 'X') {
		base, num = 16, num[1:]
	}
	if num == "" {
		return "", false
	}
	n, err := strconv.ParseUint(num, base, 32)
	if err != nil || n == 0 || !utf8.ValidRune(rune(n)) {
		return "", false
	}
	return string(rune(n)), true
}
