package lhdiff

import "strings"

// Normalize returns the canonical comparison form of a raw line.
//
// Leading and trailing whitespace is removed, runs of ASCII whitespace collapse
// to a single space, and everything from the first "//" and then from the first
// "#" to the end of the line is dropped. Quoted literals are not recognized,
// so a "//" or "#" inside a string still starts a comment. Use
// NormalizeLiteralAware for the stricter behavior.
func Normalize(raw string) string {
	s := collapseSpace(raw)
	if i := strings.Index(s, "//"); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimFunc(s, isTrimmed)
}

// NormalizeLiteralAware is Normalize with comment detection that skips
// "//" and "#" occurring inside '...', "..." or `...` literals.
// Backslash escapes are honored in single and double quoted literals.
func NormalizeLiteralAware(raw string) string {
	s := collapseSpace(raw)
	if i := commentStart(s); i >= 0 {
		s = s[:i]
	}
	return strings.TrimFunc(s, isTrimmed)
}

// collapseSpace trims control characters and spaces from both ends and
// replaces each inner run of ASCII whitespace with one space. Other Unicode
// spaces, such as U+00A0, are kept as text.
func collapseSpace(raw string) string {
	return strings.Join(strings.FieldsFunc(strings.TrimFunc(raw, isTrimmed), isSpace), " ")
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isTrimmed(r rune) bool {
	return r <= ' '
}

// commentStart returns the byte offset of the first comment marker outside
// a quoted literal, or -1.
func commentStart(s string) int {
	var quote byte // active literal delimiter, 0 outside literals
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch {
			case c == '\\' && quote != '`':
				i++
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '#':
			return i
		case '/':
			if i+1 < len(s) && s[i+1] == '/' {
				return i
			}
		}
	}
	return -1
}
