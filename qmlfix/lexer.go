package qmlfix

import (
	"sort"
	"strings"
)

// span is a half-open byte range [start, end) holding non-code text:
// a comment or a string/template literal.
type span struct {
	start int
	end   int
}

// spans is an ordered, non-overlapping list of non-code ranges.
type spans []span

// scanSpans classifies text into code and non-code regions.
// Unterminated strings stop at end of line, unterminated block comments and
// template literals run to end of text.
func scanSpans(text string) spans {
	var out spans
	n := len(text)
	for i := 0; i < n; {
		c := text[i]
		switch {
		case c == '/' && i+1 < n && text[i+1] == '/':
			end := strings.IndexByte(text[i:], '\n')
			if end < 0 {
				end = n
			} else {
				end += i
			}
			out = append(out, span{i, end})
			i = end
		case c == '/' && i+1 < n && text[i+1] == '*':
			end := strings.Index(text[i+2:], "*/")
			if end < 0 {
				end = n
			} else {
				end += i + 4
			}
			out = append(out, span{i, end})
			i = end
		case c == '"' || c == '\'':
			end := scanString(text, i, c, false)
			out = append(out, span{i, end})
			i = end
		case c == '`':
			end := scanString(text, i, c, true)
			out = append(out, span{i, end})
			i = end
		default:
			i++
		}
	}
	return out
}

// scanString returns the offset just past the literal opened at i.
func scanString(text string, i int, quote byte, multiline bool) int {
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		case '\n':
			if !multiline {
				return j
			}
		}
	}
	return len(text)
}

// code reports whether pos lies outside every comment and string.
func (s spans) code(pos int) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i].end > pos })
	return i == len(s) || pos < s[i].start
}

// cursor answers code/non-code queries for monotonically increasing offsets
// in amortized constant time.
type cursor struct {
	s spans
	k int
}

func (c *cursor) code(pos int) bool {
	for c.k < len(c.s) && c.s[c.k].end <= pos {
		c.k++
	}
	return c.k == len(c.s) || pos < c.s[c.k].start
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// lineEnd returns the offset of the newline terminating the line holding
// pos, or len(text).
func lineEnd(text string, pos int) int {
	if i := strings.IndexByte(text[pos:], '\n'); i >= 0 {
		return pos + i
	}
	return len(text)
}
