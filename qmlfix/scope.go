package qmlfix

import (
	"regexp"
	"strings"
)

var rootDeclRe = regexp.MustCompile(`(?m)^([A-Z][A-Za-z0-9]*)\s*\{`)

// Scope is the textual extent of the root object. Start and End are the
// offsets of its opening and closing braces.
type Scope struct {
	TypeName string `json:"type"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// Body returns the text between the braces.
func (s Scope) Body(text string) string {
	return text[s.Start+1 : s.End]
}

// LocateScope finds the first column-0 object declaration and the brace that
// closes it. Braces inside strings and comments are ignored. The second
// result is false when no declaration exists or its braces never balance.
func LocateScope(text string) (Scope, bool) {
	return locateScope(text, scanSpans(text))
}

func locateScope(text string, sp spans) (Scope, bool) {
	for _, m := range rootDeclRe.FindAllStringSubmatchIndex(text, -1) {
		open := m[1] - 1
		if !sp.code(m[0]) || !sp.code(open) {
			continue
		}
		end := matchBrace(text, sp, open)
		if end < 0 {
			return Scope{}, false
		}
		return Scope{TypeName: text[m[2]:m[3]], Start: open, End: end}, true
	}
	return Scope{}, false
}

// matchBrace returns the offset of the brace closing the one at open, or -1.
func matchBrace(text string, sp spans, open int) int {
	cur := cursor{s: sp}
	depth := 0
	for i := open; i < len(text); i++ {
		c := text[i]
		if c != '{' && c != '}' {
			continue
		}
		if !cur.code(i) {
			continue
		}
		if c == '{' {
			depth++
			continue
		}
		depth--
		if depth == 0 {
			return i
		}
	}
	return -1
}

// line describes one non-blank source line that starts inside the root body.
// On the line of the root's opening brace only the text after the brace is
// described.
type line struct {
	no    int // 1-based line number
	start int // offset of the first byte of the line, or just past the root brace
	bol   int // offset of the first byte of the physical line
	end   int // offset of the terminating newline or len(text)
	first int // offset of the first non-blank byte
	depth int // brace depth at first; 1 is the root body
	encl  int // offset of the innermost open brace enclosing first
}

// layout is the brace structure of the root scope, computed once per text
// and shared by the harvester, id lookup and rewriter.
type layout struct {
	text    string
	sp      spans
	scope   Scope
	lines   []line
	closeOf map[int]int
}

func newLayout(text string, sp spans, scope Scope) *layout {
	l := &layout{
		text:    text,
		sp:      sp,
		scope:   scope,
		closeOf: make(map[int]int),
	}

	no := strings.Count(text[:scope.Start], "\n") + 1
	cur := cursor{s: sp}
	var stack []int
	head := -1
	bol := strings.LastIndexByte(text[:scope.Start], '\n') + 1
	for i := scope.Start; i <= scope.End; i++ {
		c := text[i]
		if head >= 0 && c != ' ' && c != '\t' && c != '\r' && c != '\n' {
			l.lines = append(l.lines, line{
				no:    no,
				start: head,
				bol:   bol,
				end:   lineEnd(text, i),
				first: i,
				depth: len(stack),
				encl:  stack[len(stack)-1],
			})
			head = -1
		}
		if c == '\n' {
			no++
			head = i + 1
			bol = i + 1
			continue
		}
		if (c != '{' && c != '}') || !cur.code(i) {
			continue
		}
		if c == '{' {
			stack = append(stack, i)
			if i == scope.Start {
				head = i + 1
			}
			continue
		}
		open := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		l.closeOf[open] = i
	}
	return l
}

// lineText returns the text of ln without its newline.
func (l *layout) lineText(ln line) string {
	return strings.TrimSuffix(l.text[ln.start:ln.end], "\r")
}

// inBody reports whether pos is strictly between the root braces.
func (l *layout) inBody(pos int) bool {
	return pos > l.scope.Start && pos < l.scope.End
}

// idents calls fn for every identifier token that starts in code inside the
// root body, in offset order.
func (l *layout) idents(fn func(ln line, start, end int)) {
	text := l.text
	cur := cursor{s: l.sp}
	for _, ln := range l.lines {
		for i := ln.first; i < ln.end; {
			if !isIdentStart(text[i]) || (i > 0 && isIdentChar(text[i-1])) {
				i++
				continue
			}
			j := i + 1
			for j < ln.end && isIdentChar(text[j]) {
				j++
			}
			if l.inBody(i) && cur.code(i) {
				fn(ln, i, j)
			}
			i = j
		}
	}
}
