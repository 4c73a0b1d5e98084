package qmlfix

import (
	"regexp"
	"strings"
)

var (
	bindingRe      = regexp.MustCompile(`^\s*(?:(?:readonly|required|default)\s+)*(?:property\s+\S+\s+)?[A-Za-z_][\w.]*\s*:\s*`)
	objectValueRe  = regexp.MustCompile(`^[A-Z][\w.]*\s*\{`)
	localKeywordRe = regexp.MustCompile(`=>|\b(?:var|let|const|catch|function|for)\b`)
)

// region is a stretch of embedded JavaScript, [start, end], together with
// the names it declares locally.
type region struct {
	start  int
	end    int
	locals map[string]struct{}
}

// shadows holds the JavaScript regions of one text.
type shadows []region

// shadowed reports whether name at pos refers to a local of an enclosing
// region.
func (s shadows) shadowed(name string, pos int) bool {
	for _, r := range s {
		if pos < r.start || pos > r.end {
			continue
		}
		if _, ok := r.locals[name]; ok {
			return true
		}
	}
	return false
}

// findShadows parses every JavaScript region of the root body and records
// the names it declares. Regions that declare nothing are dropped. Analysis
// is skipped entirely if the locals query cannot be compiled.
func findShadows(l *layout) shadows {
	q, err := compiledLocalsQuery()
	if err != nil {
		return nil
	}

	var p *parser
	var out shadows
	for _, r := range jsRegions(l) {
		src := l.text[r.start : r.end+1]
		if !localKeywordRe.MatchString(src) {
			continue
		}
		if p == nil {
			p = newParser()
		}
		source := []byte(src)
		tree := p.parse(source)
		names := q.captures(tree, source, "local")
		tree.Close()
		if len(names) == 0 {
			continue
		}
		r.locals = make(map[string]struct{}, len(names))
		for _, name := range names {
			r.locals[name] = struct{}{}
		}
		out = append(out, r)
	}
	return out
}

// jsRegions returns function declarations and binding values inside the root
// body, in offset order of discovery.
func jsRegions(l *layout) []region {
	var out []region
	l.idents(func(_ line, start, end int) {
		if l.text[start:end] != "function" {
			return
		}
		if close := l.functionEnd(end); close > 0 {
			out = append(out, region{start: start, end: close})
		}
	})

	for _, ln := range l.lines {
		if !l.sp.code(ln.first) {
			continue
		}
		text := l.text[ln.start:ln.end]
		m := bindingRe.FindStringIndex(text)
		if m == nil || idDeclRe.MatchString(text) {
			continue
		}
		v := ln.start + m[1]
		value := l.text[v:ln.end]
		if v >= ln.end || objectValueRe.MatchString(value) || strings.HasPrefix(value, "function") {
			continue
		}
		if end := l.valueEnd(v); end > v {
			out = append(out, region{start: v, end: end})
		}
	}
	return out
}

// functionEnd returns the offset of the brace closing the body of the
// function whose keyword ends at from, or -1.
func (l *layout) functionEnd(from int) int {
	open := l.nextCode(from, '(')
	if open < 0 {
		return -1
	}
	closeParen := l.balanced(open, '(', ')')
	if closeParen < 0 {
		return -1
	}
	brace := l.nextCode(closeParen, '{')
	if brace < 0 {
		return -1
	}
	if end, ok := l.closeOf[brace]; ok {
		return end
	}
	return -1
}

// valueEnd returns the last offset of the binding value starting at v: a
// brace block, or the rest of the line extended until brackets balance.
func (l *layout) valueEnd(v int) int {
	if l.text[v] == '{' {
		if end, ok := l.closeOf[v]; ok {
			return end
		}
		return -1
	}
	depth := 0
	last := v
	for i := v; i < l.scope.End; i++ {
		c := l.text[i]
		if c == '\n' {
			if depth <= 0 {
				return last
			}
			continue
		}
		if !l.sp.code(i) {
			last = i
			continue
		}
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth < 0 {
				return last
			}
		}
		if c != ' ' && c != '\t' && c != '\r' {
			last = i
		}
	}
	return last
}

// nextCode returns the first code offset at or after from holding c, without
// leaving the root body.
func (l *layout) nextCode(from int, c byte) int {
	for i := from; i < l.scope.End; i++ {
		if l.text[i] == c && l.sp.code(i) {
			return i
		}
	}
	return -1
}

// balanced returns the offset of the closer matching the opener at open.
func (l *layout) balanced(open int, opener, closer byte) int {
	depth := 0
	for i := open; i < l.scope.End; i++ {
		c := l.text[i]
		if (c != opener && c != closer) || !l.sp.code(i) {
			continue
		}
		if c == opener {
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
