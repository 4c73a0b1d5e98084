package qmlfix

import "strings"

// Rewrite is a candidate that was qualified.
type Rewrite struct {
	Candidate
	Replacement string `json:"replacement"`
}

// Exclusion is a candidate left alone, with the rule that excluded it.
type Exclusion struct {
	Candidate
	Reason Reason `json:"reason"`
}

// QualifyReferences prefixes every unqualified read of a symbol in table
// with "<prefix>." and returns the new text with the rewrites applied, in
// offset order. Text without a root scope is returned unchanged.
func QualifyReferences(text string, table SymbolTable, prefix string) (string, []Rewrite) {
	sp := scanSpans(text)
	scope, ok := locateScope(text, sp)
	if !ok {
		return text, nil
	}
	out, rewrites, _ := qualify(newLayout(text, sp, scope), table, prefix)
	return out, rewrites
}

// Candidates returns every occurrence of a symbol of table in code inside
// the root body, with the reason it would be excluded, if any.
func Candidates(text string, table SymbolTable, prefix string) []Exclusion {
	sp := scanSpans(text)
	scope, ok := locateScope(text, sp)
	if !ok {
		return nil
	}
	var out []Exclusion
	classify(newLayout(text, sp, scope), table, prefix, func(c Candidate, r Reason) {
		out = append(out, Exclusion{Candidate: c, Reason: r})
	})
	return out
}

func qualify(l *layout, table SymbolTable, prefix string) (string, []Rewrite, []Exclusion) {
	var (
		rewrites   []Rewrite
		exclusions []Exclusion
	)
	classify(l, table, prefix, func(c Candidate, r Reason) {
		if r != ReasonNone {
			exclusions = append(exclusions, Exclusion{Candidate: c, Reason: r})
			return
		}
		rewrites = append(rewrites, Rewrite{Candidate: c, Replacement: prefix + "." + c.Name})
	})
	if len(rewrites) == 0 {
		return l.text, nil, exclusions
	}

	var b strings.Builder
	b.Grow(len(l.text) + len(rewrites)*(len(prefix)+1))
	last := 0
	for _, rw := range rewrites {
		b.WriteString(l.text[last:rw.Offset])
		b.WriteString(rw.Replacement)
		last = rw.Offset + len(rw.Name)
	}
	b.WriteString(l.text[last:])
	return b.String(), rewrites, exclusions
}

// classify walks the candidates of l in offset order and reports each with
// its exclusion reason.
func classify(l *layout, table SymbolTable, prefix string, fn func(Candidate, Reason)) {
	if table.Len() == 0 {
		return
	}
	sh := findShadows(l)

	prior := make(map[int][]int)
	l.idents(func(ln line, start, end int) {
		name := l.text[start:end]
		kind, ok := table.Symbols[name]
		if !ok || name == prefix {
			return
		}
		c := Candidate{
			Name:   name,
			Kind:   kind,
			Offset: start,
			Line:   ln.no,
			Column: start - ln.bol,
		}

		// Rules see the described part of the line only.
		local := c
		local.Column = start - ln.start
		reason := Exclude(local, l.lineText(ln), prior[ln.no])
		if reason == ReasonNone && nestedShadow(table.Nested, name, start) {
			reason = ReasonNestedShadow
		}
		if reason == ReasonNone && sh.shadowed(name, start) {
			reason = ReasonShadowed
		}
		if reason == ReasonNone {
			prior[ln.no] = append(prior[ln.no], local.Column)
		}
		fn(c, reason)
	})
}

// nestedShadow reports whether a nested object enclosing pos declares name.
func nestedShadow(nested []NestedDecl, name string, pos int) bool {
	for _, d := range nested {
		if d.Name == name && pos > d.Start && pos < d.End {
			return true
		}
	}
	return false
}
