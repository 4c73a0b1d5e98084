package qmlfix

import (
	"regexp"
	"sort"
	"strings"
)

// SymbolKind distinguishes the declarations a symbol can come from.
type SymbolKind string

const (
	KindProperty SymbolKind = "property"
	KindFunction SymbolKind = "function"
)

// flatIndentLimit bounds the declaration indentation considered when no root
// scope can be located.
const flatIndentLimit = 8

var (
	propertyDeclRe = regexp.MustCompile(`^\s*(?:(?:readonly|required|default)\s+)*property\s+[\w.]+(?:<[\w.]+>)?\s+([A-Za-z_]\w*)`)
	functionDeclRe = regexp.MustCompile(`^\s*function\s+([A-Za-z_]\w*)\s*\(`)
)

// DefaultReserved lists language-intrinsic member names that are never
// qualified even when a declaration spells them.
var DefaultReserved = []string{"parent", "children", "data", "resources", "states", "transitions"}

// NestedDecl is a property or function declared by an object nested inside
// the root. Inside that object the bare name refers to the nested member.
type NestedDecl struct {
	Name  string     `json:"name"`
	Kind  SymbolKind `json:"kind"`
	Start int        `json:"start"`
	End   int        `json:"end"`
}

// SymbolTable holds the members declared directly in the root object.
type SymbolTable struct {
	Symbols map[string]SymbolKind `json:"symbols"`
	HasID   bool                  `json:"has_id"`
	ID      string                `json:"id,omitempty"`
	Nested  []NestedDecl          `json:"nested,omitempty"`
}

// Names returns the symbol names in sorted order.
func (t SymbolTable) Names() []string {
	names := make([]string, 0, len(t.Symbols))
	for name := range t.Symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of qualification targets.
func (t SymbolTable) Len() int {
	return len(t.Symbols)
}

func (t *SymbolTable) add(name string, kind SymbolKind) {
	if t.Symbols == nil {
		t.Symbols = make(map[string]SymbolKind)
	}
	if _, ok := t.Symbols[name]; !ok {
		t.Symbols[name] = kind
	}
}

// HarvestSymbols collects root-level property and function names using the
// default reserved set.
func HarvestSymbols(text string) SymbolTable {
	return HarvestSymbolsWith(text, reservedSet(nil))
}

// HarvestSymbolsWith is HarvestSymbols with a caller supplied reserved set.
// When the root scope cannot be located the whole file is scanned, bounded by
// declaration indentation.
func HarvestSymbolsWith(text string, reserved map[string]struct{}) SymbolTable {
	sp := scanSpans(text)
	scope, ok := locateScope(text, sp)
	if !ok {
		return harvestFlat(text, sp, reserved)
	}
	l := newLayout(text, sp, scope)
	t := harvest(l, reserved)
	t.ID, t.HasID = findID(l, DefaultIDWindow)
	return t
}

func harvest(l *layout, reserved map[string]struct{}) SymbolTable {
	t := SymbolTable{Symbols: make(map[string]SymbolKind)}
	for _, ln := range l.lines {
		if !l.sp.code(ln.first) {
			continue
		}
		name, kind, ok := declaration(l.lineText(ln))
		if !ok {
			continue
		}
		if _, skip := reserved[name]; skip {
			continue
		}
		if ln.depth == 1 {
			t.add(name, kind)
			continue
		}
		t.Nested = append(t.Nested, NestedDecl{
			Name:  name,
			Kind:  kind,
			Start: ln.encl,
			End:   l.closeOf[ln.encl],
		})
	}
	return t
}

func harvestFlat(text string, sp spans, reserved map[string]struct{}) SymbolTable {
	t := SymbolTable{Symbols: make(map[string]SymbolKind)}
	for pos := 0; pos < len(text); {
		end := lineEnd(text, pos)
		raw := text[pos:end]
		indent := len(raw) - len(strings.TrimLeft(raw, " \t"))
		if indent <= flatIndentLimit && sp.code(pos+indent) {
			if name, kind, ok := declaration(raw); ok {
				if _, skip := reserved[name]; !skip {
					t.add(name, kind)
				}
			}
		}
		pos = end + 1
	}
	return t
}

// declaration matches a property or function declaration line.
func declaration(s string) (string, SymbolKind, bool) {
	if m := propertyDeclRe.FindStringSubmatch(s); m != nil {
		return m[1], KindProperty, true
	}
	if m := functionDeclRe.FindStringSubmatch(s); m != nil {
		return m[1], KindFunction, true
	}
	return "", "", false
}

// reservedSet merges extra names into DefaultReserved.
func reservedSet(extra []string) map[string]struct{} {
	set := make(map[string]struct{}, len(DefaultReserved)+len(extra))
	for _, name := range DefaultReserved {
		set[name] = struct{}{}
	}
	for _, name := range extra {
		set[name] = struct{}{}
	}
	return set
}
