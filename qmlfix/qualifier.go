package qmlfix

import (
	"fmt"
	"unicode/utf8"
)

// SkipReason explains why a text was left untouched.
type SkipReason string

const (
	SkipNone        SkipReason = ""
	SkipNoRootScope SkipReason = "no-root-scope"
	SkipIDConflict  SkipReason = "id-conflict"
)

// Result is the outcome of processing one text.
type Result struct {
	Text       string      `json:"-"`
	Changed    bool        `json:"changed"`
	Scope      Scope       `json:"scope"`
	IDAdded    bool        `json:"id_added"`
	Prefix     string      `json:"prefix,omitempty"`
	Symbols    SymbolTable `json:"symbols"`
	Rewrites   []Rewrite   `json:"rewrites,omitempty"`
	Exclusions []Exclusion `json:"exclusions,omitempty"`
	Skipped    SkipReason  `json:"skipped,omitempty"`
}

// Qualifier runs id injection and reference qualification over single
// texts. It holds no per-text state and is safe for concurrent use.
type Qualifier struct {
	opts     Options
	reserved map[string]struct{}
}

// New creates a Qualifier. Zero fields of opts take their defaults.
func New(opts Options) (*Qualifier, error) {
	opts = opts.withDefaults()
	if !validIdent(opts.ID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, opts.ID)
	}
	return &Qualifier{
		opts:     opts,
		reserved: reservedSet(opts.Reserved),
	}, nil
}

// Options returns the effective options.
func (q *Qualifier) Options() Options {
	return q.opts
}

// Process locates the root object of text, makes sure it has an id and
// qualifies unqualified reads of its members with that id. The input is
// never modified; Result.Text holds the new content.
func (q *Qualifier) Process(text string) (Result, error) {
	res := Result{Text: text}
	if !utf8.ValidString(text) {
		return res, ErrInvalidEncoding
	}

	sp := scanSpans(text)
	scope, ok := locateScope(text, sp)
	if !ok {
		res.Skipped = SkipNoRootScope
		return res, nil
	}
	l := newLayout(text, sp, scope)

	prefix, hasID := findID(l, q.opts.IDWindow)
	if !hasID {
		if idInUse(text, sp, q.opts.ID) {
			res.Scope = scope
			res.Skipped = SkipIDConflict
			return res, nil
		}
		injected := injectID(text, scope, q.opts.ID, q.opts.Indent)
		sp = scanSpans(injected)
		if scope, ok = locateScope(injected, sp); !ok {
			return res, fmt.Errorf("root scope lost after id injection")
		}
		l = newLayout(injected, sp, scope)
		prefix = q.opts.ID
		res.IDAdded = true
	}
	res.Scope = scope
	res.Prefix = prefix

	if q.opts.IDsOnly {
		res.Text = l.text
		res.Changed = res.IDAdded
		return res, nil
	}

	table := harvest(l, q.reserved)
	table.ID, table.HasID = prefix, true
	delete(table.Symbols, prefix)
	res.Symbols = table

	res.Text, res.Rewrites, res.Exclusions = qualify(l, table, prefix)
	res.Changed = res.Text != text
	return res, nil
}
