package qmlfix

import (
	"regexp"
	"slices"
	"strings"
)

// Reason names the rule that kept a candidate from being rewritten.
// ReasonNone means the candidate is a read of a root member.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonDeclarationLine  Reason = "declaration-line"
	ReasonIDLine           Reason = "id-line"
	ReasonComment          Reason = "comment"
	ReasonAlreadyQualified Reason = "already-qualified"
	ReasonMemberAccess     Reason = "member-access"
	ReasonBindingTarget    Reason = "binding-target"
	ReasonSignature        Reason = "signature"
	ReasonLocalDeclaration Reason = "local-declaration"
	ReasonArrowParameter   Reason = "arrow-parameter"
	ReasonCallOfProperty   Reason = "call-of-property"
	ReasonNotARead         Reason = "not-a-read"
	ReasonNestedShadow     Reason = "nested-shadow"
	ReasonShadowed         Reason = "shadowed"
)

// readFollowers are the bytes that may follow an identifier being read.
const readFollowers = "=!<>+-*/%&|^?)}],;"

var (
	declLineRe      = regexp.MustCompile(`^\s*(?:(?:readonly|required|default)\s+)*(?:property|function|signal|enum)\s`)
	idLineRe        = regexp.MustCompile(`\bid\s*:`)
	bindingTargetRe = regexp.MustCompile(`^\s*:`)
	arrowParamRe    = regexp.MustCompile(`^\s*(?:,\s*[A-Za-z_$][\w$]*\s*)*\)?\s*=>`)
)

// Candidate is an occurrence of a root symbol name in code inside the root
// body.
type Candidate struct {
	Name   string     `json:"name"`
	Kind   SymbolKind `json:"kind"`
	Offset int        `json:"offset"`
	Line   int        `json:"line"`
	Column int        `json:"column"` // byte offset within the line
}

// Exclude decides whether c must be left alone. line is the text of the line
// holding c and prior the columns already rewritten on that line. Rules are
// checked in a fixed order and the first match wins.
//
// The walk behind Process and Candidates visits every column once, so there
// ReasonAlreadyQualified never fires; it only matters to callers that check
// a column again after rewriting it.
func Exclude(c Candidate, line string, prior []int) Reason {
	before := line[:c.Column]
	after := line[c.Column+len(c.Name):]
	trimmed := strings.TrimRight(before, " \t")

	switch {
	case declLineRe.MatchString(line):
		return ReasonDeclarationLine
	case idLineRe.MatchString(line):
		return ReasonIDLine
	case lineComment(before):
		return ReasonComment
	case slices.Contains(prior, c.Column):
		return ReasonAlreadyQualified
	case strings.HasSuffix(trimmed, "."):
		return ReasonMemberAccess
	case bindingTargetRe.MatchString(after):
		return ReasonBindingTarget
	case endsWithKeyword(trimmed, "function"):
		return ReasonSignature
	case endsWithKeyword(trimmed, "var", "let", "const"):
		return ReasonLocalDeclaration
	case arrowParamRe.MatchString(after):
		return ReasonArrowParameter
	}

	next := strings.TrimLeft(after, " \t\r")
	switch {
	case next == "":
		return ReasonNone
	case next[0] == '(':
		if c.Kind == KindFunction {
			return ReasonNone
		}
		return ReasonCallOfProperty
	case strings.IndexByte(readFollowers, next[0]) >= 0:
		return ReasonNone
	}
	return ReasonNotARead
}

// endsWithKeyword reports whether s ends with one of the keywords as a whole
// word.
func endsWithKeyword(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if !strings.HasSuffix(s, kw) {
			continue
		}
		if i := len(s) - len(kw); i == 0 || !isIdentChar(s[i-1]) {
			return true
		}
	}
	return false
}

// lineComment reports whether s holds a // comment marker outside string
// literals.
func lineComment(s string) bool {
	for _, sp := range scanSpans(s) {
		if strings.HasPrefix(s[sp.start:], "//") {
			return true
		}
	}
	return false
}
