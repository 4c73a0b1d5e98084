package qmlfix

import (
	"regexp"
	"strings"
)

const (
	// DefaultID is the identifier injected into roots that lack one.
	DefaultID = "root"

	// DefaultIDWindow bounds how far past the opening brace an existing id
	// declaration is searched for.
	DefaultIDWindow = 500

	defaultIndent = "    "
)

var (
	idDeclRe  = regexp.MustCompile(`^\s*id\s*:\s*([A-Za-z_]\w*)`)
	idUsageRe = regexp.MustCompile(`\bid\s*:\s*([A-Za-z_]\w*)`)
	identRe   = regexp.MustCompile(`^[A-Za-z_]\w*$`)
)

// HasID reports whether the root object declares an id near its opening
// brace.
func HasID(text string, scope Scope) bool {
	_, ok := FindID(text, scope, DefaultIDWindow)
	return ok
}

// FindID returns the root's id literal. Only line-anchored declarations
// starting within window bytes of the opening brace and sitting directly in
// the root body are considered; a nested child's id is not the root's.
func FindID(text string, scope Scope, window int) (string, bool) {
	return findID(newLayout(text, scanSpans(text), scope), window)
}

func findID(l *layout, window int) (string, bool) {
	limit := l.scope.Start + window
	for _, ln := range l.lines {
		if ln.first >= limit {
			break
		}
		if ln.depth != 1 || !l.sp.code(ln.first) {
			continue
		}
		if m := idDeclRe.FindStringSubmatch(l.lineText(ln)); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// idInUse reports whether id is already declared by any object in text.
func idInUse(text string, sp spans, id string) bool {
	for _, m := range idUsageRe.FindAllStringSubmatchIndex(text, -1) {
		if !sp.code(m[0]) || text[m[2]:m[3]] != id {
			continue
		}
		before := strings.TrimRight(text[:m[0]], " \t")
		if strings.HasSuffix(before, ".") {
			continue
		}
		return true
	}
	return false
}

// InjectID inserts an `id: <id>` line immediately after the root's opening
// brace and returns the new text. The input is not modified.
func InjectID(text string, scope Scope, id string) string {
	return injectID(text, scope, id, defaultIndent)
}

func injectID(text string, scope Scope, id, fallbackIndent string) string {
	nl := "\n"
	if strings.Contains(text, "\r\n") {
		nl = "\r\n"
	}
	indent := bodyIndent(text, scope, fallbackIndent)
	idLine := indent + "id: " + id + nl

	pos := scope.Start + 1
	for pos < len(text) && (text[pos] == ' ' || text[pos] == '\t') {
		pos++
	}
	rest := text[pos:]
	switch {
	case strings.HasPrefix(rest, "\r\n"):
		pos += 2
		return text[:pos] + idLine + text[pos:]
	case strings.HasPrefix(rest, "\n"):
		pos++
		return text[:pos] + idLine + text[pos:]
	case rest == "" || rest[0] == '}':
		return text[:scope.Start+1] + nl + idLine + rest
	default:
		return text[:scope.Start+1] + nl + idLine + indent + rest
	}
}

// bodyIndent returns the leading whitespace of the first body line below the
// opening brace, or fallback when that line is unindented or absent.
func bodyIndent(text string, scope Scope, fallback string) string {
	i := strings.IndexByte(text[scope.Start:scope.End], '\n')
	if i < 0 {
		return fallback
	}
	for pos := scope.Start + i + 1; pos < scope.End; {
		end := lineEnd(text, pos)
		raw := strings.TrimSuffix(text[pos:end], "\r")
		trimmed := strings.TrimLeft(raw, " \t")
		if trimmed != "" {
			if ws := raw[:len(raw)-len(trimmed)]; ws != "" && trimmed[0] != '}' {
				return ws
			}
			return fallback
		}
		pos = end + 1
	}
	return fallback
}

// validIdent reports whether s can be used as an id or symbol name.
func validIdent(s string) bool {
	return identRe.MatchString(s)
}
