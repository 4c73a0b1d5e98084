package qmlfix

import (
	_ "embed"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

//go:embed queries/locals.scm
var localsQuerySource string

// parser wraps a tree-sitter parser for embedded JavaScript.
type parser struct {
	parser *sitter.Parser
}

// newParser creates a JavaScript parser. Parsers are not safe for
// concurrent use.
func newParser() *parser {
	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())
	return &parser{parser: p}
}

// parse parses source and returns the syntax tree.
func (p *parser) parse(source []byte) *sitter.Tree {
	return p.parser.Parse(nil, source)
}

// query is a compiled tree-sitter query.
type query struct {
	query        *sitter.Query
	captureNames []string
}

// newQuery compiles a tree-sitter query string against the JavaScript grammar.
func newQuery(queryStr string) (*query, error) {
	q, err := sitter.NewQuery([]byte(queryStr), javascript.GetLanguage())
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}

	captureCount := int(q.CaptureCount())
	captureNames := make([]string, captureCount)
	for i := 0; i < captureCount; i++ {
		captureNames[i] = q.CaptureNameForId(uint32(i))
	}

	return &query{
		query:        q,
		captureNames: captureNames,
	}, nil
}

// captures runs the query and returns the text of every capture named name.
func (q *query) captures(tree *sitter.Tree, source []byte, name string) []string {
	cursor := sitter.NewQueryCursor()
	cursor.Exec(q.query, tree.RootNode())

	var out []string
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		for _, capture := range match.Captures {
			if q.captureName(capture.Index) != name {
				continue
			}
			out = append(out, capture.Node.Content(source))
		}
	}
	return out
}

func (q *query) captureName(index uint32) string {
	if int(index) >= len(q.captureNames) {
		return fmt.Sprintf("capture_%d", index)
	}
	return q.captureNames[index]
}

var (
	localsOnce  sync.Once
	localsQuery *query
	localsErr   error
)

// compiledLocalsQuery compiles the embedded locals query once. Compiled
// queries are immutable and shared between parsers.
func compiledLocalsQuery() (*query, error) {
	localsOnce.Do(func() {
		localsQuery, localsErr = newQuery(localsQuerySource)
	})
	return localsQuery, localsErr
}
