package qmlfix

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sample = `import QtQuick 2.15

Item {
    property int value: 0
    property int foo: 10
    function step() { return 1 }

    Component.onCompleted: {
        value = foo + 1
        step()
    }
}
`

func newTestQualifier(t *testing.T, opts Options) *Qualifier {
	t.Helper()
	q, err := New(opts)
	require.NoError(t, err)
	return q
}

func TestProcess(t *testing.T) {
	q := newTestQualifier(t, DefaultOptions())

	res, err := q.Process(sample)
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.True(t, res.IDAdded)
	require.Equal(t, "root", res.Prefix)
	require.Equal(t, "Item", res.Scope.TypeName)
	require.Equal(t, []string{"foo", "step", "value"}, res.Symbols.Names())

	require.Contains(t, res.Text, "Item {\n    id: root\n    property int value: 0\n")
	require.Contains(t, res.Text, "    property int foo: 10\n")
	require.Contains(t, res.Text, "        root.value = root.foo + 1\n")
	require.Contains(t, res.Text, "        root.step()\n")
	require.Len(t, res.Rewrites, 3)

	again, err := q.Process(res.Text)
	require.NoError(t, err)
	require.False(t, again.Changed)
	require.Equal(t, res.Text, again.Text)
	require.Empty(t, again.Rewrites)
}

func TestProcessDoesNotMutateWithoutScope(t *testing.T) {
	q := newTestQualifier(t, DefaultOptions())
	for _, in := range []string{
		"",
		"import QtQuick 2.15\n",
		"item {\n    width: foo\n}\n",
		"Item {\n    Rectangle {\n",
	} {
		res, err := q.Process(in)
		require.NoError(t, err)
		require.Equal(t, SkipNoRootScope, res.Skipped)
		require.False(t, res.Changed)
		require.Equal(t, in, res.Text)
	}
}

func TestProcessInvalidEncoding(t *testing.T) {
	q := newTestQualifier(t, DefaultOptions())
	_, err := q.Process("Item {\n    text: \"\xff\"\n}")
	require.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestProcessIDsOnly(t *testing.T) {
	opts := DefaultOptions()
	opts.IDsOnly = true
	q := newTestQualifier(t, opts)

	res, err := q.Process(sample)
	require.NoError(t, err)
	require.True(t, res.IDAdded)
	require.True(t, res.Changed)
	require.Contains(t, res.Text, "        value = foo + 1\n")
	require.Empty(t, res.Rewrites)
}

func TestProcessReserved(t *testing.T) {
	opts := DefaultOptions()
	opts.Reserved = []string{"foo"}
	q := newTestQualifier(t, opts)

	res, err := q.Process(sample)
	require.NoError(t, err)
	require.NotContains(t, res.Symbols.Symbols, "foo")
	require.Contains(t, res.Text, "        root.value = foo + 1\n")
}

func TestProcessScopeOnly(t *testing.T) {
	// Text after the root object is never rewritten.
	in := "Item {\n    id: root\n    property int foo: 1\n    width: foo\n}\n// foo\nfoo + 1\n"
	q := newTestQualifier(t, DefaultOptions())

	res, err := q.Process(in)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(res.Text, "}\n// foo\nfoo + 1\n"))
	require.Contains(t, res.Text, "    width: root.foo\n")
}

func TestQualifyReferences(t *testing.T) {
	in := "Item {\n    id: root\n    property int foo: 10\n    value: foo + 1\n}"
	table := HarvestSymbols(in)

	out, rewrites := QualifyReferences(in, table, "root")
	require.Equal(t, "Item {\n    id: root\n    property int foo: 10\n    value: root.foo + 1\n}", out)
	require.Len(t, rewrites, 1)
	require.Equal(t, 4, rewrites[0].Line)
	require.Equal(t, "root.foo", rewrites[0].Replacement)

	out, rewrites = QualifyReferences("no scope here", table, "root")
	require.Equal(t, "no scope here", out)
	require.Empty(t, rewrites)
}

func TestNewRejectsBadID(t *testing.T) {
	_, err := New(Options{ID: "not an id"})
	require.ErrorIs(t, err, ErrInvalidID)

	q, err := New(Options{})
	require.NoError(t, err)
	require.Equal(t, DefaultOptions(), q.Options())
}
