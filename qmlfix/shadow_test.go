package qmlfix

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testLayout(t *testing.T, text string) *layout {
	t.Helper()
	sp := scanSpans(text)
	scope, ok := locateScope(text, sp)
	require.True(t, ok)
	return newLayout(text, sp, scope)
}

func regionTexts(l *layout, regions []region) []string {
	out := make([]string, 0, len(regions))
	for _, r := range regions {
		out = append(out, strings.Join(strings.Fields(l.text[r.start:r.end+1]), " "))
	}
	return out
}

func TestJSRegions(t *testing.T) {
	l := testLayout(t, `Item {
    id: root
    function area(w, h) {
        return w * h
    }
    width: Math.max(1,
        2)
    onClicked: {
        run()
    }
    Rectangle {
        color: "red"
    }
}`)

	require.Equal(t, []string{
		"function area(w, h) { return w * h }",
		"Math.max(1, 2)",
		"{ run() }",
		`"red"`,
	}, regionTexts(l, jsRegions(l)))
}

func TestFindShadows(t *testing.T) {
	l := testLayout(t, `Item {
    function area(w, h) {
        return w * h
    }
    onClicked: {
        for (let i = 0; i < 3; i++) {}
        try { run() } catch (err) {}
    }
    onDone: (a, b) => a + b
    width: other
}`)

	sh := findShadows(l)
	require.Len(t, sh, 3)

	at := func(s string) int { return strings.Index(l.text, s) }
	require.True(t, sh.shadowed("w", at("w * h")))
	require.True(t, sh.shadowed("i", at("i < 3")))
	require.True(t, sh.shadowed("err", at("err)")))
	require.True(t, sh.shadowed("b", at("b\n")))
	require.False(t, sh.shadowed("w", at("other")))
	require.False(t, sh.shadowed("other", at("other")))
}
