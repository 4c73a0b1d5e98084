package qmlfix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanSpans(t *testing.T) {
	tests := []struct {
		name string
		text string
		code []int
		skip []int
	}{
		{"line_comment", "a // b\nc", []int{0, 7}, []int{2, 5}},
		{"block_comment", "a /* b\n */ c", []int{0, 11}, []int{2, 5, 9}},
		{"double_quoted", `a "b\"c" d`, []int{0, 9}, []int{2, 3, 5, 7}},
		{"single_quoted", `a 'b' c`, []int{0, 6}, []int{2, 3, 4}},
		{"unterminated_string_stops_at_newline", "a \"b\nc", []int{0, 5}, []int{2, 3}},
		{"template_spans_lines", "a `b\nc` d", []int{0, 8}, []int{2, 4, 5, 6}},
		{"unterminated_block_runs_to_end", "a /* b\nc", []int{0}, []int{2, 7}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sp := scanSpans(tc.text)
			for _, pos := range tc.code {
				require.True(t, sp.code(pos), "offset %d should be code", pos)
			}
			for _, pos := range tc.skip {
				require.False(t, sp.code(pos), "offset %d should not be code", pos)
			}

			cur := cursor{s: sp}
			for pos := 0; pos < len(tc.text); pos++ {
				require.Equal(t, sp.code(pos), cur.code(pos), "offset %d", pos)
			}
		})
	}
}

func TestIdentChars(t *testing.T) {
	require.True(t, isIdentStart('_'))
	require.True(t, isIdentStart('$'))
	require.False(t, isIdentStart('1'))
	require.True(t, isIdentChar('1'))
	require.False(t, isIdentChar('.'))
}
