package qmlfix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInjectID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "brace_ends_line",
			in:   "Item {\n  width: 10\n}",
			want: "Item {\n  id: root\n  width: 10\n}",
		},
		{
			name: "trailing_blanks_after_brace",
			in:   "Item {  \n    width: 10\n}",
			want: "Item {  \n    id: root\n    width: 10\n}",
		},
		{
			name: "content_after_brace",
			in:   "Item { width: 10 }",
			want: "Item {\n    id: root\n    width: 10 }",
		},
		{
			name: "empty_body",
			in:   "Item {}",
			want: "Item {\n    id: root\n}",
		},
		{
			name: "crlf",
			in:   "Item {\r\n\twidth: 1\r\n}\r\n",
			want: "Item {\r\n\tid: root\r\n\twidth: 1\r\n}\r\n",
		},
		{
			name: "unindented_body_uses_default",
			in:   "Item {\nwidth: 1\n}",
			want: "Item {\n    id: root\nwidth: 1\n}",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			scope, ok := LocateScope(tc.in)
			require.True(t, ok)
			got := InjectID(tc.in, scope, DefaultID)
			require.Equal(t, tc.want, got)

			scope, ok = LocateScope(got)
			require.True(t, ok)
			require.True(t, HasID(got, scope))
		})
	}
}

func TestFindID(t *testing.T) {
	t.Run("root_id", func(t *testing.T) {
		text := "Item {\n    width: 1\n    id: main\n}"
		scope, ok := LocateScope(text)
		require.True(t, ok)
		id, found := FindID(text, scope, DefaultIDWindow)
		require.True(t, found)
		require.Equal(t, "main", id)
	})

	t.Run("child_id_is_not_root_id", func(t *testing.T) {
		text := "Item {\n    Rectangle {\n        id: child\n    }\n}"
		scope, ok := LocateScope(text)
		require.True(t, ok)
		require.False(t, HasID(text, scope))
	})

	t.Run("outside_window", func(t *testing.T) {
		text := "Item {\n    width: 1\n    height: 2\n    id: late\n}"
		scope, ok := LocateScope(text)
		require.True(t, ok)
		_, found := FindID(text, scope, 10)
		require.False(t, found)
		_, found = FindID(text, scope, DefaultIDWindow)
		require.True(t, found)
	})

	t.Run("id_on_brace_line", func(t *testing.T) {
		text := "Item { id: win\n    width: 1\n}"
		scope, ok := LocateScope(text)
		require.True(t, ok)
		id, found := FindID(text, scope, DefaultIDWindow)
		require.True(t, found)
		require.Equal(t, "win", id)
	})

	t.Run("commented_id", func(t *testing.T) {
		text := "Item {\n    // id: old\n}"
		scope, ok := LocateScope(text)
		require.True(t, ok)
		require.False(t, HasID(text, scope))
	})
}

func TestIDInUse(t *testing.T) {
	text := "Item {\n    Text { id: root }\n    other.id: root\n    label: \"id: root\"\n}"
	sp := scanSpans(text)
	require.True(t, idInUse(text, sp, "root"))
	require.False(t, idInUse(text, sp, "main"))

	text = "Item {\n    other.id: root\n    label: \"id: root\"\n}"
	require.False(t, idInUse(text, scanSpans(text), "root"))
}
