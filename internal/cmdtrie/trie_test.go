package cmdtrie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertThenLookup(t *testing.T) {
	tr := New[string]()
	paths := [][]string{
		{"now"},
		{"add", "deadline"},
		{"ls", "points"},
		{"ls", "points", "archive"},
	}
	for _, p := range paths {
		require.NoError(t, tr.Insert(p, p[len(p)-1]))
	}
	for _, p := range paths {
		h, err := tr.Lookup(p)
		require.NoError(t, err)
		assert.Equal(t, p[len(p)-1], h)
	}
}

func TestInsertDuplicate(t *testing.T) {
	tr := New[int]()
	require.NoError(t, tr.Insert([]string{"mk", "todo"}, 1))
	err := tr.Insert([]string{"mk", "todo"}, 2)
	assert.ErrorIs(t, err, ErrDuplicate)

	h, err := tr.Lookup([]string{"mk", "todo"})
	require.NoError(t, err)
	assert.Equal(t, 1, h)

	assert.Panics(t, func() { tr.MustInsert([]string{"mk", "todo"}, 3) })
}

func TestInsertEmptyPath(t *testing.T) {
	tr := New[int]()
	assert.ErrorIs(t, tr.Insert(nil, 1), ErrEmptyPath)
}

func TestLookupNotFound(t *testing.T) {
	tr := New[int]()
	tr.MustInsert([]string{"add", "deadline"}, 1)
	tr.MustInsert([]string{"now"}, 2)

	tests := []struct {
		name string
		path []string
	}{
		{"empty", nil},
		{"prefix of registered path", []string{"add"}},
		{"past a leaf", []string{"now", "please"}},
		{"past a deeper leaf", []string{"add", "deadline", "x"}},
		{"unknown", []string{"foo"}},
		{"case differs", []string{"Now"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.Lookup(tt.path)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestNodeWithHandlerAndChildren(t *testing.T) {
	tr := New[string]()
	tr.MustInsert([]string{"ls", "todos", "archive"}, "archive")
	_, err := tr.Lookup([]string{"ls", "todos"})
	assert.ErrorIs(t, err, ErrNotFound)

	tr.MustInsert([]string{"ls", "todos"}, "todos")
	h, err := tr.Lookup([]string{"ls", "todos"})
	require.NoError(t, err)
	assert.Equal(t, "todos", h)
	h, err = tr.Lookup([]string{"ls", "todos", "archive"})
	require.NoError(t, err)
	assert.Equal(t, "archive", h)
}

func TestPaths(t *testing.T) {
	tr := New[int]()
	tr.MustInsert([]string{"now"}, 1)
	tr.MustInsert([]string{"ls", "todos"}, 2)
	tr.MustInsert([]string{"ls", "todos", "archive"}, 3)
	assert.Equal(t, []string{"ls todos", "ls todos archive", "now"}, tr.Paths())
}
