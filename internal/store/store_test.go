package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pplanner/pplanner/internal/dt"
)

func mustDT(t *testing.T, s string) dt.DT {
	t.Helper()
	d, err := dt.Parse(s)
	require.NoError(t, err)
	return d
}

func TestOpenEmptyRoot(t *testing.T) {
	ctx := context.Background()
	ws, err := Open(ctx, t.TempDir())
	require.NoError(t, err)
	defer ws.Close()

	assert.Equal(t, BackendFile, ws.BackendName())
	assert.Zero(t, ws.Points.Len())
	assert.Zero(t, ws.Todos.Len())
	assert.Zero(t, ws.Deadlines.Len())
	assert.True(t, ws.IsClean())
}

func TestItemsPersistAcrossOpen(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	ws, err := Open(ctx, root)
	require.NoError(t, err)

	p, err := NewPoint("dentist", mustDT(t, "2026-10-20 09:00"))
	require.NoError(t, err)
	ws.Points.Add(p)
	td, err := NewTodo("buy milk #shop", 3, "todo")
	require.NoError(t, err)
	ws.Todos.Add(td)
	d, err := NewDeadline("taxes", mustDT(t, "2027-04-30"))
	require.NoError(t, err)
	ws.Deadlines.Add(d)

	assert.False(t, ws.IsClean())
	require.NoError(t, ws.Flush(ctx))
	assert.True(t, ws.IsClean())

	again, err := Open(ctx, root)
	require.NoError(t, err)
	require.Len(t, again.Points.Items(), 1)
	assert.Equal(t, p.ID, again.Points.Items()[0].ID)
	assert.Equal(t, "2026-10-20 09:00", again.Points.Items()[0].At.DateTime())
	require.Len(t, again.Todos.Items(), 1)
	assert.Equal(t, []string{"shop"}, again.Todos.Items()[0].Tags)
	assert.Equal(t, uint16(3), again.Todos.Items()[0].Urgency)
	require.Len(t, again.Deadlines.Items(), 1)
	assert.Equal(t, "taxes", again.Deadlines.Items()[0].Title)

	_, err = os.Stat(filepath.Join(root, "data", "points.yaml"))
	assert.NoError(t, err)
}

func TestCollectionsStaySorted(t *testing.T) {
	ctx := context.Background()
	ws, err := Open(ctx, t.TempDir())
	require.NoError(t, err)

	for _, in := range []struct {
		title string
		at    string
	}{{"late", "2026-12-01"}, {"early", "2026-01-01"}, {"mid", "2026-06-01"}} {
		p, err := NewPoint(in.title, mustDT(t, in.at))
		require.NoError(t, err)
		ws.Points.Add(p)
	}
	var titles []string
	for _, p := range ws.Points.Items() {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"early", "mid", "late"}, titles)

	for _, u := range []uint16{1, 9, 5} {
		td, err := NewTodo("t", u, "")
		require.NoError(t, err)
		ws.Todos.Add(td)
	}
	var urg []uint16
	for _, td := range ws.Todos.Items() {
		urg = append(urg, td.Urgency)
	}
	assert.Equal(t, []uint16{9, 5, 1}, urg)
}

func TestRemoveAndArchive(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	ws, err := Open(ctx, root)
	require.NoError(t, err)

	for _, title := range []string{"a", "b", "c"} {
		td, err := NewTodo(title, 0, "idea")
		require.NoError(t, err)
		ws.Todos.Add(td)
	}
	removed, err := ws.Todos.RemoveAndArchive(ctx, []int{0, 2, 2, 7})
	require.NoError(t, err)
	require.Len(t, removed, 2)
	assert.Equal(t, "a", removed[0].Title)
	assert.Equal(t, "c", removed[1].Title)
	assert.True(t, ws.IsClean())

	again, err := Open(ctx, root)
	require.NoError(t, err)
	require.Len(t, again.Todos.Items(), 1)
	assert.Equal(t, "b", again.Todos.Items()[0].Title)

	archived, err := again.Todos.Archive().Read(ctx)
	require.NoError(t, err)
	require.Len(t, archived, 2)
	assert.Equal(t, "a", archived[0].Item.Title)
	assert.False(t, archived[0].ArchivedAt.IsZero())
}

// failingBackend refuses to save documents whose name has the given suffix.
type failingBackend struct {
	Backend
	suffix string
}

func (f failingBackend) Save(ctx context.Context, name string, data []byte) error {
	if strings.HasSuffix(name, f.suffix) {
		return errors.New("disk full")
	}
	return f.Backend.Save(ctx, name, data)
}

func TestRemoveAndArchiveKeepsItemsWhenArchiveFails(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	b := failingBackend{Backend: NewFileBackend(filepath.Join(root, "data")), suffix: "_archive"}
	ws, err := OpenWithBackend(ctx, root, b)
	require.NoError(t, err)

	td, err := NewTodo("keep me", 1, "")
	require.NoError(t, err)
	ws.Todos.Add(td)
	require.NoError(t, ws.Todos.Write(ctx))

	removed, err := ws.Todos.RemoveAndArchive(ctx, []int{0})
	require.Error(t, err)
	assert.Empty(t, removed)
	assert.Equal(t, 1, ws.Todos.Len())
	assert.True(t, ws.IsClean())
}

func TestReplace(t *testing.T) {
	ctx := context.Background()
	ws, err := Open(ctx, t.TempDir())
	require.NoError(t, err)
	d, err := NewDeadline("report", mustDT(t, "2026-11-01"))
	require.NoError(t, err)
	ws.Deadlines.Add(d)
	require.NoError(t, ws.Deadlines.Write(ctx))

	d.Title = "final report"
	require.NoError(t, ws.Deadlines.Replace(0, d))
	assert.True(t, ws.Deadlines.Dirty())
	assert.Equal(t, "final report", ws.Deadlines.Items()[0].Title)
	assert.ErrorIs(t, ws.Deadlines.Replace(3, d), ErrNotFound)
}

func TestNewItemValidation(t *testing.T) {
	_, err := NewPoint("  ", dt.Now())
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = NewTodo("x", 1, "someday")
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = NewDeadline("", dt.Now())
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestConfigDefaultsAndEnv(t *testing.T) {
	root := t.TempDir()
	t.Setenv("PPLANNER_TEST_ADDR", "cache:6380")
	cfg := "backend: redis\nredis:\n  addr: ${PPLANNER_TEST_ADDR}\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "config.yaml"), []byte(cfg), 0o644))

	ws := &Workspace{Root: root}
	require.NoError(t, ws.loadOrDefaultConfig())
	got := ws.Config()
	assert.Equal(t, BackendRedis, got.Backend)
	assert.Equal(t, "cache:6380", got.Redis.Addr)
	assert.Equal(t, defaultRedisPrefix, got.Redis.Prefix)
	assert.Equal(t, "auto", got.Color)
	assert.Equal(t, 1, got.Schema)
	assert.Equal(t, MatchContains, got.Match)
}

func TestConfigMatchIsNormalized(t *testing.T) {
	for in, want := range map[string]string{"Exact": MatchExact, " prefix ": MatchPrefix, "fuzzy": MatchContains} {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "config.yaml"), []byte("match: \""+in+"\"\n"), 0o644))
		ws := &Workspace{Root: root}
		require.NoError(t, ws.loadOrDefaultConfig())
		assert.Equal(t, want, ws.Config().Match, in)
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "config.yaml"), []byte("backend: tape\n"), 0o644))
	_, err := Open(context.Background(), root)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestInitWritesConfigOnce(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested")
	ws := &Workspace{Root: root}
	require.NoError(t, ws.Init())
	b, err := os.ReadFile(filepath.Join(root, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "backend: file")

	require.NoError(t, os.WriteFile(filepath.Join(root, "config.yaml"), []byte("backend: file\nhelp_dir: /tmp/help\n"), 0o644))
	require.NoError(t, ws.Init())
	assert.Equal(t, "/tmp/help", ws.Config().HelpDir)
}

func TestDefaultRootFromEnv(t *testing.T) {
	t.Setenv("PPLANNER_ROOT", "/srv/planner")
	assert.Equal(t, "/srv/planner", DefaultRoot())
}

func TestNewULIDUppercase(t *testing.T) {
	prev := timeNow
	timeNow = func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }
	defer func() { timeNow = prev }()
	id := newULID()
	assert.Len(t, id, 26)
	assert.True(t, isLikelyIDSelector(id))
}
