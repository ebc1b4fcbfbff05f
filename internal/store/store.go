package store

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

type randReader struct{}

func (randReader) Read(p []byte) (int, error) { return rand.Read(p) }

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
	timeNow     = func() time.Time { return time.Now().UTC() }
)

// MatchConflictError provides details when a selector matches several items.
// It still satisfies errors.Is(err, ErrConflict).
type MatchConflictError struct {
	Reason string
	Titles []string
}

func (e *MatchConflictError) Error() string {
	if e == nil || strings.TrimSpace(e.Reason) == "" {
		return "conflict"
	}
	return "conflict: " + e.Reason
}

func (e *MatchConflictError) Is(target error) bool {
	return target == ErrConflict
}

// Workspace is the session's view of the store: config, backend and the
// three collections with their archives.
type Workspace struct {
	Root      string
	cfg       Config
	backend   Backend
	Points    *Collection[Point]
	Todos     *Collection[Todo]
	Deadlines *Collection[Deadline]
}

// DefaultRoot resolves the store root from PPLANNER_ROOT or ~/.pplanner.
func DefaultRoot() string {
	if env := os.Getenv("PPLANNER_ROOT"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	if home != "" {
		return filepath.Join(home, ".pplanner")
	}
	return ".pplanner"
}

// Open opens the workspace rooted at root and loads every collection. A
// missing config means defaults; a missing collection means empty.
func Open(ctx context.Context, root string) (*Workspace, error) {
	ws := &Workspace{Root: expandHome(root)}
	if err := ws.loadOrDefaultConfig(); err != nil {
		return nil, err
	}
	b, err := ws.openBackend()
	if err != nil {
		return nil, err
	}
	return ws.attach(ctx, b)
}

// OpenWithBackend is Open with an explicit backend; the backend named in
// the config is ignored.
func OpenWithBackend(ctx context.Context, root string, b Backend) (*Workspace, error) {
	ws := &Workspace{Root: expandHome(root)}
	if err := ws.loadOrDefaultConfig(); err != nil {
		return nil, err
	}
	return ws.attach(ctx, b)
}

func (w *Workspace) attach(ctx context.Context, b Backend) (*Workspace, error) {
	w.backend = b
	w.Points = newCollection(b, "points", lessPoint)
	w.Todos = newCollection(b, "todos", lessTodo)
	w.Deadlines = newCollection(b, "deadlines", lessDeadline)
	for _, load := range []func(context.Context) error{w.Points.Load, w.Todos.Load, w.Deadlines.Load} {
		if err := load(ctx); err != nil {
			_ = b.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Workspace) openBackend() (Backend, error) {
	switch w.cfg.Backend {
	case BackendRedis:
		rc := w.cfg.Redis
		return NewRedis(rc.Addr, rc.Password, rc.DB, WithPrefix(rc.Prefix)), nil
	case BackendFile, "":
		return NewFileBackend(filepath.Join(w.Root, "data")), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrInvalid, w.cfg.Backend)
	}
}

// Init creates the root directory and writes a default config if none
// exists yet.
func (w *Workspace) Init() error {
	if err := os.MkdirAll(w.Root, 0o755); err != nil {
		return err
	}
	return w.ensureConfig()
}

func (w *Workspace) Config() Config {
	return w.cfg
}

func (w *Workspace) BackendName() string {
	return w.backend.Name()
}

// IsClean reports whether every collection has been written.
func (w *Workspace) IsClean() bool {
	return !w.Points.Dirty() && !w.Todos.Dirty() && !w.Deadlines.Dirty()
}

// Flush writes every dirty collection and returns the first error.
func (w *Workspace) Flush(ctx context.Context) error {
	var errs []error
	for _, write := range []struct {
		dirty bool
		fn    func(context.Context) error
	}{
		{w.Points.Dirty(), w.Points.Write},
		{w.Todos.Dirty(), w.Todos.Write},
		{w.Deadlines.Dirty(), w.Deadlines.Write},
	} {
		if !write.dirty {
			continue
		}
		if err := write.fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *Workspace) Close() error {
	if w.backend == nil {
		return nil
	}
	return w.backend.Close()
}

func newULID() string {
	t := ulid.Timestamp(timeNow())
	entropy := ulid.Monotonic(randReader{}, 0)
	id, err := ulid.New(t, entropy)
	if err != nil {
		// fallback
		return fmt.Sprintf("%d", timeNow().UnixNano())
	}
	return strings.ToUpper(id.String())
}

func slugify(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return "x"
	}
	var b strings.Builder
	lastHyphen := false
	for _, r := range s {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlnum {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "x"
	}
	return out
}

func dedupeStrings(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~"+string(os.PathSeparator)) || path == "~" {
		home, _ := os.UserHomeDir()
		if home != "" {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func atomicWriteFile(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".tmp-%d", timeNow().UnixNano()))
	if err := os.WriteFile(tmp, data, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Rename is atomic on same filesystem.
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
