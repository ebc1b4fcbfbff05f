package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// Record is what every stored item exposes for matching.
type Record interface {
	RecordID() string
	RecordTitle() string
}

type document[T any] struct {
	Schema int `yaml:"schema"`
	Items  []T `yaml:"items"`
}

// Collection is the in-memory list of one kind of item, kept sorted. Every
// mutation marks it dirty until the next successful Write.
type Collection[T Record] struct {
	name    string
	backend Backend
	less    func(a, b T) bool
	items   []T
	dirty   bool
	archive *Archive[T]
}

func newCollection[T Record](b Backend, name string, less func(a, b T) bool) *Collection[T] {
	return &Collection[T]{
		name:    name,
		backend: b,
		less:    less,
		archive: &Archive[T]{name: name + "_archive", backend: b},
	}
}

func (c *Collection[T]) Name() string { return c.name }

func (c *Collection[T]) Load(ctx context.Context) error {
	b, err := c.backend.Load(ctx, c.name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.items = nil
			c.dirty = false
			return nil
		}
		return err
	}
	var doc document[T]
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrInvalid, c.name, err)
	}
	c.items = doc.Items
	c.sort()
	c.dirty = false
	return nil
}

func (c *Collection[T]) sort() {
	sort.SliceStable(c.items, func(i, j int) bool { return c.less(c.items[i], c.items[j]) })
}

// Items returns a copy in sorted order.
func (c *Collection[T]) Items() []T {
	return append([]T(nil), c.items...)
}

func (c *Collection[T]) Len() int { return len(c.items) }

func (c *Collection[T]) Dirty() bool { return c.dirty }

func (c *Collection[T]) Archive() *Archive[T] { return c.archive }

func (c *Collection[T]) Add(item T) {
	c.items = append(c.items, item)
	c.sort()
	c.dirty = true
}

// Replace swaps the item at index i, as returned by Items or Resolve.
func (c *Collection[T]) Replace(i int, item T) error {
	if i < 0 || i >= len(c.items) {
		return fmt.Errorf("%w: index %d", ErrNotFound, i)
	}
	c.items[i] = item
	c.sort()
	c.dirty = true
	return nil
}

// selected returns the distinct in-range indices in collection order.
func (c *Collection[T]) selected(indices []int) []int {
	pick := map[int]bool{}
	for _, i := range indices {
		if i >= 0 && i < len(c.items) {
			pick[i] = true
		}
	}
	var out []int
	for i := range c.items {
		if pick[i] {
			out = append(out, i)
		}
	}
	return out
}

// Remove drops the items at indices and returns them in collection order.
// Out of range and repeated indices are ignored.
func (c *Collection[T]) Remove(indices []int) []T {
	sel := c.selected(indices)
	if len(sel) == 0 {
		return nil
	}
	drop := map[int]bool{}
	for _, i := range sel {
		drop[i] = true
	}
	var removed []T
	kept := make([]T, 0, len(c.items)-len(sel))
	for i, item := range c.items {
		if drop[i] {
			removed = append(removed, item)
			continue
		}
		kept = append(kept, item)
	}
	c.items = kept
	c.dirty = true
	return removed
}

// RemoveAndArchive moves the items at indices into the archive and writes
// both documents. The archive is written first; if that fails nothing is
// removed.
func (c *Collection[T]) RemoveAndArchive(ctx context.Context, indices []int) ([]T, error) {
	sel := c.selected(indices)
	if len(sel) == 0 {
		return nil, nil
	}
	moving := make([]T, 0, len(sel))
	for _, i := range sel {
		moving = append(moving, c.items[i])
	}
	if err := c.archive.Append(ctx, moving); err != nil {
		return nil, err
	}
	removed := c.Remove(sel)
	return removed, c.Write(ctx)
}

func (c *Collection[T]) Write(ctx context.Context) error {
	b, err := yaml.Marshal(document[T]{Schema: 1, Items: c.items})
	if err != nil {
		return err
	}
	if err := c.backend.Save(ctx, c.name, b); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

type Archived[T any] struct {
	ArchivedAt time.Time `yaml:"archived_at"`
	Item       T         `yaml:"item"`
}

// Archive is append-only. It is read on demand and never cached.
type Archive[T any] struct {
	name    string
	backend Backend
}

func (a *Archive[T]) Read(ctx context.Context) ([]Archived[T], error) {
	b, err := a.backend.Load(ctx, a.name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var doc document[Archived[T]]
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalid, a.name, err)
	}
	return doc.Items, nil
}

func (a *Archive[T]) Append(ctx context.Context, items []T) error {
	existing, err := a.Read(ctx)
	if err != nil {
		return err
	}
	now := timeNow()
	for _, item := range items {
		existing = append(existing, Archived[T]{ArchivedAt: now, Item: item})
	}
	b, err := yaml.Marshal(document[Archived[T]]{Schema: 1, Items: existing})
	if err != nil {
		return err
	}
	return a.backend.Save(ctx, a.name, b)
}

