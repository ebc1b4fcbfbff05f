package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/pplanner/pplanner/internal/conz"
	"github.com/pplanner/pplanner/internal/store"
	"github.com/pplanner/pplanner/internal/wizard"
)

// item is what the generic rm/edit/clean helpers need from a stored type.
type item interface {
	store.Record
	conz.Printable
}

// searchOne asks for a search string until exactly one item matches. With
// pre-supplied inputs there is no retry.
func searchOne[T item](s *Session, c *store.Collection[T], inputs *wizard.Queue) (int, error) {
	for {
		sel, err := s.wiz.ReadLine("search: ", inputs)
		if err != nil {
			return -1, err
		}
		i, err := c.ResolveOne(s.selector(sel))
		if err == nil {
			return i, nil
		}
		if !isMatchFailure(err) {
			return -1, err
		}
		s.reportMatch(err)
		if inputs.Supplied() {
			return -1, &reportedError{err: err}
		}
		again, rerr := s.wiz.ReadBool("Try again?: ", nil)
		if rerr != nil {
			return -1, rerr
		}
		if !again {
			return -1, &reportedError{err: err}
		}
	}
}

// selector applies the configured match mode unless the search string
// starts with "=" (exact) or "^" (prefix).
func (s *Session) selector(raw string) (string, string) {
	return store.SplitSelector(raw, s.ws.Config().Match)
}

func isMatchFailure(err error) bool {
	return errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrConflict) || errors.Is(err, store.ErrInvalid)
}

func (s *Session) reportMatch(err error) {
	if errors.Is(err, store.ErrInvalid) {
		s.out.Println(conz.Error, "Fail: nothing to search for.")
		return
	}
	s.report(err)
}

// removeItems searches, shows every match and archives them after a
// confirmation.
func removeItems[T item](ctx context.Context, s *Session, c *store.Collection[T], what string, inputs *wizard.Queue) error {
	s.out.Println(conz.Normal, "Remove "+what+"(search first): ")
	sel, err := s.wiz.ReadLine("search: ", inputs)
	if err != nil {
		return err
	}
	hits, err := c.Resolve(s.selector(sel))
	if err == nil && len(hits) == 0 {
		err = store.ErrNotFound
	}
	if err != nil {
		s.reportMatch(err)
		return &reportedError{err: err}
	}
	items := c.Items()
	for _, i := range hits {
		s.out.Item(items[i])
	}
	return archiveConfirmed(ctx, s, c, what, hits, inputs)
}

// cleanItems archives every item past reports true for.
func cleanItems[T item](ctx context.Context, s *Session, c *store.Collection[T], what string, past func(T) bool, inputs *wizard.Queue) error {
	s.out.Println(conz.Normal, "Remove all "+what+" that are in the past: ")
	var hits []int
	for i, it := range c.Items() {
		if past(it) {
			hits = append(hits, i)
		}
	}
	if len(hits) == 0 {
		s.out.Println(conz.Highlight, "Nothing to clean.")
		return nil
	}
	s.out.Print(conz.Normal, "Found ")
	s.out.Print(conz.Value, fmt.Sprint(len(hits)))
	s.out.Println(conz.Normal, " "+what+".")
	return archiveConfirmed(ctx, s, c, what, hits, inputs)
}

func archiveConfirmed[T item](ctx context.Context, s *Session, c *store.Collection[T], what string, hits []int, inputs *wizard.Queue) error {
	sure, err := s.wiz.ReadBool("Sure to remove them?: ", inputs)
	if err != nil {
		return err
	}
	if !sure {
		s.out.Println(conz.Normal, "Nothing removed.")
		return nil
	}
	removed, err := c.RemoveAndArchive(ctx, hits)
	if err != nil {
		s.log.Error("archive", "collection", c.Name(), "error", err)
		return s.fail(err, "Error: could not archive "+what+".")
	}
	s.out.Print(conz.Highlight, "Success: Removed ")
	s.out.Print(conz.Value, fmt.Sprint(len(removed)))
	s.out.Println(conz.Highlight, " "+what+".")
	return nil
}

// editItem searches one item, shows it and asks every field again. An
// empty answer keeps the old value.
func editItem[T item](ctx context.Context, s *Session, c *store.Collection[T], what string, fields []wizard.Field, apply func(T, []wizard.Value) (T, error), inputs *wizard.Queue) error {
	s.out.Println(conz.Normal, "Edit "+what+"(search first): ")
	i, err := searchOne(s, c, inputs)
	if err != nil {
		return err
	}
	old := c.Items()[i]
	s.out.Item(old)
	s.out.Println(conz.Normal, "Leave a field empty to keep its value.")
	vals, err := s.wiz.Run(wizard.Optional(fields), inputs)
	if err != nil {
		return err
	}
	updated, err := apply(old, vals)
	if err != nil {
		return err
	}
	if err := c.Replace(i, updated); err != nil {
		return err
	}
	if err := c.Write(ctx); err != nil {
		s.log.Error("write", "collection", c.Name(), "error", err)
		return s.fail(err, "Error: could not save "+what+", it stays unsaved until flush.")
	}
	s.out.Println(conz.Highlight, "Success: "+what+" updated.")
	return nil
}

// save writes c after an add, with the same failure message everywhere.
func save[T store.Record](ctx context.Context, s *Session, c *store.Collection[T], success string) error {
	if err := c.Write(ctx); err != nil {
		s.log.Error("write", "collection", c.Name(), "error", err)
		return s.fail(err, "Error: could not save "+c.Name()+", it stays unsaved until flush.")
	}
	s.out.Println(conz.Highlight, success)
	return nil
}
