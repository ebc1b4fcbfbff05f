package store

import (
	"strings"
)

const (
	MatchExact    = "exact"
	MatchPrefix   = "prefix"
	MatchContains = "contains"
)

func normalizeMatchMode(match string) string {
	match = strings.TrimSpace(strings.ToLower(match))
	switch match {
	case MatchExact, MatchPrefix, MatchContains:
		return match
	default:
		return MatchContains
	}
}

// SplitSelector reads the match mode off a search string: "=title" is an
// exact match, "^title" a prefix match. Without a marker def is used.
func SplitSelector(s, def string) (selector, match string) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "="):
		return strings.TrimSpace(s[1:]), MatchExact
	case strings.HasPrefix(s, "^"):
		return strings.TrimSpace(s[1:]), MatchPrefix
	}
	return s, normalizeMatchMode(def)
}

// Resolve returns the indices of the items selector picks. An ID-looking
// selector is tried as an ID prefix first, then as a title; anything else
// the other way round.
func (c *Collection[T]) Resolve(selector, match string) ([]int, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil, ErrInvalid
	}
	match = normalizeMatchMode(match)
	if isLikelyIDSelector(selector) {
		if hits := c.byIDPrefix(selector); len(hits) > 0 {
			return hits, nil
		}
		return c.byTitle(selector, match), nil
	}
	if hits := c.byTitle(selector, match); len(hits) > 0 {
		return hits, nil
	}
	return c.byIDPrefix(selector), nil
}

// ResolveOne is Resolve for commands that act on a single item.
func (c *Collection[T]) ResolveOne(selector, match string) (int, error) {
	hits, err := c.Resolve(selector, match)
	if err != nil {
		return -1, err
	}
	switch len(hits) {
	case 0:
		return -1, ErrNotFound
	case 1:
		return hits[0], nil
	}
	titles := make([]string, 0, len(hits))
	for _, i := range hits {
		titles = append(titles, c.items[i].RecordTitle())
	}
	return -1, &MatchConflictError{Reason: "selector", Titles: titles}
}

func (c *Collection[T]) byIDPrefix(prefix string) []int {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil
	}
	var hits []int
	for i, item := range c.items {
		if strings.HasPrefix(strings.ToUpper(item.RecordID()), prefix) {
			hits = append(hits, i)
		}
	}
	return hits
}

func (c *Collection[T]) byTitle(selector, match string) []int {
	selLower := strings.ToLower(selector)
	selSlug := slugify(selector)
	if selSlug == "x" && !strings.Contains(selLower, "x") {
		// nothing sluggable in the selector
		selSlug = ""
	}
	var hits []int
	for i, item := range c.items {
		title := strings.TrimSpace(item.RecordTitle())
		if title == "" {
			continue
		}
		titleLower := strings.ToLower(title)
		titleSlug := slugify(title)
		var ok bool
		switch match {
		case MatchExact:
			ok = titleLower == selLower || (selSlug != "" && titleSlug == selSlug)
		case MatchPrefix:
			ok = strings.HasPrefix(titleLower, selLower) || (selSlug != "" && strings.HasPrefix(titleSlug, selSlug))
		default:
			ok = strings.Contains(titleLower, selLower) || (selSlug != "" && strings.Contains(titleSlug, selSlug))
		}
		if ok {
			hits = append(hits, i)
		}
	}
	return hits
}

func isLikelyIDSelector(selector string) bool {
	selector = strings.TrimSpace(selector)
	if len(selector) < 8 {
		return false
	}
	allowed := "0123456789ABCDEFGHJKMNPQRSTVWXYZ"
	hasDigit := false
	for _, r := range strings.ToUpper(selector) {
		if r >= '0' && r <= '9' {
			hasDigit = true
		}
		if !strings.ContainsRune(allowed, r) {
			return false
		}
	}
	return hasDigit
}
