// Package cmdtrie maps multi-word command paths to handlers.
package cmdtrie

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound  = errors.New("command not found")
	ErrDuplicate = errors.New("command already registered")
	ErrEmptyPath = errors.New("empty command path")
)

type node[H any] struct {
	children map[string]*node[H]
	handler  H
	leaf     bool
}

func newNode[H any]() *node[H] {
	return &node[H]{children: map[string]*node[H]{}}
}

// Trie is built once at startup and only read afterwards. Tokens compare
// exactly; a node may hold a handler and children at the same time.
type Trie[H any] struct {
	root *node[H]
}

func New[H any]() *Trie[H] {
	return &Trie[H]{root: newNode[H]()}
}

// Insert registers h at path, creating intermediate nodes as needed.
func (t *Trie[H]) Insert(path []string, h H) error {
	if len(path) == 0 {
		return ErrEmptyPath
	}
	n := t.root
	for _, tok := range path {
		child, ok := n.children[tok]
		if !ok {
			child = newNode[H]()
			n.children[tok] = child
		}
		n = child
	}
	if n.leaf {
		return fmt.Errorf("%w: %q", ErrDuplicate, strings.Join(path, " "))
	}
	n.handler = h
	n.leaf = true
	return nil
}

// MustInsert is Insert for registration code. A duplicate path is a
// programming error and panics.
func (t *Trie[H]) MustInsert(path []string, h H) {
	if err := t.Insert(path, h); err != nil {
		panic(err)
	}
}

// Lookup returns the handler registered at exactly path.
func (t *Trie[H]) Lookup(path []string) (H, error) {
	var zero H
	if len(path) == 0 {
		return zero, ErrNotFound
	}
	n := t.root
	for _, tok := range path {
		child, ok := n.children[tok]
		if !ok {
			return zero, ErrNotFound
		}
		n = child
	}
	if !n.leaf {
		return zero, ErrNotFound
	}
	return n.handler, nil
}

// Paths lists every registered command as space-joined words, sorted.
func (t *Trie[H]) Paths() []string {
	var out []string
	var walk func(n *node[H], prefix []string)
	walk = func(n *node[H], prefix []string) {
		if n.leaf {
			out = append(out, strings.Join(prefix, " "))
		}
		for tok, child := range n.children {
			walk(child, append(append([]string(nil), prefix...), tok))
		}
	}
	walk(t.root, nil)
	sort.Strings(out)
	return out
}
