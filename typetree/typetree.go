// Package typetree answers ancestry questions over the registry's type forest.
//
// Every type names at most one parent; an empty parent ends the chain.
// The walk is iterative and tracks visited names, so a malformed registry
// with a parent cycle fails with errors.ErrCycleDetected instead of looping.
package typetree

import (
	"strings"

	"github.com/teranos/kodiakgen/errors"
)

// Tree maps type names to their parent names.
type Tree struct {
	parents map[string]string
}

// New builds a tree from name -> parent pairs. Later pairs for the same name
// replace earlier ones.
func New(parents map[string]string) *Tree {
	t := &Tree{parents: make(map[string]string, len(parents))}
	for name, parent := range parents {
		t.parents[name] = parent
	}
	return t
}

// Len returns the number of known types.
func (t *Tree) Len() int {
	return len(t.parents)
}

// Parent returns the parent of name and whether name is known.
func (t *Tree) Parent(name string) (string, bool) {
	p, ok := t.parents[name]
	return p, ok
}

// IsDescendant reports whether typeName is ancestorName or lies below it.
func (t *Tree) IsDescendant(typeName, ancestorName string) (bool, error) {
	if ancestorName == "" {
		return false, nil
	}

	visited := make(map[string]struct{})
	chain := []string{typeName}
	current := typeName
	for {
		if current == ancestorName {
			return true, nil
		}
		if _, seen := visited[current]; seen {
			return false, errors.WithDetailf(
				errors.Wrapf(errors.ErrCycleDetected, "resolving %s against %s", typeName, ancestorName),
				"chain: %s", strings.Join(chain, " -> "))
		}
		visited[current] = struct{}{}

		parent, ok := t.parents[current]
		if !ok {
			return false, nil
		}
		if parent == ancestorName {
			return true, nil
		}
		if parent == "" {
			return false, nil
		}
		chain = append(chain, parent)
		current = parent
	}
}

// Check walks every chain once and reports the first cycle found.
func (t *Tree) Check() error {
	for name := range t.parents {
		// An ancestor name that is never on any chain forces a full walk.
		if _, err := t.IsDescendant(name, "\x00"); err != nil {
			return err
		}
	}
	return nil
}
