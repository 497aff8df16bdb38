// Package loadergen turns a registry into the guarded text blocks of a
// dynamic function-pointer loader.
//
// A run goes through four stages, each reading the output of the previous
// one from a single Context:
//
//	BuildGroups  registry versions and requirement blocks -> group table
//	Reduce       multi-owner commands -> merged groups (each command once)
//	Classifier   command -> load tier (root / instance / device)
//	Emit         group table -> INIT_LOADER, LOAD_INSTANCE, ... blocks
//
// Generate runs all four.
package loadergen

import (
	"github.com/teranos/kodiakgen/errors"
	"github.com/teranos/kodiakgen/guard"
	"github.com/teranos/kodiakgen/registry"
	"github.com/teranos/kodiakgen/typetree"
)

// Group is a set of commands sharing one availability guard.
type Group struct {
	Guard    guard.Expr
	Commands []string

	members map[string]struct{}
}

// Key is the rendered guard, the identity of the group.
func (g *Group) Key() string {
	return guard.Key(g.Guard)
}

func (g *Group) add(names ...string) {
	if g.members == nil {
		g.members = make(map[string]struct{}, len(names))
	}
	for _, name := range names {
		if _, ok := g.members[name]; ok {
			continue
		}
		g.members[name] = struct{}{}
		g.Commands = append(g.Commands, name)
	}
}

// Table is the ordered group table. Groups keep the order in which their
// key was first added.
type Table struct {
	order []*Group
	byKey map[string]*Group
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{byKey: make(map[string]*Group)}
}

// Add appends commands to the group keyed by g, creating it on first use.
// Adding under an existing key merges member lists; a command already in
// the group is not added twice.
func (t *Table) Add(g guard.Expr, commands ...string) *Group {
	key := guard.Key(g)
	group, ok := t.byKey[key]
	if !ok {
		group = &Group{Guard: g}
		t.byKey[key] = group
		t.order = append(t.order, group)
	}
	// Dedup on purpose: vk.xml repeats a command across require blocks that
	// resolve to the same guard, and each must be emitted once.
	group.add(commands...)
	return group
}

// Groups returns the groups in table order.
func (t *Table) Groups() []*Group {
	return t.order
}

// Lookup returns the group with the given rendered key.
func (t *Table) Lookup(key string) (*Group, bool) {
	g, ok := t.byKey[key]
	return g, ok
}

// Len returns the number of groups.
func (t *Table) Len() int {
	return len(t.order)
}

// Context holds all state of one generation run.
type Context struct {
	Registry *registry.Registry

	// Commands is the alias-resolved command table.
	Commands map[string]registry.Command
	Types    *typetree.Tree

	// Groups is the group table; BuildGroups fills it and Reduce replaces it.
	Groups *Table

	// InstanceScoped lists commands required by instance-kind extensions.
	InstanceScoped map[string]struct{}

	// Merged counts the groups Reduce synthesized.
	Merged int
}

// NewContext resolves aliases and indexes the type forest of reg.
func NewContext(reg *registry.Registry) (*Context, error) {
	if reg == nil {
		return nil, errors.AssertionFailedf("nil registry")
	}
	commands, err := reg.ResolveCommands()
	if err != nil {
		return nil, err
	}
	types := typetree.New(reg.TypeParents())
	if err := types.Check(); err != nil {
		return nil, errors.Wrap(err, "invalid type hierarchy")
	}
	return &Context{
		Registry:       reg,
		Commands:       commands,
		Types:          types,
		Groups:         NewTable(),
		InstanceScoped: make(map[string]struct{}),
	}, nil
}

// IsInstanceScoped reports whether name is required by an instance-kind
// extension.
func (c *Context) IsInstanceScoped(name string) bool {
	_, ok := c.InstanceScoped[name]
	return ok
}
