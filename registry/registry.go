// Package registry holds the in-memory model of an API registry: core
// versions, extensions with their requirement blocks, commands and the
// handle type hierarchy.
//
// A Registry is built once (usually by Decode) and treated as read-only
// afterwards. Ordering is significant everywhere: versions, requirement
// blocks and command lists keep document order so generated output is
// reproducible.
package registry

import (
	"github.com/teranos/kodiakgen/errors"
)

// Kind is the scope an extension declares in its type attribute.
type Kind string

const (
	KindUnspecified Kind = ""
	KindInstance    Kind = "instance"
	KindDevice      Kind = "device"
)

// ParseKind maps an extension type attribute to a Kind. Unknown values map
// to KindUnspecified.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case KindInstance:
		return KindInstance
	case KindDevice:
		return KindDevice
	}
	return KindUnspecified
}

// Command is a callable entry point.
type Command struct {
	Name string
	// ParamType is the type of the first formal parameter, empty if none.
	ParamType string
	// Alias names the command this one aliases, empty if none.
	Alias string
}

// TypeNode is one edge of the type forest. An empty Parent ends the chain.
type TypeNode struct {
	Name   string
	Parent string
}

// Version is a core API version and the commands it requires.
type Version struct {
	Name string
	// Number is the dotted version ("1.2"), empty if the registry omits it.
	Number   string
	Commands []string
}

// Requirement is one require block of an extension.
type Requirement struct {
	Features   []string
	Extensions []string
	Depends    string
	Commands   []string
}

// Extension is an optionally enabled unit of commands.
type Extension struct {
	Name         string
	Kind         Kind
	Requirements []Requirement
}

// Registry is the decoded entity model consumed by the generator.
type Registry struct {
	Versions   []Version
	Extensions []Extension
	Commands   []Command
	Types      []TypeNode
}

// Stats summarizes the size of a registry for logging.
type Stats struct {
	Versions     int
	Extensions   int
	Requirements int
	Commands     int
	Types        int
}

// Stats counts the registry's entities.
func (r *Registry) Stats() Stats {
	s := Stats{
		Versions:   len(r.Versions),
		Extensions: len(r.Extensions),
		Commands:   len(r.Commands),
		Types:      len(r.Types),
	}
	for _, ext := range r.Extensions {
		s.Requirements += len(ext.Requirements)
	}
	return s
}

// TypeParents returns the type forest as a name -> parent map.
func (r *Registry) TypeParents() map[string]string {
	parents := make(map[string]string, len(r.Types))
	for _, t := range r.Types {
		parents[t.Name] = t.Parent
	}
	return parents
}

// ResolveCommands returns the command table keyed by name with aliases
// resolved: an aliased command adopts the parameter type of the command it
// ultimately aliases but keeps its own name.
//
// An alias whose target is missing, or an alias chain that loops, fails
// with errors.ErrUnknownCommand.
func (r *Registry) ResolveCommands() (map[string]Command, error) {
	byName := make(map[string]Command, len(r.Commands))
	for _, c := range r.Commands {
		byName[c.Name] = c
	}

	resolved := make(map[string]Command, len(byName))
	for name, c := range byName {
		target := c
		seen := map[string]struct{}{name: {}}
		for target.Alias != "" {
			next, ok := byName[target.Alias]
			if !ok {
				return nil, errors.Wrapf(errors.ErrUnknownCommand,
					"command %s aliases %s, which is not defined", name, target.Alias)
			}
			if _, loop := seen[next.Name]; loop {
				return nil, errors.Wrapf(errors.ErrUnknownCommand,
					"alias chain of %s loops at %s", name, next.Name)
			}
			seen[next.Name] = struct{}{}
			target = next
		}
		resolved[name] = Command{
			Name:      name,
			ParamType: target.ParamType,
			Alias:     c.Alias,
		}
	}
	return resolved, nil
}
