package loadergen

import (
	"github.com/teranos/kodiakgen/guard"
)

// Reduce rewrites the group table so every command belongs to exactly one
// group.
//
// Commands owned by a single group stay where they are. A command owned by
// several groups is removed from all of them and moved into a merged group
// whose guard is the union of the owners' guards, in table order:
//
//	K1 || (K2) || (K3)
//
// Commands with the same owner list share one merged group. Merged groups
// are appended after the original groups, ordered by the first appearance
// of the commands that created them. Groups left without commands are
// dropped.
//
// Reduce returns the number of merged groups it created.
func Reduce(ctx *Context) int {
	groups := ctx.Groups.Groups()

	owners := make(map[string][]*Group)
	var firstSeen []string
	for _, g := range groups {
		for _, name := range g.Commands {
			if _, ok := owners[name]; !ok {
				firstSeen = append(firstSeen, name)
			}
			owners[name] = append(owners[name], g)
		}
	}

	reduced := NewTable()
	for _, g := range groups {
		var exclusive []string
		for _, name := range g.Commands {
			if len(owners[name]) == 1 {
				exclusive = append(exclusive, name)
			}
		}
		if len(exclusive) > 0 {
			reduced.Add(g.Guard, exclusive...)
		}
	}

	merged := 0
	for _, name := range firstSeen {
		claim := owners[name]
		if len(claim) < 2 {
			continue
		}
		guards := make([]guard.Expr, len(claim))
		for i, g := range claim {
			guards[i] = g.Guard
		}
		m := guard.Merge(guards...)
		if _, exists := reduced.Lookup(guard.Key(m)); !exists {
			merged++
		}
		reduced.Add(m, name)
	}

	ctx.Groups = reduced
	ctx.Merged = merged
	return merged
}
