package loadergen

import (
	"sort"

	"github.com/teranos/kodiakgen/errors"
	"github.com/teranos/kodiakgen/guard"
	"github.com/teranos/kodiakgen/registry"
)

// BuildGroups fills ctx.Groups with one group per version and one per
// extension requirement block. Requirement blocks that synthesize the same
// guard share a group.
//
// Versions are visited in document order, extensions in name order and
// their requirement blocks in document order. Blocks without commands add
// nothing to the table.
func BuildGroups(ctx *Context) error {
	for _, v := range ctx.Registry.Versions {
		if len(v.Commands) == 0 {
			continue
		}
		ctx.Groups.Add(guard.Atom(v.Name), v.Commands...)
	}

	extensions := make([]registry.Extension, len(ctx.Registry.Extensions))
	copy(extensions, ctx.Registry.Extensions)
	sort.SliceStable(extensions, func(i, j int) bool {
		return extensions[i].Name < extensions[j].Name
	})

	for _, ext := range extensions {
		for i, req := range ext.Requirements {
			if len(req.Commands) == 0 {
				continue
			}
			depends, err := guard.ParseDepends(req.Depends)
			if err != nil {
				return errors.Wrapf(err, "extension %s require block %d", ext.Name, i)
			}
			g := guard.Requirement(ext.Name, req.Features, req.Extensions, depends)
			// Add drops commands already in the group for this key.
			ctx.Groups.Add(g, req.Commands...)

			if ext.Kind == registry.KindInstance {
				for _, name := range req.Commands {
					ctx.InstanceScoped[name] = struct{}{}
				}
			}
		}
	}
	return nil
}
