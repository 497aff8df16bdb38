package loadergen

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/teranos/kodiakgen/guard"
	"github.com/teranos/kodiakgen/registry"
)

var paramTypes = []string{"", "VkInstance", "VkPhysicalDevice", "VkDevice", "VkCommandBuffer", "VkQueue", "VkBufferCreateInfo"}

// drawRegistry generates a registry whose requirement blocks draw from a
// small command pool so that shared ownership is common.
func drawRegistry(t *rapid.T) *registry.Registry {
	poolSize := rapid.IntRange(1, 12).Draw(t, "poolSize")
	reg := &registry.Registry{Types: vulkanHandles}
	pool := make([]string, poolSize)
	for i := range pool {
		pool[i] = fmt.Sprintf("vkCmd%d", i)
		reg.Commands = append(reg.Commands, registry.Command{
			Name:      pool[i],
			ParamType: rapid.SampledFrom(paramTypes).Draw(t, "paramType"),
		})
	}
	drawCommands := func(label string) []string {
		return rapid.SliceOfN(rapid.SampledFrom(pool), 0, 6).Draw(t, label)
	}

	numVersions := rapid.IntRange(0, 4).Draw(t, "numVersions")
	for i := 0; i < numVersions; i++ {
		reg.Versions = append(reg.Versions, registry.Version{
			Name:     fmt.Sprintf("VK_VERSION_1_%d", i),
			Commands: dedupe(drawCommands("versionCommands")),
		})
	}

	numExtensions := rapid.IntRange(0, 5).Draw(t, "numExtensions")
	for i := 0; i < numExtensions; i++ {
		ext := registry.Extension{
			Name: fmt.Sprintf("VK_EXT_%c", 'a'+i),
			Kind: rapid.SampledFrom([]registry.Kind{registry.KindUnspecified, registry.KindInstance, registry.KindDevice}).Draw(t, "kind"),
		}
		numReqs := rapid.IntRange(1, 3).Draw(t, "numReqs")
		for j := 0; j < numReqs; j++ {
			ext.Requirements = append(ext.Requirements, registry.Requirement{
				Depends:  rapid.SampledFrom([]string{"", "VK_VERSION_1_1", "VK_KHR_x,VK_VERSION_1_2", "VK_KHR_x+VK_KHR_y"}).Draw(t, "depends"),
				Commands: drawCommands("requirementCommands"),
			})
		}
		reg.Extensions = append(reg.Extensions, ext)
	}
	return reg
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var out []string
	for _, n := range names {
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}

// Every required command ends up in exactly one group after reduction.
func TestReduceExactlyOnceProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reg := drawRegistry(t)
		ctx, err := NewContext(reg)
		require.NoError(t, err)
		require.NoError(t, BuildGroups(ctx))

		required := make(map[string]struct{})
		for _, g := range ctx.Groups.Groups() {
			for _, name := range g.Commands {
				required[name] = struct{}{}
			}
		}

		Reduce(ctx)

		count := make(map[string]int)
		for _, g := range ctx.Groups.Groups() {
			assert.NotEmpty(t, g.Key())
			assert.NotEmpty(t, g.Commands)
			for _, name := range g.Commands {
				count[name]++
			}
		}
		for name := range required {
			assert.Equal(t, 1, count[name], "command %s", name)
		}
		assert.Len(t, count, len(required))
	})
}

// Commands claimed by the same owner list share one merged group keyed on
// the union of the owners in table order.
func TestReduceMergeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reg := drawRegistry(t)
		ctx, err := NewContext(reg)
		require.NoError(t, err)
		require.NoError(t, BuildGroups(ctx))

		owners := make(map[string][]guard.Expr)
		for _, g := range ctx.Groups.Groups() {
			for _, name := range g.Commands {
				owners[name] = append(owners[name], g.Guard)
			}
		}

		Reduce(ctx)

		home := make(map[string]string)
		for _, g := range ctx.Groups.Groups() {
			for _, name := range g.Commands {
				home[name] = g.Key()
			}
		}
		for name, claim := range owners {
			assert.Equal(t, guard.Key(guard.Merge(claim...)), home[name], "command %s", name)
		}
	})
}

// No emitted block contains an empty #if/#endif pair, and every #if is
// closed by the matching #endif.
func TestEmitNoEmptySectionsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		result, err := Generate(drawRegistry(t), DefaultOptions(), nil)
		require.NoError(t, err)

		for _, name := range BlockNames {
			lines := result.Blocks[name]
			open := ""
			body := 0
			for _, line := range lines {
				switch {
				case strings.HasPrefix(line, "#if "):
					assert.Empty(t, open, "%s: nested #if", name)
					open = strings.TrimPrefix(line, "#if ")
					body = 0
				case strings.HasPrefix(line, "#endif // "):
					assert.Equal(t, open, strings.TrimPrefix(line, "#endif // "), "%s: mismatched #endif", name)
					assert.Positive(t, body, "%s: empty section %s", name, open)
					open = ""
				default:
					assert.NotEmpty(t, open, "%s: line outside a section", name)
					body++
				}
			}
			assert.Empty(t, open, "%s: unterminated section", name)
		}
	})
}

// Header and source declare every command exactly once.
func TestEmitDeclaresEachCommandOnceProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		result, err := Generate(drawRegistry(t), DefaultOptions(), nil)
		require.NoError(t, err)

		seen := make(map[string]int)
		for _, line := range result.Blocks[BlockHeaderFunctionPtrs] {
			if strings.HasPrefix(line, "extern ") {
				seen[line]++
			}
		}
		for line, n := range seen {
			assert.Equal(t, 1, n, line)
		}

		var declared int
		for _, g := range result.Groups {
			declared += len(g.Commands)
		}
		assert.Equal(t, declared, len(seen))
	})
}
