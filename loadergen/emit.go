package loadergen

import (
	"fmt"
	"strings"

	"github.com/teranos/kodiakgen/errors"
	"github.com/teranos/kodiakgen/guard"
)

// BlockName identifies one generated section of the loader templates.
type BlockName string

const (
	BlockInitLoader         BlockName = "INIT_LOADER"
	BlockLoadInstance       BlockName = "LOAD_INSTANCE"
	BlockLoadDevice         BlockName = "LOAD_DEVICE"
	BlockHeaderFunctionPtrs BlockName = "HEADER_FUNCTION_PTRS"
	BlockSourceFunctionPtrs BlockName = "SOURCE_FUNCTION_PTRS"
)

// BlockNames lists every block in emission order.
var BlockNames = []BlockName{
	BlockInitLoader,
	BlockLoadInstance,
	BlockLoadDevice,
	BlockHeaderFunctionPtrs,
	BlockSourceFunctionPtrs,
}

// ParseBlockName validates a block name read from a template sentinel.
func ParseBlockName(s string) (BlockName, error) {
	for _, name := range BlockNames {
		if string(name) == s {
			return name, nil
		}
	}
	return "", errors.Wrapf(errors.ErrUnknownBlockName, "%q", s)
}

// Blocks holds the generated lines of each block.
type Blocks map[BlockName][]string

// Lines returns the number of lines across all blocks.
func (b Blocks) Lines() int {
	n := 0
	for _, lines := range b {
		n += len(lines)
	}
	return n
}

// LoadLine is the statement that resolves one function pointer.
func LoadLine(cmd string) string {
	return fmt.Sprintf("\t%s = (PFN_%s)load(context, \"%s\");", cmd, cmd, cmd)
}

// HeaderLine declares the pointer in the header.
func HeaderLine(cmd string) string {
	return fmt.Sprintf("extern PFN_%s %s;", cmd, cmd)
}

// SourceLine defines the pointer in the source file.
func SourceLine(cmd string) string {
	return fmt.Sprintf("PFN_%s %s;", cmd, cmd)
}

// Emit renders the group table into the five blocks. Each group opens with
// "#if <key>" and closes with "#endif // <key>"; a block that received no
// lines for a group gets neither.
func Emit(ctx *Context, classifier *Classifier) (Blocks, error) {
	blocks := make(Blocks, len(BlockNames))
	for _, name := range BlockNames {
		blocks[name] = []string{}
	}

	for _, g := range ctx.Groups.Groups() {
		if err := guard.Validate(g.Guard); err != nil {
			return nil, errors.Wrapf(err, "group with commands %s", strings.Join(g.Commands, ", "))
		}
		key := g.Key()
		open := "#if " + key

		start := make(map[BlockName]int, len(BlockNames))
		for _, name := range BlockNames {
			start[name] = len(blocks[name])
			blocks[name] = append(blocks[name], open)
		}

		for _, cmd := range g.Commands {
			c, err := classifier.Classify(cmd)
			if err != nil {
				return nil, err
			}
			if block, ok := c.LoadBlock(); ok {
				blocks[block] = append(blocks[block], LoadLine(cmd))
			}
			blocks[BlockHeaderFunctionPtrs] = append(blocks[BlockHeaderFunctionPtrs], HeaderLine(cmd))
			blocks[BlockSourceFunctionPtrs] = append(blocks[BlockSourceFunctionPtrs], SourceLine(cmd))
		}

		for _, name := range BlockNames {
			if len(blocks[name]) == start[name]+1 {
				blocks[name] = blocks[name][:start[name]]
				continue
			}
			blocks[name] = append(blocks[name], "#endif // "+key)
		}
	}
	return blocks, nil
}
