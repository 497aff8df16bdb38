package loadergen

import (
	"time"

	"go.uber.org/zap"

	"github.com/teranos/kodiakgen/logger"
	"github.com/teranos/kodiakgen/registry"
)

// CommandInfo describes where one command ended up.
type CommandInfo struct {
	Name            string    `json:"name" yaml:"name"`
	Tier            Tier      `json:"tier" yaml:"tier"`
	Block           BlockName `json:"block,omitempty" yaml:"block,omitempty"`
	DeclarationOnly bool      `json:"declaration_only,omitempty" yaml:"declaration_only,omitempty"`
}

// GroupInfo is one final group as reported by the groups command.
type GroupInfo struct {
	Key      string        `json:"key" yaml:"key"`
	Commands []CommandInfo `json:"commands" yaml:"commands"`
}

// Result is the outcome of one generation run.
type Result struct {
	Blocks Blocks
	Groups []GroupInfo
	Merged int
}

// Generate runs the whole pipeline over reg.
func Generate(reg *registry.Registry, opts Options, log *zap.SugaredLogger) (*Result, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	start := time.Now()

	ctx, err := NewContext(reg)
	if err != nil {
		return nil, err
	}
	if err := BuildGroups(ctx); err != nil {
		return nil, err
	}
	log.Debugw("Built command groups",
		logger.FieldVersions, len(reg.Versions),
		logger.FieldExtensions, len(reg.Extensions),
		logger.FieldGroups, ctx.Groups.Len(),
	)

	merged := Reduce(ctx)
	log.Debugw("Reduced command groups",
		logger.FieldGroups, ctx.Groups.Len(),
		logger.FieldMerged, merged,
	)

	classifier := NewClassifier(ctx, opts)
	blocks, err := Emit(ctx, classifier)
	if err != nil {
		return nil, err
	}

	infos := make([]GroupInfo, 0, ctx.Groups.Len())
	for _, g := range ctx.Groups.Groups() {
		info := GroupInfo{Key: g.Key(), Commands: make([]CommandInfo, 0, len(g.Commands))}
		for _, name := range g.Commands {
			c, err := classifier.Classify(name)
			if err != nil {
				return nil, err
			}
			block, _ := c.LoadBlock()
			info.Commands = append(info.Commands, CommandInfo{
				Name:            name,
				Tier:            c.Tier,
				Block:           block,
				DeclarationOnly: c.DeclarationOnly,
			})
		}
		infos = append(infos, info)
	}

	log.Infow("Generated loader blocks",
		logger.FieldGroups, ctx.Groups.Len(),
		logger.FieldMerged, merged,
		logger.FieldLines, blocks.Lines(),
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)

	return &Result{Blocks: blocks, Groups: infos, Merged: merged}, nil
}
