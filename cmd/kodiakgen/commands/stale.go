package commands

import (
	"bytes"
	"context"

	"github.com/teranos/kodiakgen/config"
	"github.com/teranos/kodiakgen/patch"
)

// StaleFile is an output file whose disk content differs from a fresh render.
type StaleFile struct {
	Path string
	// Diff is empty when the file does not exist yet.
	Diff string
}

// StaleFiles compares every rendered file with the disk, after applying the
// configured formatter to the fresh render.
func StaleFiles(ctx context.Context, cfg *config.Config, rendering *Rendering) ([]StaleFile, error) {
	var stale []StaleFile
	for _, file := range rendering.Files {
		if file.OnDisk == nil {
			stale = append(stale, StaleFile{Path: file.Path})
			continue
		}
		fresh, err := Formatted(ctx, cfg, file)
		if err != nil {
			return nil, err
		}
		if bytes.Equal(fresh, file.OnDisk) {
			continue
		}
		stale = append(stale, StaleFile{
			Path: file.Path,
			Diff: patch.LineDiff(file.Path, string(file.OnDisk), string(fresh)),
		})
	}
	return stale, nil
}
