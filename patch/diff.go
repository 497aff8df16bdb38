package patch

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineDiff renders a line-oriented diff between the file on disk and a
// fresh render. Unchanged runs are collapsed to a count. It returns "" when
// both are equal.
func LineDiff(path, onDisk, fresh string) string {
	if onDisk == fresh {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(onDisk, fresh)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s (on disk)\n+++ %s (generated)\n", path, path)
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			n := strings.Count(d.Text, "\n")
			if n > 0 {
				fmt.Fprintf(&sb, "  ... %d unchanged line(s)\n", n)
			}
		case diffmatchpatch.DiffDelete:
			for _, line := range strings.Split(text, "\n") {
				sb.WriteString("- " + line + "\n")
			}
		case diffmatchpatch.DiffInsert:
			for _, line := range strings.Split(text, "\n") {
				sb.WriteString("+ " + line + "\n")
			}
		}
	}
	return sb.String()
}
