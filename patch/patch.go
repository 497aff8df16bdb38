// Package patch splices generated blocks into template files.
//
// A template marks each block with two identical sentinel lines:
//
//	// KODIAK_GEN_LOAD_DEVICE
//	...anything, replaced on every run...
//	// KODIAK_GEN_LOAD_DEVICE
//
// Patching keeps both sentinels verbatim and replaces everything between
// them with the block's lines, so patching an already patched file again
// changes nothing.
package patch

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/teranos/kodiakgen/errors"
	"github.com/teranos/kodiakgen/loadergen"
)

// SentinelPrefix starts every sentinel line (after leading whitespace).
const SentinelPrefix = "// KODIAK_GEN_"

// Sentinel returns the sentinel line for block.
func Sentinel(block loadergen.BlockName) string {
	return SentinelPrefix + string(block)
}

// Result is a patched file.
type Result struct {
	Content []byte
	// Patched lists the blocks found in the template, in file order.
	Patched []loadergen.BlockName
}

// Apply reads template and replaces the body of every sentinel pair with
// the matching block. A sentinel naming an unknown block fails with
// errors.ErrUnknownBlockName; a sentinel without its closing twin fails
// with errors.ErrUnterminatedBlock.
func Apply(template io.Reader, blocks loadergen.Blocks) (*Result, error) {
	scanner := bufio.NewScanner(template)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var out bytes.Buffer
	var patched []loadergen.BlockName

	lineNo := 0
	for scanner.Scan() {
		line := scanner.Text()
		lineNo++

		trimmed := strings.TrimLeft(line, " \t")
		if !strings.HasPrefix(trimmed, SentinelPrefix) {
			out.WriteString(line)
			out.WriteByte('\n')
			continue
		}

		name, err := loadergen.ParseBlockName(strings.TrimSpace(strings.TrimPrefix(trimmed, SentinelPrefix)))
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}

		out.WriteString(line)
		out.WriteByte('\n')
		for _, generated := range blocks[name] {
			out.WriteString(generated)
			out.WriteByte('\n')
		}

		openLine := lineNo
		closed := false
		for scanner.Scan() {
			lineNo++
			if scanner.Text() == line {
				closed = true
				break
			}
		}
		if !closed {
			if err := scanner.Err(); err != nil {
				return nil, errors.Wrap(err, "failed to read template")
			}
			return nil, errors.WithHint(
				errors.Wrapf(errors.ErrUnterminatedBlock, "%s opened at line %d", name, openLine),
				"every sentinel line must appear twice, identically")
		}

		out.WriteString(line)
		out.WriteByte('\n')
		patched = append(patched, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read template")
	}

	return &Result{Content: out.Bytes(), Patched: patched}, nil
}

// ApplyBytes is Apply over an in-memory template.
func ApplyBytes(template []byte, blocks loadergen.Blocks) (*Result, error) {
	return Apply(bytes.NewReader(template), blocks)
}
