package patch

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/kodiakgen/errors"
)

// WriteFileAtomic writes data to a temporary file in the target directory
// and renames it over path, creating the directory if needed. Readers see
// either the old content or the new content, never a partial file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	staged, err := Stage(path, data, perm)
	if err != nil {
		return err
	}
	defer staged.Discard() // no-op after a successful commit
	return staged.Commit()
}

// Staged is a fully written file sitting next to its target, waiting to be
// renamed into place.
type Staged struct {
	Path string
	// Temp keeps the target's extension so formatters pick the right language.
	Temp string
}

// Stage writes data to a temporary file in path's directory, creating the
// directory if needed. The target is untouched until Commit.
func Stage(path string, data []byte, perm os.FileMode) (*Staged, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %s", dir)
	}

	base := filepath.Base(path)
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp"+filepath.Ext(base))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temporary file")
	}
	staged := &Staged{Path: path, Temp: tmp.Name()}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		staged.Discard()
		return nil, errors.Wrapf(err, "failed to write %s", staged.Temp)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		staged.Discard()
		return nil, errors.Wrapf(err, "failed to sync %s", staged.Temp)
	}
	if err := tmp.Close(); err != nil {
		staged.Discard()
		return nil, errors.Wrapf(err, "failed to close %s", staged.Temp)
	}
	if err := os.Chmod(staged.Temp, perm); err != nil {
		staged.Discard()
		return nil, errors.Wrapf(err, "failed to chmod %s", staged.Temp)
	}
	return staged, nil
}

// Commit renames the temporary file over the target.
func (s *Staged) Commit() error {
	if err := os.Rename(s.Temp, s.Path); err != nil {
		return errors.Wrapf(err, "failed to replace %s", s.Path)
	}
	return nil
}

// Discard removes the temporary file. It is safe to call after Commit.
func (s *Staged) Discard() {
	os.Remove(s.Temp)
}

// ParseFormatCommand splits a shell-quoted formatter command line such as
// "clang-format -i --style=file". An empty command yields nil.
func ParseFormatCommand(command string) ([]string, error) {
	args, err := shellquote.Split(command)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "invalid format command %q: %v", command, err)
	}
	if len(args) == 0 {
		return nil, nil
	}
	return args, nil
}

// Format runs the formatter command with path appended as the last argument.
// An empty command does nothing.
func Format(ctx context.Context, command, path string) error {
	args, err := ParseFormatCommand(command)
	if err != nil || args == nil {
		return err
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errors.WithDetailf(
			errors.Wrapf(err, "format command %s failed on %s", args[0], path),
			"output: %s", output)
	}
	return nil
}
