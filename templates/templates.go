// Package templates embeds the default loader templates.
package templates

import (
	"embed"
	"os"
	"path"
	"path/filepath"

	"github.com/teranos/kodiakgen/errors"
)

// Default template file names.
const (
	Header = "LoaderVK.h"
	Source = "LoaderVK.cpp"
)

// The templates live under files/ so the C++ sources stay out of the Go
// package directory.
//
//go:embed files/LoaderVK.h files/LoaderVK.cpp
var embedded embed.FS

const embeddedDir = "files"

// Read returns the template called name. A non-empty dir overrides the
// embedded copy; a file missing from dir is an error rather than a silent
// fallback.
func Read(dir, name string) ([]byte, error) {
	if dir != "" {
		file := filepath.Join(dir, name)
		data, err := os.ReadFile(file)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WithHint(
					errors.NewNotFoundError("template %s", file),
					"output.template_dir must contain both loader templates; unset it to use the built-in ones")
			}
			return nil, errors.Wrapf(err, "failed to read template %s", file)
		}
		return data, nil
	}

	data, err := embedded.ReadFile(path.Join(embeddedDir, name))
	if err != nil {
		return nil, errors.NewNotFoundError("embedded template %s", name)
	}
	return data, nil
}
