// Package display renders command results in the output formats the CLI
// offers.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/kodiakgen/errors"
)

// Format is a structured output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat accepts one of allowed, case-insensitively.
func ParseFormat(s string, allowed ...Format) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	names := make([]string, len(allowed))
	for i, a := range allowed {
		if f == a {
			return f, nil
		}
		names[i] = string(a)
	}
	return "", errors.Wrapf(errors.ErrInvalidRequest,
		"unsupported format: %s (supported: %s)", s, strings.Join(names, ", "))
}

// Marshal encodes v. JSON is indented for humans.
func Marshal(f Format, v interface{}) ([]byte, error) {
	var data []byte
	var err error
	switch f {
	case FormatJSON:
		data, err = json.MarshalIndent(v, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case FormatYAML:
		data, err = yaml.Marshal(v)
	case FormatTOML:
		data, err = toml.Marshal(v)
	default:
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "unsupported format: %s", f)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal %s", f)
	}
	return data, nil
}

// Write marshals v to w. A non-empty comment is written first as a "# "
// line for the formats that have comments.
func Write(w io.Writer, f Format, v interface{}, comment string) error {
	data, err := Marshal(f, v)
	if err != nil {
		return err
	}
	if comment != "" && f != FormatJSON {
		if _, err := fmt.Fprintf(w, "# %s\n", comment); err != nil {
			return err
		}
	}
	_, err = w.Write(data)
	return err
}
