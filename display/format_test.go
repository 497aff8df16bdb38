package display

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/kodiakgen/errors"
)

type sample struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Count int    `json:"count" yaml:"count" toml:"count"`
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" YAML ", FormatJSON, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("toml", FormatJSON, FormatYAML)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
	assert.Contains(t, err.Error(), "supported: json, yaml")
}

func TestWrite(t *testing.T) {
	v := sample{Name: "vkCmdDraw", Count: 2}
	tests := []struct {
		format Format
		want   []string
	}{
		{FormatJSON, []string{`"name": "vkCmdDraw"`, `"count": 2`}},
		{FormatYAML, []string{"# groups", "name: vkCmdDraw", "count: 2"}},
		{FormatTOML, []string{"# groups", "vkCmdDraw", "count = 2"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, tt.format, v, "groups"))
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, v, "groups"))
	assert.NotContains(t, buf.String(), "#", "JSON has no comments")
}
