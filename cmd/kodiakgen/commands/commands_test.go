package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/kodiakgen/config"
	"github.com/teranos/kodiakgen/loadergen"
)

// writeProjectConfig writes a kodiak.toml for the mini registry and points
// --config at it.
func writeProjectConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, config.WriteFile(path, cfg, false))

	prev := ConfigPath
	ConfigPath = path
	t.Cleanup(func() { ConfigPath = prev })
	return cfg
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionJSON(t *testing.T) {
	out, err := runCommand(t, VersionCmd, "--json")
	require.NoError(t, err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "commit_hash")
	assert.Contains(t, info, "platform")
}

func TestGroupsJSON(t *testing.T) {
	writeProjectConfig(t)
	t.Cleanup(func() { groupsFormat = "yaml" })

	out, err := runCommand(t, GroupsCmd, "--format", "json")
	require.NoError(t, err)

	var groups []struct {
		Key      string `json:"key"`
		Commands []struct {
			Name  string              `json:"name"`
			Tier  string              `json:"tier"`
			Block loadergen.BlockName `json:"block"`
		} `json:"commands"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &groups))
	require.NotEmpty(t, groups)

	seen := make(map[string]int)
	for _, g := range groups {
		assert.NotEmpty(t, g.Key)
		for _, c := range g.Commands {
			seen[c.Name]++
			assert.Contains(t, []string{"root", "instance", "device"}, c.Tier)
		}
	}
	for name, n := range seen {
		assert.Equal(t, 1, n, "%s appears in exactly one group", name)
	}
	assert.Contains(t, seen, "vkCreateInstance")
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)

	_, err := runCommand(t, ConfigCmd, "init", "--path", path)
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	out, err := runCommand(t, ConfigCmd, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")

	require.NoError(t, os.WriteFile(path, []byte("[watch]\nmin_interval_ms = -1\n"), 0644))
	_, err = runCommand(t, ConfigCmd, "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch.min_interval_ms")
}

func TestConfigShowFromFile(t *testing.T) {
	cfg := writeProjectConfig(t)
	t.Cleanup(func() { configFormat = "yaml" })

	out, err := runCommand(t, ConfigCmd, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "dir: "+cfg.Output.Dir)

	_, err = runCommand(t, ConfigCmd, "show", "--format", "xml")
	require.Error(t, err)
}
