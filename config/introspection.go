package config

import (
	"os"
	"sort"
	"strings"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/kodiak/kodiak.toml
	SourceUser        ConfigSource = "user"        // ~/.kodiak/kodiak.toml
	SourceProject     ConfigSource = "project"     // nearest kodiak.toml
	SourceEnvironment ConfigSource = "environment" // KODIAK_* env vars
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string // File path or environment variable name
}

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key" yaml:"key"`
	Value      interface{}  `json:"value" yaml:"value"`
	Source     ConfigSource `json:"source" yaml:"source"`
	SourcePath string       `json:"source_path,omitempty" yaml:"source_path,omitempty"`
}

// ConfigSources records, per dotted key, the file that last set it during
// mergeConfigFiles.
var ConfigSources = make(map[string]SourceInfo)

// markSettingsFromSource records source for every leaf key in settings
func markSettingsFromSource(settings map[string]interface{}, prefix string, source ConfigSource, path string, sourceMap map[string]SourceInfo) {
	for key, value := range settings {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			markSettingsFromSource(nested, fullKey, source, path, sourceMap)
			continue
		}
		sourceMap[fullKey] = SourceInfo{Source: source, Path: path}
	}
}

// EnvVarName returns the environment variable that overrides a dotted key.
func EnvVarName(key string) string {
	return "KODIAK_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Introspect returns every effective setting with the source it came from,
// sorted by key.
func Introspect() ([]SettingInfo, error) {
	if _, err := Load(); err != nil {
		return nil, err
	}
	return flattenSettings(GetViper().AllSettings(), "", ConfigSources), nil
}

func flattenSettings(settings map[string]interface{}, prefix string, sourceMap map[string]SourceInfo) []SettingInfo {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []SettingInfo
	for _, key := range keys {
		value := settings[key]
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			out = append(out, flattenSettings(nested, fullKey, sourceMap)...)
			continue
		}

		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := sourceMap[fullKey]; ok {
			info = si
		}
		if env := EnvVarName(fullKey); os.Getenv(env) != "" {
			info = SourceInfo{Source: SourceEnvironment, Path: env}
		}

		out = append(out, SettingInfo{
			Key:        fullKey,
			Value:      value,
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
	return out
}
