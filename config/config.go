// Package config loads kodiakgen configuration from layered TOML files and
// KODIAK_* environment variables.
package config

import (
	"time"

	"github.com/teranos/kodiakgen/loadergen"
	"github.com/teranos/kodiakgen/registry"
)

// Config represents the kodiakgen configuration
type Config struct {
	Registry RegistryConfig `mapstructure:"registry" toml:"registry" yaml:"registry" json:"registry"`
	Loader   LoaderConfig   `mapstructure:"loader" toml:"loader" yaml:"loader" json:"loader"`
	Output   OutputConfig   `mapstructure:"output" toml:"output" yaml:"output" json:"output"`
	Log      LogConfig      `mapstructure:"log" toml:"log" yaml:"log" json:"log"`
	Watch    WatchConfig    `mapstructure:"watch" toml:"watch" yaml:"watch" json:"watch"`
}

// RegistryConfig configures where the registry comes from and what is kept
type RegistryConfig struct {
	Source            string `mapstructure:"source" toml:"source" yaml:"source" json:"source"`                                                 // local path or go-getter URL
	API               string `mapstructure:"api" toml:"api" yaml:"api" json:"api"`                                                             // e.g. "vulkan", "vulkansc"
	VersionConstraint string `mapstructure:"version_constraint" toml:"version_constraint" yaml:"version_constraint" json:"version_constraint"` // e.g. "<= 1.3" (empty = all)
}

// LoaderConfig names the entry points and handle types used for classification
type LoaderConfig struct {
	BootstrapCommand  string `mapstructure:"bootstrap_command" toml:"bootstrap_command" yaml:"bootstrap_command" json:"bootstrap_command"`
	DeviceProcCommand string `mapstructure:"device_proc_command" toml:"device_proc_command" yaml:"device_proc_command" json:"device_proc_command"`
	InstanceHandle    string `mapstructure:"instance_handle" toml:"instance_handle" yaml:"instance_handle" json:"instance_handle"`
	DeviceHandle      string `mapstructure:"device_handle" toml:"device_handle" yaml:"device_handle" json:"device_handle"`
}

// OutputConfig configures the generated files
type OutputConfig struct {
	Dir           string `mapstructure:"dir" toml:"dir" yaml:"dir" json:"dir"`
	Header        string `mapstructure:"header" toml:"header" yaml:"header" json:"header"`
	Source        string `mapstructure:"source" toml:"source" yaml:"source" json:"source"`
	TemplateDir   string `mapstructure:"template_dir" toml:"template_dir" yaml:"template_dir" json:"template_dir"`         // empty = built-in templates
	FormatCommand string `mapstructure:"format_command" toml:"format_command" yaml:"format_command" json:"format_command"` // e.g. "clang-format -i" (empty = none)
}

// LogConfig configures console and JSON logging
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json" yaml:"json" json:"json"`
	Theme string `mapstructure:"theme" toml:"theme" yaml:"theme" json:"theme"` // Color theme: gruvbox, everforest
}

// WatchConfig configures watch mode
type WatchConfig struct {
	DebounceMS    int `mapstructure:"debounce_ms" toml:"debounce_ms" yaml:"debounce_ms" json:"debounce_ms"`                 // quiet period before regenerating
	MinIntervalMS int `mapstructure:"min_interval_ms" toml:"min_interval_ms" yaml:"min_interval_ms" json:"min_interval_ms"` // minimum time between regenerations (0 = unlimited)
}

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)

// ClassifierOptions returns the loader section as classifier options.
func (c *Config) ClassifierOptions() loadergen.Options {
	return loadergen.Options{
		BootstrapCommand:  c.Loader.BootstrapCommand,
		DeviceProcCommand: c.Loader.DeviceProcCommand,
		InstanceHandle:    c.Loader.InstanceHandle,
		DeviceHandle:      c.Loader.DeviceHandle,
	}
}

// DecodeOptions returns the registry section as decoder options.
// Call Validate first; an invalid constraint is reported here as well.
func (c *Config) DecodeOptions() (registry.DecodeOptions, error) {
	constraint, err := registry.ParseVersionConstraint(c.Registry.VersionConstraint)
	if err != nil {
		return registry.DecodeOptions{}, err
	}
	return registry.DecodeOptions{API: c.Registry.API, VersionConstraint: constraint}, nil
}

// Debounce returns the watch debounce period.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}

// MinInterval returns the minimum time between watch regenerations.
func (c *Config) MinInterval() time.Duration {
	return time.Duration(c.Watch.MinIntervalMS) * time.Millisecond
}
