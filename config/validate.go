package config

import (
	"github.com/teranos/kodiakgen/errors"
	"github.com/teranos/kodiakgen/patch"
	"github.com/teranos/kodiakgen/registry"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Registry.API == "" {
		return errors.New("registry.api cannot be empty")
	}
	if _, err := registry.ParseVersionConstraint(c.Registry.VersionConstraint); err != nil {
		return errors.Wrap(err, "registry.version_constraint")
	}

	for _, field := range []struct{ key, value string }{
		{"loader.bootstrap_command", c.Loader.BootstrapCommand},
		{"loader.device_proc_command", c.Loader.DeviceProcCommand},
		{"loader.instance_handle", c.Loader.InstanceHandle},
		{"loader.device_handle", c.Loader.DeviceHandle},
		{"output.dir", c.Output.Dir},
		{"output.header", c.Output.Header},
		{"output.source", c.Output.Source},
	} {
		if field.value == "" {
			return errors.Newf("%s cannot be empty", field.key)
		}
	}
	if c.Loader.BootstrapCommand == c.Loader.DeviceProcCommand {
		return errors.Newf("loader.bootstrap_command and loader.device_proc_command must differ, both are %q", c.Loader.BootstrapCommand)
	}
	if c.Output.Header == c.Output.Source {
		return errors.Newf("output.header and output.source must differ, both are %q", c.Output.Header)
	}

	if _, err := patch.ParseFormatCommand(c.Output.FormatCommand); err != nil {
		return errors.Wrap(err, "output.format_command")
	}

	switch c.Log.Theme {
	case "", "everforest", "gruvbox":
	default:
		return errors.WithHint(
			errors.Newf("log.theme %q is not supported", c.Log.Theme),
			"use everforest or gruvbox")
	}

	// 0 = regenerate immediately / no throttle, negative = invalid
	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}
	if c.Watch.MinIntervalMS < 0 {
		return errors.Newf("watch.min_interval_ms must be >= 0, got %d", c.Watch.MinIntervalMS)
	}

	return nil
}
