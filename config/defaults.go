package config

import (
	"github.com/spf13/viper"

	"github.com/teranos/kodiakgen/registry"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Registry defaults
	v.SetDefault("registry.source", registry.DefaultSource)
	v.SetDefault("registry.api", registry.DefaultAPI)
	v.SetDefault("registry.version_constraint", "") // all versions

	// Loader entry points and handles
	v.SetDefault("loader.bootstrap_command", "vkGetInstanceProcAddr")
	v.SetDefault("loader.device_proc_command", "vkGetDeviceProcAddr")
	v.SetDefault("loader.instance_handle", "VkInstance")
	v.SetDefault("loader.device_handle", "VkDevice")

	// Output defaults
	v.SetDefault("output.dir", "Generated")
	v.SetDefault("output.header", "LoaderVK.h")
	v.SetDefault("output.source", "LoaderVK.cpp")
	v.SetDefault("output.template_dir", "")   // built-in templates
	v.SetDefault("output.format_command", "") // no formatter

	// Logging defaults
	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", "everforest")

	// Watch defaults
	v.SetDefault("watch.debounce_ms", 300)      // editors write in bursts
	v.SetDefault("watch.min_interval_ms", 2000) // at most one regeneration every 2s
}

// Defaults returns the default configuration.
func Defaults() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// Defaults always unmarshal.
		panic(err)
	}
	return cfg
}
