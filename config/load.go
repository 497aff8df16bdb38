package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/kodiakgen/errors"
)

// FileName is the project configuration file searched for from the working
// directory upwards.
const FileName = "kodiak.toml"

// SystemConfigPath is the lowest-precedence configuration file.
const SystemConfigPath = "/etc/kodiak/kodiak.toml"

var globalConfig *Config
var viperInstance *viper.Viper

// Load reads the kodiakgen configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	globalConfig = &config
	return globalConfig, nil
}

// GetViper returns the Viper instance so CLI flags can be bound to it
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path on top of the
// defaults. Environment variables and other files are not consulted.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", configPath)
	}

	return &config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	ConfigSources = make(map[string]SourceInfo)
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	// KODIAK_OUTPUT_DIR overrides output.dir, and so on
	v.SetEnvPrefix("KODIAK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	// Manually merge configs in precedence order: system -> user -> project -> env vars
	mergeConfigFiles(v, configFiles())

	viperInstance = v
	return v
}

// UserConfigPath returns ~/.kodiak/kodiak.toml, or "" without a home directory.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kodiak", FileName)
}

// configFile is one candidate file in the merge cascade.
type configFile struct {
	path   string
	source ConfigSource
}

// configFiles lists the candidate configuration files, lowest precedence first.
func configFiles() []configFile {
	files := []configFile{{SystemConfigPath, SourceSystem}}
	if user := UserConfigPath(); user != "" {
		files = append(files, configFile{user, SourceUser})
	}
	if project := FindProjectConfig(); project != "" {
		files = append(files, configFile{project, SourceProject})
	}
	return files
}

// FindProjectConfig searches for kodiak.toml by walking up the directory tree
// from the working directory. Returns "" if none is found.
func FindProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findConfigFrom(dir)
}

func findConfigFrom(dir string) string {
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root, stop searching
			return ""
		}
		dir = parent
	}
}

// mergeConfigFiles merges existing configuration files in the given order;
// later files override earlier ones key by key. Unreadable files are skipped.
func mergeConfigFiles(v *viper.Viper, files []configFile) {
	for _, file := range files {
		if _, err := os.Stat(file.path); err != nil {
			continue
		}
		tempViper := viper.New()
		tempViper.SetConfigFile(file.path)
		tempViper.SetConfigType("toml")

		if err := tempViper.ReadInConfig(); err != nil {
			continue
		}
		settings := tempViper.AllSettings()
		if err := v.MergeConfigMap(settings); err != nil {
			continue
		}
		markSettingsFromSource(settings, "", file.source, file.path, ConfigSources)
	}
}

// LoadedFiles returns the configuration files that exist, in merge order.
func LoadedFiles() []string {
	var found []string
	for _, file := range configFiles() {
		if _, err := os.Stat(file.path); err == nil {
			found = append(found, file.path)
		}
	}
	return found
}
