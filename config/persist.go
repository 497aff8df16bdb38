package config

import (
	"fmt"
	"os"
	"path/filepath"

	burnt "github.com/BurntSushi/toml"
	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/kodiakgen/errors"
)

// createBackup creates rotating backups (.back1, .back2, .back3) before
// overwriting a config file
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil // No file to backup
	}

	// Rotate backups: .back3 -> delete, .back2 -> .back3, .back1 -> .back2, current -> .back1
	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to delete old backup %s", back3)
	}
	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}

// MarshalTOML renders cfg as a kodiak.toml document.
func MarshalTOML(cfg *Config) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal config")
	}
	header := []byte("# kodiakgen configuration\n# Precedence: /etc/kodiak/kodiak.toml < ~/.kodiak/kodiak.toml < ./kodiak.toml < KODIAK_* env\n\n")
	return append(header, data...), nil
}

// WriteFile writes cfg to configPath, rotating backups of an existing file
// unless overwrite is false, in which case an existing file is an error.
func WriteFile(configPath string, cfg *Config, overwrite bool) error {
	if _, err := os.Stat(configPath); err == nil {
		if !overwrite {
			return errors.WithHint(
				errors.Newf("%s already exists", configPath),
				"pass --force to overwrite it (the old file is kept as .back1)")
		}
		if err := createBackup(configPath); err != nil {
			return errors.Wrap(err, "failed to create backup")
		}
	}

	data, err := MarshalTOML(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", configPath)
	}
	if err := os.WriteFile(configPath, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", configPath)
	}
	return nil
}

// CheckFile strictly decodes a config file. It returns the keys the file
// sets that kodiakgen does not know, and an error if the file cannot be
// parsed or fails validation.
func CheckFile(configPath string) ([]string, error) {
	var raw Config
	md, err := burnt.DecodeFile(configPath, &raw)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", configPath)
	}

	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		return unknown, err
	}
	if err := cfg.Validate(); err != nil {
		return unknown, errors.Wrapf(err, "invalid config %s", configPath)
	}
	return unknown, nil
}

// Describe returns a one-line summary of where configuration came from.
func Describe() string {
	files := LoadedFiles()
	if len(files) == 0 {
		return "defaults (no config files found)"
	}
	return fmt.Sprintf("defaults + %v", files)
}
