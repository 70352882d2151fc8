// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	UI       UIConfig       `toml:"ui"`
	Log      LogConfig      `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Difficulty    *int     `toml:"difficulty"`
	MaxDifficulty *int     `toml:"max-difficulty"`
	FocusWeak     *bool    `toml:"focus-weak"`
	WeakTop       *int     `toml:"weak-top"`
	WeakFactor    *float64 `toml:"weak-factor"`
}

// UIConfig maps display settings.
type UIConfig struct {
	Locale *string `toml:"locale"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Template is written by the config command when no file exists yet.
const Template = `# stamina configuration

[practice]
# difficulty = 1
# max-difficulty = 10
# focus-weak = false
# weak-top = 5
# weak-factor = 2.0

[ui]
# locale = "en"   # en or ru

[log]
# level = "INFO"  # DEBUG, INFO, WARN, ERROR
# file = ""       # "-" disables logging
`

// EnsureConfig writes Template to path unless a file already exists.
func EnsureConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat config: %w", err)
	}
	if err := ensureDir(path); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(Template), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config: %w", err)
	}
	return true, nil
}
