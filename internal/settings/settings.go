// Package settings loads, saves and shares the coca settings document.
package settings

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the settings file created in Dir.
const DefaultFileName = "settings.toml"

// Settings is the user-editable settings document.
type Settings struct {
	// Precision is the minimum change of an analog value, relative to the
	// last recorded value of that control, for a sample to be recorded.
	Precision float32 `toml:"precision" yaml:"precision" json:"precision"`

	// Logging is the log level: debug, info, warn or error.
	Logging string `toml:"logging" yaml:"logging" json:"logging"`
}

// Default returns the settings used when no usable document exists.
func Default() Settings {
	return Settings{Precision: 0.0, Logging: "info"}
}

// normalize clamps values a document may carry but the capture path cannot use.
func (s Settings) normalize() Settings {
	if s.Precision < 0 || math.IsNaN(float64(s.Precision)) {
		s.Precision = 0
	}
	s.Logging = strings.ToLower(strings.TrimSpace(s.Logging))
	if s.Logging == "" {
		s.Logging = Default().Logging
	}
	return s
}

// Dir returns the coca config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/coca if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "coca"), nil
}

// DefaultPath returns the settings file path inside Dir.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultFileName), nil
}

// Load reads the settings document at path. A missing file yields Default
// without an error. A file that cannot be parsed yields Default together
// with the parse error, so callers can warn and keep running.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read settings: %w", err)
	}

	s := Default()
	if err := decode(path, data, &s); err != nil {
		return Default(), fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	return s.normalize(), nil
}

// decode parses data by file extension, falling back to TOML then YAML for
// unknown extensions.
func decode(path string, data []byte, s *Settings) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.Decode(string(data), s)
		return err
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, s)
	case ".json":
		return json.Unmarshal(data, s)
	}

	if _, err := toml.Decode(string(data), s); err == nil {
		return nil
	}
	*s = Default()
	return yaml.Unmarshal(data, s)
}

// Save writes s to path in the format implied by its extension (TOML for
// unknown extensions), via a temp file and rename.
func Save(path string, s Settings) error {
	s = s.normalize()

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(s)
	case ".json":
		data, err = json.MarshalIndent(s, "", "  ")
	default:
		var sb strings.Builder
		err = toml.NewEncoder(&sb).Encode(s)
		data = []byte(sb.String())
	}
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmpPath := filepath.Join(dir, "."+filepath.Base(path)+".tmp")
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write temp settings file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename settings file: %w", err)
	}
	return nil
}
