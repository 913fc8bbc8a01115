package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const AppName = "emview"

// Config holds the preview settings. FirstLines and LastLines are
// independent: neither is derived from the other.
type Config struct {
	FirstLines int  `yaml:"first_lines"`
	LastLines  int  `yaml:"last_lines"`
	MovieSize  int  `yaml:"movie_size"` // stacks wider than this play as a movie
	TabWidth   int  `yaml:"tab_width"`
	Color      bool `yaml:"color"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		FirstLines: 100,
		LastLines:  100,
		MovieSize:  1000,
		TabWidth:   4,
		Color:      true,
	}
}

// Path returns $XDG_CONFIG_HOME/emview/config.yaml.
func Path() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// Load reads the config at path. An empty path means the XDG location; a
// missing file yields the defaults. Keys absent from the file keep their
// default values.
func Load(path string) (Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the parent directory.
func (c Config) Save(path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate rejects negative line counts and a non-positive movie size.
func (c Config) Validate() error {
	switch {
	case c.FirstLines < 0:
		return fmt.Errorf("first_lines must not be negative, got %d", c.FirstLines)
	case c.LastLines < 0:
		return fmt.Errorf("last_lines must not be negative, got %d", c.LastLines)
	case c.MovieSize <= 0:
		return fmt.Errorf("movie_size must be positive, got %d", c.MovieSize)
	case c.TabWidth < 0:
		return fmt.Errorf("tab_width must not be negative, got %d", c.TabWidth)
	}
	return nil
}
