// Package config holds the editor settings read from editor.yaml.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/duckling/editor"
	"github.com/milk9111/duckling/state"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "editor.yaml"

var ErrInvalid = errors.New("config: invalid")

type Window struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Map struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	GridSize float64 `yaml:"grid_size"`
}

type Config struct {
	Project      string `yaml:"project"`
	Map          string `yaml:"map"`
	Window       Window `yaml:"window"`
	NewMap       Map    `yaml:"new_map"`
	HistoryLimit int    `yaml:"history_limit"`
	LogLevel     string `yaml:"log_level"`
	Development  bool   `yaml:"development"`
	WatchAssets  bool   `yaml:"watch_assets"`
	SnapToGrid   bool   `yaml:"snap_to_grid"`
	Scripts      string `yaml:"scripts"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Project: ".",
		Window:  Window{Width: 1600, Height: 900},
		NewMap: Map{
			Width:    editor.DefaultWidth,
			Height:   editor.DefaultHeight,
			GridSize: editor.DefaultGridSize,
		},
		HistoryLimit: state.DefaultHistoryLimit,
		LogLevel:     "info",
		WatchAssets:  true,
		SnapToGrid:   true,
		Scripts:      "scripts",
	}
}

// Load reads path over the defaults. A missing file is not an error when
// path is the default file name.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && path == DefaultFile {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks values that would break the editor.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.NewMap.Width <= 0 || c.NewMap.Height <= 0:
		return fmt.Errorf("%w: map size %gx%g", ErrInvalid, c.NewMap.Width, c.NewMap.Height)
	case c.NewMap.GridSize <= 0:
		return fmt.Errorf("%w: grid size %g", ErrInvalid, c.NewMap.GridSize)
	case c.HistoryLimit < 0:
		return fmt.Errorf("%w: history limit %d", ErrInvalid, c.HistoryLimit)
	}
	return nil
}
