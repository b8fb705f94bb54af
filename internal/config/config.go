// Package config loads grider settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Layout  Layout  `yaml:"layout"`
	Editing Editing `yaml:"editing"`
	Log     Log     `yaml:"log"`
}

type Layout struct {
	LeftGutter    int `yaml:"left_gutter"`
	StatusLines   int `yaml:"status_lines"`
	DefaultWidth  int `yaml:"default_width"`
	DefaultHeight int `yaml:"default_height"`
	CellPadding   int `yaml:"cell_padding"`
	InitialCols   int `yaml:"initial_cols"`
	InitialRows   int `yaml:"initial_rows"`
}

type Editing struct {
	EnterStartsEdit     bool `yaml:"enter_starts_edit"`
	PrintableStartsEdit bool `yaml:"printable_starts_edit"`
	MoveAfterEnter      bool `yaml:"move_after_enter"`
	SelectAllOnEdit     bool `yaml:"select_all_on_edit"`
}

type Log struct {
	// File is where logs go; empty disables logging.
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

func Default() Config {
	return Config{
		Layout: Layout{
			LeftGutter:    4,
			StatusLines:   2,
			DefaultWidth:  16,
			DefaultHeight: 1,
			CellPadding:   1,
			InitialCols:   8,
			InitialRows:   8,
		},
		Editing: Editing{
			EnterStartsEdit: true,
			MoveAfterEnter:  true,
			SelectAllOnEdit: true,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	l := c.Layout
	switch {
	case l.DefaultWidth < 4:
		return fmt.Errorf("default_width must be at least 4, got %d", l.DefaultWidth)
	case l.DefaultHeight < 1:
		return fmt.Errorf("default_height must be at least 1, got %d", l.DefaultHeight)
	case l.LeftGutter < 1:
		return fmt.Errorf("left_gutter must be positive, got %d", l.LeftGutter)
	case l.StatusLines < 1:
		return fmt.Errorf("status_lines must be positive, got %d", l.StatusLines)
	case l.CellPadding < 0:
		return fmt.Errorf("cell_padding must not be negative, got %d", l.CellPadding)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps debug/info/warn/error to slog levels. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
