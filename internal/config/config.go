package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/jinzhu/copier"
	"github.com/pelletier/go-toml/v2"

	"object-fitter/internal/fitter"
	"object-fitter/internal/history"
	"object-fitter/internal/logger"
)

// ConfigPath is the default settings file, relative to the process working directory.
const ConfigPath = "config/objectfitter.toml"

// Config holds the fit defaults offered by the terminal and the paths the tool uses.
// It is read at startup and never written back.
type Config struct {
	Axes   fitter.AxisSet  `toml:"axes"`
	Center bool            `toml:"center"`
	Scale  bool            `toml:"scale"`
	Span   fitter.SpanMode `toml:"span"`

	ScenePath     string `toml:"scene"`
	LogFile       string `toml:"log_file"`
	PrimitivesDir string `toml:"primitives_dir"`
	HistoryLimit  int    `toml:"history_limit"`
}

// Default returns the settings used when no file is present: all three axes,
// centering and scaling on, envelope spans.
func Default() Config {
	return Config{
		Axes:         fitter.AllAxes,
		Center:       true,
		Scale:        true,
		Span:         fitter.Envelope,
		LogFile:      logger.LogFilePath,
		HistoryLimit: history.DefaultLimit,
	}
}

// Load reads settings from path (ConfigPath when empty). Keys missing from the file keep
// their Default values. A missing file yields Default() and no error; an unreadable or
// invalid file yields Default() and the error.
func Load(path string) (Config, error) {
	if path == "" {
		path = ConfigPath
	}
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds command-line values that override the settings file when non-empty.
// Field names match Config.
type Flags struct {
	ScenePath     string
	LogFile       string
	PrimitivesDir string
}

// Resolve applies non-empty flags over c and fills paths and limits left empty.
func (c *Config) Resolve(flags Flags) error {
	if err := copier.CopyWithOption(c, &flags, copier.Option{IgnoreEmpty: true}); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.LogFile == "" {
		c.LogFile = logger.LogFilePath
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = history.DefaultLimit
	}
	if c.Axes.Empty() {
		c.Axes = fitter.AllAxes
	}
	return nil
}
