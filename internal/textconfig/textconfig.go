// Package textconfig holds process-level engine configuration, loaded
// from TOML and optionally hot-reloaded.
package textconfig

import (
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the engine-wide defaults spec.md leaves to the host: wrap
// behavior, scroll margins, undo depth, and grapheme measurement mode.
type Config struct {
	DefaultWrapMode   string  `toml:"default_wrap_mode"`
	DefaultWrapWidth  int     `toml:"default_wrap_width"`
	ScrollMarginV     float64 `toml:"scroll_margin_vertical"`
	ScrollMarginH     float64 `toml:"scroll_margin_horizontal"`
	MaxUndoDepth      int     `toml:"max_undo_depth"`
	MeasurementMode   string  `toml:"measurement_mode"`
	TabStopWidth      int     `toml:"tab_stop_width"`
}

// Default returns the engine's built-in defaults, used when no config
// file is present.
func Default() Config {
	return Config{
		DefaultWrapMode:  "none",
		DefaultWrapWidth: 80,
		ScrollMarginV:    0.2,
		ScrollMarginH:    0.1,
		MaxUndoDepth:     1000,
		MeasurementMode:  "unicode",
		TabStopWidth:     1,
	}
}

// Load reads and parses a TOML config file at path, starting from
// Default() so a partial file only overrides the fields it sets.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
