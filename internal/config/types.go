// Package config loads exoplot settings from defaults, an optional
// exoplot.yaml, EXOPLOT_ environment variables and command-line flags.
package config

import "time"

// TAPConfig points at the archive's TAP endpoint.
type TAPConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

// FetchConfig holds settings for the fetch command.
type FetchConfig struct {
	Query   string `koanf:"query"`
	Cache   string `koanf:"cache"`
	Preview int    `koanf:"preview"`
}

// PlotConfig holds settings for the static orbit map.
type PlotConfig struct {
	Output           string   `koanf:"output"`
	MaxSemiMajorAxis float64  `koanf:"max_semi_major_axis"`
	Toggles          []string `koanf:"toggles"`
	Width            int      `koanf:"width"`
	Height           int      `koanf:"height"`
}

// ServeConfig holds settings for the dashboard.
type ServeConfig struct {
	Port  int `koanf:"port"`
	Limit int `koanf:"limit"`
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Config holds all exoplot configuration.
type Config struct {
	TAP     TAPConfig   `koanf:"tap"`
	Fetch   FetchConfig `koanf:"fetch"`
	Plot    PlotConfig  `koanf:"plot"`
	Serve   ServeConfig `koanf:"serve"`
	Journal string      `koanf:"journal"` // empty disables the fetch journal
	Log     LogConfig   `koanf:"log"`
}
