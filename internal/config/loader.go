package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/pbaille/exoplot/internal/fetcher"
)

// DefaultConfigFile is read from the working directory when no --config is given
const DefaultConfigFile = "exoplot.yaml"

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: EXOPLOT_TAP__URL sets tap.url.
const EnvPrefix = "EXOPLOT_"

// flagKeys maps command-line flags to config keys
var flagKeys = map[string]string{
	"tap-url":    "tap.url",
	"timeout":    "tap.timeout",
	"query":      "fetch.query",
	"cache":      "fetch.cache",
	"preview":    "fetch.preview",
	"output":     "plot.output",
	"max-au":     "plot.max_semi_major_axis",
	"toggle":     "plot.toggles",
	"width":      "plot.width",
	"height":     "plot.height",
	"port":       "serve.port",
	"limit":      "serve.limit",
	"journal":    "journal",
	"log-level":  "log.level",
	"log-format": "log.format",
}

func defaults() map[string]any {
	return map[string]any{
		"tap.url":                  fetcher.DefaultURL,
		"tap.timeout":              "0s",
		"fetch.query":              "select * from ps",
		"fetch.cache":              "exoplanets.csv",
		"fetch.preview":            5,
		"plot.output":              "exoplanets.html",
		"plot.max_semi_major_axis": 10.0,
		"plot.toggles":             []string{"Transit", "Radial Velocity"},
		"plot.width":               1000,
		"plot.height":              800,
		"serve.port":               8050,
		"serve.limit":              1000,
		"journal":                  "",
		"log.level":                "info",
		"log.format":               "text",
	}
}

// Load builds the configuration. Precedence (highest to lowest): flags that
// were explicitly set > env vars > config file > defaults. An explicit
// cfgFile must exist; the default file is optional.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// 2. Config file
	path := cfgFile
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	// 3. Environment: EXOPLOT_PLOT__MAX_SEMI_MAJOR_AXIS -> plot.max_semi_major_axis
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no command could run with
func (c *Config) Validate() error {
	var errs []error
	if c.TAP.URL == "" {
		errs = append(errs, errors.New("tap.url is empty"))
	}
	if c.TAP.Timeout < 0 {
		errs = append(errs, fmt.Errorf("tap.timeout must not be negative, got %s", c.TAP.Timeout))
	}
	if c.Fetch.Preview < 0 {
		errs = append(errs, fmt.Errorf("fetch.preview must not be negative, got %d", c.Fetch.Preview))
	}
	if c.Plot.MaxSemiMajorAxis <= 0 {
		errs = append(errs, fmt.Errorf("plot.max_semi_major_axis must be positive, got %g", c.Plot.MaxSemiMajorAxis))
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		errs = append(errs, fmt.Errorf("serve.port out of range: %d", c.Serve.Port))
	}
	if c.Serve.Limit <= 0 {
		errs = append(errs, fmt.Errorf("serve.limit must be positive, got %d", c.Serve.Limit))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
