package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/exoplot/internal/fetcher"
)

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("tap-url", "", "")
	fs.Duration("timeout", 0, "")
	fs.Int("port", 8050, "")
	fs.StringSlice("toggle", nil, "")
	fs.Float64("max-au", 10, "")
	fs.Bool("png", false, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, fetcher.DefaultURL, cfg.TAP.URL)
	assert.Equal(t, time.Duration(0), cfg.TAP.Timeout)
	assert.Equal(t, "select * from ps", cfg.Fetch.Query)
	assert.Equal(t, "exoplanets.csv", cfg.Fetch.Cache)
	assert.Equal(t, 5, cfg.Fetch.Preview)
	assert.Equal(t, "exoplanets.html", cfg.Plot.Output)
	assert.Equal(t, 10.0, cfg.Plot.MaxSemiMajorAxis)
	assert.Equal(t, []string{"Transit", "Radial Velocity"}, cfg.Plot.Toggles)
	assert.Equal(t, 1000, cfg.Plot.Width)
	assert.Equal(t, 800, cfg.Plot.Height)
	assert.Equal(t, 8050, cfg.Serve.Port)
	assert.Equal(t, 1000, cfg.Serve.Limit)
	assert.Empty(t, cfg.Journal)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, DefaultConfigFile, `
tap:
  url: https://file.example/TAP/sync
  timeout: 30s
serve:
  port: 9000
  limit: 50
plot:
  toggles: [Imaging]
journal: runs.db
`)
	t.Setenv("EXOPLOT_SERVE__PORT", "9100")
	t.Setenv("EXOPLOT_PLOT__MAX_SEMI_MAJOR_AXIS", "5")

	cfg, err := Load("", testFlags(t, "--port", "9200", "--toggle", "Transit", "--toggle", "Microlensing"))
	require.NoError(t, err)

	assert.Equal(t, "https://file.example/TAP/sync", cfg.TAP.URL, "file overrides default")
	assert.Equal(t, 30*time.Second, cfg.TAP.Timeout)
	assert.Equal(t, 50, cfg.Serve.Limit)
	assert.Equal(t, "runs.db", cfg.Journal)
	assert.Equal(t, 5.0, cfg.Plot.MaxSemiMajorAxis, "env overrides default")
	assert.Equal(t, 9200, cfg.Serve.Port, "flag overrides env and file")
	assert.Equal(t, []string{"Transit", "Microlensing"}, cfg.Plot.Toggles)
}

func TestLoad_UnsetFlagsKeepLowerLayers(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("EXOPLOT_SERVE__PORT", "9100")

	cfg, err := Load("", testFlags(t, "--png"))
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Serve.Port)
	assert.Equal(t, 10.0, cfg.Plot.MaxSemiMajorAxis)
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeFile(t, t.TempDir(), "custom.yaml", "fetch:\n  cache: other.csv\n")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "other.csv", cfg.Fetch.Cache)

	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.ErrorContains(t, err, "read config file")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"zero limit", map[string]string{"EXOPLOT_SERVE__LIMIT": "0"}, "serve.limit"},
		{"port out of range", map[string]string{"EXOPLOT_SERVE__PORT": "70000"}, "serve.port"},
		{"negative axis", map[string]string{"EXOPLOT_PLOT__MAX_SEMI_MAJOR_AXIS": "-1"}, "plot.max_semi_major_axis"},
		{"negative preview", map[string]string{"EXOPLOT_FETCH__PREVIEW": "-2"}, "fetch.preview"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn", "json")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = NewLogger(&buf, "loud", "text")
	assert.ErrorContains(t, err, "parse log level")
	_, err = NewLogger(&buf, "info", "xml")
	assert.ErrorContains(t, err, "unknown log format")
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "debug", "text")
	require.NoError(t, err)

	GetLogger(WithLogger(context.Background(), logger)).Debug("from context")
	assert.Contains(t, buf.String(), "from context")
}
