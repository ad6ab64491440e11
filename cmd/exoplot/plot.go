package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pbaille/exoplot/internal/catalog"
	"github.com/pbaille/exoplot/internal/config"
	"github.com/pbaille/exoplot/internal/figure"
	"github.com/pbaille/exoplot/internal/skymap"
	"github.com/spf13/cobra"
)

func plotCmd() *cobra.Command {
	var pngPath string
	var watch bool

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render the cached catalog as an interactive orbit map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := config.GetLogger(ctx)
			out := cmd.OutOrStdout()

			if err := renderPlot(out, logger, pngPath); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			fmt.Fprintf(out, "Watching %s for changes (Ctrl-C to stop)\n", cfg.Fetch.Cache)
			return watchCache(ctx, logger, cfg.Fetch.Cache, func() {
				if err := renderPlot(out, logger, pngPath); err != nil {
					logger.Error("re-render failed", "error", err)
				}
			})
		},
	}

	cmd.Flags().String("output", "exoplanets.html", "HTML file to write")
	cmd.Flags().Float64("max-au", 10, "keep orbits with a semi-major axis below this many AU")
	cmd.Flags().StringSlice("toggle", []string{"Transit", "Radial Velocity"}, "discovery methods that get their own menu button")
	cmd.Flags().Int("width", 1000, "figure width in pixels")
	cmd.Flags().Int("height", 800, "figure height in pixels")
	cmd.Flags().StringVar(&pngPath, "png", "", "also write a PNG snapshot to this path")
	cmd.Flags().BoolVar(&watch, "watch", false, "re-render whenever the cache file changes")

	return cmd
}

func renderPlot(out io.Writer, logger *slog.Logger, pngPath string) error {
	raw, err := catalog.ReadFile(cfg.Fetch.Cache)
	if err != nil {
		return err
	}
	t, err := catalog.Decode(raw, skymap.Required...)
	if err != nil {
		return fmt.Errorf("decode %s: %w", cfg.Fetch.Cache, err)
	}

	opts := skymap.Options{
		MaxSemiMajorAxis: cfg.Plot.MaxSemiMajorAxis,
		Toggles:          cfg.Plot.Toggles,
		Width:            cfg.Plot.Width,
		Height:           cfg.Plot.Height,
	}
	prepared := skymap.Prepare(t, opts.MaxSemiMajorAxis)
	logger.Debug("catalog prepared", "rows", t.Len(), "kept", prepared.Len())
	fig := skymap.Build(prepared, opts, logger)

	if err := writeFile(cfg.Plot.Output, func(w io.Writer) error {
		return figure.WriteHTML(w, fig, "Exoplanet orbit map")
	}); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s (%d planets)\n", cfg.Plot.Output, fig.Points())

	if pngPath != "" {
		if err := writeFile(pngPath, func(w io.Writer) error {
			return figure.RenderPNG(w, fig)
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", pngPath)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// watchCache calls onChange after writes to path settle. The parent
// directory is watched so that replaced files are still seen.
func watchCache(ctx context.Context, logger *slog.Logger, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	var mu sync.Mutex
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if name, _ := filepath.Abs(event.Name); name != abs {
				continue
			}

			// Debounce
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(200*time.Millisecond, func() {
				mu.Lock()
				defer mu.Unlock()
				logger.Debug("cache changed, re-rendering", "file", event.Name)
				onChange()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}
