package cmd

import (
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/AnyUserName/pxflood/internal/config"
	"github.com/AnyUserName/pxflood/internal/source"
)

// loadSource builds the first frame for cfg's style. For an image
// directory it also returns the slideshow that continues after it.
func loadSource(cfg *config.Config) (*image.NRGBA, *source.Slideshow, error) {
	switch cfg.Style {
	case config.StyleMandelbrot, config.StyleJulia:
		kind := source.Mandelbrot
		if cfg.Style == config.StyleJulia {
			kind = source.Julia
		}
		f := source.Fractal{
			Kind:       kind,
			Seed:       cfg.Fractal.InitialValue.Value(),
			Iterations: cfg.Fractal.Iterations,
			Threshold:  cfg.Fractal.ActiveThreshold,
		}
		frame, err := f.Render(cfg.Dimension)
		if err != nil {
			return nil, nil, err
		}
		slog.Debug("fractal rendered", "style", cfg.Style, "size", cfg.Dimension, "iterations", f.Iterations)
		return frame, nil, nil

	case config.StyleImage:
		info, err := os.Stat(cfg.Image.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("stat %s: %w", cfg.Image.Path, err)
		}
		if !info.IsDir() {
			frame, err := source.Load(cfg.Image.Path)
			return frame, nil, err
		}
		show, err := source.NewSlideshow(cfg.Image.Path)
		if err != nil {
			return nil, nil, err
		}
		// Skip over images that fail to decode, but give up after one round.
		for i := 0; i < show.Len(); i++ {
			frame, img, err := show.Next()
			if err == nil {
				slog.Debug("slideshow loaded", "dir", cfg.Image.Path, "images", show.Len(), "first", img.Key)
				return frame, show, nil
			}
			slog.Warn("slideshow image skipped", "image", img.Key, "error", err)
		}
		return nil, nil, fmt.Errorf("no decodable images in %s", cfg.Image.Path)
	}
	return nil, nil, fmt.Errorf("unknown style %q", cfg.Style)
}

// loadConfig reads the config file, lets override adjust it, then validates.
func loadConfig(override func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Read(configPath)
	if err != nil {
		return nil, err
	}
	if override != nil {
		override(cfg)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	slog.Debug("config loaded", "path", configPath, "target", cfg.Addr(), "style", cfg.Style)
	return cfg, nil
}
