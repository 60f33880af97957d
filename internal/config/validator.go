package config

import (
	"errors"
	"fmt"

	"github.com/AnyUserName/pxflood/internal/resize"
	"github.com/AnyUserName/pxflood/internal/serializer"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

const (
	DefaultPort           = 1234
	DefaultConnections    = 1
	DefaultTimeout        = 5
	DefaultStyle          = StyleMandelbrot
	DefaultIterations     = 100
	DefaultProfile        = "scatter"
	DefaultInterval       = 10
	DefaultReportInterval = 5
	DefaultTopic          = "pxflood/control"
	DefaultClientID       = "pxflood"
)

const (
	StyleMandelbrot = "mandelbrot"
	StyleJulia      = "julia"
	StyleImage      = "image"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate fills defaults and checks the configuration.
func Validate(cfg *Config) error {
	if cfg.Host == "" {
		return invalid("host is required")
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return invalid("port %d out of range", cfg.Port)
	}
	if !cfg.Dimension.Valid() {
		return invalid("dimension %s must be positive", cfg.Dimension)
	}
	if cfg.Offset.X < 0 || cfg.Offset.Y < 0 {
		return invalid("offset %s must not be negative", cfg.Offset)
	}

	switch {
	case cfg.Connections == 0:
		cfg.Connections = DefaultConnections
	case cfg.Connections < 0:
		return invalid("connections must be >= 0, got %d", cfg.Connections)
	}
	switch {
	case cfg.Timeout == 0:
		cfg.Timeout = DefaultTimeout
	case cfg.Timeout < 0:
		return invalid("timeout must be > 0, got %d", cfg.Timeout)
	}

	if cfg.Style == "" {
		cfg.Style = DefaultStyle
	}
	switch cfg.Style {
	case StyleMandelbrot, StyleJulia:
		if cfg.Fractal.Iterations == 0 {
			cfg.Fractal.Iterations = DefaultIterations
		}
		if cfg.Fractal.Iterations < 0 {
			return invalid("fractal.iterations must be > 0, got %d", cfg.Fractal.Iterations)
		}
	case StyleImage:
		if cfg.Image.Path == "" {
			return invalid("image.path is required for style image")
		}
		if cfg.Image.Interval == 0 {
			cfg.Image.Interval = DefaultInterval
		}
		if cfg.Image.Interval < 0 {
			return invalid("image.interval must be > 0, got %d", cfg.Image.Interval)
		}
	default:
		return invalid("unknown style %q (must be mandelbrot, julia or image)", cfg.Style)
	}

	if err := validatePaint(&cfg.Paint); err != nil {
		return err
	}

	if cfg.Control.Broker != "" {
		if cfg.Control.Topic == "" {
			cfg.Control.Topic = DefaultTopic
		}
		if cfg.Control.ClientID == "" {
			cfg.Control.ClientID = DefaultClientID
		}
	}
	return nil
}

func validatePaint(p *PaintConfig) error {
	if p.Profile == "" {
		p.Profile = DefaultProfile
	}
	if p.Serializer != "" {
		if _, err := serializer.Parse(p.Serializer); err != nil {
			return fmt.Errorf("%w: paint.serializer: %w", ErrInvalid, err)
		}
	}
	if p.Resize != "" {
		if _, err := resize.ParseFit(p.Resize); err != nil {
			return fmt.Errorf("%w: paint.resize: %w", ErrInvalid, err)
		}
	}
	if p.Filter != "" {
		if _, err := resize.ParseFilter(p.Filter); err != nil {
			return fmt.Errorf("%w: paint.filter: %w", ErrInvalid, err)
		}
	}
	if p.ReportInterval == 0 {
		p.ReportInterval = DefaultReportInterval
	}
	if p.ReportInterval < 0 {
		return invalid("paint.report_interval must be > 0, got %d", p.ReportInterval)
	}
	return nil
}
