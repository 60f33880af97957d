package config

import (
	"bytes"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AnyUserName/pxflood/internal/pixel"
)

// Config is the complete pxflood configuration.
type Config struct {
	Host        string           `yaml:"host"`
	Port        int              `yaml:"port"`
	Dimension   pixel.Dimension  `yaml:"dimension"`
	Offset      pixel.Coordinate `yaml:"offset"`
	Connections int              `yaml:"connections"`
	Timeout     int              `yaml:"timeout"` // connect timeout in seconds
	Style       string           `yaml:"style"`   // mandelbrot, julia, image
	Fractal     FractalConfig    `yaml:"fractal"`
	Image       ImageConfig      `yaml:"image"`
	Paint       PaintConfig      `yaml:"paint"`
	Control     ControlConfig    `yaml:"control"`
}

// FractalConfig configures the mandelbrot and julia styles.
type FractalConfig struct {
	InitialValue    Complex `yaml:"initial_value"`
	Iterations      int     `yaml:"iterations"`
	ActiveThreshold float64 `yaml:"active_threshold"`
}

// Complex is a YAML-friendly complex number.
type Complex struct {
	Real float64 `yaml:"real"`
	Imag float64 `yaml:"imag"`
}

func (c Complex) Value() complex128 { return complex(c.Real, c.Imag) }

// ImageConfig configures the image style. A directory path turns into a
// slideshow advancing every Interval seconds.
type ImageConfig struct {
	Path     string `yaml:"path"`
	Interval int    `yaml:"interval"`
}

// PaintConfig selects how frames are painted. Serializer, Resize and Filter
// override the profile when set.
type PaintConfig struct {
	Profile        string `yaml:"profile"`
	Serializer     string `yaml:"serializer"`
	Resize         string `yaml:"resize"`
	Filter         string `yaml:"filter"`
	Report         string `yaml:"report"`          // JSON report path, empty disables
	ReportInterval int    `yaml:"report_interval"` // seconds
}

// ControlConfig enables the MQTT control plane when Broker is set.
type ControlConfig struct {
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
}

// Load reads, parses and validates a YAML configuration file. Unknown keys
// are rejected.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Read parses a configuration file without validating it, so callers can
// apply overrides first.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return decode(data)
}

// Parse decodes and validates YAML configuration.
func Parse(data []byte) (*Config, error) {
	cfg, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func decode(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Addr returns host:port.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DialTimeout returns the connect timeout.
func (c *Config) DialTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// SlideInterval returns the slideshow period.
func (c *Config) SlideInterval() time.Duration {
	return time.Duration(c.Image.Interval) * time.Second
}

// ReportEvery returns the report period.
func (c *Config) ReportEvery() time.Duration {
	return time.Duration(c.Paint.ReportInterval) * time.Second
}
