package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sample = `
host: canvas.example
port: 1337
dimension: {width: 320, height: 240}
offset: {x: 10, y: 20}
connections: 8
timeout: 3
style: julia
fractal:
  initial_value: {real: -0.8, imag: 0.156}
  iterations: 250
  active_threshold: 0.1
paint:
  profile: sweep
  serializer: column
  report: /tmp/pxflood.json
control:
  broker: tcp://localhost:1883
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pxflood.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != "canvas.example:1337" {
		t.Errorf("Addr: got %q", cfg.Addr())
	}
	if cfg.Dimension.Width != 320 || cfg.Offset.Y != 20 || cfg.Connections != 8 {
		t.Errorf("geometry: %+v", cfg)
	}
	if cfg.DialTimeout() != 3*time.Second {
		t.Errorf("DialTimeout: got %v", cfg.DialTimeout())
	}
	if cfg.Fractal.InitialValue.Value() != complex(-0.8, 0.156) || cfg.Fractal.Iterations != 250 {
		t.Errorf("fractal: %+v", cfg.Fractal)
	}
	if cfg.Paint.ReportInterval != DefaultReportInterval || cfg.Paint.Serializer != "column" {
		t.Errorf("paint: %+v", cfg.Paint)
	}
	if cfg.Control.Topic != DefaultTopic || cfg.Control.ClientID != DefaultClientID {
		t.Errorf("control defaults: %+v", cfg.Control)
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := Parse([]byte("host: localhost\ndimension: {width: 4, height: 4}\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Port != DefaultPort || cfg.Connections != DefaultConnections || cfg.Timeout != DefaultTimeout {
		t.Errorf("network defaults: %+v", cfg)
	}
	if cfg.Style != StyleMandelbrot || cfg.Fractal.Iterations != DefaultIterations {
		t.Errorf("style defaults: %+v", cfg)
	}
	if cfg.Paint.Profile != DefaultProfile {
		t.Errorf("profile default: %q", cfg.Paint.Profile)
	}
	if cfg.Control.Topic != "" {
		t.Errorf("control should stay disabled: %+v", cfg.Control)
	}
}

func TestValidateRejects(t *testing.T) {
	base := "host: localhost\ndimension: {width: 4, height: 4}\n"
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no host", "dimension: {width: 4, height: 4}\n", "host is required"},
		{"bad port", base + "port: 70000\n", "port"},
		{"no dimension", "host: localhost\n", "dimension"},
		{"negative connections", base + "connections: -2\n", "connections"},
		{"unknown style", base + "style: spiral\n", "unknown style"},
		{"image without path", base + "style: image\n", "image.path"},
		{"bad serializer", base + "paint: {serializer: diagonal}\n", "paint.serializer"},
		{"bad resize", base + "paint: {resize: squash}\n", "paint.resize"},
		{"bad filter", base + "paint: {filter: blurry}\n", "paint.filter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("got %v, want ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestUnknownKey(t *testing.T) {
	_, err := Parse([]byte("host: localhost\ndimension: {width: 4, height: 4}\ncolour: red\n"))
	if err == nil || errors.Is(err, ErrInvalid) {
		t.Fatalf("got %v, want a parse error", err)
	}
}

func TestImageStyleDefaults(t *testing.T) {
	cfg, err := Parse([]byte("host: h\ndimension: {width: 4, height: 4}\nstyle: image\nimage: {path: ./slides}\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.SlideInterval() != DefaultInterval*time.Second {
		t.Errorf("SlideInterval: got %v", cfg.SlideInterval())
	}
}

func TestReadThenOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("dimension: {width: 4, height: 4}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Load without host: got %v", err)
	}
	cfg, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	cfg.Host = "10.0.0.1"
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate after override: %v", err)
	}
	if cfg.Addr() != "10.0.0.1:1234" {
		t.Errorf("Addr: %q", cfg.Addr())
	}
}
