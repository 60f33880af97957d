package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/pxflood/internal/config"
	"github.com/AnyUserName/pxflood/internal/resize"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pxflood.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPaintFlagsOverrideConfig(t *testing.T) {
	configPath = writeConfig(t, "dimension: {width: 8, height: 8}\nconnections: 2\n")
	t.Cleanup(func() { configPath = "pxflood.yaml" })

	if err := paintCmd.Flags().Parse([]string{"--host", "10.1.1.1", "-n", "6", "--offset-x", "40", "-p", "poster"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	cfg, err := loadConfig(paintOverrides(paintCmd))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Addr() != "10.1.1.1:1234" || cfg.Connections != 6 || cfg.Offset.X != 40 || cfg.Dimension.Width != 8 {
		t.Errorf("overrides: %+v", cfg)
	}

	prof, err := resolveProfile(cfg)
	if err != nil {
		t.Fatalf("resolveProfile: %v", err)
	}
	if prof.Name != "poster" || prof.Fit != resize.Crop {
		t.Errorf("profile: %+v", prof)
	}
}

func TestLoadSourceFractal(t *testing.T) {
	cfg := &config.Config{Host: "h", Style: config.StyleJulia}
	cfg.Dimension.Width, cfg.Dimension.Height = 12, 6
	if err := config.Validate(cfg); err != nil {
		t.Fatal(err)
	}
	frame, show, err := loadSource(cfg)
	if err != nil {
		t.Fatalf("loadSource: %v", err)
	}
	if show != nil || frame.Rect.Dx() != 12 || frame.Rect.Dy() != 6 {
		t.Errorf("frame %v, slideshow %v", frame.Rect, show)
	}
}

func TestValidateConfigImageDir(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Host: "h", Style: config.StyleImage}
	cfg.Dimension.Width, cfg.Dimension.Height = 4, 4
	cfg.Image.Path = dir
	if err := config.Validate(cfg); err != nil {
		t.Fatal(err)
	}
	errs, _ := validateConfig(cfg)
	if len(errs) != 1 {
		t.Errorf("empty image dir: got %v", errs)
	}
}
