package cmd

import (
	"fmt"
	"os"

	"github.com/AnyUserName/pxflood/internal/config"
	"github.com/AnyUserName/pxflood/internal/profile"
	"github.com/AnyUserName/pxflood/internal/source"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file and check the image source exists",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("  ✗ %v\n", err)
		return fmt.Errorf("validation failed")
	}

	errors, notes := validateConfig(cfg)
	if len(errors) == 0 {
		fmt.Printf("  ✓ %s is valid\n", configPath)
		fmt.Printf("  ✓ %s → %s, %s at %s, %d streams\n", cfg.Style, cfg.Addr(), cfg.Dimension, cfg.Offset, cfg.Connections)
		for _, n := range notes {
			fmt.Printf("    • %s\n", n)
		}
		return nil
	}

	fmt.Printf("  ✗ Config has %d error(s):\n", len(errors))
	for _, e := range errors {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errors))
}

// validateConfig checks what Validate cannot: referenced files and the
// resolved profile.
func validateConfig(cfg *config.Config) (errs, notes []string) {
	prof, err := resolveProfile(cfg)
	if err != nil {
		errs = append(errs, fmt.Sprintf("profile %q: %v", cfg.Paint.Profile, err))
	} else if _, _, err := prof.Settings(); err != nil {
		errs = append(errs, fmt.Sprintf("profile %q: %v", prof.Name, err))
	} else {
		if !profile.Known(cfg.Paint.Profile) {
			notes = append(notes, fmt.Sprintf("unknown profile %q falls back to scatter", cfg.Paint.Profile))
		}
		notes = append(notes, fmt.Sprintf("profile %s: %s order, %s, %s", prof.Name, prof.Serializer, prof.Fit, prof.Filter))
	}

	if cfg.Style == config.StyleImage {
		info, err := os.Stat(cfg.Image.Path)
		switch {
		case err != nil:
			errs = append(errs, fmt.Sprintf("image.path: %v", err))
		case info.IsDir():
			images, err := source.Scan(cfg.Image.Path)
			if err != nil {
				errs = append(errs, fmt.Sprintf("image.path: %v", err))
			} else if len(images) == 0 {
				errs = append(errs, fmt.Sprintf("image.path: no images in %s", cfg.Image.Path))
			} else {
				notes = append(notes, fmt.Sprintf("slideshow of %d images every %s", len(images), cfg.SlideInterval()))
			}
		case !source.IsImage(cfg.Image.Path):
			errs = append(errs, fmt.Sprintf("image.path: %s is not a recognized image", cfg.Image.Path))
		}
	}

	if cfg.Control.Broker != "" {
		notes = append(notes, fmt.Sprintf("control plane on %s topic %s", cfg.Control.Broker, cfg.Control.Topic))
	}
	if cfg.Paint.Report != "" {
		notes = append(notes, fmt.Sprintf("report written to %s every %s", cfg.Paint.Report, cfg.ReportEvery()))
	}
	return errs, notes
}
