package cmd

import (
	"fmt"
	"time"

	"github.com/AnyUserName/pxflood/internal/hasher"
	"github.com/AnyUserName/pxflood/internal/preview"
	"github.com/AnyUserName/pxflood/internal/resize"
	"github.com/spf13/cobra"
)

var previewOut string

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Write the frame that paint would send to an image file",
	Long: `Runs the configured source through the resizer with the resolved
profile and writes the result. Transparent pixels are the ones paint
never sends; use PNG to see them.`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVarP(&previewOut, "out", "o", "preview.png", "output file (png, jpg, bmp, tif)")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, _ []string) error {
	start := time.Now()
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}
	frame, _, err := loadSource(cfg)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	prof, err := resolveProfile(cfg)
	if err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	_, filter, err := prof.Settings()
	if err != nil {
		return fmt.Errorf("profile %s: %w", prof.Name, err)
	}

	out, err := resize.Frame(frame, cfg.Dimension, prof.Fit, filter)
	if err != nil {
		return err
	}
	enc, err := preview.NewRegistry().Write(previewOut, out)
	if err != nil {
		return err
	}

	visible := 0
	for i := 3; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 0 {
			visible++
		}
	}
	fmt.Println()
	fmt.Printf("  Preview:     %s (%s)\n", previewOut, enc.Format())
	fmt.Printf("  Frame:       %s, %s fit, %s filter\n", cfg.Dimension, prof.Fit, filter)
	fmt.Printf("  Visible:     %d of %d pixels\n", visible, cfg.Dimension.Pixels())
	fmt.Printf("  Digest:      %s\n", hasher.FrameDigest(out.Pix, 16))
	fmt.Printf("  Time:        %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Println()
	return nil
}
