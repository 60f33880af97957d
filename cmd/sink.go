package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AnyUserName/pxflood/internal/canvas"
	"github.com/AnyUserName/pxflood/internal/pixel"
	"github.com/AnyUserName/pxflood/internal/preview"
	"github.com/spf13/cobra"
)

var (
	sinkListen   string
	sinkWidth    int
	sinkHeight   int
	sinkSnapshot string
	sinkEvery    time.Duration
)

var sinkCmd = &cobra.Command{
	Use:   "sink",
	Short: "Run a local pixelflut canvas to paint against",
	Long: `Accepts PX commands on any number of TCP connections and applies them to
an in-memory canvas. Translucent colors are blended over the current pixel.
SIZE and "PX x y" queries are answered.

The canvas is written to --snapshot on exit and every --every if set.`,
	Args: cobra.NoArgs,
	RunE: runSink,
}

func init() {
	f := sinkCmd.Flags()
	f.StringVarP(&sinkListen, "listen", "l", ":1234", "listen address")
	f.IntVar(&sinkWidth, "width", 1024, "canvas width")
	f.IntVar(&sinkHeight, "height", 768, "canvas height")
	f.StringVarP(&sinkSnapshot, "snapshot", "o", "", "write the canvas to this image file")
	f.DurationVar(&sinkEvery, "every", 0, "snapshot period (0 = only on exit)")
	rootCmd.AddCommand(sinkCmd)
}

func runSink(_ *cobra.Command, _ []string) error {
	dim := pixel.Dimension{Width: sinkWidth, Height: sinkHeight}
	if !dim.Valid() {
		return fmt.Errorf("canvas size %s must be positive", dim)
	}
	registry := preview.NewRegistry()
	if sinkSnapshot != "" {
		if _, err := registry.ForPath(sinkSnapshot); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := canvas.New(dim)
	srv, err := canvas.Listen(sinkListen, c, slog.Default())
	if err != nil {
		return err
	}
	slog.Info("sink listening", "addr", srv.Addr(), "size", dim)

	snapshot := func() {
		if sinkSnapshot == "" {
			return
		}
		if _, err := registry.Write(sinkSnapshot, c.Snapshot()); err != nil {
			slog.Warn("snapshot not written", "path", sinkSnapshot, "error", err)
			return
		}
		slog.Debug("snapshot written", "path", sinkSnapshot)
	}
	if sinkEvery > 0 {
		go func() {
			t := time.NewTicker(sinkEvery)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-t.C:
					snapshot()
				}
			}
		}()
	}

	start := time.Now()
	if err := srv.Serve(ctx); err != nil {
		return fmt.Errorf("sink: %w", err)
	}
	srv.Close()
	snapshot()

	n := c.Counters()
	fmt.Println()
	fmt.Printf("  Connections: %d\n", srv.Accepted())
	fmt.Printf("  Pixels:      %d applied, %d outside, %d rejected\n", n.Written, n.Outside, n.Rejected)
	if secs := time.Since(start).Seconds(); secs > 0 {
		fmt.Printf("  Rate:        %.0f px/s\n", float64(n.Written)/secs)
	}
	if sinkSnapshot != "" {
		fmt.Printf("  Snapshot:    %s\n", sinkSnapshot)
	}
	fmt.Println()
	return nil
}
