package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/AnyUserName/pxflood/internal/config"
	"github.com/AnyUserName/pxflood/internal/control"
	"github.com/AnyUserName/pxflood/internal/painter"
	"github.com/AnyUserName/pxflood/internal/profile"
	"github.com/AnyUserName/pxflood/internal/report"
	"github.com/spf13/cobra"
)

var (
	paintHost        string
	paintPort        int
	paintConnections int
	paintOffsetX     int
	paintOffsetY     int
	paintWidth       int
	paintHeight      int
	paintProfile     string
	paintSerializer  string
	paintReport      string
)

var paintCmd = &cobra.Command{
	Use:   "paint",
	Short: "Paint the configured source onto a pixelflut canvas",
	Long: `Renders the configured fractal or image, then keeps it painted at the
configured offset over the configured number of TCP connections until
interrupted.

Flags override the matching config file values.`,
	Args: cobra.NoArgs,
	RunE: runPaint,
}

func init() {
	f := paintCmd.Flags()
	f.StringVar(&paintHost, "host", "", "canvas host")
	f.IntVar(&paintPort, "port", 0, "canvas port")
	f.IntVarP(&paintConnections, "connections", "n", 0, "number of TCP streams")
	f.IntVar(&paintOffsetX, "offset-x", 0, "canvas x of the frame's left edge")
	f.IntVar(&paintOffsetY, "offset-y", 0, "canvas y of the frame's top edge")
	f.IntVar(&paintWidth, "width", 0, "painted width")
	f.IntVar(&paintHeight, "height", 0, "painted height")
	f.StringVarP(&paintProfile, "profile", "p", "", "painting profile ("+joinNames(profile.Names())+")")
	f.StringVarP(&paintSerializer, "serializer", "s", "", "pixel order, overrides the profile")
	f.StringVar(&paintReport, "report", "", "write a JSON runtime report to this path")
	rootCmd.AddCommand(paintCmd)
}

// paintOverrides copies every flag the user set into cfg.
func paintOverrides(cmd *cobra.Command) func(*config.Config) {
	return func(cfg *config.Config) {
		f := cmd.Flags()
		if f.Changed("host") {
			cfg.Host = paintHost
		}
		if f.Changed("port") {
			cfg.Port = paintPort
		}
		if f.Changed("connections") {
			cfg.Connections = paintConnections
		}
		if f.Changed("offset-x") {
			cfg.Offset.X = paintOffsetX
		}
		if f.Changed("offset-y") {
			cfg.Offset.Y = paintOffsetY
		}
		if f.Changed("width") {
			cfg.Dimension.Width = paintWidth
		}
		if f.Changed("height") {
			cfg.Dimension.Height = paintHeight
		}
		if f.Changed("profile") {
			cfg.Paint.Profile = paintProfile
		}
		if f.Changed("serializer") {
			cfg.Paint.Serializer = paintSerializer
		}
		if f.Changed("report") {
			cfg.Paint.Report = paintReport
		}
	}
}

// resolveProfile applies the config's overrides to its named profile.
func resolveProfile(cfg *config.Config) (profile.Profile, error) {
	if !profile.Known(cfg.Paint.Profile) {
		slog.Warn("unknown profile, using scatter", "profile", cfg.Paint.Profile)
	}
	return profile.Get(cfg.Paint.Profile).Override(cfg.Paint.Serializer, cfg.Paint.Resize, cfg.Paint.Filter)
}

func runPaint(cmd *cobra.Command, _ []string) error {
	start := time.Now()

	cfg, err := loadConfig(paintOverrides(cmd))
	if err != nil {
		return err
	}
	frame, show, err := loadSource(cfg)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	prof, err := resolveProfile(cfg)
	if err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	ser, filter, err := prof.Settings()
	if err != nil {
		return fmt.Errorf("profile %s: %w", prof.Name, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log := slog.Default()
	p := painter.Start(ctx, cfg.Addr(), frame,
		painter.WithLogger(log),
		painter.WithDialTimeout(cfg.DialTimeout()),
		painter.WithSerializer(ser),
	)
	err = p.Configure(painter.Layout{
		Dimension:   cfg.Dimension,
		Fit:         prof.Fit,
		Filter:      filter,
		Serializer:  ser,
		Position:    cfg.Offset,
		StreamCount: cfg.Connections,
	})
	if err != nil {
		p.Close()
		return err
	}
	slog.Info("painting",
		"target", cfg.Addr(), "style", cfg.Style, "profile", prof.Name,
		"size", cfg.Dimension, "offset", cfg.Offset, "streams", cfg.Connections)

	var wg sync.WaitGroup
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	if show != nil && show.Len() > 1 {
		run(func() { show.Run(ctx, cfg.SlideInterval(), log, p.UpdateFrame) })
	}

	snapshot := func() *report.Report {
		return report.New(cfg.Addr(), prof.Name, start, p.Settings(), p.Stats())
	}
	if cfg.Paint.Report != "" {
		run(func() { report.Run(ctx, cfg.Paint.Report, cfg.ReportEvery(), log, snapshot) })
	}

	if cfg.Control.Broker != "" {
		sub, h, err := control.Connect(ctx, control.Options{
			Broker:   cfg.Control.Broker,
			Topic:    cfg.Control.Topic,
			ClientID: cfg.Control.ClientID,
		}, p, log)
		if err != nil {
			slog.Warn("control plane unavailable", "broker", cfg.Control.Broker, "error", err)
		} else {
			defer sub.Close()
			run(func() { h.Run(ctx) })
		}
	}

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case <-p.Done():
	}
	cancel()
	wg.Wait()
	err = p.Close()

	printPaintReport(snapshot(), time.Since(start))
	if err != nil {
		return fmt.Errorf("painter: %w", err)
	}
	return nil
}

func printPaintReport(r *report.Report, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║              pxflood session ended               ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	s := r.Settings
	fmt.Printf("  Target:      %s\n", r.Target)
	fmt.Printf("  Profile:     %s (%s, %s, %s)\n", r.Profile, s.Serializer, s.Resize, s.Filter)
	fmt.Printf("  Frame:       %dx%d at %d,%d\n", s.Width, s.Height, s.OffsetX, s.OffsetY)
	fmt.Printf("  Streams:     %d\n", s.StreamCount)
	fmt.Printf("  Sent:        %s\n", formatBytes(int64(r.Totals.BytesWritten)))
	if secs := elapsed.Seconds(); secs > 0 {
		fmt.Printf("  Throughput:  %s/s\n", formatBytes(int64(float64(r.Totals.BytesWritten)/secs)))
	}
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	fmt.Println()
	printPainterCounters(r)
}
