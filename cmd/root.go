package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	pprofile "github.com/pkg/profile"
	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	verbose    bool
	configPath string
	cpuProfile string

	profiler interface{ Stop() }
)

var rootCmd = &cobra.Command{
	Use:   "pxflood",
	Short: "Multi-stream pixelflut client",
	Long: `pxflood paints a fractal or an image onto a pixelflut canvas and keeps
repainting it as fast as the network allows, spread over many TCP streams.

Frames are resized to the target region, serialized in row, column or
random order, and split into one slab of PX commands per connection.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if profiler != nil {
			profiler.Stop()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "pxflood.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVar(&cpuProfile, "cpuprofile", "", "write a CPU profile into this directory")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"pxflood %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// setup installs the stderr logger and starts the profiler.
func setup(*cobra.Command, []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if cpuProfile != "" {
		if err := os.MkdirAll(cpuProfile, 0o755); err != nil {
			return fmt.Errorf("create profile dir: %w", err)
		}
		profiler = pprofile.Start(pprofile.CPUProfile, pprofile.ProfilePath(cpuProfile), pprofile.NoShutdownHook, pprofile.Quiet)
		slog.Debug("cpu profiling enabled", "dir", cpuProfile)
	}
	return nil
}
