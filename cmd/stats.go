package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AnyUserName/pxflood/internal/report"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <report.json>",
	Short: "Display a runtime report written by paint --report",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	r, err := report.Read(args[0])
	if err != nil {
		return err
	}
	printStats(r)
	return nil
}

func printStats(r *report.Report) {
	fmt.Println()
	fmt.Printf("  Report version:   %d\n", r.Version)
	fmt.Printf("  Generated:        %s\n", r.GeneratedAt)
	fmt.Printf("  Started:          %s\n", r.StartedAt)
	fmt.Printf("  Target:           %s\n", r.Target)
	fmt.Printf("  Profile:          %s\n", r.Profile)
	fmt.Println()

	s := r.Settings
	fmt.Printf("  Frame:            %dx%d at %d,%d\n", s.Width, s.Height, s.OffsetX, s.OffsetY)
	fmt.Printf("  Order:            %s\n", s.Serializer)
	fmt.Printf("  Resize:           %s / %s\n", s.Resize, s.Filter)
	fmt.Println()

	t := r.Totals
	fmt.Printf("  Streams:          %d alive of %d (target %d)\n", t.AliveStreams, t.Streams, s.StreamCount)
	fmt.Printf("  Sent:             %s in %d passes\n", formatBytes(int64(t.BytesWritten)), t.Passes)
	fmt.Printf("  Uptime:           %.0fs\n", t.UptimeS)
	fmt.Printf("  Throughput:       %s/s\n", formatBytes(int64(t.BytesPerS)))
	fmt.Println()
	printPainterCounters(r)

	// Per-stream breakdown, busiest first.
	streams := append([]report.Stream(nil), r.Streams...)
	sort.Slice(streams, func(i, j int) bool {
		return streams[i].BytesWritten > streams[j].BytesWritten
	})
	if len(streams) > 0 {
		fmt.Println("  Stream breakdown:")
		for _, st := range streams {
			state := "alive"
			if !st.Alive {
				state = "gone"
			}
			fmt.Printf("    #%-3d %-8s %-5s %10s  %6d passes  %4d slabs\n",
				st.Index, shortID(st.ID), state, formatBytes(int64(st.BytesWritten)), st.Passes, st.Slabs)
		}
		fmt.Println()
	}

	// Warnings.
	var warnings []string
	if t.AliveStreams < s.StreamCount {
		warnings = append(warnings, fmt.Sprintf("%d of %d streams are not connected", s.StreamCount-t.AliveStreams, s.StreamCount))
	}
	if r.Painter.ConnectFailures > 0 {
		warnings = append(warnings, fmt.Sprintf("%d connection attempts failed", r.Painter.ConnectFailures))
	}
	if r.Painter.UpdatesDropped > 0 {
		warnings = append(warnings, fmt.Sprintf("%d updates dropped while the dispatcher was busy", r.Painter.UpdatesDropped))
	}
	if len(warnings) > 0 {
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
		fmt.Println()
	}
}

func printPainterCounters(r *report.Report) {
	c := r.Painter
	fmt.Printf("  Updates:          %d sent, %d dropped\n", c.UpdatesSent, c.UpdatesDropped)
	fmt.Printf("  Slabs:            %d delivered, %d unchanged, %d replaced\n", c.SlabsDelivered, c.SlabsSkipped, c.SlabsReplaced)
	fmt.Printf("  Connections:      %d failed, %d workers exited\n", c.ConnectFailures, c.WorkerExits)
	fmt.Println()
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
