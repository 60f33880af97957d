package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/AnyUserName/pxflood/internal/painter"
)

// New builds a report from the painter's settings and counters.
func New(target, profile string, started time.Time, set painter.Settings, st painter.Stats) *Report {
	r := &Report{
		Version:     SupportedReportVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		StartedAt:   started.UTC().Format(time.RFC3339),
		Target:      target,
		Profile:     profile,
		Settings: Settings{
			Width:       set.Dimension.Width,
			Height:      set.Dimension.Height,
			OffsetX:     set.Position.X,
			OffsetY:     set.Position.Y,
			StreamCount: set.StreamCount,
			Serializer:  set.Serializer,
			Resize:      set.Fit.String(),
			Filter:      set.Filter.Name,
		},
		Painter: Painter{
			UpdatesSent:     st.UpdatesSent,
			UpdatesDropped:  st.UpdatesDropped,
			ConnectFailures: st.ConnectFailures,
			WorkerExits:     st.WorkerExits,
			SlabsDelivered:  st.SlabsDelivered,
			SlabsSkipped:    st.SlabsSkipped,
			SlabsReplaced:   st.SlabsReplaced,
		},
		Streams: make([]Stream, 0, len(st.Streams)),
	}
	for _, s := range st.Streams {
		r.Streams = append(r.Streams, Stream{
			Index:        s.Index,
			ID:           s.ID,
			Alive:        s.Alive,
			BytesWritten: s.BytesWritten,
			Passes:       s.Passes,
			Slabs:        s.Slabs,
		})
	}
	r.ComputeTotals(time.Since(started))
	return r
}

// ComputeTotals recalculates aggregate statistics from streams.
func (r *Report) ComputeTotals(uptime time.Duration) {
	var t Totals
	t.Streams = len(r.Streams)
	for _, s := range r.Streams {
		if s.Alive {
			t.AliveStreams++
		}
		t.BytesWritten += s.BytesWritten
		t.Passes += s.Passes
	}
	t.UptimeS = uptime.Seconds()
	if t.UptimeS > 0 {
		t.BytesPerS = float64(t.BytesWritten) / t.UptimeS
	}
	r.Totals = t
}

// WriteJSON writes the report next to path and renames it into place, so
// readers never see a partial file.
func WriteJSON(r *Report, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Read parses a report file.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	if r.Version != SupportedReportVersion {
		return nil, fmt.Errorf("report version %d not supported", r.Version)
	}
	return &r, nil
}

// Run writes snapshot() to path every interval and once more when ctx ends.
func Run(ctx context.Context, path string, interval time.Duration, log *slog.Logger, snapshot func() *Report) {
	if log == nil {
		log = slog.Default()
	}
	write := func() {
		if err := WriteJSON(snapshot(), path); err != nil {
			log.Warn("report not written", "path", path, "error", err)
		}
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			write()
			return
		case <-t.C:
			write()
		}
	}
}
