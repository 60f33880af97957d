package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AnyUserName/pxflood/internal/painter"
	"github.com/AnyUserName/pxflood/internal/pixel"
	"github.com/AnyUserName/pxflood/internal/resize"
)

func sampleReport() *Report {
	set := painter.Settings{
		Dimension:   pixel.Dimension{Width: 64, Height: 32},
		Position:    pixel.Coordinate{X: 5, Y: 6},
		StreamCount: 2,
		Fit:         resize.Fill,
		Filter:      resize.Lanczos,
		Serializer:  "random",
	}
	st := painter.Stats{
		UpdatesSent:    3,
		UpdatesDropped: 1,
		SlabsSkipped:   2,
		Streams: []painter.StreamStats{
			{Index: 0, ID: "a", Alive: true, BytesWritten: 1000, Passes: 4, Slabs: 2},
			{Index: 1, ID: "b", Alive: false, BytesWritten: 500, Passes: 2, Slabs: 1},
		},
	}
	return New("127.0.0.1:1234", "scatter", time.Now().Add(-10*time.Second), set, st)
}

func TestReportRoundtrip(t *testing.T) {
	r := sampleReport()
	path := filepath.Join(t.TempDir(), "pxflood.report.json")
	if err := WriteJSON(r, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	r2, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if r2.Target != "127.0.0.1:1234" || r2.Profile != "scatter" {
		t.Errorf("header: %+v", r2)
	}
	if r2.Settings.Resize != "fill" || r2.Settings.Filter != "lanczos" || r2.Settings.OffsetY != 6 {
		t.Errorf("settings: %+v", r2.Settings)
	}
	if r2.Painter.UpdatesDropped != 1 || r2.Painter.SlabsSkipped != 2 {
		t.Errorf("painter: %+v", r2.Painter)
	}
	if len(r2.Streams) != 2 || r2.Streams[1].ID != "b" {
		t.Fatalf("streams: %+v", r2.Streams)
	}

	tot := r2.Totals
	if tot.Streams != 2 || tot.AliveStreams != 1 || tot.BytesWritten != 1500 || tot.Passes != 6 {
		t.Errorf("totals: %+v", tot)
	}
	if tot.UptimeS < 9 || tot.BytesPerS <= 0 {
		t.Errorf("rate: %+v", tot)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %d entries", len(entries))
	}
}

func TestReadRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.json")
	if err := os.WriteFile(path, []byte(`{"version": 9}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Error("expected version error")
	}
	if _, err := Read(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected read error")
	}
}

func TestRunWritesOnExit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.json")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	Run(ctx, path, time.Hour, nil, sampleReport)
	if _, err := Read(path); err != nil {
		t.Fatalf("final report: %v", err)
	}
}
