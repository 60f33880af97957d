package report

// Report is a point-in-time snapshot of a painting session.
type Report struct {
	Version     int      `json:"version"`
	GeneratedAt string   `json:"generated_at"`
	StartedAt   string   `json:"started_at"`
	Target      string   `json:"target"` // host:port
	Profile     string   `json:"profile"`
	Settings    Settings `json:"settings"`
	Painter     Painter  `json:"painter"`
	Streams     []Stream `json:"streams"`
	Totals      Totals   `json:"totals"`
}

// Settings mirrors the painter's drawing configuration.
type Settings struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	OffsetX     int    `json:"offset_x"`
	OffsetY     int    `json:"offset_y"`
	StreamCount int    `json:"stream_count"`
	Serializer  string `json:"serializer"`
	Resize      string `json:"resize"`
	Filter      string `json:"filter"`
}

// Painter holds the dispatcher-wide counters.
type Painter struct {
	UpdatesSent     uint64 `json:"updates_sent"`
	UpdatesDropped  uint64 `json:"updates_dropped"`
	ConnectFailures uint64 `json:"connect_failures"`
	WorkerExits     uint64 `json:"worker_exits"`
	SlabsDelivered  uint64 `json:"slabs_delivered"`
	SlabsSkipped    uint64 `json:"slabs_skipped"`  // identical digest, not re-sent
	SlabsReplaced   uint64 `json:"slabs_replaced"` // overwritten before pickup
}

// Stream is one TCP connection.
type Stream struct {
	Index        int    `json:"index"`
	ID           string `json:"id"`
	Alive        bool   `json:"alive"`
	BytesWritten uint64 `json:"bytes_written"`
	Passes       uint64 `json:"passes"` // complete writes of the slab
	Slabs        uint64 `json:"slabs"`  // slabs received
}

// Totals aggregates the streams.
type Totals struct {
	Streams      int     `json:"streams"`
	AliveStreams int     `json:"alive_streams"`
	BytesWritten uint64  `json:"bytes_written"`
	Passes       uint64  `json:"passes"`
	UptimeS      float64 `json:"uptime_s"`
	BytesPerS    float64 `json:"bytes_per_s"`
}

// SupportedReportVersion is the current schema version.
const SupportedReportVersion = 1
