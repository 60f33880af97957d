package painter

import "sync/atomic"

// counters are painter-wide and updated from any goroutine.
type counters struct {
	updatesSent     atomic.Uint64
	updatesDropped  atomic.Uint64
	connectFailures atomic.Uint64
	workerExits     atomic.Uint64
	slabsDelivered  atomic.Uint64
	slabsSkipped    atomic.Uint64
	slabsReplaced   atomic.Uint64
}

// streamCounters belong to one worker.
type streamCounters struct {
	bytesWritten atomic.Uint64
	passes       atomic.Uint64
	slabs        atomic.Uint64
}

// Stats is a point-in-time copy of the painter's counters.
type Stats struct {
	UpdatesSent     uint64
	UpdatesDropped  uint64
	ConnectFailures uint64
	WorkerExits     uint64
	SlabsDelivered  uint64
	// SlabsSkipped counts deliveries avoided because the worker already
	// held a byte-identical slab.
	SlabsSkipped uint64
	// SlabsReplaced counts slabs overwritten before their worker picked them up.
	SlabsReplaced uint64
	Streams       []StreamStats
}

// StreamStats describes one TCP stream.
type StreamStats struct {
	Index        int
	ID           string
	Alive        bool
	BytesWritten uint64
	// Passes is the number of complete writes of the current slab.
	Passes uint64
	Slabs  uint64
}

// BytesWritten sums all streams.
func (s Stats) BytesWritten() uint64 {
	var n uint64
	for _, st := range s.Streams {
		n += st.BytesWritten
	}
	return n
}

func (c *counters) snapshot() Stats {
	return Stats{
		UpdatesSent:     c.updatesSent.Load(),
		UpdatesDropped:  c.updatesDropped.Load(),
		ConnectFailures: c.connectFailures.Load(),
		WorkerExits:     c.workerExits.Load(),
		SlabsDelivered:  c.slabsDelivered.Load(),
		SlabsSkipped:    c.slabsSkipped.Load(),
		SlabsReplaced:   c.slabsReplaced.Load(),
	}
}
