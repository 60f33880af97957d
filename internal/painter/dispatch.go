package painter

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"

	"github.com/AnyUserName/pxflood/internal/hasher"
)

// ErrUpdatesClosed stops the dispatcher when its update channel is closed.
var ErrUpdatesClosed = errors.New("update channel closed")

// Dialer opens the TCP streams. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// dispatcher turns updates into slabs and keeps one worker per stream.
// Only its own goroutine touches streams; mu guards the copy Stats reads.
type dispatcher struct {
	addr     string
	dialer   Dialer
	log      *slog.Logger
	counters *counters

	streams []*stream
	workers sync.WaitGroup

	mu       sync.Mutex
	snapshot []*stream
}

func newDispatcher(addr string, dialer Dialer, log *slog.Logger, c *counters) *dispatcher {
	return &dispatcher{addr: addr, dialer: dialer, log: log, counters: c}
}

// run applies updates in arrival order until ctx ends, the channel closes,
// or an update fails.
func (d *dispatcher) run(ctx context.Context, updates <-chan Update) error {
	defer d.shutdown()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u, ok := <-updates:
			if !ok {
				return ErrUpdatesClosed
			}
			if err := d.apply(ctx, u); err != nil {
				return err
			}
		}
	}
}

func (d *dispatcher) apply(ctx context.Context, u Update) error {
	d.prune()
	d.resize(ctx, u.StreamCount)
	d.publish()

	if u.StreamCount <= 0 || u.Frame == nil {
		return nil
	}
	slabs, err := formatSlabs(u.Frame, u.Serializer, u.StreamCount, u.Position)
	if err != nil {
		return err
	}

	for i, s := range d.streams {
		if i >= len(slabs) {
			break
		}
		sum := hasher.SlabDigest(slabs[i])
		if s.hasDigest && s.digest == sum {
			d.counters.slabsSkipped.Add(1)
			continue
		}
		replaced, err := s.deliver(slabs[i])
		if err != nil {
			d.log.Warn("broken stream, slab not delivered", "id", s.id, "stream", i, "error", err)
			continue
		}
		if replaced {
			d.counters.slabsReplaced.Add(1)
		}
		s.digest, s.hasDigest = sum, true
		d.counters.slabsDelivered.Add(1)
	}
	if missing := len(slabs) - len(d.streams); missing > 0 {
		d.log.Debug("slabs without a stream this cycle", "missing", missing)
	}
	return nil
}

// prune drops workers that have exited so their slots are reconnected.
func (d *dispatcher) prune() {
	kept := d.streams[:0]
	for _, s := range d.streams {
		if s.alive() {
			kept = append(kept, s)
			continue
		}
		s.stop()
	}
	clear(d.streams[len(kept):])
	d.streams = kept
}

// resize grows or shrinks the worker set to count. A failed connect leaves
// the slot empty until the next update.
func (d *dispatcher) resize(ctx context.Context, count int) {
	if count < 0 {
		count = 0
	}
	if len(d.streams) > count {
		for _, s := range d.streams[count:] {
			s.stop()
		}
		clear(d.streams[count:])
		d.streams = d.streams[:count]
		return
	}
	for missing := count - len(d.streams); missing > 0; missing-- {
		conn, err := d.dialer.DialContext(ctx, "tcp", d.addr)
		if err != nil {
			d.counters.connectFailures.Add(1)
			d.log.Warn("connection failed, retrying on next update", "addr", d.addr, "error", err)
			continue
		}
		s := newStream(conn)
		d.streams = append(d.streams, s)
		d.workers.Add(1)
		go func() {
			defer d.workers.Done()
			s.run(d.log, d.counters)
		}()
		d.log.Debug("stream connected", "id", s.id, "addr", d.addr, "local", conn.LocalAddr())
	}
}

func (d *dispatcher) publish() {
	d.mu.Lock()
	d.snapshot = append(d.snapshot[:0], d.streams...)
	d.mu.Unlock()
}

func (d *dispatcher) streamStats() []StreamStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]StreamStats, len(d.snapshot))
	for i, s := range d.snapshot {
		out[i] = StreamStats{
			Index:        i,
			ID:           s.id,
			Alive:        s.alive(),
			BytesWritten: s.stats.bytesWritten.Load(),
			Passes:       s.stats.passes.Load(),
			Slabs:        s.stats.slabs.Load(),
		}
	}
	return out
}

func (d *dispatcher) shutdown() {
	for _, s := range d.streams {
		s.stop()
	}
	d.streams = nil
	d.publish()
	d.workers.Wait()
}
