package painter

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

var errStreamGone = errors.New("stream worker gone")

// stream owns one TCP connection and the mailbox its worker reads slabs from.
type stream struct {
	id    string
	conn  net.Conn
	slabs chan []byte // capacity 1, newest wins
	done  chan struct{}

	stats *streamCounters

	// digest of the last slab handed over; dispatcher goroutine only.
	digest    uint64
	hasDigest bool

	stopped  atomic.Bool
	stopOnce sync.Once
}

func newStream(conn net.Conn) *stream {
	return &stream{
		id:    uuid.NewString(),
		conn:  conn,
		slabs: make(chan []byte, 1),
		done:  make(chan struct{}),
		stats: &streamCounters{},
	}
}

func (s *stream) alive() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// stop closes the mailbox and the connection. An in-flight write fails
// immediately; the worker exits without reporting it.
func (s *stream) stop() {
	s.stopOnce.Do(func() {
		s.stopped.Store(true)
		close(s.slabs)
		s.conn.Close()
	})
}

// deliver puts slab into the mailbox, displacing a slab the worker has not
// picked up yet. It never blocks. It reports whether a stale slab was displaced.
func (s *stream) deliver(slab []byte) (bool, error) {
	if !s.alive() {
		return false, errStreamGone
	}
	replaced := false
	for {
		select {
		case s.slabs <- slab:
			return replaced, nil
		default:
		}
		select {
		case <-s.slabs:
			replaced = true
		default:
		}
	}
}

// run is the worker loop: write the slab end to end, then either adopt a
// newer slab or start the same one over.
func (s *stream) run(log *slog.Logger, c *counters) {
	defer close(s.done)
	err := s.write()
	c.workerExits.Add(1)
	switch {
	case err != nil:
		log.Warn("broken stream", "id", s.id, "error", err)
	default:
		log.Debug("stream stopped", "id", s.id)
	}
	s.conn.Close()
}

func (s *stream) write() error {
	slab, ok := <-s.slabs
	if !ok {
		return nil
	}
	s.stats.slabs.Add(1)

	for {
		if len(slab) == 0 {
			// Fully transparent share; nothing to send until the next slab.
			if slab, ok = <-s.slabs; !ok {
				return nil
			}
			s.stats.slabs.Add(1)
			continue
		}

		n, err := s.conn.Write(slab)
		s.stats.bytesWritten.Add(uint64(n))
		if err != nil {
			if s.stopped.Load() {
				return nil
			}
			return fmt.Errorf("write %s: %w", s.conn.RemoteAddr(), err)
		}
		s.stats.passes.Add(1)

		select {
		case next, ok := <-s.slabs:
			if !ok {
				return nil
			}
			slab = next
			s.stats.slabs.Add(1)
		default:
		}
	}
}
