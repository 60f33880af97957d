// Package painter keeps a frame painted onto a pixelflut canvas.
//
// A Painter owns the drawing settings (frame, size, fit, filter, position,
// serializer, stream count). Every change re-renders the frame and queues an
// Update for the dispatcher goroutine, which slices the serialized PX
// commands into one slab per TCP stream. Each stream worker sends its slab
// in a loop until a newer one arrives.
//
// Queueing never blocks: the update queue holds two entries and an update
// that does not fit is dropped.
package painter

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/AnyUserName/pxflood/internal/hasher"
	"github.com/AnyUserName/pxflood/internal/pixel"
	"github.com/AnyUserName/pxflood/internal/resize"
	"github.com/AnyUserName/pxflood/internal/serializer"
)

// updateQueue is the dispatcher channel capacity.
const updateQueue = 2

var (
	ErrInvalidStreamCount = errors.New("stream count must not be negative")
	ErrInvalidPosition    = errors.New("position must not be negative")
)

// Update is one complete drawing configuration.
type Update struct {
	Frame       *image.NRGBA
	Serializer  serializer.Serializer
	StreamCount int
	Position    pixel.Coordinate
}

type options struct {
	log        *slog.Logger
	dialer     Dialer
	serializer serializer.Serializer
}

// Option configures Start.
type Option func(*options)

// WithLogger sets the logger for the painter and its workers.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithDialer replaces the TCP dialer.
func WithDialer(d Dialer) Option {
	return func(o *options) { o.dialer = d }
}

// WithDialTimeout bounds each connection attempt.
func WithDialTimeout(d time.Duration) Option {
	return func(o *options) { o.dialer = &net.Dialer{Timeout: d} }
}

// WithSerializer sets the initial serializer (random by default).
func WithSerializer(s serializer.Serializer) Option {
	return func(o *options) { o.serializer = s }
}

// Painter is safe for concurrent use.
type Painter struct {
	mu          sync.Mutex
	resizer     *resize.Resizer
	serializer  serializer.Serializer
	streamCount int
	position    pixel.Coordinate

	updates    chan Update
	dispatcher *dispatcher
	counters   *counters
	log        *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Start launches the dispatcher for addr ("host:port"). Nothing is sent
// until the first update with a positive stream count.
func Start(ctx context.Context, addr string, frame image.Image, opts ...Option) *Painter {
	o := options{
		log:    slog.Default(),
		dialer: &net.Dialer{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.serializer == nil {
		o.serializer = serializer.NewRandom()
	}

	ctx, cancel := context.WithCancel(ctx)
	c := &counters{}
	p := &Painter{
		resizer:    resize.New(frame),
		serializer: o.serializer,
		updates:    make(chan Update, updateQueue),
		dispatcher: newDispatcher(addr, o.dialer, o.log, c),
		counters:   c,
		log:        o.log,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	go func() {
		defer close(p.done)
		err := p.dispatcher.run(ctx, p.updates)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		if err != nil {
			p.log.Error("dispatcher stopped", "addr", addr, "error", err)
		}
		p.err = err
	}()
	return p
}

// UpdateFrame replaces the source frame.
func (p *Painter) UpdateFrame(frame image.Image) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	out, err := p.resizer.UpdateFrame(frame)
	if err != nil {
		return fmt.Errorf("update frame: %w", err)
	}
	p.log.Debug("frame updated", "size", out.Rect.Size(), "digest", hasher.FrameDigest(out.Pix, 8))
	p.send(out)
	return nil
}

// UpdateDimensions changes the painted size.
func (p *Painter) UpdateDimensions(dim pixel.Dimension) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	out, err := p.resizer.UpdateDimensions(dim)
	if err != nil {
		return fmt.Errorf("update dimensions: %w", err)
	}
	p.send(out)
	return nil
}

// UpdateResizeType changes the fit policy.
func (p *Painter) UpdateResizeType(fit resize.Fit) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	out, err := p.resizer.UpdateFit(fit)
	if err != nil {
		return fmt.Errorf("update resize type: %w", err)
	}
	p.send(out)
	return nil
}

// UpdateStyle switches serializer, fit and filter with a single resample
// and a single update. Nothing changes if fit is unknown.
func (p *Painter) UpdateStyle(s serializer.Serializer, fit resize.Fit, filter resize.Filter) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	out, err := p.resizer.UpdateStyle(fit, filter)
	if err != nil {
		return fmt.Errorf("update style: %w", err)
	}
	if s != nil {
		p.serializer = s
	}
	p.send(out)
	return nil
}

// UpdateResizeFilter changes the resampling filter.
func (p *Painter) UpdateResizeFilter(filter resize.Filter) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	out, err := p.resizer.UpdateFilter(filter)
	if err != nil {
		return fmt.Errorf("update resize filter: %w", err)
	}
	p.send(out)
	return nil
}

// UpdatePosition moves the frame on the canvas without resizing.
func (p *Painter) UpdatePosition(c pixel.Coordinate) error {
	if !c.Valid() {
		return fmt.Errorf("update position %s: %w", c, ErrInvalidPosition)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = c
	p.send(p.resizer.Frame())
	return nil
}

// UpdateStreamCount changes the number of TCP streams.
func (p *Painter) UpdateStreamCount(n int) error {
	if n < 0 {
		return fmt.Errorf("update stream count %d: %w", n, ErrInvalidStreamCount)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.streamCount = n
	p.send(p.resizer.Frame())
	return nil
}

// UpdateSerializer replaces the pixel order.
func (p *Painter) UpdateSerializer(s serializer.Serializer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.serializer = s
	p.send(p.resizer.Frame())
}

// Layout is a complete set of drawing settings for Configure.
type Layout struct {
	Dimension   pixel.Dimension
	Fit         resize.Fit
	Filter      resize.Filter
	Serializer  serializer.Serializer
	Position    pixel.Coordinate
	StreamCount int
}

// Configure applies every setting in l and queues a single update. Nothing
// changes if l is invalid.
func (p *Painter) Configure(l Layout) error {
	if l.StreamCount < 0 {
		return fmt.Errorf("configure stream count %d: %w", l.StreamCount, ErrInvalidStreamCount)
	}
	if !l.Position.Valid() {
		return fmt.Errorf("configure position %s: %w", l.Position, ErrInvalidPosition)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	out, err := p.resizer.Configure(l.Dimension, l.Fit, l.Filter)
	if err != nil {
		return fmt.Errorf("configure: %w", err)
	}
	if l.Serializer != nil {
		p.serializer = l.Serializer
	}
	p.position = l.Position
	p.streamCount = l.StreamCount
	p.send(out)
	return nil
}

// send queues the current configuration; p.mu must be held.
func (p *Painter) send(frame *image.NRGBA) {
	u := Update{
		Frame:       frame,
		Serializer:  p.serializer.Duplicate(),
		StreamCount: p.streamCount,
		Position:    p.position,
	}
	select {
	case p.updates <- u:
		p.counters.updatesSent.Add(1)
	default:
		p.counters.updatesDropped.Add(1)
		p.log.Debug("update dropped, dispatcher busy")
	}
}

// Settings is the current drawing configuration.
type Settings struct {
	Dimension   pixel.Dimension
	Position    pixel.Coordinate
	StreamCount int
	Fit         resize.Fit
	Filter      resize.Filter
	Serializer  string
}

func (p *Painter) Settings() Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Settings{
		Dimension:   p.resizer.Dimension(),
		Position:    p.position,
		StreamCount: p.streamCount,
		Fit:         p.resizer.Fit(),
		Filter:      p.resizer.Filter(),
		Serializer:  p.serializer.Name(),
	}
}

// Frame returns a copy of the raster currently being painted.
func (p *Painter) Frame() *image.NRGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resizer.Frame()
}

// Stats returns the current counters.
func (p *Painter) Stats() Stats {
	s := p.counters.snapshot()
	s.Streams = p.dispatcher.streamStats()
	return s
}

// Done is closed once the dispatcher has stopped.
func (p *Painter) Done() <-chan struct{} { return p.done }

// Err returns the error that stopped the dispatcher, if any. Valid after Done.
func (p *Painter) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Close stops the dispatcher and all streams and waits for them.
func (p *Painter) Close() error {
	p.cancel()
	<-p.done
	return p.err
}
