package canvas

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"sync"

	"github.com/AnyUserName/pxflood/internal/pixel"
)

// maxLine bounds a single command; longer input is dropped.
const maxLine = 256

// Server accepts pixelflut connections for a Canvas.
type Server struct {
	canvas *Canvas
	ln     net.Listener
	log    *slog.Logger

	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	closed bool
	wg     sync.WaitGroup

	accepted int
}

// Listen binds addr ("127.0.0.1:0" picks a free port).
func Listen(addr string, c *Canvas, log *slog.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{canvas: c, ln: ln, log: log, conns: make(map[net.Conn]struct{})}, nil
}

func (s *Server) Addr() net.Addr { return s.ln.Addr() }

// Accepted returns the number of connections accepted so far.
func (s *Server) Accepted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accepted
}

// Open returns the number of connections currently open.
func (s *Server) Open() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Serve accepts until ctx ends or the listener is closed.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.Close()
	}()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			conn.Close()
			return nil
		}
		s.conns[conn] = struct{}{}
		s.accepted++
		s.wg.Add(1)
		s.mu.Unlock()

		go func() {
			defer s.wg.Done()
			s.handle(conn)
		}()
	}
}

// Close stops accepting, drops every connection and waits for handlers.
func (s *Server) Close() error {
	err := s.ln.Close()
	s.mu.Lock()
	s.closed = true
	for c := range s.conns {
		c.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (s *Server) handle(conn net.Conn) {
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	r := bufio.NewReaderSize(conn, 64*1024)
	w := bufio.NewWriter(conn)
	for {
		line, err := r.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			s.canvas.rejected.Add(1)
			if err := skipLine(r); err != nil {
				return
			}
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				s.log.Debug("sink connection closed", "remote", conn.RemoteAddr(), "error", err)
			}
			return
		}
		if len(line) > maxLine {
			s.canvas.rejected.Add(1)
			continue
		}
		if reply := s.command(line); reply != nil {
			w.Write(reply)
			if r.Buffered() == 0 {
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}
}

// command applies one line and returns the reply, if any.
func (s *Server) command(line []byte) []byte {
	fields := bytes.Fields(line)
	switch {
	case len(fields) == 0:
		return nil
	case string(fields[0]) == "SIZE":
		d := s.canvas.Dimension()
		return fmt.Appendf(nil, "SIZE %d %d\n", d.Width, d.Height)
	case string(fields[0]) == "HELP":
		return []byte("PX <x> <y> <rrggbb[aa]> | PX <x> <y> | SIZE\n")
	case string(fields[0]) == "PX" && len(fields) == 3:
		x, errx := strconv.Atoi(string(fields[1]))
		y, erry := strconv.Atoi(string(fields[2]))
		if errx != nil || erry != nil {
			s.canvas.rejected.Add(1)
			return nil
		}
		c := s.canvas.At(x, y)
		c.A = 0xFF
		return pixel.New(x, y, c).AppendCommand(nil)
	}
	p, err := pixel.ParseCommand(line)
	if err != nil {
		s.canvas.rejected.Add(1)
		return nil
	}
	s.canvas.Set(p)
	return nil
}

func skipLine(r *bufio.Reader) error {
	for {
		_, err := r.ReadSlice('\n')
		if !errors.Is(err, bufio.ErrBufferFull) {
			return err
		}
	}
}
