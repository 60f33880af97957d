package canvas

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/AnyUserName/pxflood/internal/pixel"
)

func TestSetAndBlend(t *testing.T) {
	c := New(pixel.Dimension{Width: 4, Height: 4})
	c.Set(pixel.New(1, 1, pixel.RGB(200, 100, 0)))
	if got := c.At(1, 1); got != pixel.RGB(200, 100, 0) {
		t.Fatalf("opaque set: got %v", got)
	}

	c.Set(pixel.New(1, 1, pixel.RGBA(0, 0, 0, 0x80)))
	got := c.At(1, 1)
	if got.R < 99 || got.R > 101 || got.G < 49 || got.G > 51 || got.A != 0xFF {
		t.Errorf("blend: got %+v", got)
	}

	c.Set(pixel.New(9, 9, pixel.RGB(1, 1, 1)))
	if n := c.Counters(); n.Written != 2 || n.Outside != 1 {
		t.Errorf("counters: %+v", n)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	c := New(pixel.Dimension{Width: 2, Height: 2})
	snap := c.Snapshot()
	snap.Pix[0] = 42
	if c.At(0, 0).R == 42 {
		t.Error("snapshot shares memory with the canvas")
	}
}

func startServer(t *testing.T, dim pixel.Dimension) (*Canvas, *Server) {
	t.Helper()
	c := New(dim)
	srv, err := Listen("127.0.0.1:0", c, nil)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go srv.Serve(ctx)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return c, srv
}

func TestServerCommands(t *testing.T) {
	c, srv := startServer(t, pixel.Dimension{Width: 8, Height: 6})

	conn, err := net.Dial("tcp", srv.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	if _, err := conn.Write([]byte("PX 1 2 ff0000\nbogus\nPX 3 4 00ff0080\nSIZE\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	r := bufio.NewReader(conn)
	line, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read SIZE reply: %v", err)
	}
	if line != "SIZE 8 6\n" {
		t.Errorf("SIZE reply: got %q", line)
	}

	if _, err := conn.Write([]byte("PX 1 2\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	line, err = r.ReadString('\n')
	if err != nil {
		t.Fatalf("read PX reply: %v", err)
	}
	if line != "PX 1 2 ff0000\n" {
		t.Errorf("PX read reply: got %q", line)
	}

	if got := c.At(3, 4); got.G == 0 || got.A == 0 {
		t.Errorf("translucent pixel not applied: %+v", got)
	}
	if n := c.Counters(); n.Written != 2 || n.Rejected != 1 {
		t.Errorf("counters: %+v", n)
	}
	if srv.Accepted() != 1 {
		t.Errorf("accepted: got %d", srv.Accepted())
	}
}

func TestServerCloseDropsConnections(t *testing.T) {
	_, srv := startServer(t, pixel.Dimension{Width: 2, Height: 2})
	conn, err := net.Dial("tcp", srv.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for srv.Open() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("connection never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if err := srv.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := conn.Read(make([]byte, 1)); err == nil {
		t.Error("expected the server to drop the connection")
	}
}
