package chat

import (
	"bytes"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeConn records writes and replays scripted reads.
type fakeConn struct {
	net.Conn

	mu            sync.Mutex
	writes        []string
	reads         []readResult
	writeErr      error
	closed        bool
	writeDeadline time.Time
}

type readResult struct {
	data string
	err  error
}

func (c *fakeConn) Read(b []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, net.ErrClosed
	}
	if len(c.reads) == 0 {
		return 0, io.EOF
	}
	r := c.reads[0]
	n := copy(b, r.data)
	if n < len(r.data) {
		// keep the tail for the next read, like a stream would
		c.reads[0].data = r.data[n:]
		return n, nil
	}
	c.reads = c.reads[1:]
	return n, r.err
}

func (c *fakeConn) Write(b []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	if c.closed {
		return 0, net.ErrClosed
	}
	c.writes = append(c.writes, string(b))
	return len(b), nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) SetWriteDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeDeadline = t
	return nil
}

func (c *fakeConn) RemoteAddr() net.Addr { return fakeAddr{} }

func (c *fakeConn) received() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.writes...)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type fakeAddr struct{}

func (fakeAddr) Network() string { return "tcp" }
func (fakeAddr) String() string  { return "127.0.0.1:0" }

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func newTestPeer(t *testing.T, nickname string) (*Peer, *fakeConn) {
	t.Helper()
	conn := &fakeConn{}
	p := NewPeer(conn)
	p.setNickname(nickname)
	return p, conn
}

// syncBuffer is a bytes.Buffer safe for a writer goroutine and a polling test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// readUntil reads from conn until the accumulated text contains want.
func readUntil(t *testing.T, conn net.Conn, want string) string {
	t.Helper()
	var acc strings.Builder
	buf := make([]byte, 1024)
	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(acc.String(), want) {
		_ = conn.SetReadDeadline(deadline)
		n, err := conn.Read(buf)
		acc.Write(buf[:n])
		if err != nil && !strings.Contains(acc.String(), want) {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				t.Fatalf("timeout waiting for %q, got %q", want, acc.String())
			}
			t.Fatalf("read error waiting for %q: %v (got %q)", want, err, acc.String())
		}
	}
	_ = conn.SetReadDeadline(time.Time{})
	return acc.String()
}
