package chat

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Peer is the handle of one accepted connection. The nickname is fixed once by
// the handshake and never changes afterwards.
type Peer struct {
	id       string
	nickname string
	conn     net.Conn

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func NewPeer(conn net.Conn) *Peer {
	return &Peer{
		id:   uuid.NewString(),
		conn: conn,
	}
}

func (p *Peer) ID() string { return p.id }

func (p *Peer) Nickname() string { return p.nickname }

func (p *Peer) RemoteAddr() string {
	if addr := p.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}

// setNickname is called by the session before the peer is registered.
func (p *Peer) setNickname(nickname string) {
	if p.nickname == "" {
		p.nickname = nickname
	}
}

// Send writes one payload. Writes from concurrent broadcasts are serialized so
// their bytes never interleave on the stream. A zero timeout means no deadline.
func (p *Peer) Send(payload []byte, timeout time.Duration) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	if timeout > 0 {
		if err := p.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			return fmt.Errorf("set write deadline: %w", err)
		}
	}
	if _, err := p.conn.Write(payload); err != nil {
		return fmt.Errorf("write to %s: %w", p.id, err)
	}
	return nil
}

// Close is safe to call from both the session and a failing broadcast.
func (p *Peer) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.conn.Close()
	})
	return p.closeErr
}
