package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync/atomic"
)

// IsQuitCommand reports whether a line is a local quit request.
func IsQuitCommand(line string) bool {
	cmd := strings.TrimSpace(line)
	return strings.EqualFold(cmd, "/quit") || strings.EqualFold(cmd, "/exit")
}

// ClientSession is the terminal side of the protocol. It owns a single
// connection; the input loop only writes to it and the receive loop only reads.
type ClientSession struct {
	conn     net.Conn
	nickname string
	bufSize  int
	logger   *slog.Logger
	render   func(ChatLine) string
	quitting atomic.Bool
}

// ChatLine is one chunk received from the server, as displayed.
type ChatLine struct {
	Text   string
	System bool
}

type ClientOption func(*ClientSession)

func WithClientBufferSize(n int) ClientOption {
	return func(c *ClientSession) {
		if n > 0 {
			c.bufSize = n
		}
	}
}

func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *ClientSession) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRenderer customizes how received chunks are displayed.
func WithRenderer(render func(ChatLine) string) ClientOption {
	return func(c *ClientSession) {
		if render != nil {
			c.render = render
		}
	}
}

func NewClientSession(conn net.Conn, nickname string, opts ...ClientOption) *ClientSession {
	c := &ClientSession{
		conn:     conn,
		nickname: nickname,
		bufSize:  DefaultReadBufferSize,
		logger:   slog.Default(),
		render:   func(l ChatLine) string { return l.Text },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dial connects to addr and sends the nickname handshake.
func Dial(ctx context.Context, addr, nickname string, opts ...ClientOption) (*ClientSession, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	c := NewClientSession(conn, nickname, opts...)
	if err := c.Handshake(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

// Handshake sends the nickname as the first message on the stream.
func (c *ClientSession) Handshake() error {
	nickname := strings.TrimSpace(c.nickname)
	if nickname == "" {
		return fmt.Errorf("%w: blank nickname", ErrHandshake)
	}
	if _, err := c.conn.Write([]byte(nickname)); err != nil {
		return fmt.Errorf("%w: %w", ErrHandshake, err)
	}
	return nil
}

// Run pumps lines from in to the server and server messages to out until the
// user quits, input ends, the server closes the stream or ctx is done.
// It returns nil on a local quit and ErrServerClosed when the server went away.
// The connection is always closed on return.
func (c *ClientSession) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	sendErr := make(chan error, 1)
	recvErr := make(chan error, 1)

	go func() { sendErr <- c.sendLoop(in) }()
	go func() { recvErr <- c.receiveLoop(out) }()

	var err error
	select {
	case err = <-sendErr:
	case err = <-recvErr:
	case <-ctx.Done():
		c.quitting.Store(true)
	}
	_ = c.conn.Close()
	return err
}

func (c *ClientSession) sendLoop(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if IsQuitCommand(line) {
			c.logger.Debug("quit requested")
			c.quitting.Store(true)
			_ = c.conn.Close()
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, err := c.conn.Write([]byte(line)); err != nil {
			if c.quitting.Load() {
				return nil
			}
			return fmt.Errorf("send: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	// end of input behaves like /quit
	c.quitting.Store(true)
	_ = c.conn.Close()
	return nil
}

func (c *ClientSession) receiveLoop(out io.Writer) error {
	buf := make([]byte, c.bufSize)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			text := string(buf[:n])
			line := ChatLine{Text: text, System: strings.HasPrefix(text, "["+SystemSender+"] ")}
			if _, werr := fmt.Fprintln(out, c.render(line)); werr != nil {
				return fmt.Errorf("display: %w", werr)
			}
			continue
		}
		if c.quitting.Load() {
			return nil
		}
		if err == nil || Classify(err) == KindClosed {
			return ErrServerClosed
		}
		return fmt.Errorf("receive: %w", err)
	}
}
