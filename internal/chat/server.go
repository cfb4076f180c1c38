package chat

import (
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"
)

type Server struct {
	addr         string
	logger       *slog.Logger
	reg          *Registry
	broadcaster  *Broadcaster
	bufSize      int
	writeTimeout time.Duration

	mu       sync.Mutex
	listener net.Listener
	done     chan struct{}
}

type Option func(*Server)

// WithReadBufferSize sets the per-read chunk size for every session.
func WithReadBufferSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.bufSize = n
		}
	}
}

// WithWriteTimeout bounds each fan-out write. Zero disables the deadline.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d >= 0 {
			s.writeTimeout = d
		}
	}
}

func NewServer(addr string, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		addr:    addr,
		logger:  logger,
		bufSize: DefaultReadBufferSize,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reg = NewRegistry(logger)
	s.broadcaster = NewBroadcaster(s.reg, s.writeTimeout, logger)
	return s
}

// Start binds the listener and runs the accept loop in the background.
// A bind error is returned as is; callers treat it as fatal.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	go s.acceptLoop(ln)

	s.logger.Info("server started", "addr", ln.Addr().String())
	return nil
}

// Addr is the bound address, useful when listening on port 0.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Peers exposes the registry for inspection.
func (s *Server) Peers() *Registry {
	return s.reg
}

// Stop closes the listener. Sessions already running are left alone and end
// when their own streams fail or close.
func (s *Server) Stop() {
	s.logger.Info("shutting down")

	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return
	}
	_ = ln.Close()
	<-s.done

	s.logger.Info("listener closed", "peers", s.reg.Len())
}

func (s *Server) acceptLoop(ln net.Listener) {
	defer close(s.done)

	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			if backoff == 0 {
				backoff = 5 * time.Millisecond
			} else {
				backoff *= 2
			}
			if backoff > time.Second {
				backoff = time.Second
			}
			s.logger.Warn("accept failed, retrying", "error", err, "backoff", backoff)
			time.Sleep(backoff)
			continue
		}
		backoff = 0

		s.logger.Info("client connected", "addr", conn.RemoteAddr().String(), "peers", s.reg.Len())

		peer := NewPeer(conn)
		go NewSession(peer, s.reg, s.broadcaster, s.bufSize, s.logger).Run()
	}
}
