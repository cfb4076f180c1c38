package chat

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
)

type SessionState int32

const (
	StateAwaitingHandshake SessionState = iota
	StateActive
	StateTerminated
)

func (s SessionState) String() string {
	switch s {
	case StateAwaitingHandshake:
		return "awaiting_handshake"
	case StateActive:
		return "active"
	default:
		return "terminated"
	}
}

// maxTransientReads bounds consecutive deadline errors before the session gives up.
const maxTransientReads = 3

// Session drives one accepted connection: handshake, receive loop, teardown.
type Session struct {
	peer     *Peer
	registry *Registry
	fanout   Fanout
	logger   *slog.Logger
	bufSize  int
	state    atomic.Int32
}

func NewSession(peer *Peer, registry *Registry, fanout Fanout, bufSize int, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if bufSize <= 0 {
		bufSize = DefaultReadBufferSize
	}
	return &Session{
		peer:     peer,
		registry: registry,
		fanout:   fanout,
		logger:   logger,
		bufSize:  bufSize,
	}
}

func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

func (s *Session) setState(st SessionState) {
	s.state.Store(int32(st))
}

// Run blocks until the peer disconnects. The connection is closed on return.
func (s *Session) Run() {
	defer func() {
		_ = s.peer.Close()
	}()

	buf := make([]byte, s.bufSize)

	nickname, err := s.handshake(buf)
	if err != nil {
		HandshakeFailuresTotal.Inc()
		s.logger.Debug("handshake failed", "addr", s.peer.RemoteAddr(), "error", err)
		s.setState(StateTerminated)
		return
	}
	s.peer.setNickname(nickname)

	if err := s.registry.Add(s.peer); err != nil {
		s.logger.Error("failed to register peer", "id", s.peer.ID(), "error", err)
		s.setState(StateTerminated)
		return
	}
	s.setState(StateActive)
	s.fanout.Broadcast(JoinNotice(nickname), s.peer.ID())

	s.receive(buf)
	s.terminate()
}

// handshake takes the whole first read as the nickname.
func (s *Session) handshake(buf []byte) (string, error) {
	body, err := s.read(buf)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHandshake, err)
	}
	nickname := strings.TrimSpace(string(body))
	if nickname == "" {
		return "", fmt.Errorf("%w: blank nickname", ErrHandshake)
	}
	return nickname, nil
}

func (s *Session) receive(buf []byte) {
	transient := 0
	for {
		body, err := s.read(buf)
		if err == nil {
			transient = 0
			s.fanout.Broadcast(NewChatMessage(s.peer.Nickname(), body), s.peer.ID())
			continue
		}

		switch kind := Classify(err); kind {
		case KindTransient:
			transient++
			if transient <= maxTransientReads {
				s.logger.Warn("transient read error", "id", s.peer.ID(), "attempt", transient, "error", err)
				continue
			}
			s.logger.Warn("giving up after repeated read timeouts", "id", s.peer.ID(), "error", err)
		case KindClosed:
			s.logger.Debug("peer closed stream", "id", s.peer.ID(), "nickname", s.peer.Nickname())
		default:
			s.logger.Error("read failed", "id", s.peer.ID(), "nickname", s.peer.Nickname(), "error", err)
		}
		return
	}
}

func (s *Session) terminate() {
	s.setState(StateTerminated)
	s.registry.Remove(s.peer.ID())
	s.fanout.Broadcast(LeaveNotice(s.peer.Nickname()), "")
	s.logger.Info("client disconnected", "id", s.peer.ID(), "nickname", s.peer.Nickname())
}

// read returns the bytes of a single Read. A zero-byte read counts as EOF.
func (s *Session) read(buf []byte) ([]byte, error) {
	n, err := s.peer.conn.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	if err == nil {
		err = io.EOF
	}
	return nil, err
}
