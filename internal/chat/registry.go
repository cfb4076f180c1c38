package chat

import (
	"log/slog"
	"sync"

	"github.com/samber/lo"
)

// Registry is the set of peers that completed the handshake. It is the only
// state shared between sessions; every operation holds the same lock.
type Registry struct {
	mu     sync.Mutex
	peers  map[string]*Peer
	logger *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		peers:  make(map[string]*Peer),
		logger: logger,
	}
}

func (r *Registry) Add(p *Peer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.peers[p.ID()]; exists {
		return ErrDuplicateConnection
	}
	r.peers[p.ID()] = p
	ConnectedClients.Set(float64(len(r.peers)))

	r.logger.Info("peer registered", "id", p.ID(), "nickname", p.Nickname(), "peers", len(r.peers))
	return nil
}

// Remove deletes the peer and returns it. Removing an absent id is a no-op;
// both the session and a failing broadcast may race to remove the same peer.
func (r *Registry) Remove(id string) (*Peer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.peers[id]
	if !ok {
		return nil, false
	}
	delete(r.peers, id)
	ConnectedClients.Set(float64(len(r.peers)))

	r.logger.Info("peer removed", "id", id, "nickname", p.Nickname(), "peers", len(r.peers))
	return p, true
}

// Snapshot returns a copy of the current peers. Later mutations of the
// registry do not affect the returned slice.
func (r *Registry) Snapshot() []*Peer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo.Values(r.peers)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.peers)
}
