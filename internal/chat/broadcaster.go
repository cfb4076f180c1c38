package chat

import (
	"log/slog"
	"time"

	"github.com/samber/lo"
)

// Broadcaster writes messages to every registered peer except the sender.
// A failed write drops only that peer; the rest of the fan-out continues and
// the caller never sees the error.
type Broadcaster struct {
	registry     *Registry
	logger       *slog.Logger
	writeTimeout time.Duration
}

func NewBroadcaster(registry *Registry, writeTimeout time.Duration, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		registry:     registry,
		logger:       logger,
		writeTimeout: writeTimeout,
	}
}

// Broadcast delivers msg to the peers present in the registry when the call
// starts, skipping excludeID. It returns the number of successful writes.
func (b *Broadcaster) Broadcast(msg ChatMessage, excludeID string) int {
	start := time.Now()
	payload := msg.Bytes()

	recipients := lo.Filter(b.registry.Snapshot(), func(p *Peer, _ int) bool {
		return p.ID() != excludeID
	})

	delivered := 0
	for _, p := range recipients {
		if err := p.Send(payload, b.writeTimeout); err != nil {
			b.drop(p, err)
			continue
		}
		delivered++
	}

	MessagesTotal.WithLabelValues(string(msg.Type)).Inc()
	DeliveriesTotal.Add(float64(delivered))
	BroadcastDuration.WithLabelValues(string(msg.Type)).Observe(time.Since(start).Seconds())

	b.logger.Debug("broadcast",
		"type", msg.Type,
		"sender", msg.Sender,
		"recipients", len(recipients),
		"delivered", delivered,
	)
	return delivered
}

func (b *Broadcaster) drop(p *Peer, err error) {
	kind := Classify(err)
	DeliveryFailuresTotal.WithLabelValues(kind.String()).Inc()
	b.logger.Warn("delivery failed, dropping peer",
		"id", p.ID(),
		"nickname", p.Nickname(),
		"kind", kind,
		"error", err,
	)
	// Closing unblocks the peer's own read loop, which then announces the departure.
	_ = p.Close()
	b.registry.Remove(p.ID())
}
