package ws

import (
	"sync"

	"go.uber.org/zap"

	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/logging"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/shared/types"
)

// subscriberBuffer is each subscriber's event backlog. Publish never
// blocks; a full subscriber loses the event.
const subscriberBuffer = 16

// Broadcaster fans breaker transitions out to WebSocket subscribers.
// Publish is safe to call from a breaker state-change callback.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[uint64]chan types.BreakerEvent
	nextID uint64
	logger *logging.Logger
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster(logger *logging.Logger) *Broadcaster {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Broadcaster{
		subs:   make(map[uint64]chan types.BreakerEvent),
		logger: logger,
	}
}

// Subscribe registers a listener and returns its event channel with a
// cancel function. The channel closes on cancel.
func (b *Broadcaster) Subscribe() (<-chan types.BreakerEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan types.BreakerEvent, subscriberBuffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber without blocking.
func (b *Broadcaster) Publish(event types.BreakerEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		select {
		case sub <- event:
		default:
			b.logger.Debug("dropping breaker event for slow subscriber",
				zap.String("service", event.Service),
				zap.String("to", event.To),
			)
		}
	}
}

// Subscribers returns the current listener count.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
