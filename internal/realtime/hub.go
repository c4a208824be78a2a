package realtime

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

const subscriberBuffer = 16

// Subscription is one open stream. Events arrive on C until Close.
type Subscription struct {
	C      <-chan Event
	ch     chan Event
	userID int64
	role   string
	hub    *Hub
	once   sync.Once
}

func (s *Subscription) Close() {
	s.once.Do(func() { s.hub.remove(s) })
}

// Hub fans events out to the streams connected to this process.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	logger *zap.Logger
}

func NewHub(logger ...*zap.Logger) *Hub {
	l := zap.L().Named("realtime.hub")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("realtime.hub")
	}
	return &Hub{subs: make(map[*Subscription]struct{}), logger: l}
}

func (h *Hub) Subscribe(userID int64, role string) *Subscription {
	ch := make(chan Event, subscriberBuffer)
	s := &Subscription{C: ch, ch: ch, userID: userID, role: role, hub: h}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.ch)
	}
	h.mu.Unlock()
}

// Publish never blocks on a slow client; a full buffer drops the event.
func (h *Hub) Publish(_ context.Context, target Target, ev Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subs {
		if !target.matches(s.userID, s.role) {
			continue
		}
		select {
		case s.ch <- ev:
		default:
			h.logger.Warn("dropping live event for slow subscriber",
				zap.String("event", ev.Type),
				zap.Int64("user_id", s.userID),
			)
		}
	}
	return nil
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
