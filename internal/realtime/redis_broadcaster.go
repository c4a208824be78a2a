package realtime

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const Channel = "leave:live"

type envelope struct {
	Target Target          `json:"target"`
	Type   string          `json:"type"`
	Data   json.RawMessage `json:"data"`
}

// RedisBroadcaster publishes through redis so every API instance's hub
// sees the event. Run Relay on each instance to feed its local hub.
type RedisBroadcaster struct {
	rdb    *redis.Client
	hub    *Hub
	logger *zap.Logger
}

func NewRedisBroadcaster(rdb *redis.Client, hub *Hub, logger *zap.Logger) *RedisBroadcaster {
	if logger == nil {
		logger = zap.L()
	}
	return &RedisBroadcaster{rdb: rdb, hub: hub, logger: logger.Named("realtime.redis")}
}

func (b *RedisBroadcaster) Publish(ctx context.Context, target Target, ev Event) error {
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(envelope{Target: target, Type: ev.Type, Data: data})
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, Channel, payload).Err()
}

// Relay blocks until ctx is done.
func (b *RedisBroadcaster) Relay(ctx context.Context) error {
	sub := b.rdb.Subscribe(ctx, Channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	b.logger.Info("live event relay started", zap.String("channel", Channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.deliver(ctx, []byte(msg.Payload))
		}
	}
}

func (b *RedisBroadcaster) deliver(ctx context.Context, payload []byte) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		b.logger.Warn("invalid live event payload", zap.Error(err))
		return
	}
	_ = b.hub.Publish(ctx, env.Target, Event{Type: env.Type, Data: env.Data})
}
