package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const publishTimeout = 2 * time.Second

type target string

const (
	targetUser      target = "user"
	targetRole      target = "role"
	targetBroadcast target = "broadcast"
)

type envelope struct {
	Target  target          `json:"target"`
	Key     string          `json:"key,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// RedisBroker fans pushes out through a redis pub/sub channel so that every
// server instance delivers to the sockets it holds.
type RedisBroker struct {
	client  *redis.Client
	channel string
	hub     *Hub
}

func NewRedisBroker(client *redis.Client, channel string, hub *Hub) *RedisBroker {
	return &RedisBroker{client: client, channel: channel, hub: hub}
}

func (b *RedisBroker) SendToUser(userKey string, payload any) {
	b.publish(targetUser, userKey, payload)
}

func (b *RedisBroker) SendToRole(role string, payload any) {
	b.publish(targetRole, role, payload)
}

func (b *RedisBroker) Broadcast(payload any) {
	b.publish(targetBroadcast, "", payload)
}

func (b *RedisBroker) publish(t target, key string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("realtime payload encode failed", "component", "realtime", "error", err)
		return
	}
	msg, err := json.Marshal(envelope{Target: t, Key: key, Payload: raw})
	if err != nil {
		slog.Warn("realtime envelope encode failed", "component", "realtime", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := b.client.Publish(ctx, b.channel, msg).Err(); err != nil {
		slog.Warn("realtime publish failed", "component", "realtime", "channel", b.channel, "error", err)
	}
}

// Run relays messages from the redis channel into the local hub until ctx is done.
func (b *RedisBroker) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	slog.Info("realtime broker subscribed", "component", "realtime", "channel", b.channel)

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			b.dispatch([]byte(msg.Payload))
		}
	}
}

func (b *RedisBroker) dispatch(raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		slog.Warn("realtime envelope decode failed", "component", "realtime", "error", err)
		return
	}

	switch env.Target {
	case targetUser:
		b.hub.SendToUser(env.Key, env.Payload)
	case targetRole:
		b.hub.SendToRole(env.Key, env.Payload)
	case targetBroadcast:
		b.hub.Broadcast(env.Payload)
	default:
		slog.Warn("realtime envelope with unknown target", "component", "realtime", "target", env.Target)
	}
}
