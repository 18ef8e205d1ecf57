package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// message is the payload published on the relay channel.
type message struct {
	Hint  string      `json:"hint"`
	Users []uuid.UUID `json:"users"`
}

// RedisRelay fans hints out over a Redis pub/sub channel so that every
// backend instance delivers them to its own connections.
type RedisRelay struct {
	client  *redis.Client
	channel string
}

// NewRedisRelay returns a relay publishing on channel.
func NewRedisRelay(client *redis.Client, channel string) *RedisRelay {
	return &RedisRelay{client: client, channel: channel}
}

// Publish sends hint for users to all instances.
func (r *RedisRelay) Publish(ctx context.Context, hint string, users []uuid.UUID) error {
	payload, err := encodeMessage(hint, users)
	if err != nil {
		return err
	}

	return r.client.Publish(ctx, r.channel, payload).Err()
}

// Run subscribes to the channel and hands every received hint to deliver
// until ctx is done.
func (r *RedisRelay) Run(ctx context.Context, deliver func(hint string, users []uuid.UUID)) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	// Wait for the subscription to be confirmed
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribing to %s: %w", r.channel, err)
	}

	log.Info().Str("channel", r.channel).Msg("relaying hints through redis")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			hint, users, err := decodeMessage(msg.Payload)
			if err != nil {
				log.Warn().Err(err).Str("channel", r.channel).Msg("discarding malformed relay message")
				continue
			}

			deliver(hint, users)
		}
	}
}

func encodeMessage(hint string, users []uuid.UUID) (string, error) {
	b, err := json.Marshal(message{Hint: hint, Users: users})
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func decodeMessage(payload string) (string, []uuid.UUID, error) {
	var m message
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return "", nil, err
	}

	if m.Hint == "" {
		return "", nil, fmt.Errorf("relay message has no hint")
	}

	return m.Hint, m.Users, nil
}
