// Package messaging 把 outbox 事件转发到 Redis pub/sub
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Message 发布到频道的消息体
type Message struct {
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
}

// RedisPublisher 实现 gormstore.OutboxPublisher
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
}

func NewRedisPublisher(client redis.UniversalClient, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

// Channel 单一频道，订阅方按 event_type 过滤
func (p *RedisPublisher) Channel() string {
	return p.channel
}

func (p *RedisPublisher) Publish(ctx context.Context, eventType string, payload []byte) error {
	body, err := json.Marshal(Message{EventType: eventType, Payload: json.RawMessage(payload)})
	if err != nil {
		return fmt.Errorf("failed to encode outbox message: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, body).Err(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}
	return nil
}
