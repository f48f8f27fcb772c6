package queue

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher defines the interface for publishing events to a stream.
type Publisher interface {
	// Publish adds an event to the specified stream.
	// Returns the message ID assigned by Redis.
	Publish(ctx context.Context, stream string, event CleanupEvent) (messageID string, err error)
}

// RedisPublisher implements Publisher using Redis Streams.
type RedisPublisher struct {
	client *redis.Client
}

// NewPublisher creates a new Publisher backed by Redis Streams.
func NewPublisher(client *redis.Client) Publisher {
	return &RedisPublisher{client: client}
}

// Publish adds an event to the stream using XADD.
// Uses "*" for auto-generated message ID (timestamp-sequence).
func (p *RedisPublisher) Publish(ctx context.Context, stream string, event CleanupEvent) (string, error) {
	startTime := time.Now()

	values, err := event.ToMap()
	if err != nil {
		log.Printf("[Publisher] Publish FAILED: stream=%s type=%s err=%v", stream, event.Type, err)
		return "", fmt.Errorf("serialize event: %w", err)
	}

	// XADD stream * field value [field value ...]
	// "*" means Redis auto-generates the message ID
	messageID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Result()

	if err != nil {
		log.Printf("[Publisher] Publish FAILED: stream=%s type=%s err=%v", stream, event.Type, err)
		return "", fmt.Errorf("xadd to stream: %w", err)
	}

	log.Printf("[Publisher] Publish OK: stream=%s type=%s msgID=%s key=%s duration=%v",
		stream, event.Type, messageID, event.ObjectKey, time.Since(startTime))

	return messageID, nil
}

// PublishObjectOrphaned is a convenience method for compensating deletes
// after a failed multi-step save.
func (p *RedisPublisher) PublishObjectOrphaned(ctx context.Context, objectKey string, userID int64, reason string) (string, error) {
	event := NewObjectOrphanedEvent(objectKey, userID, reason)
	return p.Publish(ctx, StreamCleanup, event)
}

// PublishObjectDelete is a convenience method for best-effort object removal
// when the owning row is deleted.
func (p *RedisPublisher) PublishObjectDelete(ctx context.Context, objectKey string, userID int64) (string, error) {
	event := NewObjectDeleteEvent(objectKey, userID)
	return p.Publish(ctx, StreamCleanup, event)
}
