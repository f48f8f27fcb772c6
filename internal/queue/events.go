package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the storage cleanup stream
const (
	// EventObjectOrphaned marks an upload whose follow-up row insert failed.
	// The worker performs the compensating delete.
	EventObjectOrphaned = "object_orphaned"

	// EventObjectDelete marks an object whose owning row was deleted.
	// Removal is best-effort from the caller's point of view.
	EventObjectDelete = "object_delete"
)

// Stream names
const (
	StreamCleanup = "stream:cleanup"
)

// Consumer group name for cleanup workers
const (
	ConsumerGroupCleanup = "cleanup_workers"
)

// CleanupEvent represents an event published to the cleanup stream.
type CleanupEvent struct {
	Type      string `json:"type"`      // EventObjectOrphaned, EventObjectDelete
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	// ObjectKey is the bucket key of the object to remove.
	ObjectKey string `json:"object_key"`

	// UserID is the owner, kept for traceability in logs.
	UserID int64 `json:"user_id,omitempty"`

	// Reason is a short free-form note about why cleanup was requested.
	Reason string `json:"reason,omitempty"`
}

// NewObjectOrphanedEvent creates an event for an upload left behind by a
// failed multi-step save. The worker deletes the object.
func NewObjectOrphanedEvent(objectKey string, userID int64, reason string) CleanupEvent {
	return CleanupEvent{
		Type:      EventObjectOrphaned,
		Timestamp: time.Now().Unix(),
		ObjectKey: objectKey,
		UserID:    userID,
		Reason:    reason,
	}
}

// NewObjectDeleteEvent creates an event for an object whose row was deleted.
func NewObjectDeleteEvent(objectKey string, userID int64) CleanupEvent {
	return CleanupEvent{
		Type:      EventObjectDelete,
		Timestamp: time.Now().Unix(),
		ObjectKey: objectKey,
		UserID:    userID,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e CleanupEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseCleanupEvent parses a CleanupEvent from Redis stream message values.
func ParseCleanupEvent(values map[string]interface{}) (CleanupEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return CleanupEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event CleanupEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return CleanupEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
