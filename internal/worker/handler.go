package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fitzty/fitzty-backend/internal/queue"
)

// ObjectDeleter defines the interface for removing objects from storage.
// This abstracts the media service so workers don't depend on it directly.
type ObjectDeleter interface {
	// DeleteObject removes an object by bucket key. Deleting a missing
	// key must not be an error.
	DeleteObject(ctx context.Context, key string) error
}

// Handler processes cleanup events from the queue. It is the compensating
// half of the upload-then-insert saga: uploads whose row insert failed, and
// objects whose row was deleted, are removed here instead of inline in the
// request path.
type Handler struct {
	deleter ObjectDeleter
}

// NewHandler creates a new event handler.
func NewHandler(deleter ObjectDeleter) *Handler {
	return &Handler{deleter: deleter}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.CleanupEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventObjectOrphaned:
		err = h.handleObjectOrphaned(ctx, event)
	case queue.EventObjectDelete:
		err = h.handleObjectDelete(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	return nil
}

// handleObjectOrphaned removes an upload stranded by a failed save.
func (h *Handler) handleObjectOrphaned(ctx context.Context, event queue.CleanupEvent) error {
	log.Printf("[Worker] ObjectOrphaned: key=%s user=%d reason=%s", event.ObjectKey, event.UserID, event.Reason)

	if event.ObjectKey == "" {
		log.Printf("[Worker] ObjectOrphaned: empty key, nothing to do")
		return nil
	}

	if err := h.deleter.DeleteObject(ctx, event.ObjectKey); err != nil {
		return fmt.Errorf("delete orphaned object: %w", err)
	}

	return nil
}

// handleObjectDelete removes the object behind a deleted row.
func (h *Handler) handleObjectDelete(ctx context.Context, event queue.CleanupEvent) error {
	log.Printf("[Worker] ObjectDelete: key=%s user=%d", event.ObjectKey, event.UserID)

	if event.ObjectKey == "" {
		log.Printf("[Worker] ObjectDelete: empty key, nothing to do")
		return nil
	}

	if err := h.deleter.DeleteObject(ctx, event.ObjectKey); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}

	return nil
}
