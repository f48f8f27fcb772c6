package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/fitzty/fitzty-backend/internal/queue"
)

type mockDeleter struct {
	deleteFn func(ctx context.Context, key string) error

	deleted []string
}

func (m *mockDeleter) DeleteObject(ctx context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

func TestHandler_ObjectOrphaned(t *testing.T) {
	deleter := &mockDeleter{}
	h := NewHandler(deleter)

	event := queue.NewObjectOrphanedEvent("wardrobe/wardrobe-7-123.jpg", 7, "wardrobe insert failed")
	if err := h.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(deleter.deleted) != 1 || deleter.deleted[0] != "wardrobe/wardrobe-7-123.jpg" {
		t.Errorf("deleted = %v, want the orphaned key", deleter.deleted)
	}
}

func TestHandler_ObjectDelete(t *testing.T) {
	deleter := &mockDeleter{}
	h := NewHandler(deleter)

	event := queue.NewObjectDeleteEvent("avatars/old.jpg", 7)
	if err := h.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(deleter.deleted) != 1 || deleter.deleted[0] != "avatars/old.jpg" {
		t.Errorf("deleted = %v, want the event key", deleter.deleted)
	}
}

func TestHandler_EmptyKeyIsNoop(t *testing.T) {
	deleter := &mockDeleter{}
	h := NewHandler(deleter)

	event := queue.NewObjectDeleteEvent("", 7)
	if err := h.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error for empty key, got: %v", err)
	}
	if len(deleter.deleted) != 0 {
		t.Errorf("deleted = %v, want no storage calls", deleter.deleted)
	}
}

func TestHandler_UnknownEventType(t *testing.T) {
	h := NewHandler(&mockDeleter{})

	err := h.HandleEvent(context.Background(), queue.CleanupEvent{Type: "bucket_migrate"})
	if err == nil {
		t.Fatal("expected error for unknown event type")
	}
}

func TestHandler_DeleteFailurePropagates(t *testing.T) {
	boom := errors.New("r2 unavailable")
	deleter := &mockDeleter{
		deleteFn: func(ctx context.Context, key string) error { return boom },
	}
	h := NewHandler(deleter)

	err := h.HandleEvent(context.Background(), queue.NewObjectDeleteEvent("avatars/old.jpg", 7))
	if !errors.Is(err, boom) {
		t.Fatalf("expected delete error to propagate, got: %v", err)
	}
}
