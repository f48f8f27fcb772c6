package availability

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fitzty/fitzty-backend/internal/model"
)

const testDelay = 20 * time.Millisecond

// drainUntil reads results until one with a terminal status (or error)
// arrives, or the timeout passes.
func drainUntil(t *testing.T, c *Checker, timeout time.Duration) []Result {
	t.Helper()

	var results []Result
	deadline := time.After(timeout)
	for {
		select {
		case r, ok := <-c.Results():
			if !ok {
				return results
			}
			results = append(results, r)
			if r.Status != model.UsernameChecking || r.Err != nil {
				return results
			}
		case <-deadline:
			return results
		}
	}
}

func TestChecker_ShortInputNeverQueries(t *testing.T) {
	var lookups int32
	c := NewCheckerWithDelay(func(ctx context.Context, username string) (bool, error) {
		atomic.AddInt32(&lookups, 1)
		return false, nil
	}, testDelay)
	defer c.Close()

	c.Input("ab")

	results := drainUntil(t, c, 5*testDelay)
	if len(results) != 1 || results[0].Status != model.UsernameTooShort {
		t.Fatalf("results = %+v, want a single too_short", results)
	}

	time.Sleep(3 * testDelay)
	if n := atomic.LoadInt32(&lookups); n != 0 {
		t.Errorf("lookups = %d, want 0 for short input", n)
	}
}

func TestChecker_DebouncesToLatestInput(t *testing.T) {
	var lookups int32
	var lastQueried atomic.Value
	c := NewCheckerWithDelay(func(ctx context.Context, username string) (bool, error) {
		atomic.AddInt32(&lookups, 1)
		lastQueried.Store(username)
		return username == "casey_taken", nil
	}, testDelay)
	defer c.Close()

	// Simulated typing: each keystroke lands before the debounce fires
	for _, input := range []string{"cas", "case", "casey"} {
		c.Input(input)
		time.Sleep(testDelay / 4)
	}

	results := drainUntil(t, c, 10*testDelay)
	if len(results) == 0 {
		t.Fatal("expected at least one result")
	}
	final := results[len(results)-1]
	if final.Username != "casey" || final.Status != model.UsernameAvailable {
		t.Errorf("final result = %+v, want available for %q", final, "casey")
	}

	if n := atomic.LoadInt32(&lookups); n != 1 {
		t.Errorf("lookups = %d, want 1 (only the settled input)", n)
	}
	if got := lastQueried.Load(); got != "casey" {
		t.Errorf("queried %v, want the latest input only", got)
	}
}

func TestChecker_StaleLookupResultDropped(t *testing.T) {
	release := make(chan struct{})
	c := NewCheckerWithDelay(func(ctx context.Context, username string) (bool, error) {
		if username == "old_name" {
			<-release // hold the first lookup in flight
			return true, nil
		}
		return false, nil
	}, testDelay)
	defer c.Close()

	c.Input("old_name")
	time.Sleep(2 * testDelay) // let the first lookup start and block

	c.Input("new_name") // supersedes the in-flight generation
	close(release)

	results := drainUntil(t, c, 10*testDelay)
	for _, r := range results {
		if r.Username == "old_name" && r.Status != model.UsernameChecking {
			t.Errorf("stale terminal result published: %+v", r)
		}
	}
	final := results[len(results)-1]
	if final.Username != "new_name" || final.Status != model.UsernameAvailable {
		t.Errorf("final result = %+v, want available for new_name", final)
	}
}

func TestChecker_TakenUsername(t *testing.T) {
	c := NewCheckerWithDelay(func(ctx context.Context, username string) (bool, error) {
		return true, nil
	}, testDelay)
	defer c.Close()

	c.Input("somebody")

	results := drainUntil(t, c, 10*testDelay)
	final := results[len(results)-1]
	if final.Status != model.UsernameTaken {
		t.Errorf("final status = %q, want taken", final.Status)
	}
}

func TestChecker_CloseStopsPendingLookup(t *testing.T) {
	var lookups int32
	c := NewCheckerWithDelay(func(ctx context.Context, username string) (bool, error) {
		atomic.AddInt32(&lookups, 1)
		return false, nil
	}, testDelay)

	c.Input("casey")
	c.Close() // before the debounce fires

	time.Sleep(3 * testDelay)
	if n := atomic.LoadInt32(&lookups); n != 0 {
		t.Errorf("lookups = %d, want 0 after Close", n)
	}

	// Channel is closed; remaining buffered results drain then it reports closed
	for {
		if _, ok := <-c.Results(); !ok {
			break
		}
	}
}
