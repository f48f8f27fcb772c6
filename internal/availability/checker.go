// Package availability implements the debounced username availability
// checker behind the sign-up and profile-edit forms. Keystrokes arrive
// faster than the repository should be queried, so each input restarts a
// debounce timer and carries a generation number; only the result of the
// newest generation is ever published.
package availability

import (
	"context"
	"sync"
	"time"

	"github.com/fitzty/fitzty-backend/internal/model"
	"github.com/fitzty/fitzty-backend/internal/repository"
)

// DebounceDelay is how long the input must be stable before a lookup fires.
const DebounceDelay = 500 * time.Millisecond

// Lookup resolves whether a username is taken. It is only called for inputs
// of valid length, after the debounce delay.
type Lookup func(ctx context.Context, username string) (taken bool, err error)

// Result is one published availability outcome.
type Result struct {
	Username string
	Status   string
	Err      error
}

// Checker debounces username inputs and publishes at most one terminal
// result per generation. Stale generations are dropped at every stage:
// their timers are stopped when newer input arrives, and a lookup that was
// already in flight discards its result at publish time.
type Checker struct {
	lookup Lookup
	delay  time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	gen    uint64
	timer  *time.Timer
	closed bool

	results chan Result
}

// NewChecker creates a checker with the standard debounce delay.
func NewChecker(lookup Lookup) *Checker {
	return NewCheckerWithDelay(lookup, DebounceDelay)
}

// NewProfileChecker builds a checker whose lookups hit the profile store.
func NewProfileChecker(repo repository.ProfileRepository) *Checker {
	return NewChecker(func(ctx context.Context, username string) (bool, error) {
		return repo.ExistsByUsername(ctx, username)
	})
}

// NewCheckerWithDelay creates a checker with a custom delay. Tests use a
// short one.
func NewCheckerWithDelay(lookup Lookup, delay time.Duration) *Checker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Checker{
		lookup:  lookup,
		delay:   delay,
		ctx:     ctx,
		cancel:  cancel,
		results: make(chan Result, 16),
	}
}

// Results delivers published outcomes in order. The channel is closed by Close.
func (c *Checker) Results() <-chan Result {
	return c.results
}

// Input feeds one keystroke's worth of text. It restarts the debounce timer
// and invalidates any pending or in-flight lookup from earlier input.
// Inputs under the minimum length resolve immediately and never reach the
// lookup; valid inputs publish a "checking" status while the timer runs.
func (c *Checker) Input(username string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.gen++
	gen := c.gen

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	if len(username) < model.MinUsernameLength {
		c.publishLocked(gen, Result{Username: username, Status: model.UsernameTooShort})
		return
	}

	c.publishLocked(gen, Result{Username: username, Status: model.UsernameChecking})
	c.timer = time.AfterFunc(c.delay, func() {
		c.fire(gen, username)
	})
}

// fire runs the lookup for a generation that survived the debounce window.
func (c *Checker) fire(gen uint64, username string) {
	if !c.isCurrent(gen) {
		return
	}

	taken, err := c.lookup(c.ctx, username)

	result := Result{Username: username}
	switch {
	case err != nil:
		result.Err = err
	case taken:
		result.Status = model.UsernameTaken
	default:
		result.Status = model.UsernameAvailable
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.publishLocked(gen, result)
}

func (c *Checker) isCurrent(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && gen == c.gen
}

// publishLocked emits a result if its generation is still the newest.
// The buffer sheds the oldest entry under a slow consumer; later results
// supersede earlier ones anyway.
func (c *Checker) publishLocked(gen uint64, result Result) {
	if c.closed || gen != c.gen {
		return
	}
	for {
		select {
		case c.results <- result:
			return
		default:
			select {
			case <-c.results:
			default:
			}
		}
	}
}

// Close stops the pending timer, cancels any in-flight lookup, and closes
// the results channel. No result is published after Close returns.
func (c *Checker) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()

	c.cancel()
	close(c.results)
}
