// Package fakeclock provides a ports.Clock whose time only moves when a
// test calls Advance.
package fakeclock

import (
	"sort"
	"sync"
	"time"

	"github.com/ht101996/tomahawk/internal/ports"
)

type Clock struct {
	mu             sync.Mutex
	current        time.Time
	waiters        []*waiter
	waitersChanged *sync.Cond
}

type waiter struct {
	deadline time.Time
	callback func()
	stopped  bool
	fired    bool
}

var _ ports.Clock = (*Clock)(nil)

func New(initial time.Time) *Clock {
	clock := &Clock{current: initial}
	clock.waitersChanged = sync.NewCond(&clock.mu)
	return clock
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// AfterFunc registers f to run when the clock is advanced past d. A
// non-positive d runs f synchronously.
func (c *Clock) AfterFunc(d time.Duration, f func()) ports.Timer {
	if d <= 0 {
		f()
		return &Timer{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	w := &waiter{deadline: c.current.Add(d), callback: f}
	c.waiters = append(c.waiters, w)
	c.waitersChanged.Broadcast()

	return &Timer{clock: c, waiter: w}
}

// Advance moves the clock forward and runs every callback whose deadline
// has passed, in deadline order, outside the lock.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)

	var due, remaining []*waiter
	for _, w := range c.waiters {
		switch {
		case w.stopped:
		case !w.deadline.After(c.current):
			w.fired = true
			due = append(due, w)
		default:
			remaining = append(remaining, w)
		}
	}
	c.waiters = remaining
	c.waitersChanged.Broadcast()
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].deadline.Before(due[j].deadline)
	})
	for _, w := range due {
		w.callback()
	}
}

// WaitForTimers blocks until at least n timers are pending.
func (c *Clock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.pendingLocked() < n {
		c.waitersChanged.Wait()
	}
}

func (c *Clock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingLocked()
}

func (c *Clock) pendingLocked() int {
	count := 0
	for _, w := range c.waiters {
		if !w.stopped {
			count++
		}
	}
	return count
}

type Timer struct {
	clock  *Clock
	waiter *waiter
}

func (t *Timer) Stop() bool {
	if t.clock == nil {
		return false
	}

	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.waiter.stopped || t.waiter.fired {
		return false
	}
	t.waiter.stopped = true
	t.clock.waitersChanged.Broadcast()
	return true
}
