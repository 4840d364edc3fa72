package fakeclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceFiresDueCallbacksInDeadlineOrder(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := New(start)

	var fired []string
	clock.AfterFunc(3*time.Second, func() { fired = append(fired, "late") })
	clock.AfterFunc(time.Second, func() { fired = append(fired, "early") })
	clock.AfterFunc(10*time.Second, func() { fired = append(fired, "never") })

	clock.Advance(5 * time.Second)

	assert.Equal(t, []string{"early", "late"}, fired)
	assert.Equal(t, start.Add(5*time.Second), clock.Now())
	assert.Equal(t, 1, clock.PendingCount())
}

func TestStoppedTimerDoesNotFire(t *testing.T) {
	t.Parallel()

	clock := New(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	fired := false
	timer := clock.AfterFunc(time.Second, func() { fired = true })
	require.True(t, timer.Stop())
	require.False(t, timer.Stop())

	clock.Advance(time.Minute)
	assert.False(t, fired)
	assert.Zero(t, clock.PendingCount())
}

func TestFiredTimerCannotBeStopped(t *testing.T) {
	t.Parallel()

	clock := New(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	timer := clock.AfterFunc(time.Second, func() {})
	clock.Advance(time.Second)

	assert.False(t, timer.Stop())
}

func TestWaitForTimersBlocksUntilRegistered(t *testing.T) {
	t.Parallel()

	clock := New(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	go clock.AfterFunc(time.Second, func() {})

	done := make(chan struct{})
	go func() {
		clock.WaitForTimers(1)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("WaitForTimers did not return")
	}
}
