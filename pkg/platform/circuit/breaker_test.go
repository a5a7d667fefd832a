package circuit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestBreaker(threshold int, cooldown time.Duration) (*Breaker, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	b := New("test",
		WithThreshold(threshold),
		WithCooldown(cooldown),
		WithClock(clock.Now),
	)
	return b, clock
}

func TestBreaker_StaysClosedBelowThreshold(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)

	assert.False(t, b.Failure())
	assert.False(t, b.Failure())
	assert.Equal(t, Closed, b.State())
	assert.True(t, b.Allow())
}

func TestBreaker_OpensAtThreshold(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)

	b.Failure()
	b.Failure()
	opened := b.Failure()

	assert.True(t, opened, "third failure should report the transition")
	assert.Equal(t, Open, b.State())
	assert.False(t, b.Allow())
}

func TestBreaker_SuccessResetsFailureStreak(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)

	b.Failure()
	b.Failure()
	b.Success()
	b.Failure()
	b.Failure()

	assert.Equal(t, Closed, b.State(), "streak restarted after success")
}

func TestBreaker_ProbeAfterCooldown(t *testing.T) {
	b, clock := newTestBreaker(1, time.Minute)

	require.True(t, b.Failure())
	require.False(t, b.Allow())

	clock.Advance(time.Minute)
	assert.True(t, b.Allow(), "cooldown elapsed, one probe goes through")
	assert.False(t, b.Allow(), "probe re-arms the cooldown window")
}

func TestBreaker_ProbeSuccessCloses(t *testing.T) {
	b, clock := newTestBreaker(1, time.Minute)

	b.Failure()
	clock.Advance(time.Minute)
	require.True(t, b.Allow())

	closed := b.Success()

	assert.True(t, closed, "probe success should report the transition")
	assert.Equal(t, Closed, b.State())
	assert.True(t, b.Allow())
}

func TestBreaker_FailedProbeKeepsItOpen(t *testing.T) {
	b, clock := newTestBreaker(1, time.Minute)

	b.Failure()
	clock.Advance(time.Minute)
	require.True(t, b.Allow())

	assert.False(t, b.Failure(), "already open, no transition to report")
	assert.Equal(t, Open, b.State())
	assert.False(t, b.Allow())
}

func TestBreaker_Defaults(t *testing.T) {
	b := New("defaults")

	assert.Equal(t, "defaults", b.Name())
	assert.Equal(t, defaultThreshold, b.threshold)
	assert.Equal(t, defaultCooldown, b.cooldown)
	assert.Equal(t, Closed, b.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "open", Open.String())
}
