package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(clock *fakeClock) *Breaker {
	return New("ledger",
		WithFailureThreshold(2),
		WithSuccessThreshold(2),
		WithCooldown(time.Minute),
		WithClock(clock.Now),
	)
}

func TestBreaker(t *testing.T) {
	t.Run("opens after consecutive failures", func(t *testing.T) {
		b := newTestBreaker(&fakeClock{t: time.Unix(0, 0)})

		assert.False(t, b.RecordFailure().Opened)
		assert.True(t, b.RecordFailure().Opened)
		assert.Equal(t, StateOpen, b.State())
		assert.False(t, b.Allow())
	})

	t.Run("success resets the failure streak", func(t *testing.T) {
		b := newTestBreaker(&fakeClock{t: time.Unix(0, 0)})

		b.RecordFailure()
		b.RecordSuccess()
		assert.False(t, b.RecordFailure().Opened)
		assert.Equal(t, StateClosed, b.State())
	})

	t.Run("probes after cooldown and closes on enough successes", func(t *testing.T) {
		clock := &fakeClock{t: time.Unix(0, 0)}
		b := newTestBreaker(clock)
		b.RecordFailure()
		b.RecordFailure()

		clock.Advance(59 * time.Second)
		assert.False(t, b.Allow())

		clock.Advance(time.Second)
		assert.True(t, b.Allow())
		assert.Equal(t, StateHalfOpen, b.State())

		assert.False(t, b.RecordSuccess().Closed)
		assert.True(t, b.RecordSuccess().Closed)
		assert.Equal(t, StateClosed, b.State())
	})

	t.Run("failed probe reopens", func(t *testing.T) {
		clock := &fakeClock{t: time.Unix(0, 0)}
		b := newTestBreaker(clock)
		b.RecordFailure()
		b.RecordFailure()
		clock.Advance(time.Minute)
		assert.True(t, b.Allow())

		assert.True(t, b.RecordFailure().Opened)
		assert.False(t, b.Allow())
	})

	t.Run("reset closes", func(t *testing.T) {
		b := newTestBreaker(&fakeClock{t: time.Unix(0, 0)})
		b.RecordFailure()
		b.RecordFailure()
		b.Reset()
		assert.True(t, b.Allow())
		assert.Equal(t, "closed", b.State().String())
	})
}
