package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerStaysClosedOnSuccess(t *testing.T) {
	b := New("test", Settings{})

	for i := 0; i < 10; i++ {
		_, err := b.Execute(func() (interface{}, error) { return nil, nil })
		require.NoError(t, err)
	}
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerTripsAfterConsecutiveFailures(t *testing.T) {
	b := New("test", Settings{
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 3 },
	})

	boom := errors.New("boom")
	for i := 0; i < 3; i++ {
		_, err := b.Execute(func() (interface{}, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)
	}

	assert.Equal(t, StateOpen, b.State())

	_, err := b.Execute(func() (interface{}, error) { return nil, nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestBreakerHalfOpenRecovery(t *testing.T) {
	b := New("test", Settings{
		MaxRequests: 1,
		Timeout:     10 * time.Millisecond,
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 1 },
	})

	_, _ = b.Execute(func() (interface{}, error) { return nil, errors.New("x") })
	require.Equal(t, StateOpen, b.State())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, b.State())

	_, err := b.Execute(func() (interface{}, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "open", StateOpen.String())
}
