package remote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errUpstream = errors.New("upstream down")

func fail() error    { return errUpstream }
func succeed() error { return nil }

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker("catalog", 3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Call(fail), errUpstream)
	}
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Call(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreaker("catalog", 3, time.Minute)

	_ = cb.Call(fail)
	_ = cb.Call(fail)
	_ = cb.Call(succeed)
	_ = cb.Call(fail)
	_ = cb.Call(fail)

	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_CancellationIsNotAFailure(t *testing.T) {
	cb := NewCircuitBreaker("catalog", 1, time.Minute)

	err := cb.Call(func() error { return context.Canceled })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker("catalog", 1, 30*time.Second)
	cb.now = func() time.Time { return now }

	_ = cb.Call(fail)
	assert.Equal(t, StateOpen, cb.State())

	now = now.Add(31 * time.Second)
	assert.NoError(t, cb.Call(succeed))
	assert.Equal(t, StateHalfOpen, cb.State())

	assert.NoError(t, cb.Call(succeed))
	assert.NoError(t, cb.Call(succeed))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker("catalog", 1, 30*time.Second)
	cb.now = func() time.Time { return now }

	_ = cb.Call(fail)
	now = now.Add(31 * time.Second)

	assert.ErrorIs(t, cb.Call(fail), errUpstream)
	assert.Equal(t, StateOpen, cb.State())
	assert.ErrorIs(t, cb.Call(succeed), ErrCircuitOpen)
}
