package remote

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tair/catalog-console/pkg/logger"
)

// ErrCircuitOpen is returned without calling the remote service while the breaker is open
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitState represents the state of a circuit breaker
type CircuitState string

const (
	StateClosed   CircuitState = "closed"    // Normal operation
	StateOpen     CircuitState = "open"      // Failing fast
	StateHalfOpen CircuitState = "half-open" // Probing recovery
)

// halfOpenSuccesses is the number of probes that must succeed before closing again
const halfOpenSuccesses = 3

// CircuitBreaker stops calling the remote catalog after repeated failures
type CircuitBreaker struct {
	name            string
	maxFailures     int
	openTimeout     time.Duration
	state           CircuitState
	failures        int
	successCount    int
	lastFailureTime time.Time
	lastStateChange time.Time
	now             func() time.Time
	mu              sync.Mutex
}

// NewCircuitBreaker creates a breaker that opens after maxFailures consecutive
// failures and probes again after openTimeout
func NewCircuitBreaker(name string, maxFailures int, openTimeout time.Duration) *CircuitBreaker {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}
	return &CircuitBreaker{
		name:            name,
		maxFailures:     maxFailures,
		openTimeout:     openTimeout,
		state:           StateClosed,
		lastStateChange: time.Now(),
		now:             time.Now,
	}
}

// Call executes fn unless the circuit is open. Cancellation by the caller is
// not counted as a failure.
func (cb *CircuitBreaker) Call(fn func() error) error {
	cb.mu.Lock()
	if cb.state == StateOpen && cb.now().Sub(cb.lastStateChange) > cb.openTimeout {
		cb.setState(StateHalfOpen)
		cb.successCount = 0
		logger.Logger.Info().
			Str("circuit", cb.name).
			Msg("Circuit breaker transitioning to half-open")
	}
	state := cb.state
	cb.mu.Unlock()

	if state == StateOpen {
		return ErrCircuitOpen
	}

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch {
	case err == nil:
		cb.onSuccess()
	case errors.Is(err, context.Canceled):
	default:
		cb.onFailure()
	}

	return err
}

func (cb *CircuitBreaker) onFailure() {
	cb.failures++
	cb.lastFailureTime = cb.now()

	if cb.state == StateHalfOpen {
		cb.setState(StateOpen)
		logger.Logger.Warn().
			Str("circuit", cb.name).
			Msg("Circuit breaker reopened after half-open failure")
		return
	}

	if cb.failures >= cb.maxFailures {
		cb.setState(StateOpen)
		logger.Logger.Error().
			Str("circuit", cb.name).
			Int("failures", cb.failures).
			Int("threshold", cb.maxFailures).
			Msg("Circuit breaker opened")
	}
}

func (cb *CircuitBreaker) onSuccess() {
	if cb.state == StateHalfOpen {
		cb.successCount++
		if cb.successCount >= halfOpenSuccesses {
			cb.setState(StateClosed)
			cb.failures = 0
			cb.successCount = 0
			logger.Logger.Info().
				Str("circuit", cb.name).
				Msg("Circuit breaker closed after successful recovery")
		}
		return
	}
	cb.failures = 0
}

func (cb *CircuitBreaker) setState(s CircuitState) {
	cb.state = s
	cb.lastStateChange = cb.now()
}

// State returns the current state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Stats returns circuit breaker statistics for the readiness endpoint
func (cb *CircuitBreaker) Stats() map[string]interface{} {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return map[string]interface{}{
		"name":              cb.name,
		"state":             cb.state,
		"failures":          cb.failures,
		"max_failures":      cb.maxFailures,
		"last_failure_time": cb.lastFailureTime,
		"last_state_change": cb.lastStateChange,
	}
}
