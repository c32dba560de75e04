package resilience

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidBreakerConfig = errors.New("invalid circuit breaker config")

// CircuitBreakerConfig tunes the breaker guarding one remote dependency.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

// Validate rejects non-positive limits whether or not the breaker is enabled,
// so toggling Enabled never exposes a broken setting.
func (c CircuitBreakerConfig) Validate() error {
	switch {
	case c.FailureThreshold <= 0:
		return fmt.Errorf("%w: failure threshold must be > 0, got %d", ErrInvalidBreakerConfig, c.FailureThreshold)
	case c.OpenTimeout <= 0:
		return fmt.Errorf("%w: open timeout must be > 0, got %s", ErrInvalidBreakerConfig, c.OpenTimeout)
	case c.HalfOpenMaxReq <= 0:
		return fmt.Errorf("%w: half-open max requests must be > 0, got %d", ErrInvalidBreakerConfig, c.HalfOpenMaxReq)
	}
	return nil
}

// withDefaults fills unset limits; tests build breakers from partial configs.
func (c CircuitBreakerConfig) withDefaults() CircuitBreakerConfig {
	defaults := DefaultCircuitBreakerConfig()
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = defaults.FailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaults.OpenTimeout
	}
	if c.HalfOpenMaxReq <= 0 {
		c.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return c
}
