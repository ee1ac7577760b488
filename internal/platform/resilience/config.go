package resilience

import (
	"fmt"
	"time"
)

// CircuitBreakerConfig tunes the breaker guarding the team store database.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

const (
	DefaultFailureThreshold = 5
	DefaultOpenTimeout      = 15 * time.Second
	DefaultHalfOpenMaxReq   = 2
)

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: DefaultFailureThreshold,
		OpenTimeout:      DefaultOpenTimeout,
		HalfOpenMaxReq:   DefaultHalfOpenMaxReq,
	}
}

// Validate reports the first out-of-range field. Config loading rejects such
// values; NewCircuitBreaker replaces them with defaults instead.
func (c CircuitBreakerConfig) Validate() error {
	switch {
	case c.FailureThreshold < 1:
		return fmt.Errorf("circuit failure threshold must be >= 1, got %d", c.FailureThreshold)
	case c.OpenTimeout <= 0:
		return fmt.Errorf("circuit open timeout must be > 0, got %s", c.OpenTimeout)
	case c.HalfOpenMaxReq < 1:
		return fmt.Errorf("circuit half-open max requests must be >= 1, got %d", c.HalfOpenMaxReq)
	}
	return nil
}

func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = DefaultFailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = DefaultOpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = DefaultHalfOpenMaxReq
	}
	return cfg
}
