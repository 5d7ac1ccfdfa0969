package kvasync

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// CircuitBreaker optionally wraps the blocking driver call. When the breaker
// is open the call is rejected without reaching the driver, which the command
// layer surfaces the same way as any other total batch failure.
type CircuitBreaker interface {
	Execute(fn func() (Status, error)) (Status, error)
}

// NewCircuitBreakerConfig returns a factory that creates a gobreaker-backed
// circuit breaker per driver endpoint. This is a helper for common use cases.
func NewCircuitBreakerConfig(maxRequests uint32, interval, timeout time.Duration) func(name string) CircuitBreaker {
	return func(name string) CircuitBreaker {
		settings := gobreaker.Settings{
			Name:        name,
			MaxRequests: maxRequests,
			Interval:    interval,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
		}
		return gobreaker.NewCircuitBreaker[Status](settings)
	}
}
