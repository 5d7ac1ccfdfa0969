package kvasync

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Config holds configuration for a client and its dispatcher.
type Config struct {
	// Workers is the maximum number of blocking driver calls in flight.
	// Defaults to DefaultWorkers.
	Workers int32 `env:"KVASYNC_WORKERS"`

	// CompletionBuffer is the size of the completion channel between workers
	// and the completion loop. Defaults to twice the worker count.
	CompletionBuffer int `env:"KVASYNC_COMPLETION_BUFFER"`

	// SlotPool selects the execution slot pool implementation.
	// If nil, NewChannelSlotPool is used.
	// To use the puddle pool: SlotPool: kvasync.NewPuddleSlotPool.
	SlotPool SlotPoolFactory

	// NewCircuitBreaker creates a circuit breaker wrapping the driver call.
	// If nil, no circuit breaker is used.
	NewCircuitBreaker func(name string) CircuitBreaker

	// Logger receives phase-level debug logs. If nil, logs are discarded.
	Logger *slog.Logger
}

// DefaultWorkers bounds driver-call concurrency when Config.Workers is unset.
const DefaultWorkers = 8

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.CompletionBuffer <= 0 {
		c.CompletionBuffer = int(c.Workers) * 2
	}
	return c
}

// ConfigFromEnv loads the numeric configuration from KVASYNC_* environment
// variables. Function-valued fields still have to be set in code.
func ConfigFromEnv() (Config, error) {
	var config Config
	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("kvasync: parse env config: %w", err)
	}
	if config.Workers < 0 {
		return Config{}, fmt.Errorf("kvasync: KVASYNC_WORKERS must not be negative")
	}
	return config, nil
}
