// Package coarsetime provides a cheap clock for hot paths that only need
// coarse timestamps, such as slot-pool wait accounting. The current time is
// refreshed every 50ms by a background goroutine instead of calling
// time.Now() on every read.
package coarsetime

import (
	"sync/atomic"
	"time"
)

const resolution = 50 * time.Millisecond

var current atomic.Value

func init() {
	current.Store(time.Now())

	ticker := time.NewTicker(resolution)
	go func() {
		for range ticker.C {
			current.Store(time.Now())
		}
	}()
}

// Now returns the current time, accurate to the refresh resolution.
func Now() time.Time {
	return current.Load().(time.Time)
}
