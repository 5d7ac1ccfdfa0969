package kvasync

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kvasync/kvasync/internal/coarsetime"
)

// SlotPool bounds how many commands may run their blocking driver call at the
// same time. A command acquires a slot before entering the execute phase and
// releases it as soon as the driver call returns; a command waiting on
// Acquire is in its queued state.
type SlotPool interface {
	// Acquire blocks until a slot is free or ctx is done.
	Acquire(ctx context.Context) (Slot, error)

	// Close releases the pool. Pending Acquire calls fail.
	Close()

	// Stats returns a snapshot of pool statistics.
	Stats() SlotStats
}

// Slot is one held execution slot.
type Slot interface {
	Release()
}

// SlotPoolFactory builds a slot pool of the given capacity. Config selects
// the implementation; NewChannelSlotPool is the default.
type SlotPoolFactory func(capacity int32) (SlotPool, error)

// SlotStats contains statistics about a slot pool.
type SlotStats struct {
	AcquireCount      uint64 // total acquire attempts
	AcquireWaitCount  uint64 // acquires that had to wait
	AcquireWaitTimeNs uint64 // total nanoseconds spent waiting
	AcquireErrors     uint64 // failed acquire attempts
	InUse             int32  // slots currently held
	Capacity          int32  // pool capacity
}

// NewChannelSlotPool creates a channel-based slot pool. This is the default
// implementation, optimized for the uncontended path.
func NewChannelSlotPool(capacity int32) (SlotPool, error) {
	p := &channelSlotPool{
		slots:    make(chan struct{}, capacity),
		capacity: capacity,
	}
	for range capacity {
		p.slots <- struct{}{}
	}
	return p, nil
}

type channelSlotPool struct {
	slots    chan struct{}
	capacity int32

	mu     sync.Mutex
	closed bool

	acquires      atomic.Uint64
	waits         atomic.Uint64
	waitTimeNs    atomic.Uint64
	acquireErrors atomic.Uint64
	inUse         atomic.Int32
}

type channelSlot struct {
	pool *channelSlotPool
}

func (s *channelSlot) Release() {
	s.pool.inUse.Add(-1)

	// The lock orders the put against Close; a put after close would panic.
	s.pool.mu.Lock()
	defer s.pool.mu.Unlock()
	if s.pool.closed {
		return
	}
	select {
	case s.pool.slots <- struct{}{}:
	default:
		// Capacity invariant: never more tokens than the pool was built with.
	}
}

func (p *channelSlotPool) Acquire(ctx context.Context) (Slot, error) {
	p.acquires.Add(1)

	select {
	case _, ok := <-p.slots:
		if !ok {
			p.acquireErrors.Add(1)
			return nil, ErrPoolClosed
		}
		p.inUse.Add(1)
		return &channelSlot{pool: p}, nil
	default:
	}

	waitStart := coarsetime.Now()
	select {
	case _, ok := <-p.slots:
		if !ok {
			p.acquireErrors.Add(1)
			return nil, ErrPoolClosed
		}
		p.waits.Add(1)
		p.waitTimeNs.Add(uint64(time.Since(waitStart).Nanoseconds()))
		p.inUse.Add(1)
		return &channelSlot{pool: p}, nil
	case <-ctx.Done():
		p.acquireErrors.Add(1)
		return nil, ctx.Err()
	}
}

func (p *channelSlotPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.slots)
}

func (p *channelSlotPool) Stats() SlotStats {
	return SlotStats{
		AcquireCount:      p.acquires.Load(),
		AcquireWaitCount:  p.waits.Load(),
		AcquireWaitTimeNs: p.waitTimeNs.Load(),
		AcquireErrors:     p.acquireErrors.Load(),
		InUse:             p.inUse.Load(),
		Capacity:          p.capacity,
	}
}
