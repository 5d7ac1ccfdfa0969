package kvasync

import (
	"context"

	"github.com/jackc/puddle/v2"
)

// NewPuddleSlotPool creates a puddle-backed slot pool. Compared to the
// channel pool it adds fairness for waiters and richer accounting; use it
// when the driver call regularly saturates the workers.
func NewPuddleSlotPool(capacity int32) (SlotPool, error) {
	pool, err := puddle.NewPool(&puddle.Config[struct{}]{
		Constructor: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, nil
		},
		Destructor: func(struct{}) {},
		MaxSize:    capacity,
	})
	if err != nil {
		return nil, err
	}
	return &puddleSlotPool{pool: pool, capacity: capacity}, nil
}

type puddleSlotPool struct {
	pool     *puddle.Pool[struct{}]
	capacity int32
}

type puddleSlot struct {
	res *puddle.Resource[struct{}]
}

func (s *puddleSlot) Release() {
	s.res.Release()
}

func (p *puddleSlotPool) Acquire(ctx context.Context) (Slot, error) {
	res, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &puddleSlot{res: res}, nil
}

func (p *puddleSlotPool) Close() {
	p.pool.Close()
}

func (p *puddleSlotPool) Stats() SlotStats {
	s := p.pool.Stat()
	return SlotStats{
		AcquireCount:      uint64(s.AcquireCount()),
		AcquireWaitCount:  uint64(s.EmptyAcquireCount()),
		AcquireWaitTimeNs: uint64(s.EmptyAcquireWaitTime().Nanoseconds()),
		AcquireErrors:     uint64(s.CanceledAcquireCount()),
		InUse:             s.AcquiredResources(),
		Capacity:          p.capacity,
	}
}
