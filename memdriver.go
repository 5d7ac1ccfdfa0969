package kvasync

import (
	"sync"
	"sync/atomic"
)

// MemDriver is an in-memory BatchDriver. It backs the examples and the test
// tool, and is useful as a stand-in driver in application tests.
//
// Records are stored by key digest. The entries passed to the batch callback
// reference the driver's internal records directly, mirroring the shared
// ownership contract of a real driver: callers must clone what they keep.
type MemDriver struct {
	mu      sync.RWMutex
	records map[uint64]*Record

	calls    atomic.Int64
	failNext atomic.Bool
}

// NewMemDriver creates an empty in-memory driver.
func NewMemDriver() *MemDriver {
	return &MemDriver{records: make(map[uint64]*Record)}
}

// Put stores a record for key, replacing any previous one.
func (d *MemDriver) Put(key Key, rec *Record) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records[key.Digest()] = rec
}

// Delete removes the record for key, if any.
func (d *MemDriver) Delete(key Key) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.records, key.Digest())
}

// FailNext makes the next BatchRead report total failure: the callback is
// invoked with an empty page and the call returns StatusErrTimeout.
func (d *MemDriver) FailNext() {
	d.failNext.Store(true)
}

// Calls returns how many times BatchRead has been invoked.
func (d *MemDriver) Calls() int64 {
	return d.calls.Load()
}

// BatchRead implements BatchDriver. Results are produced in key order in a
// single page; missing keys yield StatusErrKeyNotFound entries without a
// record.
func (d *MemDriver) BatchRead(policy *BatchPolicy, keys []Key, fn BatchResultFunc) Status {
	d.calls.Add(1)

	if d.failNext.Swap(false) {
		fn(nil)
		return StatusErrTimeout
	}

	d.mu.RLock()
	entries := make([]DriverEntry, len(keys))
	for i, key := range keys {
		entry := DriverEntry{Key: key}
		if rec, ok := d.records[key.Digest()]; ok {
			entry.Status = StatusOK
			entry.Record = rec
		} else {
			entry.Status = StatusErrKeyNotFound
		}
		entries[i] = entry
	}
	d.mu.RUnlock()

	fn(entries)
	return StatusOK
}
