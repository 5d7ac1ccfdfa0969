package kvasync

// DriverEntry is one streamed batch result as handed out by the driver.
// Key and Record remain owned by the driver and are only valid for the
// duration of the callback invocation; keep a clone, never the entry itself.
type DriverEntry struct {
	Status Status
	Key    Key
	Record *Record
}

// BatchResultFunc receives pages of batch results from a blocking driver
// call, always on the worker that runs the call, always before the call
// returns. Returning false halts the driver call early.
type BatchResultFunc func(entries []DriverEntry) bool

// BatchDriver is the opaque blocking client for the remote key-value store.
//
// BatchRead blocks until the batch completes, invoking fn zero or more times
// along the way. A non-OK return means the call as a whole failed; per-key
// failures are reported through each entry's Status instead. Implementations
// must be safe for concurrent calls.
type BatchDriver interface {
	BatchRead(policy *BatchPolicy, keys []Key, fn BatchResultFunc) Status
}
