package kvasync

import "sync/atomic"

// DispatcherStats contains statistics about command dispatch.
// All fields are safe for concurrent access.
//
// For Prometheus integration, expose these as counters.
type DispatcherStats struct {
	Submitted uint64 // commands accepted for dispatch
	Completed uint64 // commands that delivered a result sequence
	Failed    uint64 // commands that delivered a command-level error
	Rejected  uint64 // commands refused because the dispatcher was closed
}

// ClientStats contains statistics about client operations.
// All fields are safe for concurrent access.
type ClientStats struct {
	BatchExists   uint64 // BatchExists commands submitted
	BatchReads    uint64 // BatchRead commands submitted
	KeysRequested uint64 // total keys across all submitted batches
}

// dispatcherStatsCollector provides internal methods for updating dispatcher
// stats. Not exported - the dispatcher updates its own stats.
type dispatcherStatsCollector struct {
	stats *DispatcherStats
}

func newDispatcherStatsCollector() *dispatcherStatsCollector {
	return &dispatcherStatsCollector{stats: &DispatcherStats{}}
}

func (c *dispatcherStatsCollector) recordSubmitted() {
	atomic.AddUint64(&c.stats.Submitted, 1)
}

func (c *dispatcherStatsCollector) recordCompleted() {
	atomic.AddUint64(&c.stats.Completed, 1)
}

func (c *dispatcherStatsCollector) recordFailed() {
	atomic.AddUint64(&c.stats.Failed, 1)
}

func (c *dispatcherStatsCollector) recordRejected() {
	atomic.AddUint64(&c.stats.Rejected, 1)
}

func (c *dispatcherStatsCollector) snapshot() DispatcherStats {
	return DispatcherStats{
		Submitted: atomic.LoadUint64(&c.stats.Submitted),
		Completed: atomic.LoadUint64(&c.stats.Completed),
		Failed:    atomic.LoadUint64(&c.stats.Failed),
		Rejected:  atomic.LoadUint64(&c.stats.Rejected),
	}
}

// clientStatsCollector provides internal methods for updating client stats.
// Not exported - the client updates its own stats.
type clientStatsCollector struct {
	stats *ClientStats
}

func newClientStatsCollector() *clientStatsCollector {
	return &clientStatsCollector{stats: &ClientStats{}}
}

func (c *clientStatsCollector) recordBatchExists(keys int) {
	atomic.AddUint64(&c.stats.BatchExists, 1)
	atomic.AddUint64(&c.stats.KeysRequested, uint64(keys))
}

func (c *clientStatsCollector) recordBatchRead(keys int) {
	atomic.AddUint64(&c.stats.BatchReads, 1)
	atomic.AddUint64(&c.stats.KeysRequested, uint64(keys))
}

func (c *clientStatsCollector) snapshot() ClientStats {
	return ClientStats{
		BatchExists:   atomic.LoadUint64(&c.stats.BatchExists),
		BatchReads:    atomic.LoadUint64(&c.stats.BatchReads),
		KeysRequested: atomic.LoadUint64(&c.stats.KeysRequested),
	}
}
