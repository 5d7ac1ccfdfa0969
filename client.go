package kvasync

// Client is the shared handle batch commands execute against. It wraps the
// opaque blocking driver and owns the dispatcher that moves commands between
// the caller's goroutine and the workers.
//
// A client is read-only from the command layer's perspective: any number of
// in-flight commands may reference it concurrently.
type Client struct {
	driver     BatchDriver
	breaker    CircuitBreaker
	dispatcher *Dispatcher
	stats      *clientStatsCollector
}

// NewClient creates a client around the given driver.
func NewClient(driver BatchDriver, config Config) (*Client, error) {
	dispatcher, err := NewDispatcher(config)
	if err != nil {
		return nil, err
	}

	c := &Client{
		driver:     driver,
		dispatcher: dispatcher,
		stats:      newClientStatsCollector(),
	}
	if config.NewCircuitBreaker != nil {
		c.breaker = config.NewCircuitBreaker("batch")
	}
	return c, nil
}

// BatchExists asynchronously checks a set of keys, returning per-key status
// and record metadata without bin data. The returned command completes
// exactly once; collect the outcome with Wait or Done.
//
// Entries arrive in the driver's order, which may differ from the order of
// the requested keys.
func (c *Client) BatchExists(keys []RawKey, policy *RawPolicy) *Command {
	c.stats.recordBatchExists(len(keys))
	return c.dispatcher.Submit(newBatchExistsOp(keys, policy), c)
}

// BatchRead asynchronously reads a set of keys, returning per-key status,
// record metadata and bin data. Ordering follows the driver, as with
// BatchExists.
func (c *Client) BatchRead(keys []RawKey, policy *RawPolicy) *Command {
	c.stats.recordBatchRead(len(keys))
	return c.dispatcher.Submit(newBatchReadOp(keys, policy), c)
}

// batchRead runs the blocking driver call, wrapped in the circuit breaker
// when one is configured. A rejected call (breaker open) behaves like any
// other total batch failure: non-OK status, no results.
func (c *Client) batchRead(policy *BatchPolicy, keys []Key, fn BatchResultFunc) Status {
	if c.breaker == nil {
		return c.driver.BatchRead(policy, keys, fn)
	}

	status, err := c.breaker.Execute(func() (Status, error) {
		s := c.driver.BatchRead(policy, keys, fn)
		if s != StatusOK {
			return s, &Error{Code: s, Message: "batch driver call failed"}
		}
		return s, nil
	})
	if err != nil {
		if e, ok := AsError(err); ok {
			return e.Code
		}
		return StatusErrClient
	}
	return status
}

// Close drains in-flight commands and shuts the dispatcher down.
func (c *Client) Close() {
	c.dispatcher.Close()
}

// Stats returns a snapshot of client operation statistics.
func (c *Client) Stats() ClientStats {
	return c.stats.snapshot()
}

// DispatcherStats returns a snapshot of dispatch statistics.
func (c *Client) DispatcherStats() DispatcherStats {
	return c.dispatcher.Stats()
}
