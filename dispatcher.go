package kvasync

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// Dispatcher runs commands through their three-phase lifecycle.
//
// Prepare runs synchronously on the submitting goroutine, so validation
// failures never consume a worker slot. Execute runs on its own goroutine,
// gated by the slot pool, and is where the blocking driver call lives.
// Respond runs on the dispatcher's single completion goroutine, which
// serializes result translation and the one-shot completion hand-off for
// every command; the translation layer is never entered concurrently.
//
// Phases of a single command are strictly sequential, handed off through the
// completions channel. Distinct commands share nothing but the client handle
// and may overlap freely.
type Dispatcher struct {
	slots       SlotPool
	completions chan *Command
	logger      *slog.Logger
	stats       *dispatcherStatsCollector

	wg       sync.WaitGroup
	loopDone chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a dispatcher from the given configuration and starts
// its completion loop. Call Close to shut it down.
func NewDispatcher(config Config) (*Dispatcher, error) {
	config = config.withDefaults()

	poolFactory := config.SlotPool
	if poolFactory == nil {
		poolFactory = NewChannelSlotPool
	}
	slots, err := poolFactory(config.Workers)
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	d := &Dispatcher{
		slots:       slots,
		completions: make(chan *Command, config.CompletionBuffer),
		logger:      logger,
		stats:       newDispatcherStatsCollector(),
		loopDone:    make(chan struct{}),
	}
	go d.run()
	return d, nil
}

// Submit runs the prepare phase and schedules the rest of the command's
// lifecycle. It never blocks on worker availability; a command waiting for a
// slot is simply queued. The returned command completes exactly once, through
// its Wait/Done handle, regardless of which phase fails.
func (d *Dispatcher) Submit(op Operation, client *Client) *Command {
	cmd := newCommand(op, client)

	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		cmd.SetError(StatusErrClient, "submit %s: %v", op.Name(), ErrClientClosed)
		d.stats.recordRejected()
		cmd.transition(stateCompleting)
		cmd.complete(nil, cmd.err)
		cmd.destroy()
		return cmd
	}
	d.wg.Add(1)
	d.mu.RUnlock()

	d.stats.recordSubmitted()

	cmd.transition(statePreparing)
	cmd.op.Prepare(cmd)
	if cmd.IsError() {
		// Validation failed on the caller's side; the worker pool is never
		// involved.
		d.logger.Debug("command failed in prepare",
			slog.String("command", cmd.Name()),
			slog.String("error", cmd.err.Message))
		go d.finish(cmd)
		return cmd
	}

	cmd.transition(stateQueued)
	go d.executeCommand(cmd)
	return cmd
}

// executeCommand runs the worker side of one command: wait for a slot, run
// the blocking driver call, hand the command to the completion loop.
func (d *Dispatcher) executeCommand(cmd *Command) {
	slot, err := d.slots.Acquire(context.Background())
	if err != nil {
		cmd.SetError(StatusErrClient, "acquire worker slot: %v", err)
		d.finish(cmd)
		return
	}

	if cmd.CanExecute() {
		cmd.transition(stateExecuting)
		d.logger.Debug("executing command",
			slog.String("command", cmd.Name()),
			slog.Int("keys", len(cmd.keys)))
		cmd.op.Execute(cmd)
	}
	slot.Release()

	d.finish(cmd)
}

// finish hands the command to the completion loop. The send is balanced by
// the wg.Add in Submit; Close waits for all of them before closing the
// channel.
func (d *Dispatcher) finish(cmd *Command) {
	d.completions <- cmd
	d.wg.Done()
}

// run is the completion loop, the single goroutine on which every command's
// respond phase and completion hand-off executes.
func (d *Dispatcher) run() {
	defer close(d.loopDone)
	for cmd := range d.completions {
		d.respond(cmd)
	}
}

func (d *Dispatcher) respond(cmd *Command) {
	cmd.transition(stateCompleting)

	if cmd.IsError() {
		d.stats.recordFailed()
		d.logger.Debug("command completed with error",
			slog.String("command", cmd.Name()),
			slog.String("status", cmd.err.Code.String()))
		cmd.complete(nil, cmd.err)
	} else {
		resp := cmd.op.Respond(cmd)
		d.stats.recordCompleted()
		d.logger.Debug("command completed",
			slog.String("command", cmd.Name()),
			slog.Int("results", len(resp.Entries)))
		cmd.complete(resp, nil)
	}

	cmd.destroy()
}

// Close drains all in-flight commands, stops the completion loop and
// releases the slot pool. Commands submitted afterwards complete immediately
// with a client error.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.wg.Wait()
	close(d.completions)
	<-d.loopDone
	d.slots.Close()
}

// Stats returns a snapshot of dispatcher statistics.
func (d *Dispatcher) Stats() DispatcherStats {
	return d.stats.snapshot()
}

// SlotStats returns a snapshot of the slot pool statistics.
func (d *Dispatcher) SlotStats() SlotStats {
	return d.slots.Stats()
}
