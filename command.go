package kvasync

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

// commandState tracks a command's position in its lifecycle. Transitions are
// strictly forward: Created → Preparing → Queued → Executing → Completing →
// Done, with errored commands skipping from any pre-completion state straight
// to Completing.
type commandState int32

const (
	stateCreated commandState = iota
	statePreparing
	stateQueued
	stateExecuting
	stateCompleting
	stateDone
)

func (s commandState) String() string {
	switch s {
	case stateCreated:
		return "created"
	case statePreparing:
		return "preparing"
	case stateQueued:
		return "queued"
	case stateExecuting:
		return "executing"
	case stateCompleting:
		return "completing"
	case stateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Command is one in-flight request/response cycle through the dispatcher.
//
// A command is created on the caller's goroutine, mutated only by its worker
// during execution, and read-only once it reaches the completion stage. It
// owns every resource it accumulates (decoded keys, policy, cloned result
// entries) and drops them all when it is destroyed, regardless of which phase
// failed.
type Command struct {
	op     Operation
	client *Client // shared, never mutated through the command

	// Request parameters, populated by Prepare on the caller's goroutine.
	keys   []Key
	policy *BatchPolicy

	// Result set, populated by the batch callback on the worker. nil means
	// the driver call never produced results; an empty non-nil slice is the
	// driver's total-failure signal.
	results []BatchResult

	err   *Error
	state atomic.Int32

	// One-shot completion handle.
	ready    chan struct{}
	response *BatchResponse
	waitErr  error
}

func newCommand(op Operation, client *Client) *Command {
	return &Command{
		op:     op,
		client: client,
		ready:  make(chan struct{}),
	}
}

// Name returns the operation name, e.g. "BatchExists".
func (c *Command) Name() string {
	return c.op.Name()
}

// SetError records a command-level error. The first error wins; later phases
// observe it through CanExecute and skip their own work.
func (c *Command) SetError(code Status, format string, args ...any) {
	if c.err != nil {
		return
	}
	c.err = &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsError reports whether a previous phase recorded an error.
func (c *Command) IsError() bool {
	return c.err != nil
}

// CanExecute reports whether the execute phase may run.
func (c *Command) CanExecute() bool {
	return c.err == nil
}

// State returns the current lifecycle state, mainly for logging.
func (c *Command) State() string {
	return commandState(c.state.Load()).String()
}

func (c *Command) transition(to commandState) {
	c.state.Store(int32(to))
}

// Wait blocks until the command completes and returns its response, or the
// context error if ctx expires first. The command keeps running either way;
// completion is not cancellation.
func (c *Command) Wait(ctx context.Context) (*BatchResponse, error) {
	select {
	case <-c.ready:
		if c.waitErr == nil && c.response == nil {
			return nil, errors.New("kvasync: command completed without a response")
		}
		return c.response, c.waitErr
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done returns a channel closed when the command has completed.
func (c *Command) Done() <-chan struct{} {
	return c.ready
}

// complete fires the completion handle exactly once. Extra calls are no-ops,
// which keeps the error paths safe to fold together.
func (c *Command) complete(resp *BatchResponse, err error) {
	select {
	case <-c.ready:
	default:
		c.response = resp
		c.waitErr = err
		close(c.ready)
	}
}

// onBatchResults is the streaming callback handed to the driver. It runs on
// the worker, zero or more times per driver call, and transfers ownership of
// every entry into the command's result set via deep clones.
//
// A nil or empty page is the driver's total-failure signal: the result set is
// forced empty and the driver call is halted early.
func (c *Command) onBatchResults(entries []DriverEntry) bool {
	if len(entries) == 0 {
		c.results = []BatchResult{}
		return false
	}

	if c.results == nil {
		c.results = make([]BatchResult, 0, len(entries))
	}
	for _, e := range entries {
		res := BatchResult{
			Status: e.Status,
			Key:    CloneKey(e.Key),
		}
		// The driver's record pointer is shared, not owned. Records are only
		// populated for entries the server actually returned.
		if e.Status == StatusOK {
			res.Record = CloneRecord(e.Record)
		}
		c.results = append(c.results, res)
	}
	return true
}

// releaseScratch drops the execution-scoped request resources once the driver
// call has returned. They are one-shot inputs, success or failure.
func (c *Command) releaseScratch() {
	c.keys = nil
	if c.policy != nil {
		c.policy.Filter = nil
	}
}

// destroy drops everything the command still owns. It covers the error path
// where result entries were cloned but never translated.
func (c *Command) destroy() {
	c.keys = nil
	c.policy = nil
	c.results = nil
	c.transition(stateDone)
}
