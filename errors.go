package kvasync

import "errors"

var (
	// ErrPoolClosed is returned by SlotPool.Acquire after Close.
	ErrPoolClosed = errors.New("kvasync: slot pool closed")

	// ErrClientClosed is returned for commands submitted after Close.
	ErrClientClosed = errors.New("kvasync: client closed")
)
