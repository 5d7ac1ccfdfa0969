package kvasync

import "time"

// BatchPolicy is the caller-supplied execution configuration for one batch
// command. The command owns its policy for the duration of execution.
type BatchPolicy struct {
	// TotalTimeout bounds the whole driver call. Zero means the driver default.
	TotalTimeout time.Duration

	// MaxRetries is the number of retries the driver may attempt.
	MaxRetries int

	// SendKey asks the server to store the user key alongside the digest.
	SendKey bool

	// Filter is an optional server-side filter expression. It is an
	// execution-scoped resource: the dispatcher drops it as soon as the
	// driver call returns.
	Filter *Expression
}

// Expression is an opaque compiled filter expression passed through to the
// driver.
type Expression struct {
	buf []byte
}

// CompileExpression wraps a serialized filter expression. The input bytes are
// copied, the expression does not alias the caller's buffer.
func CompileExpression(raw []byte) *Expression {
	if len(raw) == 0 {
		return nil
	}
	buf := make([]byte, len(raw))
	copy(buf, raw)
	return &Expression{buf: buf}
}

// Bytes exposes the serialized form for drivers.
func (e *Expression) Bytes() []byte {
	if e == nil {
		return nil
	}
	return e.buf
}
