package kvasync

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// Status is a per-command or per-entry result code reported by the driver.
// Negative codes originate in the client, non-negative codes in the server.
type Status int

const (
	// StatusErrParam indicates malformed request input, detected before the
	// driver is ever invoked.
	StatusErrParam Status = -2

	// StatusErrClient indicates a client-side failure (dispatcher shut down,
	// worker slot unavailable, circuit breaker open).
	StatusErrClient Status = -1

	// StatusOK indicates success.
	StatusOK Status = 0

	// StatusErrKeyNotFound indicates the requested key does not exist.
	StatusErrKeyNotFound Status = 2

	// StatusErrTimeout indicates the driver call timed out.
	StatusErrTimeout Status = 9
)

func (s Status) String() string {
	switch s {
	case StatusErrParam:
		return "ERR_PARAM"
	case StatusErrClient:
		return "ERR_CLIENT"
	case StatusOK:
		return "OK"
	case StatusErrKeyNotFound:
		return "ERR_KEY_NOT_FOUND"
	case StatusErrTimeout:
		return "ERR_TIMEOUT"
	default:
		return fmt.Sprintf("STATUS(%d)", int(s))
	}
}

// Error is the command-level error carried from a failed phase to the caller.
// Per-entry failures are never represented as an Error; they travel inline in
// each result entry's Status.
type Error struct {
	Code    Status
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("kvasync: %s: %s", e.Code, e.Message)
}

func newParamError(format string, args ...any) *Error {
	return &Error{Code: StatusErrParam, Message: fmt.Sprintf(format, args...)}
}

func newClientError(format string, args ...any) *Error {
	return &Error{Code: StatusErrClient, Message: fmt.Sprintf(format, args...)}
}

// AsError unwraps err into an *Error if it is one.
func AsError(err error) (*Error, bool) {
	e, ok := err.(*Error)
	return e, ok
}

// Key identifies a record in the remote store. Value may be a string, an
// int64, or a []byte.
type Key struct {
	Namespace string
	SetName   string
	Value     any
}

// Digest returns a stable hash of the key, used by drivers to locate the
// record. Keys with equal namespace, set and value hash equally.
func (k Key) Digest() uint64 {
	h := xxh3.New()
	_, _ = h.WriteString(k.Namespace)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(k.SetName)
	_, _ = h.Write([]byte{0})
	switch v := k.Value.(type) {
	case string:
		_, _ = h.WriteString(v)
	case []byte:
		_, _ = h.Write(v)
	case int64:
		var buf [8]byte
		for i := range buf {
			buf[i] = byte(v >> (8 * i))
		}
		_, _ = h.Write(buf[:])
	default:
		_, _ = h.WriteString(fmt.Sprint(v))
	}
	return h.Sum64()
}

// Record is one stored record: named bins plus server-side metadata.
type Record struct {
	Bins       map[string]any
	Generation uint32
	Expiration uint32
}

// BatchResult is one entry of a command's result set. Key and Record are
// owned by the entry: they are deep clones with no aliasing back into
// driver-internal buffers. Record is nil unless Status is StatusOK.
type BatchResult struct {
	Status Status
	Key    Key
	Record *Record
}
