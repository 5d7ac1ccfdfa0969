package kvasync

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// stubDriver is a scriptable BatchDriver for dispatch tests.
type stubDriver struct {
	calls atomic.Int64
	fn    func(policy *BatchPolicy, keys []Key, cb BatchResultFunc) Status
}

func (d *stubDriver) BatchRead(policy *BatchPolicy, keys []Key, cb BatchResultFunc) Status {
	d.calls.Add(1)
	if d.fn == nil {
		entries := make([]DriverEntry, len(keys))
		for i, key := range keys {
			entries[i] = DriverEntry{
				Status: StatusOK,
				Key:    key,
				Record: &Record{Bins: map[string]any{"n": int64(i)}, Generation: 1, Expiration: 60},
			}
		}
		cb(entries)
		return StatusOK
	}
	return d.fn(policy, keys, cb)
}

func newTestClient(t testing.TB, driver BatchDriver, config Config) *Client {
	t.Helper()
	client, err := NewClient(driver, config)
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func testRawKeys(values ...string) []RawKey {
	keys := make([]RawKey, len(values))
	for i, v := range values {
		keys[i] = RawKey{Namespace: "test", Set: "demo", Value: v}
	}
	return keys
}

func waitForResponse(t testing.TB, cmd *Command) *BatchResponse {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := cmd.Wait(ctx)
	require.NoError(t, err)
	require.NotNil(t, resp)
	return resp
}

func waitForError(t testing.TB, cmd *Command) *Error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := cmd.Wait(ctx)
	require.Error(t, err)
	require.Nil(t, resp)
	cmdErr, ok := AsError(err)
	require.True(t, ok, "expected *Error, got %T", err)
	return cmdErr
}

func assertEntryOK(t testing.TB, entry ResultEntry) {
	t.Helper()
	require.Equal(t, StatusOK, entry.Status)
	require.NotNil(t, entry.Meta, "OK entry must carry metadata")
}

func assertEntryMissing(t testing.TB, entry ResultEntry) {
	t.Helper()
	require.Equal(t, StatusErrKeyNotFound, entry.Status)
	require.Nil(t, entry.Meta, "missing entry must not carry metadata")
	require.Nil(t, entry.Bins, "missing entry must not carry bins")
}
