package kvasync

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClientStats(t *testing.T) {
	driver := NewMemDriver()
	client := newTestClient(t, driver, Config{})

	waitForResponse(t, client.BatchExists(testRawKeys("a", "b"), nil))
	waitForResponse(t, client.BatchRead(testRawKeys("c"), nil))

	stats := client.Stats()
	require.Equal(t, uint64(1), stats.BatchExists)
	require.Equal(t, uint64(1), stats.BatchReads)
	require.Equal(t, uint64(3), stats.KeysRequested)
}

func TestClientPolicyReachesDriver(t *testing.T) {
	var seen *BatchPolicy
	driver := &stubDriver{fn: func(policy *BatchPolicy, keys []Key, cb BatchResultFunc) Status {
		seen = policy
		cb([]DriverEntry{{Status: StatusOK, Key: keys[0], Record: &Record{}}})
		return StatusOK
	}}
	client := newTestClient(t, driver, Config{})

	raw := &RawPolicy{TotalTimeoutMs: 750, SendKey: true, FilterExpression: []byte{1}}
	waitForResponse(t, client.BatchExists(testRawKeys("a"), raw))

	require.NotNil(t, seen)
	require.Equal(t, 750*time.Millisecond, seen.TotalTimeout)
	require.True(t, seen.SendKey)
	require.NotNil(t, seen.Filter)
}

// fakeBreaker rejects every call, simulating an open circuit.
type fakeBreaker struct {
	rejections int
}

func (b *fakeBreaker) Execute(fn func() (Status, error)) (Status, error) {
	b.rejections++
	return 0, errors.New("circuit breaker is open")
}

func TestClientBreakerOpenBehavesAsTransportFailure(t *testing.T) {
	breaker := &fakeBreaker{}
	driver := NewMemDriver()
	client := newTestClient(t, driver, Config{
		NewCircuitBreaker: func(name string) CircuitBreaker { return breaker },
	})

	resp := waitForResponse(t, client.BatchExists(testRawKeys("a"), nil))

	require.Len(t, resp.Entries, 0, "rejected call must deliver an empty result sequence")
	require.Equal(t, 1, breaker.rejections)
	require.Equal(t, int64(0), driver.Calls(), "open breaker must not reach the driver")
}

// passBreaker forwards every call and records outcomes.
type passBreaker struct {
	failures int
}

func (b *passBreaker) Execute(fn func() (Status, error)) (Status, error) {
	status, err := fn()
	if err != nil {
		b.failures++
	}
	return status, err
}

func TestClientBreakerCountsDriverFailures(t *testing.T) {
	breaker := &passBreaker{}
	driver := NewMemDriver()
	driver.Put(Key{Namespace: "test", SetName: "demo", Value: "a"}, &Record{Generation: 1})
	client := newTestClient(t, driver, Config{
		NewCircuitBreaker: func(name string) CircuitBreaker { return breaker },
	})

	// Success passes through untouched.
	resp := waitForResponse(t, client.BatchExists(testRawKeys("a"), nil))
	require.Len(t, resp.Entries, 1)
	require.Equal(t, 0, breaker.failures)

	// Driver failure is reported to the breaker and still surfaces as an
	// empty result sequence.
	driver.FailNext()
	resp = waitForResponse(t, client.BatchExists(testRawKeys("a"), nil))
	require.Len(t, resp.Entries, 0)
	require.Equal(t, 1, breaker.failures)
}

func TestNewCircuitBreakerConfig(t *testing.T) {
	factory := NewCircuitBreakerConfig(2, time.Minute, time.Minute)
	breaker := factory("batch")
	require.NotNil(t, breaker)

	status, err := breaker.Execute(func() (Status, error) { return StatusOK, nil })
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
}
