package kvasync

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBatchOpPrepareDecodesInputs(t *testing.T) {
	op := newBatchExistsOp(testRawKeys("a", "b"), &RawPolicy{TotalTimeoutMs: 100})
	cmd := newCommand(op, nil)

	op.Prepare(cmd)

	require.False(t, cmd.IsError())
	require.Len(t, cmd.keys, 2)
	require.NotNil(t, cmd.policy)
}

func TestBatchOpPrepareRejectsBadKeys(t *testing.T) {
	op := newBatchExistsOp(nil, nil)
	cmd := newCommand(op, nil)

	op.Prepare(cmd)

	require.True(t, cmd.IsError())
	require.Equal(t, StatusErrParam, cmd.err.Code)
	require.Nil(t, cmd.keys)
}

func TestBatchOpPrepareRejectsBadPolicy(t *testing.T) {
	op := newBatchExistsOp(testRawKeys("a"), &RawPolicy{MaxRetries: -1})
	cmd := newCommand(op, nil)

	op.Prepare(cmd)

	require.True(t, cmd.IsError())
	require.Equal(t, StatusErrParam, cmd.err.Code)
}

func TestBatchOpRespondConsumesEntries(t *testing.T) {
	op := newBatchReadOp(nil, nil)
	cmd := newCommand(op, nil)
	cmd.results = []BatchResult{
		{
			Status: StatusOK,
			Key:    Key{Namespace: "ns", SetName: "s", Value: "a"},
			Record: &Record{Bins: map[string]any{"v": int64(1)}, Generation: 2},
		},
		{
			Status: StatusErrKeyNotFound,
			Key:    Key{Namespace: "ns", SetName: "s", Value: "b"},
		},
	}

	resp := op.Respond(cmd)

	require.Len(t, resp.Entries, 2)
	require.Equal(t, StatusOK, resp.Entries[0].Status)
	require.Equal(t, uint32(2), resp.Entries[0].Meta.Generation)
	require.Equal(t, int64(1), resp.Entries[0].Bins["v"])
	assertEntryMissing(t, resp.Entries[1])

	// Every entry is translated and released exactly once.
	require.Nil(t, cmd.results)
}

func TestBatchOpRespondWithoutBins(t *testing.T) {
	op := newBatchExistsOp(nil, nil)
	cmd := newCommand(op, nil)
	cmd.results = []BatchResult{{
		Status: StatusOK,
		Key:    Key{Namespace: "ns", Value: "a"},
		Record: &Record{Bins: map[string]any{"v": int64(1)}, Generation: 1},
	}}

	resp := op.Respond(cmd)

	require.NotNil(t, resp.Entries[0].Meta)
	require.Nil(t, resp.Entries[0].Bins)
}

func TestBatchOpRespondEmptyResults(t *testing.T) {
	op := newBatchExistsOp(nil, nil)
	cmd := newCommand(op, nil)
	cmd.results = []BatchResult{}

	resp := op.Respond(cmd)

	require.NotNil(t, resp.Entries)
	require.Len(t, resp.Entries, 0)
}
