package kvasync

// Operation is the per-command behavior the dispatcher is parameterized by.
// The dispatcher runs the three phases in order, each exactly once:
//
//   - Prepare on the caller's goroutine, extracting request parameters;
//   - Execute on a worker, running the blocking driver call;
//   - Respond on the completion goroutine, translating owned results into
//     the caller-visible form.
//
// A phase that records an error through cmd.SetError causes the later phases
// to be skipped; the command then completes with that error.
type Operation interface {
	Name() string
	Prepare(cmd *Command)
	Execute(cmd *Command)
	Respond(cmd *Command) *BatchResponse
}

// batchOp is the shared skeleton of the point batch-read commands. The only
// per-command variation is whether bin data is carried back to the caller.
type batchOp struct {
	name        string
	rawKeys     []RawKey
	rawPolicy   *RawPolicy
	includeBins bool
}

func (op *batchOp) Name() string { return op.name }

// Prepare validates the caller's inputs and moves owned copies into the
// command. Runs on the caller's goroutine; the raw values are caller-owned
// ephemerals and are not referenced after this phase.
func (op *batchOp) Prepare(cmd *Command) {
	keys, err := DecodeKeySet(op.rawKeys)
	if err != nil {
		cmd.SetError(err.Code, "%s", err.Message)
		return
	}
	cmd.keys = keys

	policy, err := DecodePolicy(op.rawPolicy)
	if err != nil {
		cmd.SetError(err.Code, "%s", err.Message)
		return
	}
	cmd.policy = policy
}

// Execute runs the blocking driver call on a worker. On a non-OK return the
// result set is forced empty rather than raising an error: an empty result
// sequence is this layer's caller-visible signal for total batch failure,
// distinct from per-key errors carried in each entry's status.
func (op *batchOp) Execute(cmd *Command) {
	status := cmd.client.batchRead(cmd.policy, cmd.keys, cmd.onBatchResults)
	if status != StatusOK {
		cmd.results = []BatchResult{}
	}
	cmd.releaseScratch()
}

// Respond builds the caller-visible result sequence, consuming each owned
// entry exactly once. Never invoked for errored commands.
func (op *batchOp) Respond(cmd *Command) *BatchResponse {
	entries := make([]ResultEntry, len(cmd.results))
	for i := range cmd.results {
		res := &cmd.results[i]
		entry := ResultEntry{
			Status: res.Status,
			Key:    EncodeKey(res.Key),
		}
		if res.Status == StatusOK {
			entry.Meta = EncodeMetadata(res.Record)
			if op.includeBins {
				entry.Bins = EncodeBins(res.Record)
			}
		}
		entries[i] = entry

		// Entry consumed; drop the clones so nothing is released twice by
		// destroy.
		*res = BatchResult{}
	}
	cmd.results = nil
	return &BatchResponse{Entries: entries}
}

func newBatchExistsOp(keys []RawKey, policy *RawPolicy) *batchOp {
	return &batchOp{name: "BatchExists", rawKeys: keys, rawPolicy: policy}
}

func newBatchReadOp(keys []RawKey, policy *RawPolicy) *batchOp {
	return &batchOp{name: "BatchRead", rawKeys: keys, rawPolicy: policy, includeBins: true}
}
