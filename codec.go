package kvasync

import "time"

// External representations exchanged with the caller. The command layer
// decodes them into owned request values during Prepare and encodes owned
// result values back during Respond; no internal state leaks through them.

// RawKey is the caller-side representation of a key.
type RawKey struct {
	Namespace string `json:"ns"`
	Set       string `json:"set"`
	Value     any    `json:"key"`
	Digest    uint64 `json:"digest,omitempty"`
}

// RawPolicy is the caller-side representation of a batch policy.
type RawPolicy struct {
	TotalTimeoutMs   int    `json:"totalTimeout,omitempty"`
	MaxRetries       int    `json:"maxRetries,omitempty"`
	SendKey          bool   `json:"sendKey,omitempty"`
	FilterExpression []byte `json:"filterExpression,omitempty"`
}

// RawMetadata is the caller-side representation of record metadata.
type RawMetadata struct {
	Generation uint32 `json:"gen"`
	TTL        uint32 `json:"ttl"`
}

// ResultEntry is one caller-visible batch result. Meta and Bins are present
// only when Status is StatusOK; Bins only for commands that read bin data.
type ResultEntry struct {
	Status Status         `json:"status"`
	Key    RawKey         `json:"key"`
	Meta   *RawMetadata   `json:"meta,omitempty"`
	Bins   map[string]any `json:"bins,omitempty"`
}

// BatchResponse is the successful payload of a batch command.
//
// Entries follow the order the driver returned them, which is not guaranteed
// to match the order of the requested key set.
type BatchResponse struct {
	Entries []ResultEntry
}

// DecodeKeySet validates and converts a caller key set into owned keys.
func DecodeKeySet(raw []RawKey) ([]Key, *Error) {
	if len(raw) == 0 {
		return nil, newParamError("batch keys parameter invalid: empty key set")
	}
	keys := make([]Key, len(raw))
	for i, rk := range raw {
		if rk.Namespace == "" {
			return nil, newParamError("batch keys parameter invalid: key %d has no namespace", i)
		}
		switch rk.Value.(type) {
		case string, int64, []byte:
		default:
			return nil, newParamError("batch keys parameter invalid: key %d has unsupported value type %T", i, rk.Value)
		}
		keys[i] = CloneKey(Key{Namespace: rk.Namespace, SetName: rk.Set, Value: rk.Value})
	}
	return keys, nil
}

// DecodePolicy validates and converts an optional caller policy. A nil input
// yields a nil policy, meaning driver defaults.
func DecodePolicy(raw *RawPolicy) (*BatchPolicy, *Error) {
	if raw == nil {
		return nil, nil
	}
	if raw.TotalTimeoutMs < 0 {
		return nil, newParamError("batch policy parameter invalid: negative totalTimeout")
	}
	if raw.MaxRetries < 0 {
		return nil, newParamError("batch policy parameter invalid: negative maxRetries")
	}
	return &BatchPolicy{
		TotalTimeout: time.Duration(raw.TotalTimeoutMs) * time.Millisecond,
		MaxRetries:   raw.MaxRetries,
		SendKey:      raw.SendKey,
		Filter:       CompileExpression(raw.FilterExpression),
	}, nil
}

// EncodeKey converts an owned key into its caller-side representation.
func EncodeKey(key Key) RawKey {
	return RawKey{
		Namespace: key.Namespace,
		Set:       key.SetName,
		Value:     cloneValue(key.Value),
		Digest:    key.Digest(),
	}
}

// EncodeMetadata converts an owned record's metadata into its caller-side
// representation.
func EncodeMetadata(rec *Record) *RawMetadata {
	if rec == nil {
		return nil
	}
	return &RawMetadata{Generation: rec.Generation, TTL: rec.Expiration}
}

// EncodeBins converts an owned record's bins into caller-owned values.
func EncodeBins(rec *Record) map[string]any {
	if rec == nil || rec.Bins == nil {
		return nil
	}
	out := make(map[string]any, len(rec.Bins))
	for name, val := range rec.Bins {
		out[name] = cloneValue(val)
	}
	return out
}
