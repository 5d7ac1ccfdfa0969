package kvasync

// Deep-clone helpers for data crossing the worker/caller boundary. Driver
// callbacks hand out entries that are only valid for the duration of the
// callback, so anything kept must be copied with no shared sub-structure.

// CloneKey returns an independently-owned copy of key. The source is not
// modified and may be torn down afterwards.
func CloneKey(key Key) Key {
	return Key{
		Namespace: key.Namespace,
		SetName:   key.SetName,
		Value:     cloneValue(key.Value),
	}
}

// CloneRecord returns an independently-owned copy of rec, including every
// nested bin value. Returns nil for a nil record.
func CloneRecord(rec *Record) *Record {
	if rec == nil {
		return nil
	}
	out := &Record{
		Generation: rec.Generation,
		Expiration: rec.Expiration,
	}
	if rec.Bins != nil {
		out.Bins = make(map[string]any, len(rec.Bins))
		for name, val := range rec.Bins {
			out.Bins[name] = cloneValue(val)
		}
	}
	return out
}

// cloneValue copies a bin or key value. Scalars are immutable and returned
// as-is; byte slices, slices and maps are copied recursively.
func cloneValue(v any) any {
	switch val := v.(type) {
	case []byte:
		out := make([]byte, len(val))
		copy(out, val)
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}
