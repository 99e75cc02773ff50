// Package layering merges override-state payloads ordered from strongest to
// weakest and deep-copies payloads so callers keep immutable snapshots.
package layering

// MergeLayers composes payloads ordered from strongest to weakest, returning
// a new map that keeps explicit entries from stronger layers while filling
// missing keys from weaker ones. Nested map[string]any values merge
// recursively; every other value is taken wholesale from the strongest layer
// that sets it.
func MergeLayers(layers ...map[string]any) map[string]any {
	if len(layers) == 0 {
		return nil
	}
	merged := Clone(layers[len(layers)-1])
	for i := len(layers) - 2; i >= 0; i-- {
		merged = mergeMaps(layers[i], merged)
	}
	return merged
}

func mergeMaps(strong, weak map[string]any) map[string]any {
	if strong == nil {
		return Clone(weak)
	}
	out := Clone(weak)
	if out == nil {
		out = make(map[string]any, len(strong))
	}
	for key, value := range strong {
		if strongSub, ok := value.(map[string]any); ok {
			if weakSub, ok := out[key].(map[string]any); ok {
				out[key] = mergeMaps(strongSub, weakSub)
				continue
			}
		}
		out[key] = cloneValue(value)
	}
	return out
}

// Clone deep-copies a payload map. Nested map[string]any and []any values are
// copied; all other values are shared as-is.
func Clone(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	out := make(map[string]any, len(payload))
	for key, value := range payload {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return Clone(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return value
	}
}
