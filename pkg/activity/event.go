// Package activity fans proxy lifecycle events (bind, restore) out
// to registered hooks. The core proxy package stays sink-agnostic; adapters
// for concrete sinks live in subpackages.
package activity

import (
	"strings"
	"time"
)

// Event describes one proxy lifecycle occurrence. IDs are stringly-typed to
// avoid coupling call sites to specific UUID types.
type Event struct {
	Verb       string
	ProxyType  string
	Descriptor string
	Member     string
	DelegateID string
	SnapshotID string
	ActorID    string
	TenantID   string
	Metadata   map[string]any
	OccurredAt time.Time
}

// NormalizeEvent trims whitespace, clones metadata, and ensures a timestamp
// is present.
func NormalizeEvent(event Event) Event {
	normalized := event
	normalized.Verb = strings.TrimSpace(event.Verb)
	normalized.ProxyType = strings.TrimSpace(event.ProxyType)
	normalized.Descriptor = strings.TrimSpace(event.Descriptor)
	normalized.Member = strings.TrimSpace(event.Member)
	normalized.DelegateID = strings.TrimSpace(event.DelegateID)
	normalized.SnapshotID = strings.TrimSpace(event.SnapshotID)
	normalized.ActorID = strings.TrimSpace(event.ActorID)
	normalized.TenantID = strings.TrimSpace(event.TenantID)
	normalized.Metadata = cloneMap(event.Metadata)
	if normalized.OccurredAt.IsZero() {
		normalized.OccurredAt = time.Now()
	}
	return normalized
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
