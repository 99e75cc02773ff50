package activity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-proxy/pkg/activity"
)

func TestHooksNotifyFansOut(t *testing.T) {
	var first, second []activity.Event
	hooks := activity.Hooks{
		activity.HookFunc(func(_ context.Context, event activity.Event) error {
			first = append(first, event)
			return nil
		}),
		activity.HookFunc(func(_ context.Context, event activity.Event) error {
			second = append(second, event)
			return nil
		}),
	}

	err := hooks.Notify(context.Background(), activity.Event{
		Verb:      "bind",
		ProxyType: "Greeter",
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected every hook to fire, got %d and %d", len(first), len(second))
	}
}

func TestHooksNotifyJoinsErrors(t *testing.T) {
	errFirst := errors.New("sink down")
	errSecond := errors.New("queue full")
	var delivered int
	hooks := activity.Hooks{
		activity.HookFunc(func(context.Context, activity.Event) error { return errFirst }),
		activity.HookFunc(func(context.Context, activity.Event) error {
			delivered++
			return nil
		}),
		activity.HookFunc(func(context.Context, activity.Event) error { return errSecond }),
	}

	err := hooks.Notify(context.Background(), activity.Event{Verb: "bind", ProxyType: "Greeter"})
	if !errors.Is(err, errFirst) || !errors.Is(err, errSecond) {
		t.Fatalf("expected joined hook errors, got %v", err)
	}
	if delivered != 1 {
		t.Fatalf("a failing hook must not stop delivery to others, delivered=%d", delivered)
	}
}

func TestHooksNotifySkipsIncompleteEvents(t *testing.T) {
	var fired int
	hooks := activity.Hooks{
		activity.HookFunc(func(context.Context, activity.Event) error {
			fired++
			return nil
		}),
	}

	if err := hooks.Notify(context.Background(), activity.Event{Verb: "  ", ProxyType: "Greeter"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if err := hooks.Notify(context.Background(), activity.Event{Verb: "bind"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if fired != 0 {
		t.Fatalf("expected incomplete events to be dropped, fired=%d", fired)
	}
}

func TestHooksEnabled(t *testing.T) {
	if (activity.Hooks{}).Enabled() {
		t.Fatalf("empty hook list must report disabled")
	}
	hooks := activity.Hooks{activity.HookFunc(nil)}
	if !hooks.Enabled() {
		t.Fatalf("non-empty hook list must report enabled")
	}
}

func TestNormalizeEvent(t *testing.T) {
	metadata := map[string]any{"key": "value"}
	normalized := activity.NormalizeEvent(activity.Event{
		Verb:      " bind ",
		ProxyType: " Greeter ",
		Member:    " AMethod ",
		Metadata:  metadata,
	})

	if normalized.Verb != "bind" || normalized.ProxyType != "Greeter" || normalized.Member != "AMethod" {
		t.Fatalf("expected trimmed fields, got %+v", normalized)
	}
	if normalized.OccurredAt.IsZero() {
		t.Fatalf("expected a timestamp to be filled in")
	}

	normalized.Metadata["key"] = "changed"
	if metadata["key"] != "value" {
		t.Fatalf("metadata must be cloned, original mutated")
	}
}

func TestNormalizeEventKeepsTimestamp(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	normalized := activity.NormalizeEvent(activity.Event{Verb: "bind", ProxyType: "Greeter", OccurredAt: at})
	if !normalized.OccurredAt.Equal(at) {
		t.Fatalf("expected supplied timestamp preserved, got %v", normalized.OccurredAt)
	}
}
