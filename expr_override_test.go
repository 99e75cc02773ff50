package proxy

import (
	"strings"
	"sync"
	"testing"
)

type countingCache struct {
	mu      sync.Mutex
	entries map[string]any
	hits    int
	misses  int
}

func newCountingCache() *countingCache {
	return &countingCache{entries: map[string]any{}}
}

func (c *countingCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return value, ok
}

func (c *countingCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func TestExprFieldOverride(t *testing.T) {
	typ, err := Define(greeterDescriptor(t),
		WithFieldOverride("AField", ExprFieldOverride(`AField + "!"`)),
	)
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	p, err := typ.New(greeter{AField: "x"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	value, err := p.Get("AField")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != "x!" {
		t.Fatalf("expected computed value, got %v", value)
	}
}

func TestExprOverrideCanForward(t *testing.T) {
	base, _ := Define(greeterDescriptor(t))
	derived, err := base.Extend(
		WithOverride("AMethod", ExprOverride(`forward("AMethod") + " extra"`)),
	)
	if err != nil {
		t.Fatalf("extend: %v", err)
	}
	p, err := derived.New(greeter{AField: "x"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	result, err := p.Call("AMethod")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if result != "hello from x extra" {
		t.Fatalf("expected forwarded greeting with suffix, got %v", result)
	}
}

func TestExprOverrideSeesArgs(t *testing.T) {
	d, err := Describe("calc",
		FieldOf[string]("AField"),
		MethodOf[func(int, int) int]("Sum"),
	)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	typ, err := Define(d,
		WithOverride("Sum", ExprOverride(`args[0] + args[1]`)),
	)
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	p, err := typ.New(greeter{AField: "x"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	result, err := p.Call("Sum", 2, 3)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if asInt(result) != 5 {
		t.Fatalf("expected 5, got %v", result)
	}
}

func TestExprOverrideUsesProgramCache(t *testing.T) {
	cache := newCountingCache()
	typ, err := Define(greeterDescriptor(t),
		WithFieldOverride("AField", ExprFieldOverride(`AField`, ExprWithProgramCache(cache))),
	)
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	p, err := typ.New(greeter{AField: "x"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := p.Get("AField"); err != nil {
			t.Fatalf("get: %v", err)
		}
	}
	if cache.misses != 1 || cache.hits != 2 {
		t.Fatalf("expected 1 compile and 2 cache hits, got misses=%d hits=%d", cache.misses, cache.hits)
	}
}

func TestExprOverrideWrapsErrors(t *testing.T) {
	typ, err := Define(greeterDescriptor(t),
		WithFieldOverride("AField", ExprFieldOverride("")),
	)
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	p, err := typ.New(greeter{AField: "x"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	_, err = p.Get("AField")
	if err == nil || !strings.Contains(err.Error(), "expr override") {
		t.Fatalf("expected wrapped expr error, got %v", err)
	}
}

func asInt(value any) int {
	switch typed := value.(type) {
	case int:
		return typed
	case int64:
		return int(typed)
	case float64:
		return int(typed)
	default:
		return -1
	}
}
