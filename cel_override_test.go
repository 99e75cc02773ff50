package proxy

import (
	"errors"
	"testing"
)

func TestCELFieldOverride(t *testing.T) {
	typ, err := Define(greeterDescriptor(t),
		WithFieldOverride("AField", CELFieldOverride(`AField + "!"`)),
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

func TestCELOverrideSeesArgs(t *testing.T) {
	d, err := Describe("calc",
		FieldOf[string]("AField"),
		MethodOf[func(int, int) int]("Sum"),
	)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	typ, err := Define(d,
		WithOverride("Sum", CELOverride(`args[0] + args[1]`)),
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

func TestCELOverrideUsesProgramCache(t *testing.T) {
	cache := newCountingCache()
	typ, err := Define(greeterDescriptor(t),
		WithFieldOverride("AField", CELFieldOverride(`AField`, CELWithProgramCache(cache))),
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

func TestCELOverrideWrapsErrors(t *testing.T) {
	typ, err := Define(greeterDescriptor(t),
		WithFieldOverride("AField", CELFieldOverride(`AField +`)),
	)
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	p, err := typ.New(greeter{AField: "x"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	_, err = p.Get("AField")
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) || evalErr.Engine != "cel" {
		t.Fatalf("expected cel evaluation error, got %v", err)
	}
}

func TestJSOverrideStubReportsAvailability(t *testing.T) {
	if jsOverrideAvailable() {
		t.Skip("js_eval build tag enabled")
	}
	typ, err := Define(greeterDescriptor(t),
		WithFieldOverride("AField", JSFieldOverride(`aField`)),
	)
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	p, err := typ.New(greeter{AField: "x"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := p.Get("AField"); err == nil {
		t.Fatalf("expected stub to fail without js_eval tag")
	}
}
