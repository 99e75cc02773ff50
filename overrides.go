package proxy

import (
	"fmt"
	"sort"
)

// MethodOverride implements a method member directly on a proxy type. The
// instance is supplied so an override body can reach Forward.
type MethodOverride func(p *Instance, args ...any) (any, error)

// FieldOverride implements a field member directly on a proxy type.
type FieldOverride func(p *Instance) (any, error)

// OverrideSet stores the members one proxy type implements itself, keyed by
// name. A set is populated while its owning type is being defined and sealed
// afterwards; it never changes during instance lifetime.
type OverrideSet struct {
	methods map[string]MethodOverride
	fields  map[string]FieldOverride
}

func newOverrideSet() *OverrideSet {
	return &OverrideSet{
		methods: make(map[string]MethodOverride),
		fields:  make(map[string]FieldOverride),
	}
}

func (s *OverrideSet) setMethod(name string, fn MethodOverride) error {
	if name == "" {
		return fmt.Errorf("proxy: override name must not be empty")
	}
	if fn == nil {
		return fmt.Errorf("proxy: override %q is nil", name)
	}
	if s.has(name) {
		return fmt.Errorf("proxy: member %q overridden twice", name)
	}
	s.methods[name] = fn
	return nil
}

func (s *OverrideSet) setField(name string, fn FieldOverride) error {
	if name == "" {
		return fmt.Errorf("proxy: override name must not be empty")
	}
	if fn == nil {
		return fmt.Errorf("proxy: override %q is nil", name)
	}
	if s.has(name) {
		return fmt.Errorf("proxy: member %q overridden twice", name)
	}
	s.fields[name] = fn
	return nil
}

func (s *OverrideSet) has(name string) bool {
	if s == nil {
		return false
	}
	if _, ok := s.methods[name]; ok {
		return true
	}
	_, ok := s.fields[name]
	return ok
}

func (s *OverrideSet) method(name string) (MethodOverride, bool) {
	if s == nil {
		return nil, false
	}
	fn, ok := s.methods[name]
	return fn, ok
}

func (s *OverrideSet) field(name string) (FieldOverride, bool) {
	if s == nil {
		return nil, false
	}
	fn, ok := s.fields[name]
	return fn, ok
}

// Names returns overridden member names sorted alphabetically.
func (s *OverrideSet) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.methods)+len(s.fields))
	for name := range s.methods {
		names = append(names, name)
	}
	for name := range s.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
