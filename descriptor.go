package proxy

import (
	"fmt"
	"reflect"
)

// MemberSpec declares one member a proxy type promises to expose. Build specs
// through Field, FieldOf, Method, or MethodOf; validation is deferred to
// Describe so callers can assemble specs declaratively.
type MemberSpec struct {
	Name      string
	Kind      MemberKind
	Signature Signature

	err error
}

// Field declares a field member holding values of typ.
func Field(name string, typ reflect.Type) MemberSpec {
	spec := MemberSpec{Name: name, Kind: KindField, Signature: FieldSignature(typ)}
	if typ == nil {
		spec.err = fmt.Errorf("field type must not be nil")
	}
	return spec
}

// FieldOf declares a field member typed by T.
func FieldOf[T any](name string) MemberSpec {
	return Field(name, reflect.TypeOf((*T)(nil)).Elem())
}

// Method declares a method member with the given signature.
func Method(name string, sig Signature) MemberSpec {
	spec := MemberSpec{Name: name, Kind: KindMethod, Signature: sig}
	if sig.Field != nil {
		spec.err = fmt.Errorf("method signature must not carry a field type")
	}
	return spec
}

// MethodOf declares a method member whose signature is derived from the func
// type F.
func MethodOf[F any](name string) MemberSpec {
	sig, err := SignatureOf[F]()
	return MemberSpec{Name: name, Kind: KindMethod, Signature: sig, err: err}
}

// Descriptor is an immutable, named set of member declarations. Declaration
// order carries no resolution significance but is preserved for deterministic
// conformance diagnostics.
type Descriptor struct {
	name    string
	members []MemberSpec
	index   map[string]int
}

// Describe validates members and builds a Descriptor. Member names must be
// unique within the descriptor.
func Describe(name string, members ...MemberSpec) (*Descriptor, error) {
	if name == "" {
		return nil, fmt.Errorf("proxy: descriptor name must not be empty")
	}
	index := make(map[string]int, len(members))
	copied := make([]MemberSpec, len(members))
	for i, member := range members {
		if member.Name == "" {
			return nil, fmt.Errorf("proxy: descriptor %q: member name must not be empty", name)
		}
		if member.err != nil {
			return nil, fmt.Errorf("proxy: descriptor %q member %q: %w", name, member.Name, member.err)
		}
		if _, exists := index[member.Name]; exists {
			return nil, &DuplicateMemberError{Descriptor: name, Name: member.Name}
		}
		index[member.Name] = i
		copied[i] = member
	}
	return &Descriptor{name: name, members: copied, index: index}, nil
}

// Name returns the identifier of the capability set.
func (d *Descriptor) Name() string {
	if d == nil {
		return ""
	}
	return d.name
}

// Len returns the number of declared members.
func (d *Descriptor) Len() int {
	if d == nil {
		return 0
	}
	return len(d.members)
}

// Members returns a defensive copy of the declarations in declaration order.
func (d *Descriptor) Members() []MemberSpec {
	if d == nil || len(d.members) == 0 {
		return nil
	}
	out := make([]MemberSpec, len(d.members))
	copy(out, d.members)
	return out
}

// Member looks up one declaration by name.
func (d *Descriptor) Member(name string) (MemberSpec, bool) {
	if d == nil {
		return MemberSpec{}, false
	}
	i, ok := d.index[name]
	if !ok {
		return MemberSpec{}, false
	}
	return d.members[i], true
}

// Union merges the member lists of d and other into a new descriptor. Members
// declared by both operands must agree on kind and signature; identical
// duplicates are kept once.
func (d *Descriptor) Union(other *Descriptor) (*Descriptor, error) {
	if d == nil {
		return nil, fmt.Errorf("proxy: descriptor is required")
	}
	if other == nil || other.Len() == 0 {
		return Describe(d.name, d.members...)
	}

	merged := append([]MemberSpec(nil), d.members...)
	for _, member := range other.members {
		i, exists := d.index[member.Name]
		if !exists {
			merged = append(merged, member)
			continue
		}
		existing := d.members[i]
		if existing.Kind != member.Kind || !existing.Signature.Equal(member.Signature) {
			return nil, &ConflictingSignatureError{
				Name:  member.Name,
				Left:  existing.Signature.String(),
				Right: member.Signature.String(),
			}
		}
	}
	return Describe(d.name+"+"+other.name, merged...)
}
