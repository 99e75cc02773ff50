package proxy

import "encoding/json"

// MemberDescriptor is the flattened, serialisable form of one member spec.
type MemberDescriptor struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Signature string `json:"signature"`
}

// DescriptorDocument is the JSON-serialisable export of a capability
// descriptor, in declaration order.
type DescriptorDocument struct {
	Name    string             `json:"name"`
	Members []MemberDescriptor `json:"members"`
}

// Document exports the descriptor for logging, docs, or transport.
func (d *Descriptor) Document() DescriptorDocument {
	if d == nil {
		return DescriptorDocument{}
	}
	doc := DescriptorDocument{
		Name:    d.name,
		Members: make([]MemberDescriptor, len(d.members)),
	}
	for i, member := range d.members {
		doc.Members[i] = MemberDescriptor{
			Name:      member.Name,
			Kind:      string(member.Kind),
			Signature: member.Signature.String(),
		}
	}
	return doc
}

// ToJSON serialises the document.
func (doc DescriptorDocument) ToJSON() ([]byte, error) {
	return json.Marshal(doc)
}
