// Package sortspec declares result ordering for a search: a document
// field with a direction, or a seeded shuffle. The value kind travels with
// the spec so a downstream engine (in-process or external) can compare
// correctly without re-deriving field types.
package sortspec

// Kind is the comparable type of a sort field.
type Kind string

// Sort field kinds.
const (
	Number Kind = "number"
	String Kind = "string"
)

// ShuffleField requests a single pseudo-random pick instead of an
// ordering. The spec's Type field then carries the caller seed, keeping
// "random" stable within a session.
const ShuffleField = "$shuffle"

// FieldTypes is an entity's fixed table of sortable fields. Each entity
// search module declares its own at package init; lookups against it are
// the only way a field name reaches a Spec.
type FieldTypes map[string]Kind

// Resolve looks up the kind of a sortable field.
func (t FieldTypes) Resolve(field string) (Kind, bool) {
	k, ok := t[field]
	return k, ok
}

// Spec describes a requested ordering on the wire.
type Spec struct {
	By   string `json:"sort_by"`
	Asc  bool   `json:"sort_asc"`
	Type string `json:"sort_type"`
}

// New creates a field ordering spec.
func New(field string, asc bool, kind Kind) Spec {
	return Spec{By: field, Asc: asc, Type: string(kind)}
}

// NewShuffle creates a seeded shuffle spec.
func NewShuffle(seed string) Spec {
	return Spec{By: ShuffleField, Asc: false, Type: seed}
}

// IsShuffle reports whether the spec requests a random pick.
func (s Spec) IsShuffle() bool { return s.By == ShuffleField }

// Seed returns the shuffle seed. Meaningless for field orderings.
func (s Spec) Seed() string { return s.Type }

// Kind returns the field kind. Meaningless for shuffles.
func (s Spec) Kind() Kind { return Kind(s.Type) }

// Build resolves a requested sort target against an entity's field table.
// It returns nil when no ordering applies: an empty target, or a target the
// entity does not declare as sortable.
func Build(target string, asc bool, table FieldTypes, shuffleSeed string) *Spec {
	if target == "" {
		return nil
	}
	if target == ShuffleField {
		s := NewShuffle(shuffleSeed)
		return &s
	}
	kind, ok := table.Resolve(target)
	if !ok {
		return nil
	}
	s := New(target, asc, kind)
	return &s
}
