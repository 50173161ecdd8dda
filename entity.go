package smalltable

import "github.com/pkg/errors"

// ValueKind enumerates the closed set of kinds a property Value may hold.
type ValueKind int

const (
	// KindInt64 marks a Value holding a 64-bit signed integer.
	KindInt64 ValueKind = iota
	// KindString marks a Value holding a UTF-8 string.
	KindString
	// KindReference marks a Value holding a cross-object Reference.
	KindReference
)

func (k ValueKind) String() string {
	switch k {
	case KindInt64:
		return "int64"
	case KindString:
		return "string"
	case KindReference:
		return "reference"
	default:
		return "unknown"
	}
}

// Value is a property value. Its kind is closed to Int64, String, and
// Reference per spec.md §3/§6; any other kind is rejected at Entity
// construction.
type Value struct {
	kind ValueKind
	i    int64
	s    string
	ref  Reference
}

// Int64Value constructs an integer-valued Value.
func Int64Value(v int64) Value { return Value{kind: KindInt64, i: v} }

// StringValue constructs a string-valued Value.
func StringValue(v string) Value { return Value{kind: KindString, s: v} }

// ReferenceValue constructs a reference-valued Value.
func ReferenceValue(v Reference) Value { return Value{kind: KindReference, ref: v} }

// Kind returns the value's kind.
func (v Value) Kind() ValueKind { return v.kind }

// Int64 returns the wrapped integer and whether v holds one.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindInt64 {
		return 0, false
	}
	return v.i, true
}

// Str returns the wrapped string and whether v holds one.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// Reference returns the wrapped Reference and whether v holds one.
func (v Value) Reference() (Reference, bool) {
	if v.kind != KindReference {
		return 0, false
	}
	return v.ref, true
}

// Equal reports whether v and other hold the same kind and value.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindInt64:
		return v.i == other.i
	case KindString:
		return v.s == other.s
	case KindReference:
		return v.ref == other.ref
	default:
		return false
	}
}

func (v Value) valid() bool {
	switch v.kind {
	case KindInt64, KindString, KindReference:
		return true
	default:
		return false
	}
}

// Entity is an immutable record: a self-reference plus a closed property
// map. Once constructed it is never mutated; two Entities are equal iff
// their self-reference and properties are equal.
type Entity struct {
	self       Reference
	properties map[string]Value
}

// NewEntity builds an Entity from a self-reference and a property map. The
// map is copied so later mutation of the caller's map cannot affect the
// Entity. Construction fails with InvalidArgument if any value has an
// unsupported kind.
func NewEntity(self Reference, properties map[string]Value) (Entity, error) {
	props := make(map[string]Value, len(properties))
	for name, v := range properties {
		if name == "" {
			return Entity{}, newInvalidArgument("property name must not be empty")
		}
		if !v.valid() {
			return Entity{}, newInvalidArgument(errors.Errorf("property %q has unsupported value kind %v", name, v.kind).Error())
		}
		props[name] = v
	}
	return Entity{self: self, properties: props}, nil
}

// Self returns the entity's identity reference.
func (e Entity) Self() Reference { return e.self }

// Get looks up a single property by name.
func (e Entity) Get(name string) (Value, bool) {
	v, ok := e.properties[name]
	return v, ok
}

// Properties returns a defensive copy of the entity's property map.
func (e Entity) Properties() map[string]Value {
	out := make(map[string]Value, len(e.properties))
	for k, v := range e.properties {
		out[k] = v
	}
	return out
}

// Equal reports whether e and other have the same self-reference and an
// identical set of properties.
func (e Entity) Equal(other Entity) bool {
	if e.self != other.self {
		return false
	}
	if len(e.properties) != len(other.properties) {
		return false
	}
	for k, v := range e.properties {
		ov, ok := other.properties[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
