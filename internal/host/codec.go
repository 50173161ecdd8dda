package host

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/smalltable/smalltable"
)

// wireValue is the on-disk JSON form of a smalltable.Value. Exactly one of
// the kind-specific fields is populated, matching the closed Int64/String/
// Reference union of spec.md §3/§6.
type wireValue struct {
	Kind string `json:"kind"`
	Int  int64  `json:"i,omitempty"`
	Str  string `json:"s,omitempty"`
	Ref  uint64 `json:"ref,omitempty"`
}

func encodeValue(v smalltable.Value) wireValue {
	switch v.Kind() {
	case smalltable.KindInt64:
		i, _ := v.Int64()
		return wireValue{Kind: "int64", Int: i}
	case smalltable.KindString:
		s, _ := v.Str()
		return wireValue{Kind: "string", Str: s}
	case smalltable.KindReference:
		r, _ := v.Reference()
		return wireValue{Kind: "reference", Ref: uint64(r)}
	default:
		return wireValue{Kind: "unknown"}
	}
}

func decodeValue(w wireValue) (smalltable.Value, error) {
	switch w.Kind {
	case "int64":
		return smalltable.Int64Value(w.Int), nil
	case "string":
		return smalltable.StringValue(w.Str), nil
	case "reference":
		return smalltable.ReferenceValue(smalltable.Reference(w.Ref)), nil
	default:
		return smalltable.Value{}, errors.Errorf("host: unsupported value kind %q on disk", w.Kind)
	}
}

// wireEntity is the on-disk JSON form of a smalltable.Entity.
type wireEntity struct {
	Self       uint64               `json:"self"`
	Properties map[string]wireValue `json:"properties"`
}

func encodeEntity(e smalltable.Entity) wireEntity {
	props := e.Properties()
	out := make(map[string]wireValue, len(props))
	for name, v := range props {
		out[name] = encodeValue(v)
	}
	return wireEntity{Self: uint64(e.Self()), Properties: out}
}

func decodeEntity(w wireEntity) (smalltable.Entity, error) {
	props := make(map[string]smalltable.Value, len(w.Properties))
	for name, wv := range w.Properties {
		v, err := decodeValue(wv)
		if err != nil {
			return smalltable.Entity{}, err
		}
		props[name] = v
	}
	return smalltable.NewEntity(smalltable.Reference(w.Self), props)
}

// wireRevision is the on-disk JSON form of a smalltable.Revision. JSON
// object keys must be strings, so entity-table keys (References) are
// stored as decimal strings.
type wireRevision struct {
	Bindings map[string]uint64 `json:"bindings"`
	Entities map[string]uint64 `json:"entities"`
}

func encodeRevision(r smalltable.Revision) wireRevision {
	bindings := r.Bindings()
	wb := make(map[string]uint64, len(bindings))
	for name, ref := range bindings {
		wb[name] = uint64(ref)
	}
	entities := r.Entities()
	we := make(map[string]uint64, len(entities))
	for ref, id := range entities {
		we[strconv.FormatUint(uint64(ref), 10)] = uint64(id)
	}
	return wireRevision{Bindings: wb, Entities: we}
}

func decodeRevision(w wireRevision) (smalltable.Revision, error) {
	bindings := make(map[string]smalltable.Reference, len(w.Bindings))
	for name, ref := range w.Bindings {
		bindings[name] = smalltable.Reference(ref)
	}
	entities := make(map[smalltable.Reference]smalltable.EntityId, len(w.Entities))
	for refStr, id := range w.Entities {
		ref, err := strconv.ParseUint(refStr, 10, 64)
		if err != nil {
			return smalltable.Revision{}, errors.Wrapf(err, "host: malformed reference key %q", refStr)
		}
		entities[smalltable.Reference(ref)] = smalltable.EntityId(id)
	}
	return smalltable.RevisionFromParts(bindings, entities), nil
}
