// Package client implements the façade layer named (but left out of core
// scope) by spec.md §2/§9: a dirty-tracking property map per object, with
// reference↔object resolution cached per Table, and ownership validated by
// table handle rather than pointer identity.
package client

import "github.com/smalltable/smalltable"

// Object is a lazily-resolved, dirty-tracking wrapper around a
// smalltable.Reference and its properties. It is always owned by exactly
// one Table, identified by that Table's handle — not by a back-pointer —
// so ownership still validates correctly across a serialize/restore cycle
// of the façade.
type Object struct {
	table       *Table
	tableHandle uint64
	ref         smalltable.Reference
	properties  map[string]smalltable.Value
	dirty       bool
}

// Reference returns the object's identity reference.
func (o *Object) Reference() smalltable.Reference { return o.ref }

// Dirty reports whether the object has pending, unsaved property changes.
func (o *Object) Dirty() bool { return o.dirty }

// Get looks up a single property.
func (o *Object) Get(name string) (smalltable.Value, bool) {
	v, ok := o.properties[name]
	return v, ok
}

// SetInt64 sets an integer-valued property and marks the object dirty.
func (o *Object) SetInt64(name string, v int64) {
	o.properties[name] = smalltable.Int64Value(v)
	o.dirty = true
}

// SetString sets a string-valued property and marks the object dirty.
func (o *Object) SetString(name string, v string) {
	o.properties[name] = smalltable.StringValue(v)
	o.dirty = true
}

// SetReference points a property at another client Object, validating that
// other belongs to the same Table as o. A foreign-table object is rejected
// with an error from this package; that error is not a
// smalltable.InvalidArgumentError, so smalltable.IsInvalidArgument reports
// false for it.
func (o *Object) SetReference(name string, other *Object) error {
	if other == nil {
		return newNilObjectError(name)
	}
	if other.tableHandle != o.tableHandle {
		return newForeignTableError(name)
	}
	o.properties[name] = smalltable.ReferenceValue(other.ref)
	o.dirty = true
	return nil
}

// entity snapshots the object's current properties into an immutable
// smalltable.Entity suitable for Session.Save.
func (o *Object) entity() (smalltable.Entity, error) {
	return smalltable.NewEntity(o.ref, o.properties)
}
