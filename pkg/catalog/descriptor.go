package catalog

import (
	"fmt"
)

// OwnerField is the document field carrying the owning user's ID.
const OwnerField = "user"

// Relation describes a reference from one resource to a record in another
// collection, surfaced on reads as a nested {_id, <DisplayField>} object.
type Relation struct {
	// LocalField is the document field holding the foreign ObjectID.
	LocalField string
	// PayloadField is the key create and update payloads use for the
	// reference (e.g. "designId" writing to "design"). Empty means
	// clients send LocalField directly.
	PayloadField string
	// Collection is the foreign collection joined against.
	Collection string
	// DisplayField is the single foreign field projected next to _id.
	DisplayField string
}

// Descriptor declares the queryable shape of one resource. Every field
// a caller can read, patch, search or select must be listed here; anything
// else is rejected before a query is built.
type Descriptor struct {
	// Name identifies the resource in errors, logs and metrics.
	Name string
	// Collection is the MongoDB collection backing the resource.
	Collection string
	// OwnerScoped restricts every operation to records whose owner field
	// matches the caller.
	OwnerScoped bool
	// Fields is the full allow-list: projected on reads, patchable on
	// updates, accepted on creates.
	Fields []string
	// RequiredFields must be present in every create payload.
	RequiredFields []string
	// SearchFields is the disjunction searched by the list operation.
	SearchFields []string
	// DropdownFields is the default selection for dropdown queries.
	DropdownFields []string
	// Relation, when set, is joined on every read of this resource.
	Relation *Relation
}

// Validate checks internal consistency so a malformed descriptor fails at
// startup rather than at query time.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("descriptor: name is required")
	}
	if d.Collection == "" {
		return fmt.Errorf("descriptor %s: collection is required", d.Name)
	}
	if len(d.Fields) == 0 {
		return fmt.Errorf("descriptor %s: at least one field is required", d.Name)
	}

	fields := make(map[string]struct{}, len(d.Fields))
	for _, f := range d.Fields {
		if f == "" {
			return fmt.Errorf("descriptor %s: empty field name", d.Name)
		}
		if _, dup := fields[f]; dup {
			return fmt.Errorf("descriptor %s: duplicate field %q", d.Name, f)
		}
		fields[f] = struct{}{}
	}

	if d.Relation != nil {
		r := d.Relation
		if r.LocalField == "" || r.Collection == "" || r.DisplayField == "" {
			return fmt.Errorf("descriptor %s: relation requires local field, collection and display field", d.Name)
		}
		if _, ok := fields[r.LocalField]; !ok {
			return fmt.Errorf("descriptor %s: relation local field %q is not declared", d.Name, r.LocalField)
		}
		if r.PayloadField != "" {
			if _, ok := fields[r.PayloadField]; ok {
				return fmt.Errorf("descriptor %s: relation payload field %q collides with a declared field", d.Name, r.PayloadField)
			}
		}
	}

	for _, f := range d.RequiredFields {
		if _, ok := fields[f]; !ok {
			return fmt.Errorf("descriptor %s: required field %q is not declared", d.Name, f)
		}
	}
	for _, f := range d.SearchFields {
		if !d.isSearchable(f) {
			return fmt.Errorf("descriptor %s: search field %q is not declared", d.Name, f)
		}
	}
	for _, f := range d.DropdownFields {
		if !d.isSelectable(f) {
			return fmt.Errorf("descriptor %s: dropdown field %q is not declared", d.Name, f)
		}
	}

	return nil
}

// storedField resolves a payload key to its stored field name. The only
// aliased key is the relation reference, which clients send under the
// relation's payload field.
func (d Descriptor) storedField(key string) string {
	if d.Relation != nil && d.Relation.PayloadField != "" && key == d.Relation.PayloadField {
		return d.Relation.LocalField
	}
	return key
}

// wireField is the inverse of storedField, for reporting stored field
// names back to clients.
func (d Descriptor) wireField(f string) string {
	if d.Relation != nil && d.Relation.PayloadField != "" && f == d.Relation.LocalField {
		return d.Relation.PayloadField
	}
	return f
}

// HasField reports whether f is in the resource's field allow-list.
func (d Descriptor) HasField(f string) bool {
	for _, name := range d.Fields {
		if name == f {
			return true
		}
	}
	return false
}

// isSelectable accepts allow-listed fields plus the record ID, which
// dropdown callers may always request.
func (d Descriptor) isSelectable(f string) bool {
	if f == "id" || f == "_id" {
		return true
	}
	return d.HasField(f)
}

// isSearchable accepts allow-listed fields plus the joined relation
// display path (e.g. "design.designName").
func (d Descriptor) isSearchable(f string) bool {
	if d.HasField(f) {
		return true
	}
	if d.Relation != nil && f == d.Relation.LocalField+"."+d.Relation.DisplayField {
		return true
	}
	return false
}
