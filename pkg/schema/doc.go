// Package schema defines model declarations for Modelbase.
//
// A declaration describes one data shape as data: a named field list, an
// optional owner field, and an access policy mapping roles to granted
// operations. Declarations are written in YAML (or JSON over the admin API),
// validated here, stored as a single JSON document per model, and consumed by
// the materializer and the record endpoints.
//
// # Declaration Format
//
//	name: Invoice
//	description: |
//	  Customer invoices, one row per issued invoice.
//	ownerField: createdBy
//	fields:
//	  - name: customer
//	    type: string
//	    required: true
//	  - name: total
//	    type: number
//	    default: 0
//	  - name: paid
//	    type: boolean
//	    default: false
//	  - name: lineItems
//	    type: json
//	policy:
//	  admin: [all]
//	  manager: [create, read, update]
//	  viewer: [read]
//
// # Field Types
//
// The type set is closed: string, number, boolean, date, json. Each maps to a
// fixed PostgreSQL column type during materialization. A `relation` attribute
// is accepted on a field for forward compatibility but carries no behavior.
//
// # Reserved Columns
//
// Every materialized table carries server-maintained id, created_at and
// updated_at columns. Field names may not collide with these, nor with the
// declared owner field, which is added as its own column.
//
// # Validation
//
//	decl, err := schema.ParseYAML(raw)
//	if err != nil {
//	    // malformed or invalid declaration, nothing was stored
//	}
//
// Validation runs before any storage interaction. Identifiers (model, field
// and owner-field names) are restricted to [A-Za-z][A-Za-z0-9_]* so that they
// are safe to quote into generated statements.
package schema
