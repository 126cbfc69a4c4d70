package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrInvalidDeclaration wraps every validation failure so callers can map the
// whole family to a single rejection without string matching.
var ErrInvalidDeclaration = errors.New("invalid model declaration")

// Identifiers end up quoted inside generated SQL, so they are restricted to a
// shape that can never act as control syntax. 63 bytes is the PostgreSQL
// identifier limit.
var identifierPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

const maxIdentifierLen = 63

func validIdentifier(name string) bool {
	return len(name) <= maxIdentifierLen && identifierPattern.MatchString(name)
}

// Validate checks the declaration's internal consistency. It runs before any
// storage interaction; a declaration that fails here is never persisted,
// materialized or registered.
func (d *Declaration) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDeclaration)
	}
	if !validIdentifier(d.Name) {
		return fmt.Errorf("%w: name %q is not a valid identifier", ErrInvalidDeclaration, d.Name)
	}
	if d.PhysicalName != "" && !validIdentifier(d.PhysicalName) {
		return fmt.Errorf("%w: physicalName %q is not a valid identifier", ErrInvalidDeclaration, d.PhysicalName)
	}
	if table, err := d.TableName(); err != nil {
		return err
	} else if isReservedTable(table) {
		return fmt.Errorf("%w: table %q is reserved for internal use", ErrInvalidDeclaration, table)
	}
	if len(d.Fields) == 0 {
		return fmt.Errorf("%w: at least one field is required", ErrInvalidDeclaration)
	}

	if d.OwnerField != "" {
		if !validIdentifier(d.OwnerField) {
			return fmt.Errorf("%w: ownerField %q is not a valid identifier", ErrInvalidDeclaration, d.OwnerField)
		}
		if isReservedColumn(d.OwnerField) {
			return fmt.Errorf("%w: ownerField %q collides with a reserved column", ErrInvalidDeclaration, d.OwnerField)
		}
	}

	seen := make(map[string]bool, len(d.Fields))
	for _, f := range d.Fields {
		if f.Name == "" {
			return fmt.Errorf("%w: field with empty name", ErrInvalidDeclaration)
		}
		if !validIdentifier(f.Name) {
			return fmt.Errorf("%w: field %q is not a valid identifier", ErrInvalidDeclaration, f.Name)
		}
		lower := strings.ToLower(f.Name)
		if seen[lower] {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidDeclaration, f.Name)
		}
		seen[lower] = true
		if isReservedColumn(f.Name) {
			return fmt.Errorf("%w: field %q collides with a reserved column", ErrInvalidDeclaration, f.Name)
		}
		if d.OwnerField != "" && strings.EqualFold(f.Name, d.OwnerField) {
			return fmt.Errorf("%w: field %q collides with the owner field", ErrInvalidDeclaration, f.Name)
		}
		if !f.Type.IsAFieldType() {
			return fmt.Errorf("%w: field %q has unknown type", ErrInvalidDeclaration, f.Name)
		}
		if f.Default != nil {
			if err := checkDefault(f); err != nil {
				return fmt.Errorf("%w: field %q: %v", ErrInvalidDeclaration, f.Name, err)
			}
		}
	}

	for role, ops := range d.Policy {
		if role == "" {
			return fmt.Errorf("%w: policy contains an empty role name", ErrInvalidDeclaration)
		}
		for _, op := range ops {
			if !op.IsAOperation() {
				return fmt.Errorf("%w: role %q grants an unknown operation", ErrInvalidDeclaration, role)
			}
		}
	}

	return nil
}

// Reserved names are compared case-insensitively. PostgreSQL would keep "ID"
// and "id" as distinct quoted columns, but a declaration relying on that is a
// mistake, not a feature.
func isReservedColumn(name string) bool {
	switch strings.ToLower(name) {
	case ColumnID, ColumnCreatedAt, ColumnUpdatedAt:
		return true
	}
	return false
}

// Modelbase's own tables share the database with materialized models; a
// declaration must not be able to point at them.
func isReservedTable(table string) bool {
	switch strings.ToLower(table) {
	case "model_definitions", "users", "audit_messages", "schema_migrations":
		return true
	}
	return false
}

// checkDefault verifies the default literal matches the declared type. YAML
// produces int for whole numbers and time.Time for timestamp scalars, JSON
// produces float64 and strings; both forms are accepted.
func checkDefault(f Field) error {
	switch f.Type {
	case TypeString:
		if _, ok := f.Default.(string); !ok {
			return fmt.Errorf("default %v is not a string", f.Default)
		}
	case TypeNumber:
		switch f.Default.(type) {
		case int, int64, float32, float64:
		default:
			return fmt.Errorf("default %v is not a number", f.Default)
		}
	case TypeBoolean:
		if _, ok := f.Default.(bool); !ok {
			return fmt.Errorf("default %v is not a boolean", f.Default)
		}
	case TypeDate:
		switch v := f.Default.(type) {
		case time.Time:
		case string:
			if _, err := ParseDate(v); err != nil {
				return fmt.Errorf("default %q is not a date: %v", v, err)
			}
		default:
			return fmt.Errorf("default %v is not a date", f.Default)
		}
	case TypeJSON:
		// Any literal is representable as JSON.
	}
	return nil
}

// ParseDate accepts the two date forms declarations and record payloads may
// carry: RFC 3339 timestamps and plain dates.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
