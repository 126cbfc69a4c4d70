package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Record is an untyped row: field name to value, plus the reserved id,
// created_at, updated_at and owner-field entries.
type Record map[string]interface{}

// ErrInvalidRecord wraps every record payload rejection.
var ErrInvalidRecord = errors.New("invalid record payload")

// CoercePayload validates a client payload against the declaration's field
// list and converts each value to its storage representation. Unknown keys
// are rejected. Reserved columns must be stripped by the caller first; the
// owner field is accepted as a string-typed pseudo-field.
//
// Storage representations: string, float64, bool, time.Time, and for json
// fields the marshaled JSON text. Explicit nulls pass through and surface as
// SQL NULL.
func (d *Declaration) CoercePayload(payload map[string]interface{}) (Record, error) {
	out := make(Record, len(payload))
	for key, value := range payload {
		if d.OwnerField != "" && key == d.OwnerField {
			if value == nil {
				out[key] = nil
				continue
			}
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("%w: field %q must be a string", ErrInvalidRecord, key)
			}
			out[key] = s
			continue
		}

		field, ok := d.Field(key)
		if !ok {
			return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidRecord, key)
		}
		if value == nil {
			out[key] = nil
			continue
		}
		coerced, err := coerceValue(field, value)
		if err != nil {
			return nil, err
		}
		out[key] = coerced
	}
	return out, nil
}

// CheckRequired verifies a create payload covers every required field. A
// field with a declared default may be absent; storage fills it. An explicit
// null never satisfies a required field.
func (d *Declaration) CheckRequired(rec Record) error {
	for _, f := range d.Fields {
		if !f.Required {
			continue
		}
		value, ok := rec[f.Name]
		if !ok {
			if f.Default != nil {
				continue
			}
			return fmt.Errorf("%w: field %q is required", ErrInvalidRecord, f.Name)
		}
		if value == nil {
			return fmt.Errorf("%w: field %q is required", ErrInvalidRecord, f.Name)
		}
	}
	return nil
}

// CheckNulls rejects explicit nulls on required fields. Partial updates use
// this instead of CheckRequired: an absent field means "leave unchanged".
func (d *Declaration) CheckNulls(rec Record) error {
	for _, f := range d.Fields {
		if !f.Required {
			continue
		}
		if value, ok := rec[f.Name]; ok && value == nil {
			return fmt.Errorf("%w: field %q is required", ErrInvalidRecord, f.Name)
		}
	}
	return nil
}

func coerceValue(f Field, value interface{}) (interface{}, error) {
	switch f.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: field %q must be a string", ErrInvalidRecord, f.Name)
		}
		return s, nil
	case TypeNumber:
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case json.Number:
			n, err := v.Float64()
			if err != nil {
				return nil, fmt.Errorf("%w: field %q must be a number", ErrInvalidRecord, f.Name)
			}
			return n, nil
		}
		return nil, fmt.Errorf("%w: field %q must be a number", ErrInvalidRecord, f.Name)
	case TypeBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: field %q must be a boolean", ErrInvalidRecord, f.Name)
		}
		return b, nil
	case TypeDate:
		switch v := value.(type) {
		case time.Time:
			return v, nil
		case string:
			t, err := ParseDate(v)
			if err != nil {
				return nil, fmt.Errorf("%w: field %q must be an RFC 3339 timestamp or a date", ErrInvalidRecord, f.Name)
			}
			return t, nil
		}
		return nil, fmt.Errorf("%w: field %q must be an RFC 3339 timestamp or a date", ErrInvalidRecord, f.Name)
	case TypeJSON:
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q is not representable as JSON", ErrInvalidRecord, f.Name)
		}
		return string(raw), nil
	}
	return nil, fmt.Errorf("%w: field %q has unknown type", ErrInvalidRecord, f.Name)
}

// DecodeRow converts a raw storage row into its API shape. Values arrive in
// whatever representation the driver chose; they are normalized per declared
// type. Columns the declaration does not know (left behind by an older
// declaration of the same table) are dropped.
func (d *Declaration) DecodeRow(row map[string]interface{}) Record {
	out := make(Record, len(row))
	for key, value := range row {
		switch {
		case key == ColumnID:
			out[key] = asString(value)
		case key == ColumnCreatedAt || key == ColumnUpdatedAt:
			out[key] = asTime(value)
		case d.OwnerField != "" && key == d.OwnerField:
			if value == nil {
				out[key] = nil
			} else {
				out[key] = asString(value)
			}
		default:
			field, ok := d.Field(key)
			if !ok {
				continue
			}
			if value == nil {
				out[key] = nil
				continue
			}
			out[key] = decodeValue(field, value)
		}
	}
	return out
}

func decodeValue(f Field, value interface{}) interface{} {
	switch f.Type {
	case TypeString:
		return asString(value)
	case TypeNumber:
		switch v := value.(type) {
		case float64:
			return v
		case float32:
			return float64(v)
		case int64:
			return float64(v)
		case int:
			return float64(v)
		case []byte:
			if n, err := strconv.ParseFloat(string(v), 64); err == nil {
				return n
			}
		case string:
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				return n
			}
		}
		return value
	case TypeBoolean:
		switch v := value.(type) {
		case bool:
			return v
		case []byte:
			return string(v) == "t" || string(v) == "true"
		case string:
			return v == "t" || v == "true"
		}
		return value
	case TypeDate:
		return asTime(value)
	case TypeJSON:
		var decoded interface{}
		switch v := value.(type) {
		case []byte:
			if json.Unmarshal(v, &decoded) == nil {
				return decoded
			}
		case string:
			if json.Unmarshal([]byte(v), &decoded) == nil {
				return decoded
			}
		}
		return value
	}
	return value
}

func asString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return fmt.Sprint(value)
}

func asTime(value interface{}) interface{} {
	switch v := value.(type) {
	case time.Time:
		return v
	case string:
		if t, err := ParseDate(v); err == nil {
			return t
		}
	case []byte:
		if t, err := ParseDate(string(v)); err == nil {
			return t
		}
	}
	return value
}
