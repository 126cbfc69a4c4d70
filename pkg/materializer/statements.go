package materializer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/modelbase/modelbase/pkg/schema"
)

// columnTypes is the fixed, total mapping from field type to column type.
var columnTypes = map[schema.FieldType]string{
	schema.TypeString:  "text",
	schema.TypeNumber:  "numeric",
	schema.TypeBoolean: "boolean",
	schema.TypeDate:    "timestamptz",
	schema.TypeJSON:    "jsonb",
}

// Declarations are validated before they get here, but this package is the
// last stop before SQL text, so names are checked again on every build.
var identifierPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

func quoteIdent(name string) (string, error) {
	if len(name) > 63 || !identifierPattern.MatchString(name) {
		return "", fmt.Errorf("unsafe identifier %q", name)
	}
	return `"` + name + `"`, nil
}

// quoteLiteral escapes a string for embedding as a SQL literal. Single
// quotes are doubled; with standard_conforming_strings nothing else in a
// quoted literal acts as control syntax.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// CreateTable builds the DDL for a declaration's table. Default literals are
// the only values embedded in the text, escaped and type-coerced; everything
// else about the statement comes from checked identifiers and the closed
// type set.
func CreateTable(decl *schema.Declaration) (string, error) {
	tableName, err := decl.TableName()
	if err != nil {
		return "", err
	}
	table, err := quoteIdent(tableName)
	if err != nil {
		return "", err
	}

	columns := []string{`"id" text PRIMARY KEY`}

	for _, field := range decl.Fields {
		name, err := quoteIdent(field.Name)
		if err != nil {
			return "", err
		}
		column := name + " " + columnTypes[field.Type]
		if field.Required {
			column += " NOT NULL"
		}
		if field.Unique {
			column += " UNIQUE"
		}
		if field.Default != nil {
			literal, err := defaultLiteral(field)
			if err != nil {
				return "", err
			}
			column += " DEFAULT " + literal
		}
		columns = append(columns, column)
	}

	if decl.OwnerField != "" {
		owner, err := quoteIdent(decl.OwnerField)
		if err != nil {
			return "", err
		}
		columns = append(columns, owner+" text")
	}

	columns = append(columns,
		`"created_at" timestamptz NOT NULL DEFAULT now()`,
		`"updated_at" timestamptz NOT NULL DEFAULT now()`,
	)

	return "CREATE TABLE IF NOT EXISTS " + table + " (" + strings.Join(columns, ", ") + ")", nil
}

func defaultLiteral(f schema.Field) (string, error) {
	switch f.Type {
	case schema.TypeString:
		s, ok := f.Default.(string)
		if !ok {
			return "", fmt.Errorf("field %q: default is not a string", f.Name)
		}
		return quoteLiteral(s), nil
	case schema.TypeNumber:
		switch v := f.Default.(type) {
		case int:
			return strconv.Itoa(v), nil
		case int64:
			return strconv.FormatInt(v, 10), nil
		case float32:
			return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		}
		return "", fmt.Errorf("field %q: default is not a number", f.Name)
	case schema.TypeBoolean:
		b, ok := f.Default.(bool)
		if !ok {
			return "", fmt.Errorf("field %q: default is not a boolean", f.Name)
		}
		if b {
			return "TRUE", nil
		}
		return "FALSE", nil
	case schema.TypeDate:
		switch v := f.Default.(type) {
		case time.Time:
			return quoteLiteral(v.UTC().Format(time.RFC3339)) + "::timestamptz", nil
		case string:
			t, err := schema.ParseDate(v)
			if err != nil {
				return "", fmt.Errorf("field %q: default is not a date: %w", f.Name, err)
			}
			return quoteLiteral(t.UTC().Format(time.RFC3339)) + "::timestamptz", nil
		}
		return "", fmt.Errorf("field %q: default is not a date", f.Name)
	case schema.TypeJSON:
		raw, err := json.Marshal(f.Default)
		if err != nil {
			return "", fmt.Errorf("field %q: default is not representable as JSON: %w", f.Name, err)
		}
		return quoteLiteral(string(raw)) + "::jsonb", nil
	}
	return "", fmt.Errorf("field %q: unknown type", f.Name)
}

// SelectAll builds the list query, newest records first.
func SelectAll(decl *schema.Declaration) (string, error) {
	table, err := tableIdent(decl)
	if err != nil {
		return "", err
	}
	return `SELECT * FROM ` + table + ` ORDER BY "created_at" DESC`, nil
}

// SelectByID builds the single-record query. The id binds at execution.
func SelectByID(decl *schema.Declaration) (string, error) {
	table, err := tableIdent(decl)
	if err != nil {
		return "", err
	}
	return `SELECT * FROM ` + table + ` WHERE "id" = ?`, nil
}

// Insert builds the insert statement for a coerced record. Columns are
// emitted in sorted order so the statement is deterministic for a given
// payload.
func Insert(decl *schema.Declaration, id string, record schema.Record) (string, []interface{}, error) {
	table, err := tableIdent(decl)
	if err != nil {
		return "", nil, err
	}

	columns := []string{`"id"`}
	placeholders := []string{"?"}
	args := []interface{}{id}

	for _, key := range sortedKeys(record) {
		name, err := quoteIdent(key)
		if err != nil {
			return "", nil, err
		}
		columns = append(columns, name)
		placeholders = append(placeholders, placeholderFor(decl, key))
		args = append(args, record[key])
	}

	sql := "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ")"
	return sql, args, nil
}

// Update builds the merge statement: the given fields plus an updated_at
// refresh, keyed by id. An empty record still refreshes the timestamp.
func Update(decl *schema.Declaration, id string, record schema.Record) (string, []interface{}, error) {
	table, err := tableIdent(decl)
	if err != nil {
		return "", nil, err
	}

	var assignments []string
	var args []interface{}

	for _, key := range sortedKeys(record) {
		name, err := quoteIdent(key)
		if err != nil {
			return "", nil, err
		}
		assignments = append(assignments, name+" = "+placeholderFor(decl, key))
		args = append(args, record[key])
	}
	assignments = append(assignments, `"updated_at" = now()`)

	sql := "UPDATE " + table + " SET " + strings.Join(assignments, ", ") + ` WHERE "id" = ?`
	args = append(args, id)
	return sql, args, nil
}

// Delete builds the removal statement. The id binds at execution.
func Delete(decl *schema.Declaration) (string, error) {
	table, err := tableIdent(decl)
	if err != nil {
		return "", err
	}
	return "DELETE FROM " + table + ` WHERE "id" = ?`, nil
}

func tableIdent(decl *schema.Declaration) (string, error) {
	tableName, err := decl.TableName()
	if err != nil {
		return "", err
	}
	return quoteIdent(tableName)
}

// jsonb columns need an explicit cast because coerced json values arrive as
// text parameters.
func placeholderFor(decl *schema.Declaration, column string) string {
	if field, ok := decl.Field(column); ok && field.Type == schema.TypeJSON {
		return "?::jsonb"
	}
	return "?"
}

func sortedKeys(record schema.Record) []string {
	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
