package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validDecl() Declaration {
	return Declaration{
		Name:       "Task",
		OwnerField: "assignee",
		Fields: []Field{
			{Name: "title", Type: TypeString, Required: true},
			{Name: "done", Type: TypeBoolean, Default: false},
		},
		Policy: AccessPolicy{
			"admin": {OpAll},
			"user":  {OpCreate, OpRead, OpUpdate},
		},
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Declaration)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(d *Declaration) {},
		},
		{
			name:    "missing-name",
			mutate:  func(d *Declaration) { d.Name = "" },
			wantErr: "name is required",
		},
		{
			name:    "name-not-identifier",
			mutate:  func(d *Declaration) { d.Name = "task; DROP TABLE tasks" },
			wantErr: "not a valid identifier",
		},
		{
			name:    "physical-name-not-identifier",
			mutate:  func(d *Declaration) { d.PhysicalName = `tasks"` },
			wantErr: "not a valid identifier",
		},
		{
			name:    "no-fields",
			mutate:  func(d *Declaration) { d.Fields = nil },
			wantErr: "at least one field",
		},
		{
			name:    "physical-name-reserved",
			mutate:  func(d *Declaration) { d.PhysicalName = "model_definitions" },
			wantErr: "reserved for internal use",
		},
		{
			name:    "derived-table-reserved",
			mutate:  func(d *Declaration) { d.Name = "User" },
			wantErr: "reserved for internal use",
		},
		{
			name: "field-name-reserved",
			mutate: func(d *Declaration) {
				d.Fields = append(d.Fields, Field{Name: "id", Type: TypeString})
			},
			wantErr: "reserved column",
		},
		{
			name: "field-name-reserved-case-insensitive",
			mutate: func(d *Declaration) {
				d.Fields = append(d.Fields, Field{Name: "Created_At", Type: TypeDate})
			},
			wantErr: "reserved column",
		},
		{
			name: "field-collides-with-owner",
			mutate: func(d *Declaration) {
				d.Fields = append(d.Fields, Field{Name: "assignee", Type: TypeString})
			},
			wantErr: "owner field",
		},
		{
			name: "duplicate-field",
			mutate: func(d *Declaration) {
				d.Fields = append(d.Fields, Field{Name: "Title", Type: TypeString})
			},
			wantErr: "duplicate field",
		},
		{
			name:    "owner-field-reserved",
			mutate:  func(d *Declaration) { d.OwnerField = "updated_at" },
			wantErr: "reserved column",
		},
		{
			name: "default-type-mismatch",
			mutate: func(d *Declaration) {
				d.Fields[0].Default = 42
			},
			wantErr: "not a string",
		},
		{
			name: "default-bad-date",
			mutate: func(d *Declaration) {
				d.Fields = append(d.Fields, Field{Name: "due", Type: TypeDate, Default: "someday"})
			},
			wantErr: "not a date",
		},
		{
			name: "default-date-accepts-plain-date",
			mutate: func(d *Declaration) {
				d.Fields = append(d.Fields, Field{Name: "due", Type: TypeDate, Default: "2024-01-31"})
			},
		},
		{
			name: "empty-role-name",
			mutate: func(d *Declaration) {
				d.Policy[""] = []Operation{OpRead}
			},
			wantErr: "empty role",
		},
		{
			name:   "empty-policy-is-allowed",
			mutate: func(d *Declaration) { d.Policy = AccessPolicy{} },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			decl := validDecl()
			tc.mutate(&decl)
			err := decl.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidDeclaration)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
