package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/modelbase/modelbase/pkg/schema"
	"github.com/modelbase/modelbase/pkg/server/store"
)

// mountNote registers the note model and stubs its declaration load, which
// is how requests observe a model after a publish.
func mountNote(m *mockServer) *schema.Declaration {
	decl := noteDeclaration()
	m.srv.Registry.Register("note")
	m.models.On("LoadModel", "note").Return(decl, nil)
	return decl
}

// wikiDeclaration has no owner field: any granted role may touch any record.
func wikiDeclaration() *schema.Declaration {
	return &schema.Declaration{
		Name: "wiki",
		Fields: []schema.Field{
			{Name: "title", Type: schema.TypeString, Required: true},
			{Name: "content", Type: schema.TypeString},
		},
		Policy: schema.AccessPolicy{
			"editor": {schema.OpCreate, schema.OpRead, schema.OpUpdate, schema.OpDelete},
		},
	}
}

func TestListMountedModels(t *testing.T) {
	m := newMockServer(t)
	m.srv.Registry.Register("wiki")
	m.srv.Registry.Register("note")

	rec := m.request("GET", "/api", m.tokenFor(t, "alice", "viewer"), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"name": "note", "path": "/api/note"},
		{"name": "wiki", "path": "/api/wiki"}
	]`, rec.Body.String())
}

func TestRecords_Unauthenticated(t *testing.T) {
	m := newMockServer(t)
	mountNote(m)

	rec := m.request("GET", "/api/note", "", nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	m.records.AssertNotCalled(t, "ListRecords", mock.Anything)
}

func TestRecords_UnknownModel(t *testing.T) {
	m := newMockServer(t)

	rec := m.request("GET", "/api/ghost", m.tokenFor(t, "alice", "editor"), nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": {"message": "model not found"}}`, rec.Body.String())
	m.models.AssertNotCalled(t, "LoadModel", mock.Anything)
}

func TestRecords_StaleMountAfterModelDelete(t *testing.T) {
	m := newMockServer(t)
	m.srv.Registry.Register("note")
	m.models.On("LoadModel", "note").Return(nil, store.ErrModelNotFound)

	rec := m.request("GET", "/api/note", m.tokenFor(t, "alice", "editor"), nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": {"message": "model not found"}}`, rec.Body.String())
}

func TestListRecords(t *testing.T) {
	m := newMockServer(t)
	decl := mountNote(m)

	m.records.On("ListRecords", decl).Return([]schema.Record{
		{"id": "8e6c2f1a-41f7-4a58-9c3e-2d5b88a01c11", "title": "newer", "author": "bob"},
		{"id": "f2ad9b7c-6f0e-4d1b-a2c4-9e3d17b45a02", "title": "older", "author": "alice"},
	}, nil)

	rec := m.request("GET", "/api/note", m.tokenFor(t, "alice", "viewer"), nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var records []schema.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "newer", records[0]["title"])
}

func TestListRecords_ForbiddenRole(t *testing.T) {
	m := newMockServer(t)
	mountNote(m)

	// "intern" has no policy entry at all.
	rec := m.request("GET", "/api/note", m.tokenFor(t, "carol", "intern"), nil)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error": {"message": "role does not have read permission on note"}}`, rec.Body.String())
	m.records.AssertNotCalled(t, "ListRecords", mock.Anything)
}

func TestListRecords_StorageFailureIsOpaque(t *testing.T) {
	m := newMockServer(t)
	decl := mountNote(m)
	m.records.On("ListRecords", decl).Return(nil, errors.New(`pq: relation "notes" does not exist`))

	rec := m.request("GET", "/api/note", m.tokenFor(t, "alice", "viewer"), nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal storage failure")
	assert.NotContains(t, rec.Body.String(), "relation")
}

func TestGetRecord(t *testing.T) {
	m := newMockServer(t)
	decl := mountNote(m)

	m.records.On("GetRecord", decl, "8e6c2f1a-41f7-4a58-9c3e-2d5b88a01c11").Return(schema.Record{
		"id":     "8e6c2f1a-41f7-4a58-9c3e-2d5b88a01c11",
		"title":  "hello",
		"author": "bob",
	}, nil)

	// Read is not ownership-bound: alice may read bob's record.
	rec := m.request("GET", "/api/note/8e6c2f1a-41f7-4a58-9c3e-2d5b88a01c11", m.tokenFor(t, "alice", "viewer"), nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var record schema.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, "hello", record["title"])
	assert.Equal(t, "bob", record["author"])
}

func TestGetRecord_NotFound(t *testing.T) {
	m := newMockServer(t)
	decl := mountNote(m)
	m.records.On("GetRecord", decl, "missing").Return(nil, store.ErrRecordNotFound)

	rec := m.request("GET", "/api/note/missing", m.tokenFor(t, "alice", "viewer"), nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": {"message": "record not found"}}`, rec.Body.String())
}

func TestCreateRecord(t *testing.T) {
	m := newMockServer(t)
	decl := mountNote(m)

	created := schema.Record{
		"id":     "1f0a8c2e-9df1-4f5e-8f33-6b8a3f2d9c41",
		"title":  "hello",
		"pinned": true,
		"author": "alice",
	}
	m.records.On("InsertRecord", decl,
		mock.MatchedBy(func(id string) bool {
			_, err := uuid.Parse(id)
			return err == nil
		}),
		mock.MatchedBy(func(record schema.Record) bool {
			_, hasID := record["id"]
			_, hasCreated := record["created_at"]
			_, hasUpdated := record["updated_at"]
			return record["title"] == "hello" &&
				record["pinned"] == true &&
				record["author"] == "alice" &&
				!hasID && !hasCreated && !hasUpdated
		}),
	).Return(created, nil)

	// The client-chosen id, timestamps and owner must all be discarded.
	body := `{
		"title": "hello",
		"pinned": true,
		"author": "mallory",
		"id": "chosen-by-client",
		"created_at": "2020-01-01T00:00:00Z",
		"updated_at": "2020-01-01T00:00:00Z"
	}`
	rec := m.request("POST", "/api/note", m.tokenFor(t, "alice", "editor"), strings.NewReader(body))

	require.Equal(t, http.StatusCreated, rec.Code)

	var got schema.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "alice", got["author"])
	assert.NotEqual(t, "chosen-by-client", got["id"])

	m.records.AssertExpectations(t)
}

func TestCreateRecord_ForbiddenRole(t *testing.T) {
	m := newMockServer(t)
	mountNote(m)

	rec := m.request("POST", "/api/note", m.tokenFor(t, "alice", "viewer"), strings.NewReader(`{"title": "x"}`))

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error": {"message": "role does not have create permission on note"}}`, rec.Body.String())
	m.records.AssertNotCalled(t, "InsertRecord", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateRecord_BadPayload(t *testing.T) {
	testCases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "not JSON",
			body: `title=hello`,
			want: "Invalid JSON body",
		},
		{
			name: "JSON array",
			body: `[1, 2, 3]`,
			want: "Invalid JSON body",
		},
		{
			name: "JSON null",
			body: `null`,
			want: "Invalid JSON body",
		},
		{
			name: "unknown field",
			body: `{"title": "x", "color": "red"}`,
			want: `unknown field "color"`,
		},
		{
			name: "wrong type",
			body: `{"title": 42}`,
			want: `field "title" must be a string`,
		},
		{
			name: "missing required field",
			body: `{"pinned": true}`,
			want: `field "title" is required`,
		},
		{
			name: "null required field",
			body: `{"title": null}`,
			want: `field "title" is required`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := newMockServer(t)
			mountNote(m)

			rec := m.request("POST", "/api/note", m.tokenFor(t, "alice", "editor"), strings.NewReader(tc.body))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
			m.records.AssertNotCalled(t, "InsertRecord", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateRecord_Owner(t *testing.T) {
	m := newMockServer(t)
	decl := mountNote(m)

	existing := schema.Record{"id": "rec-1", "title": "old", "author": "alice"}
	m.records.On("GetRecord", decl, "rec-1").Return(existing, nil)
	m.records.On("UpdateRecord", decl, "rec-1", mock.MatchedBy(func(record schema.Record) bool {
		return record["title"] == "new"
	})).Return(schema.Record{"id": "rec-1", "title": "new", "author": "alice"}, nil)

	rec := m.request("PUT", "/api/note/rec-1", m.tokenFor(t, "alice", "editor"), strings.NewReader(`{"title": "new"}`))

	require.Equal(t, http.StatusOK, rec.Code)

	var updated schema.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "new", updated["title"])

	m.records.AssertExpectations(t)
}

func TestUpdateRecord_NotOwner(t *testing.T) {
	m := newMockServer(t)
	decl := mountNote(m)

	existing := schema.Record{"id": "rec-1", "title": "old", "author": "bob"}
	m.records.On("GetRecord", decl, "rec-1").Return(existing, nil)

	rec := m.request("PUT", "/api/note/rec-1", m.tokenFor(t, "alice", "editor"), strings.NewReader(`{"title": "new"}`))

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error": {"message": "role does not have update permission on note"}}`, rec.Body.String())
	m.records.AssertNotCalled(t, "UpdateRecord", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateRecord_AdminWildcard(t *testing.T) {
	m := newMockServer(t)
	decl := mountNote(m)

	// "all" bypasses the ownership rule entirely.
	existing := schema.Record{"id": "rec-1", "title": "old", "author": "bob"}
	m.records.On("GetRecord", decl, "rec-1").Return(existing, nil)
	m.records.On("UpdateRecord", decl, "rec-1", mock.Anything).
		Return(schema.Record{"id": "rec-1", "title": "seized", "author": "bob"}, nil)

	rec := m.request("PUT", "/api/note/rec-1", m.tokenFor(t, "root", "admin"), strings.NewReader(`{"title": "seized"}`))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateRecord_ForbiddenRoleBeforeFetch(t *testing.T) {
	m := newMockServer(t)
	mountNote(m)

	// A role that never grants update is rejected before the record read.
	rec := m.request("PUT", "/api/note/rec-1", m.tokenFor(t, "alice", "viewer"), strings.NewReader(`{"title": "new"}`))

	require.Equal(t, http.StatusForbidden, rec.Code)
	m.records.AssertNotCalled(t, "GetRecord", mock.Anything, mock.Anything)
}

func TestUpdateRecord_MissingRecordBeforeOwnership(t *testing.T) {
	m := newMockServer(t)
	decl := mountNote(m)
	m.records.On("GetRecord", decl, "rec-1").Return(nil, store.ErrRecordNotFound)

	// The absence of the record answers before ownership could: a 404,
	// never a 403 that would confirm the record exists.
	rec := m.request("PUT", "/api/note/rec-1", m.tokenFor(t, "alice", "editor"), strings.NewReader(`{"title": "new"}`))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": {"message": "record not found"}}`, rec.Body.String())
}

func TestUpdateRecord_ImmutableColumnsStripped(t *testing.T) {
	m := newMockServer(t)
	decl := mountNote(m)

	existing := schema.Record{"id": "rec-1", "title": "old", "author": "alice"}
	m.records.On("GetRecord", decl, "rec-1").Return(existing, nil)
	m.records.On("UpdateRecord", decl, "rec-1", mock.MatchedBy(func(record schema.Record) bool {
		_, hasID := record["id"]
		_, hasCreated := record["created_at"]
		return record["title"] == "new" && !hasID && !hasCreated
	})).Return(schema.Record{"id": "rec-1", "title": "new", "author": "alice"}, nil)

	body := `{"title": "new", "id": "other", "created_at": "2020-01-01T00:00:00Z"}`
	rec := m.request("PUT", "/api/note/rec-1", m.tokenFor(t, "alice", "editor"), strings.NewReader(body))

	require.Equal(t, http.StatusOK, rec.Code)
	m.records.AssertExpectations(t)
}

func TestUpdateRecord_RejectsClientUpdatedAt(t *testing.T) {
	m := newMockServer(t)
	decl := mountNote(m)

	existing := schema.Record{"id": "rec-1", "title": "old", "author": "alice"}
	m.records.On("GetRecord", decl, "rec-1").Return(existing, nil)

	// Unlike create, update does not strip updated_at; the store refreshes
	// it, and a client-supplied value is an unknown field.
	body := `{"title": "new", "updated_at": "2020-01-01T00:00:00Z"}`
	rec := m.request("PUT", "/api/note/rec-1", m.tokenFor(t, "alice", "editor"), strings.NewReader(body))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `unknown field "updated_at"`)
	m.records.AssertNotCalled(t, "UpdateRecord", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateRecord_NullRequiredField(t *testing.T) {
	m := newMockServer(t)
	decl := mountNote(m)

	existing := schema.Record{"id": "rec-1", "title": "old", "author": "alice"}
	m.records.On("GetRecord", decl, "rec-1").Return(existing, nil)

	// Absence leaves a field unchanged; an explicit null is a violation.
	rec := m.request("PUT", "/api/note/rec-1", m.tokenFor(t, "alice", "editor"), strings.NewReader(`{"title": null}`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `field "title" is required`)
	m.records.AssertNotCalled(t, "UpdateRecord", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateRecord_UnownedModel(t *testing.T) {
	m := newMockServer(t)
	decl := wikiDeclaration()
	m.srv.Registry.Register("wiki")
	m.models.On("LoadModel", "wiki").Return(decl, nil)

	// No owner field, so ownership never constrains a granted role.
	existing := schema.Record{"id": "rec-9", "title": "Welcome"}
	m.records.On("GetRecord", decl, "rec-9").Return(existing, nil)
	m.records.On("UpdateRecord", decl, "rec-9", mock.Anything).
		Return(schema.Record{"id": "rec-9", "title": "Welcome", "content": "hi"}, nil)

	rec := m.request("PUT", "/api/wiki/rec-9", m.tokenFor(t, "carol", "editor"), strings.NewReader(`{"content": "hi"}`))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteRecord_Owner(t *testing.T) {
	m := newMockServer(t)
	decl := mountNote(m)

	existing := schema.Record{"id": "rec-1", "title": "old", "author": "alice"}
	m.records.On("GetRecord", decl, "rec-1").Return(existing, nil)
	m.records.On("DeleteRecord", decl, "rec-1").Return(nil)

	rec := m.request("DELETE", "/api/note/rec-1", m.tokenFor(t, "alice", "editor"), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted": true, "id": "rec-1"}`, rec.Body.String())
	m.records.AssertExpectations(t)
}

func TestDeleteRecord_NotOwner(t *testing.T) {
	m := newMockServer(t)
	decl := mountNote(m)

	existing := schema.Record{"id": "rec-1", "title": "old", "author": "bob"}
	m.records.On("GetRecord", decl, "rec-1").Return(existing, nil)

	rec := m.request("DELETE", "/api/note/rec-1", m.tokenFor(t, "alice", "editor"), nil)

	require.Equal(t, http.StatusForbidden, rec.Code)
	m.records.AssertNotCalled(t, "DeleteRecord", mock.Anything, mock.Anything)
}

func TestDeleteRecord_NotFound(t *testing.T) {
	m := newMockServer(t)
	decl := mountNote(m)
	m.records.On("GetRecord", decl, "rec-1").Return(nil, store.ErrRecordNotFound)

	rec := m.request("DELETE", "/api/note/rec-1", m.tokenFor(t, "alice", "editor"), nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecords_MethodNotAllowed(t *testing.T) {
	m := newMockServer(t)
	mountNote(m)

	// PUT needs a record id; POST only works on the collection.
	rec := m.request("PUT", "/api/note", m.tokenFor(t, "alice", "editor"), strings.NewReader(`{}`))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = m.request("POST", "/api/note/rec-1", m.tokenFor(t, "alice", "editor"), strings.NewReader(`{}`))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
