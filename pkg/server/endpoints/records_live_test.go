package endpoints

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/modelbase/modelbase/pkg/schema"
)

// TestRecordsEndpointLive runs the publish-then-CRUD lifecycle against a
// real database. The model is stored directly, published over HTTP, and its
// records are driven through every operation as the admin user.
func TestRecordsEndpointLive(t *testing.T) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	tokenKey := make([]byte, 32)
	for i := range tokenKey {
		tokenKey[i] = byte(i)
	}

	testServer, err := NewTestServer(dbURL, tokenKey)
	if err != nil {
		t.Fatalf("failed to create test server: %v", err)
	}

	decl := &schema.Declaration{
		Name: "LiveNote",
		Fields: []schema.Field{
			{Name: "title", Type: schema.TypeString, Required: true},
			{Name: "pinned", Type: schema.TypeBoolean, Default: false},
		},
		OwnerField: "author",
		Policy: schema.AccessPolicy{
			"admin":  {schema.OpAll},
			"editor": {schema.OpCreate, schema.OpRead, schema.OpUpdate, schema.OpDelete},
		},
	}

	login := "live-admin"
	apiKey := "live-admin-api-key"

	// Cleanup before and after
	CleanupTestData(testServer.DB, decl)
	defer CleanupTestData(testServer.DB, decl)
	CleanupTestUser(testServer.DB, login)
	defer CleanupTestUser(testServer.DB, login)

	if err := SetupTestUser(testServer.DB, login, "admin", apiKey); err != nil {
		t.Fatalf("failed to setup test user: %v", err)
	}
	if err := CreateTestModel(testServer.DB, decl); err != nil {
		t.Fatalf("failed to store declaration: %v", err)
	}

	ts := httptest.NewServer(testServer.Router)
	defer ts.Close()

	// Authenticate
	resp, body := liveRequest(t, "POST", ts.URL+"/authn/"+login+"/authenticate", "", apiKey)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("authenticate: expected 200, got %d: %s", resp.StatusCode, body)
	}
	accessToken := strings.TrimSpace(body)
	if accessToken == "" {
		t.Fatal("authenticate: expected an access token in the response body")
	}

	// Publish the stored declaration
	resp, body = liveRequest(t, "POST", ts.URL+"/models/LiveNote/publish", accessToken, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("publish: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var published PublishResponse
	if err := json.Unmarshal([]byte(body), &published); err != nil {
		t.Fatalf("publish: failed to parse response: %v", err)
	}
	if published.Table != "live_notes" {
		t.Errorf("publish: expected table live_notes, got %q", published.Table)
	}
	if published.Path != "/api/livenote" {
		t.Errorf("publish: expected path /api/livenote, got %q", published.Path)
	}

	// Create: the owner field is stamped from the token subject, a
	// client-supplied value loses.
	resp, body = liveRequest(t, "POST", ts.URL+"/api/livenote", accessToken,
		`{"title": "first", "author": "mallory"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", resp.StatusCode, body)
	}
	var created map[string]interface{}
	if err := json.Unmarshal([]byte(body), &created); err != nil {
		t.Fatalf("create: failed to parse response: %v", err)
	}
	recordID, _ := created["id"].(string)
	if recordID == "" {
		t.Fatalf("create: expected a record id, got %s", body)
	}
	if created["author"] != login {
		t.Errorf("create: expected author %q, got %v", login, created["author"])
	}

	// List
	resp, body = liveRequest(t, "GET", ts.URL+"/api/livenote", accessToken, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var records []map[string]interface{}
	if err := json.Unmarshal([]byte(body), &records); err != nil {
		t.Fatalf("list: failed to parse response: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("list: expected 1 record, got %d", len(records))
	}

	// Fetch
	resp, body = liveRequest(t, "GET", ts.URL+"/api/livenote/"+recordID, accessToken, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("fetch: expected 200, got %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, `"first"`) {
		t.Errorf("fetch: expected the record title, got %s", body)
	}

	// Update
	resp, body = liveRequest(t, "PUT", ts.URL+"/api/livenote/"+recordID, accessToken,
		`{"title": "second"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, `"second"`) {
		t.Errorf("update: expected the new title, got %s", body)
	}

	// Delete, then verify the record is gone
	resp, body = liveRequest(t, "DELETE", ts.URL+"/api/livenote/"+recordID, accessToken, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, `"deleted":true`) {
		t.Errorf("delete: expected a deletion confirmation, got %s", body)
	}

	resp, body = liveRequest(t, "GET", ts.URL+"/api/livenote/"+recordID, accessToken, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("fetch after delete: expected 404, got %d: %s", resp.StatusCode, body)
	}
}

func liveRequest(t *testing.T, method, url, token, body string) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("failed to build %s %s: %v", method, url, err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, _ := io.ReadAll(resp.Body)
	return resp, string(raw)
}
