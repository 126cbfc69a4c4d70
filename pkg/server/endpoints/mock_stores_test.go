package endpoints

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/modelbase/modelbase/pkg/config"
	"github.com/modelbase/modelbase/pkg/model"
	"github.com/modelbase/modelbase/pkg/schema"
	"github.com/modelbase/modelbase/pkg/server"
	"github.com/modelbase/modelbase/pkg/server/store"
	"github.com/modelbase/modelbase/pkg/token"
)

// MockModelsStore implements store.ModelsStore for testing using testify/mock
type MockModelsStore struct {
	mock.Mock
}

func NewMockModelsStore() *MockModelsStore {
	return &MockModelsStore{}
}

func (m *MockModelsStore) SaveModel(decl *schema.Declaration) error {
	args := m.Called(decl)
	return args.Error(0)
}

func (m *MockModelsStore) LoadModel(name string) (*schema.Declaration, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schema.Declaration), args.Error(1)
}

func (m *MockModelsStore) ListModels() ([]*schema.Declaration, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*schema.Declaration), args.Error(1)
}

func (m *MockModelsStore) DeleteModel(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

// MockRecordsStore implements store.RecordsStore for testing using testify/mock
type MockRecordsStore struct {
	mock.Mock
}

func NewMockRecordsStore() *MockRecordsStore {
	return &MockRecordsStore{}
}

func (m *MockRecordsStore) ListRecords(decl *schema.Declaration) ([]schema.Record, error) {
	args := m.Called(decl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schema.Record), args.Error(1)
}

func (m *MockRecordsStore) GetRecord(decl *schema.Declaration, id string) (schema.Record, error) {
	args := m.Called(decl, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(schema.Record), args.Error(1)
}

func (m *MockRecordsStore) InsertRecord(decl *schema.Declaration, id string, record schema.Record) (schema.Record, error) {
	args := m.Called(decl, id, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(schema.Record), args.Error(1)
}

func (m *MockRecordsStore) UpdateRecord(decl *schema.Declaration, id string, record schema.Record) (schema.Record, error) {
	args := m.Called(decl, id, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(schema.Record), args.Error(1)
}

func (m *MockRecordsStore) DeleteRecord(decl *schema.Declaration, id string) error {
	args := m.Called(decl, id)
	return args.Error(0)
}

// MockUsersStore implements store.UsersStore for testing using testify/mock
type MockUsersStore struct {
	mock.Mock
}

func NewMockUsersStore() *MockUsersStore {
	return &MockUsersStore{}
}

func (m *MockUsersStore) CreateUser(login, role string) (string, error) {
	args := m.Called(login, role)
	return args.String(0), args.Error(1)
}

func (m *MockUsersStore) GetUser(login string) (*model.User, error) {
	args := m.Called(login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) ValidateAPIKey(user *model.User, apiKey []byte) bool {
	args := m.Called(user, apiKey)
	return args.Bool(0)
}

func (m *MockUsersStore) RotateAPIKey(login string) (string, error) {
	args := m.Called(login)
	return args.String(0), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func NewMockHealthStore() *MockHealthStore {
	return &MockHealthStore{}
}

func (m *MockHealthStore) CheckConnectivity() error {
	args := m.Called()
	return args.Error(0)
}

// MockMaterializer implements server.Materializer for testing using testify/mock
type MockMaterializer struct {
	mock.Mock
}

func NewMockMaterializer() *MockMaterializer {
	return &MockMaterializer{}
}

func (m *MockMaterializer) Materialize(decl *schema.Declaration) error {
	args := m.Called(decl)
	return args.Error(0)
}

var (
	_ store.ModelsStore   = (*MockModelsStore)(nil)
	_ store.RecordsStore  = (*MockRecordsStore)(nil)
	_ store.UsersStore    = (*MockUsersStore)(nil)
	_ store.HealthStore   = (*MockHealthStore)(nil)
	_ server.Materializer = (*MockMaterializer)(nil)
)

// mockServer wires a full router over mock stores, so handler tests cover
// routing and middleware alongside the handlers themselves.
type mockServer struct {
	srv          *server.Server
	models       *MockModelsStore
	records      *MockRecordsStore
	users        *MockUsersStore
	health       *MockHealthStore
	materializer *MockMaterializer
	signer       *token.Signer
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()

	signer, err := token.NewSigner([]byte("0123456789abcdef0123456789abcdef"), 0)
	require.NoError(t, err)

	m := &mockServer{
		models:       NewMockModelsStore(),
		records:      NewMockRecordsStore(),
		users:        NewMockUsersStore(),
		health:       NewMockHealthStore(),
		materializer: NewMockMaterializer(),
		signer:       signer,
	}

	m.srv = &server.Server{
		Router: mux.NewRouter().UseEncodedPath(),
		Config: &config.ModelbaseConfig{
			Port:        8080,
			TokenTTL:    480,
			AdminRole:   "admin",
			DocsEnabled: true,
		},
		Signer:       signer,
		Materializer: m.materializer,
		ModelsStore:  m.models,
		RecordsStore: m.records,
		UsersStore:   m.users,
		HealthStore:  m.health,
	}
	RegisterAll(m.srv)

	return m
}

// tokenFor issues a real access token so requests pass the bearer
// middleware the same way production traffic does.
func (m *mockServer) tokenFor(t *testing.T, subject, role string) string {
	t.Helper()
	accessToken, err := m.signer.Issue(subject, role)
	require.NoError(t, err)
	return accessToken
}

func (m *mockServer) request(method, path, accessToken string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	m.srv.Router.ServeHTTP(rec, req)
	return rec
}

// noteDeclaration is the standing test model: an owned declaration whose
// policy covers a wildcard role, a full-grant role and a read-only role.
func noteDeclaration() *schema.Declaration {
	return &schema.Declaration{
		Name:        "note",
		Description: "Team notes.",
		Fields: []schema.Field{
			{Name: "title", Type: schema.TypeString, Required: true},
			{Name: "body", Type: schema.TypeString},
			{Name: "pinned", Type: schema.TypeBoolean, Default: false},
		},
		OwnerField: "author",
		Policy: schema.AccessPolicy{
			"admin":  {schema.OpAll},
			"editor": {schema.OpCreate, schema.OpRead, schema.OpUpdate, schema.OpDelete},
			"viewer": {schema.OpRead},
		},
	}
}
