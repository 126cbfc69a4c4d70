package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelbase/modelbase/pkg/config"
	"github.com/modelbase/modelbase/pkg/identity"
	"github.com/modelbase/modelbase/pkg/token"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newTestSigner(t *testing.T) *token.Signer {
	signer, err := token.NewSigner(testKey, 8*time.Minute)
	require.NoError(t, err)
	return signer
}

// Helper to create a token with arbitrary claims, bypassing the signer's
// own issue path so expired and malformed tokens can be constructed.
func createTestToken(t *testing.T, key []byte, sub string, role string, exp time.Time) string {
	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"iat":  time.Now().Add(-time.Minute).Unix(),
		"exp":  exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestNewBearerAuthenticator(t *testing.T) {
	auth := NewBearerAuthenticator(nil, nil)
	assert.NotNil(t, auth)
	assert.Nil(t, auth.Signer)
}

func TestMiddleware_MissingAuthorization(t *testing.T) {
	auth := NewBearerAuthenticator(newTestSigner(t), nil)

	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authorization missing", rec.Body.String())
}

func TestMiddleware_MalformedAuthorizationHeader(t *testing.T) {
	auth := NewBearerAuthenticator(newTestSigner(t), nil)

	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"token scheme", `Token token="xyz"`},
		{"basic auth", "Basic dXNlcjpwYXNz"},
		{"random string", "something random"},
		{"empty bearer", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Malformed authorization header", rec.Body.String())
		})
	}
}

func TestMiddleware_InvalidToken(t *testing.T) {
	auth := NewBearerAuthenticator(newTestSigner(t), nil)

	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	otherKey := []byte("ffffffffffffffffffffffffffffffff")

	tests := []struct {
		name  string
		token string
	}{
		{"not a jwt", "not-a-jwt-at-all"},
		{"expired", createTestToken(t, testKey, "alice", "editor", time.Now().Add(-10*time.Minute))},
		{"wrong key", createTestToken(t, otherKey, "alice", "editor", time.Now().Add(10*time.Minute))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Invalid or expired token", rec.Body.String())
		})
	}
}

func TestMiddleware_ValidToken(t *testing.T) {
	signer := newTestSigner(t)
	auth := NewBearerAuthenticator(signer, nil)

	var got *identity.Identity
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		require.True(t, ok)
		got = id
		w.WriteHeader(http.StatusOK)
	}))

	accessToken, err := signer.Issue("alice", "editor")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "192.0.2.10:51234"
	req.Header.Set("Authorization", "Bearer "+accessToken)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Subject)
	assert.Equal(t, "editor", got.Role)
	assert.Equal(t, "192.0.2.10", got.RemoteIP.String())
	assert.WithinDuration(t, time.Now().Add(8*time.Minute), got.ExpiresAt, 5*time.Second)
}

func TestClientIP(t *testing.T) {
	trusted := &config.ModelbaseConfig{TrustedProxies: []string{"10.0.0.0/8"}}

	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		cfg        *config.ModelbaseConfig
		expected   string
	}{
		{
			name:       "no forwarding header",
			remoteAddr: "192.0.2.10:51234",
			expected:   "192.0.2.10",
		},
		{
			name:       "forwarding header from untrusted peer is ignored",
			remoteAddr: "192.0.2.10:51234",
			xff:        "203.0.113.7",
			cfg:        trusted,
			expected:   "192.0.2.10",
		},
		{
			name:       "forwarding header from trusted proxy wins",
			remoteAddr: "10.1.2.3:443",
			xff:        "203.0.113.7",
			cfg:        trusted,
			expected:   "203.0.113.7",
		},
		{
			name:       "first address in chain wins",
			remoteAddr: "10.1.2.3:443",
			xff:        "203.0.113.7, 10.9.9.9",
			cfg:        trusted,
			expected:   "203.0.113.7",
		},
		{
			name:       "garbage forwarding value falls back to peer",
			remoteAddr: "10.1.2.3:443",
			xff:        "not-an-ip",
			cfg:        trusted,
			expected:   "10.1.2.3",
		},
		{
			name:       "nil config ignores forwarding header",
			remoteAddr: "10.1.2.3:443",
			xff:        "203.0.113.7",
			expected:   "10.1.2.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}

			assert.Equal(t, tt.expected, ClientIP(req, tt.cfg))
		})
	}
}

func TestIdentityFromContext(t *testing.T) {
	id := identity.New("alice", "editor")

	req := httptest.NewRequest("GET", "/test", nil)
	ctx := identity.Set(req.Context(), id)
	req = req.WithContext(ctx)

	retrieved, ok := identity.Get(req.Context())
	assert.True(t, ok)
	assert.Equal(t, "alice", retrieved.Subject)
	assert.Equal(t, "editor", retrieved.Role)
}
