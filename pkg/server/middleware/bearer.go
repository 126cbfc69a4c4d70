package middleware

import (
	"net"
	"net/http"
	"regexp"
	"strings"

	"github.com/modelbase/modelbase/pkg/config"
	"github.com/modelbase/modelbase/pkg/identity"
	"github.com/modelbase/modelbase/pkg/token"
)

var bearerRegex = regexp.MustCompile(`^Bearer +(\S+)$`)

// BearerAuthenticator is middleware that validates bearer access tokens
type BearerAuthenticator struct {
	Signer *token.Signer
	Config *config.ModelbaseConfig
}

// NewBearerAuthenticator creates a new bearer token authenticator middleware
func NewBearerAuthenticator(signer *token.Signer, cfg *config.ModelbaseConfig) *BearerAuthenticator {
	return &BearerAuthenticator{Signer: signer, Config: cfg}
}

// ClientIP resolves the originating client address for a request.
// X-Forwarded-For is honored only when the direct peer is a trusted proxy,
// in which case the first address in the forwarding chain wins.
func ClientIP(r *http.Request, cfg *config.ModelbaseConfig) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" && cfg != nil && cfg.IsTrustedProxy(host) {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}

	return host
}

// Middleware returns an HTTP middleware that validates bearer tokens and
// installs the verified identity on the request context
func (b *BearerAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if len(authHeader) == 0 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Authorization missing"))
			return
		}

		tokenMatches := bearerRegex.FindStringSubmatch(authHeader)

		if len(tokenMatches) != 2 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Malformed authorization header"))
			return
		}

		claims, err := b.Signer.Verify(tokenMatches[1])
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Invalid or expired token"))
			return
		}

		id := identity.New(claims.Subject, claims.Role).
			WithValidity(claims.IssuedAt, claims.ExpiresAt)
		if ip := net.ParseIP(ClientIP(r, b.Config)); ip != nil {
			id = id.WithRemoteIP(ip)
		}

		r = r.WithContext(identity.Set(r.Context(), id))

		next.ServeHTTP(w, r)
	})
}
