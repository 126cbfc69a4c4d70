package endpoints

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/modelbase/modelbase/pkg/audit"
	"github.com/modelbase/modelbase/pkg/server"
	"github.com/modelbase/modelbase/pkg/server/middleware"
	"github.com/modelbase/modelbase/pkg/server/store"
)

// RegisterAuthenticateEndpoint registers the API key exchange endpoint. It is
// the only way to obtain an access token; every other surface expects one.
func RegisterAuthenticateEndpoint(s *server.Server) {
	usersStore := s.UsersStore
	signer := s.Signer
	cfg := s.Config
	router := s.Router

	// POST /authn/{login}/authenticate - Authenticate with API key, returns a bearer token
	router.HandleFunc(
		"/authn/{login}/authenticate",
		func(w http.ResponseWriter, r *http.Request) {
			apiKey, err := io.ReadAll(r.Body)
			defer func() { _ = r.Body.Close() }()
			if err != nil {
				http.Error(w, "Failed to read request body", http.StatusBadRequest)
				return
			}

			vars := mux.Vars(r)
			login, err := url.PathUnescape(vars["login"])
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			clientIP := middleware.ClientIP(r, cfg)

			user, err := usersStore.GetUser(login)
			if err != nil {
				if !errors.Is(err, store.ErrUserNotFound) {
					respondWithStorageError(w)
					return
				}
				audit.Log(audit.AuthenticateEvent{
					Login:        login,
					ClientIP:     clientIP,
					Success:      false,
					ErrorMessage: "unknown login",
				})
				// Same response as a bad key; the login's existence is not disclosed
				http.Error(w, "Invalid credentials", http.StatusUnauthorized)
				return
			}

			if !usersStore.ValidateAPIKey(user, apiKey) {
				audit.Log(audit.AuthenticateEvent{
					Login:        login,
					ClientIP:     clientIP,
					Success:      false,
					ErrorMessage: "invalid api key",
				})
				http.Error(w, "Invalid credentials", http.StatusUnauthorized)
				return
			}

			accessToken, err := signer.Issue(user.Login, user.Role)
			if err != nil {
				audit.Log(audit.AuthenticateEvent{
					Login:        login,
					ClientIP:     clientIP,
					Success:      false,
					ErrorMessage: "token signing failed",
				})
				http.Error(w, "Failed to issue token", http.StatusInternalServerError)
				return
			}

			audit.Log(audit.AuthenticateEvent{
				Login:    login,
				ClientIP: clientIP,
				Success:  true,
			})

			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte(accessToken))
		},
	).Methods("POST")
}
