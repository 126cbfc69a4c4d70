package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/modelbase/modelbase/pkg/identity"
)

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithStorageError hides storage failures behind one opaque message.
// The cause stays on the server side; details never reach the client.
func respondWithStorageError(w http.ResponseWriter) {
	respondWithError(w, http.StatusInternalServerError, map[string]string{"message": "internal storage failure"})
}

// requestIdentity returns the identity installed by the bearer middleware. A
// missing identity means the route was mounted without the middleware; the
// request is rejected rather than treated as anonymous.
func requestIdentity(w http.ResponseWriter, r *http.Request) (*identity.Identity, bool) {
	id, ok := identity.Get(r.Context())
	if !ok || id.Subject == "" {
		http.Error(w, "Unable to determine identity", http.StatusUnauthorized)
		return nil, false
	}
	return id, true
}
