package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/modelbase/modelbase/pkg/audit"
	"github.com/modelbase/modelbase/pkg/config"
	"github.com/modelbase/modelbase/pkg/server"
	"github.com/modelbase/modelbase/pkg/server/middleware"
)

// WhoamiResponse represents the response from the /whoami endpoint
type WhoamiResponse struct {
	ClientIP string `json:"client_ip"`
	Subject  string `json:"subject"`
	Role     string `json:"role"`
	TokenIAT int64  `json:"token_iat,omitempty"`
}

// RegisterWhoamiEndpoint registers the /whoami endpoint
func RegisterWhoamiEndpoint(s *server.Server) {
	bearer := middleware.NewBearerAuthenticator(s.Signer, s.Config)

	whoamiRouter := s.Router.PathPrefix("/whoami").Subrouter()
	whoamiRouter.Use(bearer.Middleware)

	whoamiRouter.HandleFunc("", handleWhoami(s.Config)).Methods("GET")
}

func handleWhoami(cfg *config.ModelbaseConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		clientIP := middleware.ClientIP(r, cfg)

		audit.Log(audit.WhoamiEvent{
			Login:    id.Subject,
			Role:     id.Role,
			ClientIP: clientIP,
		})

		response := WhoamiResponse{
			ClientIP: clientIP,
			Subject:  id.Subject,
			Role:     id.Role,
		}
		if !id.IssuedAt.IsZero() {
			response.TokenIAT = id.IssuedAt.Unix()
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}
}
