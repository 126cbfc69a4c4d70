package endpoints

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/modelbase/modelbase/pkg/server"
	"github.com/modelbase/modelbase/pkg/server/store"
)

// HealthResponse represents the response from the /health endpoint
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// RegisterStatusEndpoints registers the status and health endpoints. Both
// are served without authentication so load balancers can probe them.
func RegisterStatusEndpoints(s *server.Server) {
	healthStore := s.HealthStore

	// GET / - Status page (no auth required)
	s.Router.HandleFunc("/", handleStatus()).Methods("GET")

	// GET /health - Database connectivity check (no auth required)
	s.Router.HandleFunc("/health", handleHealth(healthStore)).Methods("GET")
}

func handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("MODELBASE_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}

		// Check if JSON is requested via Accept header or format query param
		accept := r.Header.Get("Accept")
		format := r.URL.Query().Get("format")
		if format == "json" || strings.Contains(accept, "application/json") {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"version": version})
			return
		}

		html := `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width">
    <title>Modelbase Status</title>
    <style>
      body { font-family: sans-serif; margin: 3em auto; max-width: 40em; color: #222; }
      h1 { border-bottom: 2px solid #4a6fa5; padding-bottom: 0.3em; }
      dt { font-weight: bold; margin-top: 0.8em; }
    </style>
  </head>
  <body>
    <h1>Modelbase</h1>
    <p class="status-text">Your Modelbase server is running!</p>

    <dl>
      <dt>Version</dt>
      <dd>` + version + `</dd>
      <dt>More Info</dt>
      <dd>
        <ul>
          <li><a href="/docs">Model documentation</a></li>
          <li><a href="/health">Health check</a></li>
        </ul>
      </dd>
    </dl>
  </body>
</html>
`

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	}
}

func handleHealth(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := healthStore.CheckConnectivity(); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(HealthResponse{
				Status: "error",
				Error:  "database connectivity check failed",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
	}
}
