package endpoints

import (
	"net/http"

	"github.com/modelbase/modelbase/pkg/registry"
	"github.com/modelbase/modelbase/pkg/server"
)

// RegisterAll registers all API endpoints on the server and hands it the
// registry whose factory builds record handlers against this server's
// stores. Record routes are a fixed wildcard pair; models registered later
// start serving without touching the route table.
func RegisterAll(srv *server.Server) {
	srv.Registry = registry.NewRegistry(func(name string) http.Handler {
		return NewRecordHandler(srv, name)
	})

	RegisterAuthenticateEndpoint(srv)
	RegisterWhoamiEndpoint(srv)
	RegisterModelsEndpoints(srv)
	RegisterRecordEndpoints(srv)
	RegisterDocsEndpoints(srv)
	RegisterStatusEndpoints(srv)
}
