// Package server provides the HTTP server for the Modelbase API.
//
// This package implements the core HTTP server that serves both the
// administrative model surface and the per-model record endpoints that are
// mounted at runtime. It uses gorilla/mux for routing and provides
// middleware for authentication.
//
// # Server Setup
//
//	srv := server.NewServer(db, cfg, signer, host, port)
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Components
//
// The Server struct holds:
//
//   - Router: HTTP request router
//   - DB: Database connection shared by metadata and record tables
//   - Config: Runtime configuration
//   - Signer: Access token issuing and verification
//   - Materializer: Table creation for published models
//   - Registry: Published models currently serving record traffic
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//	endpoints.RegisterAll(srv)
//
// This registers:
//
//   - /authn/{login}/authenticate - API key authentication
//   - /whoami - Token introspection
//   - /models... - Model declaration management and publishing
//   - /api/{model}... - Generic record CRUD for published models
//   - /docs - Rendered model documentation
//   - / and /health - Status and connectivity
package server
