package endpoints

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/modelbase/modelbase/pkg/audit"
	"github.com/modelbase/modelbase/pkg/config"
	"github.com/modelbase/modelbase/pkg/identity"
	"github.com/modelbase/modelbase/pkg/schema"
	"github.com/modelbase/modelbase/pkg/server"
	"github.com/modelbase/modelbase/pkg/server/middleware"
	"github.com/modelbase/modelbase/pkg/server/store"
)

// PublishResponse represents the response from a model publish
type PublishResponse struct {
	Name  string `json:"name"`
	Table string `json:"table"`
	Path  string `json:"path"`
}

// RegisterModelsEndpoints registers the model administration surface. Reads
// need an authenticated identity; writes and publish need the configured
// admin role on top.
func RegisterModelsEndpoints(s *server.Server) {
	modelsStore := s.ModelsStore
	cfg := s.Config

	bearer := middleware.NewBearerAuthenticator(s.Signer, cfg)

	modelsRouter := s.Router.PathPrefix("/models").Subrouter()
	modelsRouter.Use(bearer.Middleware)

	// GET /models - List declarations
	modelsRouter.HandleFunc("", handleListModels(modelsStore)).Methods("GET")

	// GET /models/{name} - Fetch one declaration
	modelsRouter.HandleFunc("/{name}", handleGetModel(modelsStore)).Methods("GET")

	// PUT /models/{name} - Create or overwrite a declaration
	modelsRouter.HandleFunc("/{name}", handleSaveModel(s)).Methods("PUT")

	// POST /models/{name}/publish - Materialize the table and mount the handler
	modelsRouter.HandleFunc("/{name}/publish", handlePublishModel(s)).Methods("POST")

	// DELETE /models/{name} - Remove the declaration
	modelsRouter.HandleFunc("/{name}", handleDeleteModel(s)).Methods("DELETE")
}

// requireAdmin gates the mutating model endpoints on the configured admin
// role. The response does not distinguish a wrong role from a wrong path.
func requireAdmin(w http.ResponseWriter, r *http.Request, cfg *config.ModelbaseConfig) (*identity.Identity, bool) {
	id, ok := requestIdentity(w, r)
	if !ok {
		return nil, false
	}
	if id.Role != cfg.AdminRole {
		http.Error(w, "Insufficient privilege", http.StatusForbidden)
		return nil, false
	}
	return id, true
}

func handleListModels(modelsStore store.ModelsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requestIdentity(w, r); !ok {
			return
		}

		decls, err := modelsStore.ListModels()
		if err != nil {
			respondWithStorageError(w)
			return
		}

		respondWithJSON(w, http.StatusOK, decls)
	}
}

func handleGetModel(modelsStore store.ModelsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requestIdentity(w, r); !ok {
			return
		}

		name := mux.Vars(r)["name"]

		decl, err := modelsStore.LoadModel(name)
		if err != nil {
			if errors.Is(err, store.ErrModelNotFound) {
				respondWithError(w, http.StatusNotFound, map[string]string{"message": "model not found"})
				return
			}
			respondWithStorageError(w)
			return
		}

		respondWithJSON(w, http.StatusOK, decl)
	}
}

func handleSaveModel(s *server.Server) http.HandlerFunc {
	modelsStore := s.ModelsStore
	cfg := s.Config

	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireAdmin(w, r, cfg)
		if !ok {
			return
		}

		name := mux.Vars(r)["name"]
		clientIP := middleware.ClientIP(r, cfg)

		body, err := io.ReadAll(r.Body)
		defer func() { _ = r.Body.Close() }()
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}

		decl, err := schema.ParseJSON(body)
		if err != nil {
			audit.Log(audit.ModelEvent{
				Actor:        id.Subject,
				ClientIP:     clientIP,
				Model:        name,
				Operation:    "save",
				Success:      false,
				ErrorMessage: err.Error(),
			})
			respondWithError(w, http.StatusUnprocessableEntity, map[string]string{"message": err.Error()})
			return
		}

		// Exact match: the stored name is the load key for every later
		// admin request, so the path may not differ even by case.
		if decl.Name != name {
			respondWithError(w, http.StatusBadRequest, map[string]string{
				"message": "declaration name does not match path",
			})
			return
		}

		if err := modelsStore.SaveModel(decl); err != nil {
			audit.Log(audit.ModelEvent{
				Actor:        id.Subject,
				ClientIP:     clientIP,
				Model:        decl.Name,
				Operation:    "save",
				Success:      false,
				ErrorMessage: "storage failure",
			})
			respondWithStorageError(w)
			return
		}

		audit.Log(audit.ModelEvent{
			Actor:     id.Subject,
			ClientIP:  clientIP,
			Model:     decl.Name,
			Operation: "save",
			Success:   true,
		})

		respondWithJSON(w, http.StatusOK, decl)
	}
}

func handlePublishModel(s *server.Server) http.HandlerFunc {
	modelsStore := s.ModelsStore
	cfg := s.Config

	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireAdmin(w, r, cfg)
		if !ok {
			return
		}

		name := mux.Vars(r)["name"]
		clientIP := middleware.ClientIP(r, cfg)

		decl, err := modelsStore.LoadModel(name)
		if err != nil {
			if errors.Is(err, store.ErrModelNotFound) {
				respondWithError(w, http.StatusNotFound, map[string]string{"message": "model not found"})
				return
			}
			respondWithStorageError(w)
			return
		}

		if err := s.Materializer.Materialize(decl); err != nil {
			audit.Log(audit.ModelEvent{
				Actor:        id.Subject,
				ClientIP:     clientIP,
				Model:        decl.Name,
				Operation:    "publish",
				Success:      false,
				ErrorMessage: "materialization failure",
			})
			respondWithStorageError(w)
			return
		}

		s.Registry.Register(decl.Name)

		audit.Log(audit.ModelEvent{
			Actor:     id.Subject,
			ClientIP:  clientIP,
			Model:     decl.Name,
			Operation: "publish",
			Success:   true,
		})

		table, _ := decl.TableName()
		respondWithJSON(w, http.StatusOK, PublishResponse{
			Name:  decl.Name,
			Table: table,
			Path:  "/api/" + decl.PathSegment(),
		})
	}
}

func handleDeleteModel(s *server.Server) http.HandlerFunc {
	modelsStore := s.ModelsStore
	cfg := s.Config

	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireAdmin(w, r, cfg)
		if !ok {
			return
		}

		name := mux.Vars(r)["name"]
		clientIP := middleware.ClientIP(r, cfg)

		if _, err := modelsStore.LoadModel(name); err != nil {
			if errors.Is(err, store.ErrModelNotFound) {
				respondWithError(w, http.StatusNotFound, map[string]string{"message": "model not found"})
				return
			}
			respondWithStorageError(w)
			return
		}

		// The declaration goes away; the materialized table and any mounted
		// handler stay. Requests against the stale mount fail their
		// declaration load from here on.
		if err := modelsStore.DeleteModel(name); err != nil {
			audit.Log(audit.ModelEvent{
				Actor:        id.Subject,
				ClientIP:     clientIP,
				Model:        name,
				Operation:    "delete",
				Success:      false,
				ErrorMessage: "storage failure",
			})
			respondWithStorageError(w)
			return
		}

		audit.Log(audit.ModelEvent{
			Actor:     id.Subject,
			ClientIP:  clientIP,
			Model:     name,
			Operation: "delete",
			Success:   true,
		})

		w.WriteHeader(http.StatusNoContent)
	}
}
