package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/modelbase/modelbase/pkg/audit"
	"github.com/modelbase/modelbase/pkg/authz"
	"github.com/modelbase/modelbase/pkg/config"
	"github.com/modelbase/modelbase/pkg/identity"
	"github.com/modelbase/modelbase/pkg/schema"
	"github.com/modelbase/modelbase/pkg/server"
	"github.com/modelbase/modelbase/pkg/server/middleware"
	"github.com/modelbase/modelbase/pkg/server/store"
)

// RegisterRecordEndpoints mounts the wildcard record routes and the registry
// introspection endpoint. The wildcard pair is installed once; which models
// actually serve under it is decided per request by the registry, so
// publishing a model never mutates the route table.
func RegisterRecordEndpoints(s *server.Server) {
	bearer := middleware.NewBearerAuthenticator(s.Signer, s.Config)

	apiRouter := s.Router.PathPrefix("/api").Subrouter()
	apiRouter.Use(bearer.Middleware)

	// GET /api - List mounted models
	apiRouter.HandleFunc("", handleListMounted(s)).Methods("GET")

	dispatch := dispatchRecord(s)
	apiRouter.HandleFunc("/{model}", dispatch).Methods("GET", "POST")
	apiRouter.HandleFunc("/{model}/{id}", dispatch).Methods("GET", "PUT", "DELETE")
}

// MountedModel describes one live mount for the introspection endpoint.
type MountedModel struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

func handleListMounted(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requestIdentity(w, r); !ok {
			return
		}

		names := s.Registry.Registered()
		sort.Strings(names)

		mounted := make([]MountedModel, 0, len(names))
		for _, name := range names {
			mounted = append(mounted, MountedModel{Name: name, Path: "/api/" + name})
		}

		respondWithJSON(w, http.StatusOK, mounted)
	}
}

func dispatchRecord(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modelName := mux.Vars(r)["model"]

		handler, ok := s.Registry.Lookup(modelName)
		if !ok {
			respondWithError(w, http.StatusNotFound, map[string]string{"message": "model not found"})
			return
		}

		handler.ServeHTTP(w, r)
	}
}

// NewRecordHandler builds the handler serving one model's records. The
// registry's factory calls this exactly once per registered name.
func NewRecordHandler(s *server.Server, modelName string) http.Handler {
	return &recordHandler{
		model:        modelName,
		config:       s.Config,
		modelsStore:  s.ModelsStore,
		recordsStore: s.RecordsStore,
	}
}

type recordHandler struct {
	model        string
	config       *config.ModelbaseConfig
	modelsStore  store.ModelsStore
	recordsStore store.RecordsStore
}

func (h *recordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	// The declaration is loaded fresh on every request. Edits to a
	// published model take effect immediately, and a deleted model turns
	// its stale mount into a 404.
	decl, err := h.modelsStore.LoadModel(h.model)
	if err != nil {
		if errors.Is(err, store.ErrModelNotFound) {
			respondWithError(w, http.StatusNotFound, map[string]string{"message": "model not found"})
			return
		}
		respondWithStorageError(w)
		return
	}

	recordID, hasID := mux.Vars(r)["id"]

	switch {
	case r.Method == http.MethodGet && !hasID:
		h.handleList(w, r, id, decl)
	case r.Method == http.MethodGet:
		h.handleGet(w, r, id, decl, recordID)
	case r.Method == http.MethodPost && !hasID:
		h.handleCreate(w, r, id, decl)
	case r.Method == http.MethodPut && hasID:
		h.handleUpdate(w, r, id, decl, recordID)
	case r.Method == http.MethodDelete && hasID:
		h.handleDelete(w, r, id, decl, recordID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// allow runs one authorization check, auditing and answering the request on
// denial. A nil record is the role-only pre-check; a non-nil record makes
// the ownership rule binding.
func (h *recordHandler) allow(w http.ResponseWriter, r *http.Request, id *identity.Identity, decl *schema.Declaration, op schema.Operation, record schema.Record) bool {
	allowed := authz.Allow(authz.Decision{
		Actor:      id.Subject,
		Role:       id.Role,
		Operation:  op,
		Policy:     decl.Policy,
		OwnerField: decl.OwnerField,
		Record:     record,
	})
	if allowed {
		return true
	}

	audit.Log(audit.CheckEvent{
		Actor:     id.Subject,
		Role:      id.Role,
		ClientIP:  middleware.ClientIP(r, h.config),
		Model:     decl.Name,
		Operation: op.String(),
		Allowed:   false,
	})
	respondWithError(w, http.StatusForbidden, map[string]string{
		"message": fmt.Sprintf("role does not have %s permission on %s", op, decl.Name),
	})
	return false
}

func (h *recordHandler) auditRecord(r *http.Request, id *identity.Identity, decl *schema.Declaration, recordID, operation string, success bool, errorMessage string) {
	audit.Log(audit.RecordEvent{
		Actor:        id.Subject,
		Role:         id.Role,
		ClientIP:     middleware.ClientIP(r, h.config),
		Model:        decl.Name,
		RecordID:     recordID,
		Operation:    operation,
		Success:      success,
		ErrorMessage: errorMessage,
	})
}

func (h *recordHandler) handleList(w http.ResponseWriter, r *http.Request, id *identity.Identity, decl *schema.Declaration) {
	if !h.allow(w, r, id, decl, schema.OpRead, nil) {
		return
	}

	records, err := h.recordsStore.ListRecords(decl)
	if err != nil {
		h.auditRecord(r, id, decl, "", "list", false, "storage failure")
		respondWithStorageError(w)
		return
	}

	h.auditRecord(r, id, decl, "", "list", true, "")
	respondWithJSON(w, http.StatusOK, records)
}

func (h *recordHandler) handleGet(w http.ResponseWriter, r *http.Request, id *identity.Identity, decl *schema.Declaration, recordID string) {
	if !h.allow(w, r, id, decl, schema.OpRead, nil) {
		return
	}

	record, err := h.recordsStore.GetRecord(decl, recordID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			h.auditRecord(r, id, decl, recordID, "read", false, "record not found")
			respondWithError(w, http.StatusNotFound, map[string]string{"message": "record not found"})
			return
		}
		respondWithStorageError(w)
		return
	}

	h.auditRecord(r, id, decl, recordID, "read", true, "")
	respondWithJSON(w, http.StatusOK, record)
}

func (h *recordHandler) handleCreate(w http.ResponseWriter, r *http.Request, id *identity.Identity, decl *schema.Declaration) {
	if !h.allow(w, r, id, decl, schema.OpCreate, nil) {
		return
	}

	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}

	// Reserved columns are server-maintained; client values are dropped,
	// not rejected.
	stripKeys(payload, schema.ColumnID, schema.ColumnCreatedAt, schema.ColumnUpdatedAt)

	record, err := decl.CoercePayload(payload)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	// A missing required field would only fail at the NOT NULL constraint,
	// which surfaces as an opaque storage error. Reject it here instead.
	if err := decl.CheckRequired(record); err != nil {
		respondWithError(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	// The owner is always the acting subject. A client-supplied value is
	// overwritten, never trusted.
	if decl.OwnerField != "" {
		record[decl.OwnerField] = id.Subject
	}

	recordID := uuid.NewString()

	created, err := h.recordsStore.InsertRecord(decl, recordID, record)
	if err != nil {
		h.auditRecord(r, id, decl, recordID, "create", false, "storage failure")
		respondWithStorageError(w)
		return
	}

	h.auditRecord(r, id, decl, recordID, "create", true, "")
	respondWithJSON(w, http.StatusCreated, created)
}

func (h *recordHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id *identity.Identity, decl *schema.Declaration, recordID string) {
	// Phase one: role alone. An actor whose role never grants update is
	// turned away before the record read.
	if !h.allow(w, r, id, decl, schema.OpUpdate, nil) {
		return
	}

	existing, err := h.recordsStore.GetRecord(decl, recordID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			h.auditRecord(r, id, decl, recordID, "update", false, "record not found")
			respondWithError(w, http.StatusNotFound, map[string]string{"message": "record not found"})
			return
		}
		respondWithStorageError(w)
		return
	}

	// Phase two: with the record in hand the ownership rule is binding.
	if !h.allow(w, r, id, decl, schema.OpUpdate, existing) {
		return
	}

	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}

	// The id and creation timestamp are immutable; the update timestamp is
	// refreshed by the store.
	stripKeys(payload, schema.ColumnID, schema.ColumnCreatedAt)

	record, err := decl.CoercePayload(payload)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	if err := decl.CheckNulls(record); err != nil {
		respondWithError(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	updated, err := h.recordsStore.UpdateRecord(decl, recordID, record)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			// Deleted between the fetch and the write.
			h.auditRecord(r, id, decl, recordID, "update", false, "record not found")
			respondWithError(w, http.StatusNotFound, map[string]string{"message": "record not found"})
			return
		}
		h.auditRecord(r, id, decl, recordID, "update", false, "storage failure")
		respondWithStorageError(w)
		return
	}

	h.auditRecord(r, id, decl, recordID, "update", true, "")
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *recordHandler) handleDelete(w http.ResponseWriter, r *http.Request, id *identity.Identity, decl *schema.Declaration, recordID string) {
	if !h.allow(w, r, id, decl, schema.OpDelete, nil) {
		return
	}

	existing, err := h.recordsStore.GetRecord(decl, recordID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			h.auditRecord(r, id, decl, recordID, "delete", false, "record not found")
			respondWithError(w, http.StatusNotFound, map[string]string{"message": "record not found"})
			return
		}
		respondWithStorageError(w)
		return
	}

	if !h.allow(w, r, id, decl, schema.OpDelete, existing) {
		return
	}

	if err := h.recordsStore.DeleteRecord(decl, recordID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			h.auditRecord(r, id, decl, recordID, "delete", false, "record not found")
			respondWithError(w, http.StatusNotFound, map[string]string{"message": "record not found"})
			return
		}
		h.auditRecord(r, id, decl, recordID, "delete", false, "storage failure")
		respondWithStorageError(w)
		return
	}

	h.auditRecord(r, id, decl, recordID, "delete", true, "")
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"deleted": true, "id": recordID})
}

// decodePayload reads a JSON object body. Anything else is a 400. Numbers
// are kept as json.Number so large values survive coercion intact.
func decodePayload(w http.ResponseWriter, r *http.Request) (map[string]interface{}, bool) {
	defer func() { _ = r.Body.Close() }()

	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()

	var payload map[string]interface{}
	if err := decoder.Decode(&payload); err != nil || payload == nil {
		respondWithError(w, http.StatusBadRequest, map[string]string{"message": "Invalid JSON body"})
		return nil, false
	}
	return payload, true
}

// stripKeys removes the named keys from the payload, case-insensitively,
// matching how the reserved columns are guarded at declaration time.
func stripKeys(payload map[string]interface{}, names ...string) {
	for key := range payload {
		for _, name := range names {
			if strings.EqualFold(key, name) {
				delete(payload, key)
			}
		}
	}
}
