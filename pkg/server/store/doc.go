// Package store provides storage abstractions for the Modelbase server.
//
// This package defines interfaces for database operations, allowing the
// server endpoints to be decoupled from the specific database implementation.
// This enables easier testing with mocks and potential support for different
// storage backends.
//
// # Available Stores
//
//   - ModelsStore: declaration persistence (save, load, list, delete)
//   - RecordsStore: row operations against materialized tables
//   - UsersStore: identities and API keys
//   - HealthStore: database connectivity for the status endpoint
//
// # Usage
//
//	models := gorm.NewModelsStore(db)
//	decl, err := models.LoadModel("Invoice")
//	if err != nil {
//	    if errors.Is(err, store.ErrModelNotFound) {
//	        // Handle not found
//	    }
//	}
package store
