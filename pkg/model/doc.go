// Package model defines the database models for Modelbase's own metadata.
//
// These are the fixed tables the server manages for itself, as opposed to
// the per-model tables the materializer creates from declarations.
//
// # Core Models
//
//   - ModelDefinition: stored declarations, one JSON document per model name
//   - User: identities with a role and a hashed API key
//
// Audit messages are persisted by the audit package through database/sql and
// have no GORM model here.
package model
