// Package audit provides audit logging for Modelbase operations.
//
// This package implements structured audit logging for security-relevant
// operations such as authentication attempts, model declaration changes,
// and record access.
//
// # Event Types
//
// The package defines event types for various operations:
//
//   - Authentication events (success/failure)
//   - Model declaration events (save, publish, delete)
//   - Record CRUD events
//   - Access policy check events (denials)
//   - API key rotation events
//
// # Usage
//
//	audit.Log(audit.RecordEvent{
//		Actor:     "alice",
//		Model:     "invoice",
//		Operation: "create",
//		Success:   true,
//	})
//
// Events are written to stdout in RFC5424 syslog format and, when
// MODELBASE_AUDIT_DATABASE_URL is set, persisted to the audit_messages
// table for later inspection.
package audit
