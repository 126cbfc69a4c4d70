// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// The metadata stores (models, users, health) work against fixed tables via
// GORM models. The records store has no fixed tables to bind to: it executes
// statements built by the materializer package against whatever table the
// declaration names.
package gorm
