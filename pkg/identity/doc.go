// Package identity provides authenticated identity management for Modelbase requests.
//
// This package separates the concept of an authenticated identity from the
// raw token parsing. An Identity combines token claims (subject, role) with
// request-specific context (remote IP, token validity window).
//
// # Basic Usage
//
//	// Create identity from verified claims
//	id := identity.New(subject, role)
//
//	// Add request context
//	id.WithRemoteIP(clientIP).
//	   WithValidity(issuedAt, expiresAt)
//
//	// Store in request context
//	ctx = identity.Set(ctx, id)
//
//	// Retrieve from context
//	id, ok := identity.Get(ctx)
//
// # Identity vs Token
//
// The token package handles signing and verifying the raw access token. The
// identity package builds on that to provide what the rest of the server
// needs: the subject used for record ownership and the role used by the
// permission evaluator.
package identity
