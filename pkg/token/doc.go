// Package token issues and verifies the short-lived access tokens returned
// by the authenticate endpoint.
//
// Tokens are HS256 JWTs carrying a subject and a role claim. The signing key
// is symmetric, shared by nothing outside the server process, and supplied
// via MODELBASE_TOKEN_KEY as base64 of 32 random bytes.
//
//	signer, err := token.NewSigner(key, token.DefaultTTL)
//	signed, err := signer.Issue("alice", "manager")
//	claims, err := signer.Verify(signed)
package token
