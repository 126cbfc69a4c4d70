// Package config provides configuration management for Modelbase.
//
// This package handles loading and validating Modelbase server configuration
// from environment variables and configuration files.
//
// # Configuration Sources
//
// Configuration is loaded from:
//
//   - Environment variables (primary)
//   - Configuration file /etc/modelbase/modelbase.yml (optional)
//
// # Key Configuration Options
//
//   - MODELBASE_PORT: Server listen port
//   - MODELBASE_TOKEN_TTL: Access token lifetime in seconds
//   - MODELBASE_ADMIN_ROLE: Role allowed to administer models
//   - MODELBASE_TOKEN_KEY: Token signing key
//   - DATABASE_URL: Database connection
package config
