// Package main implements modelbasectl, the Modelbase command-line tool.
//
// Modelbase is a dynamic CRUD backend. Operators declare data models and
// access policies as data; publishing a model materializes a relational
// table and mounts generic record endpoints for it at runtime, with every
// request gated by role and ownership checks.
//
// # Architecture
//
// The server is organized into several packages:
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/server/store: storage interfaces and their GORM implementations
//   - pkg/schema: declaration parsing, validation and payload coercion
//   - pkg/materializer: declaration-to-table DDL generation
//   - pkg/authz: permission evaluator
//   - pkg/registry: live record handler registry
//   - pkg/token: access token signing and verification
//   - pkg/identity: authenticated identity in request context
//   - pkg/model: database models
//   - pkg/db: database connection utilities
//   - pkg/audit: audit logging
//   - pkg/config: configuration management
//
// # Quick Start
//
// The server is run via the modelbasectl CLI:
//
//	# Generate a token signing key
//	export MODELBASE_TOKEN_KEY="$(modelbasectl token-key generate)"
//
//	# Run database migrations
//	modelbasectl db migrate
//
//	# Create an admin user
//	modelbasectl user create admin --role admin
//
//	# Load and publish a model declaration
//	modelbasectl model load --publish article.yml
//
//	# Start the server
//	modelbasectl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - MODELBASE_TOKEN_KEY: Base64-encoded 256-bit token signing key
//   - MODELBASE_CONFIG_PATH: Directory holding modelbase.yml
//   - MODELBASE_PORT: Server port (default: 8080)
//   - MODELBASE_LOG_LEVEL: Set to "debug" for SQL query logging
//   - MODELBASE_AUDIT_DATABASE_URL: Optional database for audit persistence
package main
