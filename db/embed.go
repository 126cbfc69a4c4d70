// Package db carries the embedded schema migrations for the Modelbase
// metadata tables. Materialized model tables are not managed here; the
// schema materializer creates those at publish time.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
