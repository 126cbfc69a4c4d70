// Package materializer turns a validated declaration into a physical
// PostgreSQL table and builds the statements the records store executes
// against it.
//
// Statement shape is derived only from the closed field-type set and from
// identifier-checked names; every value travels through parameter binding.
// Materialization is create-only: an existing table is left untouched, no
// ALTER or DROP is ever issued.
package materializer
