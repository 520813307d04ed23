//go:build integration

// Package testdb provides utilities for integration tests that need a real
// PostgreSQL database. Tests using it are built only with the integration tag
// and skip themselves when no database URL is configured.
package testdb
