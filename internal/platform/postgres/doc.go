// Package postgres provides the PostgreSQL access used by the DB inspector:
// connection credentials and DSN construction, a thin session over database/sql
// using the pgx driver, classification of driver errors into probe-level errors,
// and the goose migrations describing the tables the schema check expects.
package postgres
