// Package inspect implements the DB inspector: it connects with each credential
// set of an attempt plan in turn, runs one fixed read-only query, and prints every
// row for manual inspection. Attempt failures are printed and logged but never
// returned, so an inspection run always completes.
//
// The package also carries the schema check, which reports whether the tables and
// columns the test platform relies on exist.
package inspect
