// Package stub is an in-memory reference server for the three endpoint groups
// the probes consume: login, target-system configs and test suites.
//
// It issues and verifies HS256 access tokens, checks logins against a seeded
// bcrypt hash and keeps created suites in memory for the lifetime of the
// process. It mirrors only the surface the probes exercise and is not a model
// of the real platform.
package stub
