// Package probe implements the HTTP probes run against a test-platform API:
// the auth flow (login, then a bearer-authorized request) and the test-suite
// flow (create, then list). Each probe prints status codes and bodies for
// manual inspection and returns a structured result for callers and tests.
package probe
