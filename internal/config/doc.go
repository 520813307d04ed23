// Package config handles configuration loading, parsing, and validation
// from various sources (defaults, files, environment variables, command-line
// overrides). Defaults reproduce the local test-platform deployment the probes
// were written against, so every probe runs without any configuration at all.
package config
