package inspect

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testplatform/probe/internal/config"
	"github.com/testplatform/probe/internal/platform/logger"
	"github.com/testplatform/probe/internal/platform/postgres"
)

func testDatabaseConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		CredentialConfig: config.CredentialConfig{
			Host:     "localhost",
			Port:     5432,
			Name:     "testplatform",
			User:     "postgres",
			Password: "root",
			SSLMode:  "disable",
		},
		Query:          "SELECT * FROM users;",
		ConnectTimeout: time.Second,
	}
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestRunPrintsOneLinePerRow(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	sess := &fakeSession{rows: [][]any{
		{int64(1), "admin", []byte("$2a$10$hash"), created},
		{int64(2), "viewer", nil, created},
	}}
	d := &fakeDialer{outcomes: []dialOutcome{{session: sess}}}
	var out bytes.Buffer

	report := New(testDatabaseConfig(), &out, WithDialer(d.dial)).Run(context.Background())

	assert.Equal(t, []string{
		"User data: (1, admin, $2a$10$hash, 2024-05-01T12:00:00Z)",
		"User data: (2, viewer, NULL, 2024-05-01T12:00:00Z)",
		"Database query completed successfully",
	}, lines(out.String()))
	assert.True(t, report.Succeeded())
	require.Len(t, report.Attempts, 1)
	assert.Equal(t, 2, report.Attempts[0].Rows)
	assert.True(t, sess.closed, "session must be released")
	assert.Len(t, d.calls, 1, "no fallback after success")
}

func TestRunUnreachableDatabasePrintsTwoErrors(t *testing.T) {
	refused := postgres.MapError(fmt.Errorf("dial tcp 127.0.0.1:5432: %w", context.DeadlineExceeded))
	d := &fakeDialer{outcomes: []dialOutcome{{err: refused}, {err: refused}}}
	var out bytes.Buffer
	buf, l := logger.NewTestLogger(t)
	ctx := logger.WithLogger(context.Background(), l)

	report := New(testDatabaseConfig(), &out, WithDialer(d.dial)).Run(ctx)

	got := lines(out.String())
	require.Len(t, got, 2)
	assert.True(t, strings.HasPrefix(got[0], "Error: database connection failed"))
	assert.True(t, strings.HasPrefix(got[1], "Error with fallback credentials: database connection failed"))
	assert.False(t, report.Succeeded())
	assert.Len(t, report.Attempts, 2)

	// The default plan retries with identical credentials.
	require.Len(t, d.calls, 2)
	assert.Equal(t, d.calls[0], d.calls[1])

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "connection", entries[0]["kind"])
	assert.NotContains(t, buf.String(), "root", "password must not be logged")
}

func TestRunFallbackSucceeds(t *testing.T) {
	cfg := testDatabaseConfig()
	fallback := cfg.CredentialConfig
	fallback.Password = "postgres"
	cfg.Fallbacks = []config.CredentialConfig{fallback}

	authErr := postgres.ErrAuthentication
	sess := &fakeSession{rows: [][]any{{int64(1), "admin"}}}
	d := &fakeDialer{outcomes: []dialOutcome{{err: authErr}, {session: sess}}}
	var out bytes.Buffer

	report := New(cfg, &out, WithDialer(d.dial)).Run(context.Background())

	assert.Equal(t, []string{
		"Error: database authentication failed",
		"(1, admin)",
	}, lines(out.String()))
	assert.True(t, report.Succeeded())
	require.Len(t, d.calls, 2)
	assert.Equal(t, "root", d.calls[0].Password)
	assert.Equal(t, "postgres", d.calls[1].Password)
}

func TestRunQueryFailureRetries(t *testing.T) {
	missing := postgres.ErrUndefinedTable
	first := &fakeSession{rowsErr: missing}
	second := &fakeSession{rowsErr: missing}
	d := &fakeDialer{outcomes: []dialOutcome{{session: first}, {session: second}}}
	var out bytes.Buffer

	report := New(testDatabaseConfig(), &out, WithDialer(d.dial)).Run(context.Background())

	assert.Equal(t, []string{
		"Error: table does not exist",
		"Error with fallback credentials: table does not exist",
	}, lines(out.String()))
	assert.False(t, report.Succeeded())
	assert.True(t, first.closed)
	assert.True(t, second.closed)
}

func TestFormatRow(t *testing.T) {
	assert.Equal(t, "()", FormatRow(nil))
	assert.Equal(t, "(true, 1.5, NULL, x)", FormatRow([]any{true, 1.5, nil, "x"}))
}
