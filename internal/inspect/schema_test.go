package inspect

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testplatform/probe/internal/config"
)

func TestCheckSchema(t *testing.T) {
	sess := &fakeSession{existing: map[string]bool{
		"test_suites":                     true,
		"target_system_configs":           true,
		"target_system_configs.is_active": true,
	}}
	d := &fakeDialer{outcomes: []dialOutcome{{session: sess}}}
	var out bytes.Buffer
	schema := config.SchemaConfig{
		Tables:  []string{"test_suites", "test_cases", "target_system_configs"},
		Columns: []string{"test_cases.test_steps", "target_system_configs.is_active"},
	}

	report, err := New(testDatabaseConfig(), &out, WithDialer(d.dial)).CheckSchema(context.Background(), schema)

	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Equal(t, []string{"test_cases"}, report.MissingTables)
	assert.Equal(t, []string{"test_cases.test_steps"}, report.MissingColumns)
	assert.Equal(t, []string{
		"Validating database schema...",
		"table test_suites exists",
		"warning: table test_cases does not exist",
		"table target_system_configs exists",
		"warning: column test_steps of table test_cases does not exist",
		"column is_active of table target_system_configs exists",
		"Schema validation complete.",
	}, lines(out.String()))
	assert.True(t, sess.closed)
}

func TestCheckSchemaDialFailure(t *testing.T) {
	boom := errors.New("boom")
	d := &fakeDialer{outcomes: []dialOutcome{{err: boom}}}

	_, err := New(testDatabaseConfig(), &bytes.Buffer{}, WithDialer(d.dial)).
		CheckSchema(context.Background(), config.SchemaConfig{Tables: []string{"users"}})

	assert.ErrorIs(t, err, boom)
}

func TestCheckSchemaRejectsBadColumnReference(t *testing.T) {
	d := &fakeDialer{outcomes: []dialOutcome{{session: &fakeSession{}}}}

	_, err := New(testDatabaseConfig(), &bytes.Buffer{}, WithDialer(d.dial)).
		CheckSchema(context.Background(), config.SchemaConfig{Columns: []string{"nodot"}})

	assert.Error(t, err)
}
