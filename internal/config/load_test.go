package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadDefaults verifies that Load reproduces the local deployment
// literals when nothing else is configured.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(LoadOptions{})

	require.NoError(t, err, "Load() should succeed with defaults only")
	require.NotNil(t, cfg)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "testplatform", cfg.Database.Name)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "root", cfg.Database.Password)
	assert.Equal(t, "SELECT * FROM users;", cfg.Database.Query)
	assert.Equal(t, 5*time.Second, cfg.Database.ConnectTimeout)
	assert.Empty(t, cfg.Database.Fallbacks)
	assert.Len(t, cfg.Database.Schema.Tables, 5)
	assert.Contains(t, cfg.Database.Schema.Columns, "target_system_configs.is_active")

	assert.Equal(t, "http://localhost:8180", cfg.API.BaseURL)
	assert.Equal(t, "/api/auth/login", cfg.Auth.LoginPath)
	assert.Equal(t, "/api/target-system-configs", cfg.Auth.ProtectedPath)
	assert.Equal(t, "token", cfg.Auth.TokenField)
	assert.False(t, cfg.Auth.AllowMissingToken)

	assert.Equal(t, "/api/test-suites", cfg.Suite.Path)
	assert.Equal(t, "API", cfg.Suite.Type)
	assert.Equal(t, 1, cfg.Suite.Repeat)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

// TestLoadFromEnv verifies that prefixed environment variables override defaults.
func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PROBE_DATABASE_HOST", "db.internal")
	t.Setenv("PROBE_DATABASE_PORT", "6543")
	t.Setenv("PROBE_API_BASE_URL", "http://api.internal:9000")
	t.Setenv("PROBE_AUTH_ALLOW_MISSING_TOKEN", "true")
	t.Setenv("PROBE_LOG_LEVEL", "debug")

	cfg, err := Load(LoadOptions{})

	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "http://api.internal:9000", cfg.API.BaseURL)
	assert.True(t, cfg.Auth.AllowMissingToken)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadOverridesWinOverEnv(t *testing.T) {
	t.Setenv("PROBE_SUITE_NAME", "from-env")

	cfg, err := Load(LoadOptions{Overrides: map[string]any{
		"suite.name":   "from-flag",
		"suite.repeat": "3",
	}})

	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.Suite.Name)
	assert.Equal(t, 3, cfg.Suite.Repeat)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "probe.yaml")
	content := `
database:
  host: filehost
  password: first
  fallbacks:
    - host: filehost
      port: 5432
      name: testplatform
      user: postgres
      password: second
      sslmode: disable
api:
  timeout: 3s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(LoadOptions{ConfigFile: path})

	require.NoError(t, err)
	assert.Equal(t, "filehost", cfg.Database.Host)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	require.Len(t, cfg.Database.Fallbacks, 1)
	assert.Equal(t, "second", cfg.Database.Fallbacks[0].Password)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "absent.yaml")})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
		field     string
	}{
		{
			name:      "port out of range",
			overrides: map[string]any{"database.port": 70000},
			field:     "Port",
		},
		{
			name:      "unknown suite type",
			overrides: map[string]any{"suite.type": "LOAD"},
			field:     "Type",
		},
		{
			name:      "relative login path",
			overrides: map[string]any{"auth.login_path": "api/auth/login"},
			field:     "LoginPath",
		},
		{
			name:      "short stub secret",
			overrides: map[string]any{"stub.jwt_secret": "short"},
			field:     "JWTSecret",
		},
		{
			name:      "bad log level",
			overrides: map[string]any{"log.level": "verbose"},
			field:     "Level",
		},
		{
			name:      "zero repeat",
			overrides: map[string]any{"suite.repeat": 0},
			field:     "Repeat",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(LoadOptions{Overrides: tt.overrides})

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestAttempts(t *testing.T) {
	primary := CredentialConfig{Host: "h", Port: 5432, Name: "d", User: "u", Password: "p", SSLMode: "disable"}

	t.Run("defaults to one identical fallback", func(t *testing.T) {
		cfg := DatabaseConfig{CredentialConfig: primary}

		plan := cfg.Attempts()

		require.Len(t, plan, 2)
		assert.Equal(t, primary, plan[0])
		assert.Equal(t, primary, plan[1])
	})

	t.Run("uses configured fallbacks in order", func(t *testing.T) {
		second := primary
		second.Password = "p2"
		third := primary
		third.User = "u3"
		cfg := DatabaseConfig{CredentialConfig: primary, Fallbacks: []CredentialConfig{second, third}}

		plan := cfg.Attempts()

		assert.Equal(t, []CredentialConfig{primary, second, third}, plan)
	})

	t.Run("fallback fields inherit from the primary set", func(t *testing.T) {
		cfg := DatabaseConfig{
			CredentialConfig: primary,
			Fallbacks:        []CredentialConfig{{Password: "p2"}, {User: "u3", Port: 6543}},
		}

		plan := cfg.Attempts()

		require.Len(t, plan, 3)
		want := primary
		want.Password = "p2"
		assert.Equal(t, want, plan[1])
		want = primary
		want.User = "u3"
		want.Port = 6543
		assert.Equal(t, want, plan[2])
		assert.Equal(t, "p2", cfg.Fallbacks[0].Password)
		assert.Empty(t, cfg.Fallbacks[0].Host, "configured fallbacks are not modified")
	})
}

func TestLoadPasswordOnlyFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.yaml")
	content := `
database:
  fallbacks:
    - password: second
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(LoadOptions{ConfigFile: path})

	require.NoError(t, err)
	plan := cfg.Database.Attempts()
	require.Len(t, plan, 2)
	assert.Equal(t, "localhost", plan[1].Host)
	assert.Equal(t, 5432, plan[1].Port)
	assert.Equal(t, "postgres", plan[1].User)
	assert.Equal(t, "second", plan[1].Password)
}

func TestLoadRejectsInvalidMergedFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.yaml")
	content := `
database:
  fallbacks:
    - sslmode: sometimes
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := Load(LoadOptions{ConfigFile: path})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "Database.Fallbacks[0].CredentialConfig.SSLMode")
}

func TestRedacted(t *testing.T) {
	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	cfg.Database.Fallbacks = []CredentialConfig{{Password: "fb-secret"}}

	red := cfg.Redacted()

	assert.Equal(t, "[REDACTED]", red.Database.Password)
	assert.Equal(t, "[REDACTED]", red.Database.Fallbacks[0].Password)
	assert.Equal(t, "[REDACTED]", red.Auth.Password)
	assert.Equal(t, "[REDACTED]", red.Stub.JWTSecret)
	assert.Equal(t, "[REDACTED]", red.Password.Plaintext)
	// The original is left untouched.
	assert.Equal(t, "root", cfg.Database.Password)
	assert.Equal(t, "fb-secret", cfg.Database.Fallbacks[0].Password)
}
