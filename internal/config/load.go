package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. PROBE_DATABASE_PASSWORD or PROBE_API_BASE_URL.
const EnvPrefix = "PROBE"

// LoadOptions controls where Load reads configuration from.
type LoadOptions struct {
	// ConfigFile is an optional path to a YAML, JSON or TOML file.
	ConfigFile string

	// Overrides take precedence over every other source. Keys use the
	// dotted form, e.g. "database.host".
	Overrides map[string]any
}

// Load builds the configuration from defaults, an optional config file,
// environment variables and explicit overrides, in increasing order of
// precedence. The result is validated before it is returned.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidConfig, opts.ConfigFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range opts.Overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the struct tags on cfg and reports every failing field.
// Fallback credential sets are checked after inheriting from the primary set.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return validationError(err, "")
	}
	for n, fb := range cfg.Database.Attempts()[1:] {
		if err := validate.Struct(fb); err != nil {
			return validationError(err, fmt.Sprintf("Database.Fallbacks[%d].", n))
		}
	}
	return nil
}

func validationError(err error, prefix string) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s%s (%s)", prefix, fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "testplatform")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "root")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.query", "SELECT * FROM users;")
	v.SetDefault("database.connect_timeout", 5*time.Second)
	v.SetDefault("database.fallbacks", []map[string]any{})
	v.SetDefault("database.schema.tables", []string{
		"test_suites",
		"test_cases",
		"test_executions",
		"target_system_configs",
		"test_suite_test_cases",
	})
	v.SetDefault("database.schema.columns", []string{
		"test_cases.test_steps",
		"target_system_configs.is_active",
	})

	v.SetDefault("api.base_url", "http://localhost:8180")
	v.SetDefault("api.timeout", 10*time.Second)

	v.SetDefault("auth.login_path", "/api/auth/login")
	v.SetDefault("auth.protected_path", "/api/target-system-configs")
	v.SetDefault("auth.username", "admin")
	v.SetDefault("auth.password", "password")
	v.SetDefault("auth.token_field", "token")
	v.SetDefault("auth.allow_missing_token", false)

	v.SetDefault("suite.path", "/api/test-suites")
	v.SetDefault("suite.name", "API测试套件")
	v.SetDefault("suite.description", "用于测试API功能")
	v.SetDefault("suite.type", "API")
	v.SetDefault("suite.repeat", 1)
	v.SetDefault("suite.rate", 0)

	v.SetDefault("password.hash", "$2a$10$slYQmyNdGzTn7ZLBXBChFOCrrJkjhVzJe2OLotBK0EhzB5r8v6/Iu")
	v.SetDefault("password.plaintext", "password")

	v.SetDefault("stub.addr", ":8180")
	v.SetDefault("stub.jwt_secret", "probe-stub-signing-secret-change-me-0123456789")
	v.SetDefault("stub.token_lifetime", 24*time.Hour)
	v.SetDefault("stub.username", "admin")
	v.SetDefault("stub.password", "password")
	v.SetDefault("stub.role", "ADMIN")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}
