package config

import "time"

// Config holds all probe configuration.
// It organizes settings into logical groups, one per probe plus the ambient ones.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database" validate:"required"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"      validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     yaml:"auth"     validate:"required"`
	Suite    SuiteConfig    `mapstructure:"suite"    yaml:"suite"    validate:"required"`
	Password PasswordConfig `mapstructure:"password" yaml:"password" validate:"required"`
	Stub     StubConfig     `mapstructure:"stub"     yaml:"stub"     validate:"required"`
	Log      LogConfig      `mapstructure:"log"      yaml:"log"      validate:"required"`
}

// CredentialConfig is one set of connection parameters for the database.
type CredentialConfig struct {
	Host     string `mapstructure:"host"     yaml:"host"     validate:"required"`
	Port     int    `mapstructure:"port"     yaml:"port"     validate:"required,gt=0,lt=65536"`
	Name     string `mapstructure:"name"     yaml:"name"     validate:"required"`
	User     string `mapstructure:"user"     yaml:"user"     validate:"required"`
	Password string `mapstructure:"password" yaml:"password"`
	SSLMode  string `mapstructure:"sslmode"  yaml:"sslmode"  validate:"required,oneof=disable allow prefer require verify-ca verify-full"`
}

// DatabaseConfig contains the DB inspector settings.
type DatabaseConfig struct {
	CredentialConfig `mapstructure:",squash" yaml:",inline"`

	Query          string        `mapstructure:"query"           yaml:"query"           validate:"required"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout" validate:"gt=0"`

	// Fallbacks are tried in order after the primary credentials fail.
	// When empty, a single fallback identical to the primary set is used.
	// Unset fields of a fallback take the primary value; Validate checks
	// the merged sets.
	Fallbacks []CredentialConfig `mapstructure:"fallbacks" yaml:"fallbacks" validate:"-"`

	Schema SchemaConfig `mapstructure:"schema" yaml:"schema"`
}

// SchemaConfig lists what the schema check expects to find.
type SchemaConfig struct {
	Tables []string `mapstructure:"tables" yaml:"tables"`
	// Columns are written as "table.column".
	Columns []string `mapstructure:"columns" yaml:"columns" validate:"dive,contains=."`
}

// APIConfig contains settings shared by the HTTP probes.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout"  yaml:"timeout"  validate:"gt=0"`
}

// AuthConfig contains the auth-flow probe settings.
type AuthConfig struct {
	LoginPath     string `mapstructure:"login_path"     yaml:"login_path"     validate:"required,startswith=/"`
	ProtectedPath string `mapstructure:"protected_path" yaml:"protected_path" validate:"required,startswith=/"`
	Username      string `mapstructure:"username"       yaml:"username"       validate:"required"`
	Password      string `mapstructure:"password"       yaml:"password"`
	TokenField    string `mapstructure:"token_field"    yaml:"token_field"    validate:"required"`

	// AllowMissingToken forwards a placeholder bearer credential when the
	// login body carries no token instead of failing the run.
	AllowMissingToken bool `mapstructure:"allow_missing_token" yaml:"allow_missing_token"`
}

// SuiteConfig contains the test-suite probe settings.
type SuiteConfig struct {
	Path        string  `mapstructure:"path"        yaml:"path"        validate:"required,startswith=/"`
	Name        string  `mapstructure:"name"        yaml:"name"        validate:"required"`
	Description string  `mapstructure:"description" yaml:"description"`
	Type        string  `mapstructure:"type"        yaml:"type"        validate:"required,oneof=API UI BUSINESS"`
	Repeat      int     `mapstructure:"repeat"      yaml:"repeat"      validate:"gte=1"`
	Rate        float64 `mapstructure:"rate"        yaml:"rate"        validate:"gte=0"`
}

// PasswordConfig contains the password check inputs.
type PasswordConfig struct {
	Hash      string `mapstructure:"hash"      yaml:"hash"      validate:"required"`
	Plaintext string `mapstructure:"plaintext" yaml:"plaintext"`
}

// StubConfig contains the reference server settings.
type StubConfig struct {
	Addr          string        `mapstructure:"addr"           yaml:"addr"           validate:"required"`
	JWTSecret     string        `mapstructure:"jwt_secret"     yaml:"jwt_secret"     validate:"required,min=32"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime" yaml:"token_lifetime" validate:"gt=0"`
	Username      string        `mapstructure:"username"       yaml:"username"       validate:"required"`
	Password      string        `mapstructure:"password"       yaml:"password"       validate:"required"`
	Role          string        `mapstructure:"role"           yaml:"role"           validate:"required"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"  validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"required,oneof=json text"`
}

// Attempts returns the ordered credential sets the DB inspector tries.
func (c DatabaseConfig) Attempts() []CredentialConfig {
	if len(c.Fallbacks) == 0 {
		return []CredentialConfig{c.CredentialConfig, c.CredentialConfig}
	}
	plan := make([]CredentialConfig, 0, len(c.Fallbacks)+1)
	plan = append(plan, c.CredentialConfig)
	for _, fb := range c.Fallbacks {
		plan = append(plan, fb.inherit(c.CredentialConfig))
	}
	return plan
}

// inherit fills every zero field of c from base.
func (c CredentialConfig) inherit(base CredentialConfig) CredentialConfig {
	if c.Host == "" {
		c.Host = base.Host
	}
	if c.Port == 0 {
		c.Port = base.Port
	}
	if c.Name == "" {
		c.Name = base.Name
	}
	if c.User == "" {
		c.User = base.User
	}
	if c.Password == "" {
		c.Password = base.Password
	}
	if c.SSLMode == "" {
		c.SSLMode = base.SSLMode
	}
	return c
}
