package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/testplatform/probe/internal/config"
)

// DefaultConnectTimeout bounds Dial when the caller passes no timeout.
const DefaultConnectTimeout = 5 * time.Second

// Credentials is one complete set of connection parameters.
type Credentials struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
}

// CredentialsFromConfig converts a configured credential set.
func CredentialsFromConfig(c config.CredentialConfig) Credentials {
	return Credentials{
		Host:     c.Host,
		Port:     c.Port,
		Database: c.Name,
		User:     c.User,
		Password: c.Password,
		SSLMode:  c.SSLMode,
	}
}

// CredentialsFromURL parses a postgres:// URL or keyword/value DSN.
func CredentialsFromURL(raw string) (Credentials, error) {
	cfg, err := pgx.ParseConfig(raw)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to parse database URL: %w", err)
	}

	sslMode := "disable"
	if cfg.TLSConfig != nil {
		sslMode = "prefer"
	}

	return Credentials{
		Host:     cfg.Host,
		Port:     int(cfg.Port),
		Database: cfg.Database,
		User:     cfg.User,
		Password: cfg.Password,
		SSLMode:  sslMode,
	}, nil
}

// DSN renders the credentials as a keyword/value connection string.
func (c Credentials) DSN() string {
	parts := []string{
		"host=" + quoteValue(c.Host),
		"port=" + strconv.Itoa(c.Port),
		"dbname=" + quoteValue(c.Database),
		"user=" + quoteValue(c.User),
	}
	if c.Password != "" {
		parts = append(parts, "password="+quoteValue(c.Password))
	}
	if c.SSLMode != "" {
		parts = append(parts, "sslmode="+quoteValue(c.SSLMode))
	}
	return strings.Join(parts, " ")
}

// String identifies the target without the password.
func (c Credentials) String() string {
	return fmt.Sprintf("%s@%s:%d/%s", c.User, c.Host, c.Port, c.Database)
}

func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// Session is a single-connection handle used for one inspection attempt.
type Session struct {
	db *sql.DB
}

// Dial opens a connection with creds and verifies it with a ping.
// Errors are mapped with MapError.
func Dial(ctx context.Context, creds Credentials, timeout time.Duration) (*Session, error) {
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	db, err := sql.Open("pgx", creds.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", MapError(err))
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, MapError(err)
	}

	return &Session{db: db}, nil
}

// NewSession wraps an already open database handle.
func NewSession(db *sql.DB) *Session {
	return &Session{db: db}
}

// Rows runs query and calls fn once per result row, in order.
// The values slice is reused between calls.
func (s *Session) Rows(ctx context.Context, query string, fn func(columns []string, values []any) error) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return MapError(err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return MapError(err)
	}

	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return MapError(err)
		}
		if err := fn(columns, values); err != nil {
			return err
		}
	}

	return MapError(rows.Err())
}

// Exists runs a query returning a single boolean.
func (s *Session) Exists(ctx context.Context, query string, args ...any) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// DB exposes the underlying handle, e.g. for migrations.
func (s *Session) DB() *sql.DB {
	return s.db
}

// Close releases the connection.
func (s *Session) Close() error {
	return s.db.Close()
}
