package inspect

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/testplatform/probe/internal/config"
	"github.com/testplatform/probe/internal/platform/logger"
	"github.com/testplatform/probe/internal/platform/postgres"
	"github.com/testplatform/probe/internal/redact"
)

// Session is the part of a database connection the inspector uses.
type Session interface {
	Rows(ctx context.Context, query string, fn func(columns []string, values []any) error) error
	Exists(ctx context.Context, query string, args ...any) (bool, error)
	Close() error
}

// Dialer opens a Session for one credential set.
type Dialer func(ctx context.Context, creds postgres.Credentials) (Session, error)

// PostgresDialer dials real PostgreSQL servers through the pgx driver.
func PostgresDialer(timeout time.Duration) Dialer {
	return func(ctx context.Context, creds postgres.Credentials) (Session, error) {
		s, err := postgres.Dial(ctx, creds, timeout)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Attempt records the outcome of one credential set.
type Attempt struct {
	Target string
	Rows   int
	Err    error
}

// Report summarizes an inspection run.
type Report struct {
	Attempts []Attempt
}

// Succeeded reports whether any attempt completed.
func (r *Report) Succeeded() bool {
	for _, a := range r.Attempts {
		if a.Err == nil {
			return true
		}
	}
	return false
}

// Inspector runs the fixed query against an attempt plan.
type Inspector struct {
	dial  Dialer
	plan  []postgres.Credentials
	query string
	out   io.Writer
}

// Option customizes an Inspector.
type Option func(*Inspector)

// WithDialer replaces the PostgreSQL dialer, mainly for tests.
func WithDialer(d Dialer) Option {
	return func(i *Inspector) {
		i.dial = d
	}
}

// New creates an Inspector printing to out.
func New(cfg config.DatabaseConfig, out io.Writer, opts ...Option) *Inspector {
	attempts := cfg.Attempts()
	plan := make([]postgres.Credentials, len(attempts))
	for n, a := range attempts {
		plan[n] = postgres.CredentialsFromConfig(a)
	}

	i := &Inspector{
		dial:  PostgresDialer(cfg.ConnectTimeout),
		plan:  plan,
		query: cfg.Query,
		out:   out,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run tries each credential set in order until one completes the query.
// Failures are printed to the output and logged; they are not returned.
func (i *Inspector) Run(ctx context.Context) *Report {
	log := logger.FromContext(ctx)
	report := &Report{}

	for n, creds := range i.plan {
		primary := n == 0
		rows, err := i.attempt(ctx, creds, primary)
		report.Attempts = append(report.Attempts, Attempt{Target: creds.String(), Rows: rows, Err: err})

		if err == nil {
			log.Debug("database inspection completed",
				"attempt", n+1,
				"target", creds.String(),
				"rows", rows)
			return report
		}

		if primary {
			fmt.Fprintf(i.out, "Error: %v\n", err)
		} else {
			fmt.Fprintf(i.out, "Error with fallback credentials: %v\n", err)
		}

		log.Warn("database inspection attempt failed",
			"attempt", n+1,
			"of", len(i.plan),
			"target", creds.String(),
			"kind", postgres.Kind(err),
			"error", redact.Error(err))
	}

	return report
}

func (i *Inspector) attempt(ctx context.Context, creds postgres.Credentials, primary bool) (int, error) {
	sess, err := i.dial(ctx, creds)
	if err != nil {
		return 0, err
	}
	defer func() { _ = sess.Close() }()

	count := 0
	err = sess.Rows(ctx, i.query, func(_ []string, values []any) error {
		count++
		if primary {
			_, werr := fmt.Fprintf(i.out, "User data: %s\n", FormatRow(values))
			return werr
		}
		_, werr := fmt.Fprintln(i.out, FormatRow(values))
		return werr
	})
	if err != nil {
		return count, err
	}

	if primary {
		fmt.Fprintln(i.out, "Database query completed successfully")
	}
	return count, nil
}
