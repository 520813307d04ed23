package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/testplatform/probe/internal/inspect"
	"github.com/testplatform/probe/internal/platform/postgres"
)

func (a *app) newDBCmd() *cobra.Command {
	var checkSchema bool

	cmd := &cobra.Command{
		Use:   "db",
		Short: "Print every row of the users table",
		Long: `Connect to the database, run the configured query and print each row.

On failure the same sequence is attempted with each configured fallback
credential set; with none configured, the primary set is tried once more.
Failures are printed, never returned, so the command exits 0 either way.

With --check-schema the command instead verifies that the platform's tables
and columns exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := a.context(cmd)
			in := inspect.New(a.cfg.Database, a.stdout)

			if checkSchema {
				report, err := in.CheckSchema(ctx, a.cfg.Database.Schema)
				if err != nil {
					return err
				}
				if !report.OK() {
					a.log.Warn("schema is incomplete",
						"missing_tables", report.MissingTables,
						"missing_columns", report.MissingColumns)
				}
				return nil
			}

			report := in.Run(ctx)
			if !report.Succeeded() {
				a.log.Warn("every database attempt failed", "attempts", len(report.Attempts))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkSchema, "check-schema", false, "verify expected tables and columns instead of querying users")

	// Connection flags are persistent so "db migrate" accepts them too.
	f := cmd.PersistentFlags()
	f.String("host", "", "database host")
	f.Int("port", 0, "database port")
	f.String("dbname", "", "database name")
	f.String("user", "", "database user")
	f.String("password", "", "database password")
	f.String("sslmode", "", "database sslmode")
	f.String("query", "", "query to run")
	f.Duration("connect-timeout", 0, "timeout for establishing a connection")
	bindFlag(f, "host", "database.host")
	bindFlag(f, "port", "database.port")
	bindFlag(f, "dbname", "database.name")
	bindFlag(f, "user", "database.user")
	bindFlag(f, "password", "database.password")
	bindFlag(f, "sslmode", "database.sslmode")
	bindFlag(f, "query", "database.query")
	bindFlag(f, "connect-timeout", "database.connect_timeout")

	cmd.AddCommand(a.newDBMigrateCmd())
	return cmd
}

func (a *app) newDBMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the users and platform tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := a.context(cmd)
			creds := postgres.CredentialsFromConfig(a.cfg.Database.CredentialConfig)

			sess, err := postgres.Dial(ctx, creds, a.cfg.Database.ConnectTimeout)
			if err != nil {
				return fmt.Errorf("connecting to %s: %w", creds, err)
			}
			defer func() { _ = sess.Close() }()

			if err := postgres.Migrate(ctx, sess.DB()); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Migrations applied to %s\n", creds)
			return nil
		},
	}
}
