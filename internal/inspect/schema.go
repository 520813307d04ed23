package inspect

import (
	"context"
	"fmt"
	"strings"

	"github.com/testplatform/probe/internal/config"
	"github.com/testplatform/probe/internal/platform/logger"
)

const (
	tableExistsQuery  = "SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = $1)"
	columnExistsQuery = "SELECT EXISTS (SELECT FROM information_schema.columns WHERE table_name = $1 AND column_name = $2)"
)

// SchemaReport lists what the schema check could not find.
type SchemaReport struct {
	MissingTables  []string
	MissingColumns []string
}

// OK reports whether everything expected was found.
func (r *SchemaReport) OK() bool {
	return len(r.MissingTables) == 0 && len(r.MissingColumns) == 0
}

// CheckSchema connects with the primary credentials and checks that every
// expected table and column exists. Missing objects are reported as warnings;
// only connection and query failures are returned as errors.
func (i *Inspector) CheckSchema(ctx context.Context, schema config.SchemaConfig) (*SchemaReport, error) {
	log := logger.FromContext(ctx)

	if len(i.plan) == 0 {
		return nil, fmt.Errorf("no credentials configured")
	}

	sess, err := i.dial(ctx, i.plan[0])
	if err != nil {
		return nil, err
	}
	defer func() { _ = sess.Close() }()

	fmt.Fprintln(i.out, "Validating database schema...")
	report := &SchemaReport{}

	for _, table := range schema.Tables {
		exists, err := sess.Exists(ctx, tableExistsQuery, table)
		if err != nil {
			return nil, fmt.Errorf("checking table %s: %w", table, err)
		}
		if exists {
			fmt.Fprintf(i.out, "table %s exists\n", table)
			continue
		}
		report.MissingTables = append(report.MissingTables, table)
		fmt.Fprintf(i.out, "warning: table %s does not exist\n", table)
	}

	for _, ref := range schema.Columns {
		table, column, ok := strings.Cut(ref, ".")
		if !ok {
			return nil, fmt.Errorf("invalid column reference %q, want table.column", ref)
		}
		exists, err := sess.Exists(ctx, columnExistsQuery, table, column)
		if err != nil {
			return nil, fmt.Errorf("checking column %s: %w", ref, err)
		}
		if exists {
			fmt.Fprintf(i.out, "column %s of table %s exists\n", column, table)
			continue
		}
		report.MissingColumns = append(report.MissingColumns, ref)
		fmt.Fprintf(i.out, "warning: column %s of table %s does not exist\n", column, table)
	}

	fmt.Fprintln(i.out, "Schema validation complete.")
	if !report.OK() {
		log.Warn("database schema incomplete",
			"missing_tables", report.MissingTables,
			"missing_columns", report.MissingColumns)
	}
	return report, nil
}
