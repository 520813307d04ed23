package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Errors returned by MapError. Each wraps the driver error that caused it.
var (
	// ErrConnection covers unreachable hosts, refused connections and timeouts.
	ErrConnection = errors.New("database connection failed")

	// ErrAuthentication is returned when the server rejects the credentials.
	ErrAuthentication = errors.New("database authentication failed")

	// ErrUnknownDatabase is returned when the named database does not exist.
	ErrUnknownDatabase = errors.New("database does not exist")

	// ErrUndefinedTable is returned when the query references a missing table.
	ErrUndefinedTable = errors.New("table does not exist")

	// ErrQuery covers every other error reported by the server.
	ErrQuery = errors.New("query failed")
)

// PostgreSQL error codes
const (
	invalidPasswordCode          = "28P01"
	invalidAuthorizationSpecCode = "28000"
	invalidCatalogNameCode       = "3D000"
	undefinedTableCode           = "42P01"
	cannotConnectNowCode         = "57P03"

	// connectionExceptionClass is the SQLSTATE class for connection exceptions (08xxx).
	connectionExceptionClass = "08"
)

var sentinels = []error{ErrConnection, ErrAuthentication, ErrUnknownDatabase, ErrUndefinedTable, ErrQuery}

// MapError maps a driver error to one of the package errors.
// The original error text is kept so printed messages stay informative.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	for _, s := range sentinels {
		if errors.Is(err, s) {
			return err
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == invalidPasswordCode, pgErr.Code == invalidAuthorizationSpecCode:
			return fmt.Errorf("%w: %v", ErrAuthentication, err)
		case pgErr.Code == invalidCatalogNameCode:
			return fmt.Errorf("%w: %v", ErrUnknownDatabase, err)
		case pgErr.Code == undefinedTableCode:
			return fmt.Errorf("%w: %v", ErrUndefinedTable, err)
		case pgErr.Code == cannotConnectNowCode, strings.HasPrefix(pgErr.Code, connectionExceptionClass):
			return fmt.Errorf("%w: %v", ErrConnection, err)
		default:
			return fmt.Errorf("%w: %v", ErrQuery, err)
		}
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	return err
}

// Kind returns a short, stable label for the class of err, for use as a log attribute.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuthentication):
		return "authentication"
	case errors.Is(err, ErrUnknownDatabase):
		return "unknown_database"
	case errors.Is(err, ErrUndefinedTable):
		return "undefined_table"
	case errors.Is(err, ErrConnection):
		return "connection"
	case errors.Is(err, ErrQuery):
		return "query"
	default:
		return "other"
	}
}
