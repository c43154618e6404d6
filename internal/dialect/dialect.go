// Package dialect isolates everything backend-specific: database/sql driver
// names, DSN construction, identifier quoting, bind-placeholder style, and
// the mapping from raw driver errors onto the dberr taxonomy.
package dialect

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"os"

	"github.com/dukaforge/sqlbridge/pkg/dberr"
	"github.com/dukaforge/sqlbridge/pkg/types"
)

// Dialect adapts one backend to the uniform client surface.
type Dialect interface {
	// Kind returns the driver kind this dialect serves.
	Kind() types.DriverKind

	// DriverName returns the name the backend driver registers with
	// database/sql.
	DriverName() string

	// DSN builds the driver-specific data source name from a defaulted,
	// validated driver config.
	DSN(cfg types.DriverConfig) (string, error)

	// QuoteIdentifier quotes a table or column name for this backend.
	QuoteIdentifier(name string) string

	// Placeholder returns the bind placeholder for the n-th parameter,
	// 1-based.
	Placeholder(n int) string

	// Classify maps a raw backend error onto exactly one taxonomy kind.
	// It never returns nil for a non-nil input.
	Classify(err error) *dberr.Error
}

// For returns the dialect for kind.
func For(kind types.DriverKind) (Dialect, error) {
	switch kind {
	case types.DriverSQLite:
		return sqliteDialect{}, nil
	case types.DriverMySQL:
		return mysqlDialect{}, nil
	case types.DriverPostgres:
		return postgresDialect{}, nil
	default:
		return nil, dberr.Newf(dberr.KindInterface, "no dialect for driver %q", kind)
	}
}

// classifyCommon handles failure modes shared by all backends: transport
// errors, cancellation, closed pools. Returns nil when the error needs
// backend-specific classification.
func classifyCommon(err error) *dberr.Error {
	var derr *dberr.Error
	if errors.As(err, &derr) {
		// Already classified upstream; keep the original.
		return derr
	}

	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return dberr.Wrap(dberr.KindOperational, err, "")
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return dberr.Wrap(dberr.KindOperational, err, "")
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return dberr.Wrap(dberr.KindOperational, err, "")
	}
	return nil
}

// wrongConfig reports a DSN call with a config of the wrong concrete type.
func wrongConfig(kind types.DriverKind, cfg types.DriverConfig) error {
	return dberr.Newf(dberr.KindInterface, "%s dialect given %T config", kind, cfg)
}
