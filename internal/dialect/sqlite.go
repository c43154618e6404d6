package dialect

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dukaforge/sqlbridge/pkg/dberr"
	"github.com/dukaforge/sqlbridge/pkg/types"
)

// sqliteDialect drives modernc.org/sqlite, a CGO-free SQLite port.
type sqliteDialect struct{}

func (sqliteDialect) Kind() types.DriverKind { return types.DriverSQLite }

func (sqliteDialect) DriverName() string { return "sqlite" }

// DSN points at the database file. A busy timeout keeps concurrent pool
// connections from failing immediately on a locked database.
func (sqliteDialect) DSN(cfg types.DriverConfig) (string, error) {
	sc, ok := cfg.(types.SQLiteConfig)
	if !ok {
		return "", wrongConfig(types.DriverSQLite, cfg)
	}
	return "file:" + sc.Filename + "?_pragma=busy_timeout(5000)", nil
}

func (sqliteDialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (sqliteDialect) Placeholder(int) string { return "?" }

// Classify maps SQLite primary result codes onto the taxonomy. Extended
// result codes share the low byte with their primary code.
func (sqliteDialect) Classify(err error) *dberr.Error {
	if derr := classifyCommon(err); derr != nil {
		return derr
	}

	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return dberr.Wrap(dberr.KindDatabase, err, "")
	}

	switch serr.Code() & 0xff {
	case sqlite3.SQLITE_CONSTRAINT:
		return dberr.Wrap(dberr.KindIntegrity, err, "")
	case sqlite3.SQLITE_MISMATCH, sqlite3.SQLITE_TOOBIG:
		return dberr.Wrap(dberr.KindData, err, "")
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_CANTOPEN,
		sqlite3.SQLITE_IOERR, sqlite3.SQLITE_FULL, sqlite3.SQLITE_PERM,
		sqlite3.SQLITE_READONLY, sqlite3.SQLITE_AUTH, sqlite3.SQLITE_NOMEM:
		return dberr.Wrap(dberr.KindOperational, err, "")
	case sqlite3.SQLITE_ERROR, sqlite3.SQLITE_RANGE, sqlite3.SQLITE_SCHEMA:
		// Syntax errors, missing objects, and bind-index mistakes all
		// surface as the generic SQLITE_ERROR family.
		return dberr.Wrap(dberr.KindProgramming, err, "")
	case sqlite3.SQLITE_INTERNAL, sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB:
		return dberr.Wrap(dberr.KindInternal, err, "")
	case sqlite3.SQLITE_MISUSE:
		return dberr.Wrap(dberr.KindInterface, err, "")
	default:
		return dberr.Wrap(dberr.KindDatabase, err,
			fmt.Sprintf("sqlite error code %d: %s", serr.Code(), serr.Error()))
	}
}
