package dialect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/dukaforge/sqlbridge/pkg/dberr"
	"github.com/dukaforge/sqlbridge/pkg/types"
)

// postgresDialect drives github.com/lib/pq.
type postgresDialect struct{}

func (postgresDialect) Kind() types.DriverKind { return types.DriverPostgres }

func (postgresDialect) DriverName() string { return "postgres" }

// DSN builds a key/value connection string. Values are single-quoted so
// passwords may contain spaces.
func (postgresDialect) DSN(cfg types.DriverConfig) (string, error) {
	pc, ok := cfg.(types.PostgresConfig)
	if !ok {
		return "", wrongConfig(types.DriverPostgres, cfg)
	}
	pairs := []string{
		"host=" + quoteDSNValue(pc.Host),
		fmt.Sprintf("port=%d", pc.Port),
		"dbname=" + quoteDSNValue(pc.Name),
		"user=" + quoteDSNValue(pc.User),
		"sslmode=" + pc.SSLMode,
	}
	if pc.Password != "" {
		pairs = append(pairs, "password="+quoteDSNValue(pc.Password))
	}
	return strings.Join(pairs, " "), nil
}

// quoteDSNValue single-quotes a libpq connection parameter value.
func quoteDSNValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func (postgresDialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (postgresDialect) Placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// Classify maps Postgres SQLSTATE classes onto the taxonomy. The two-letter
// class prefix groups conditions coarsely enough for a deterministic, total
// mapping; anything unrecognized stays a generic database error.
func (postgresDialect) Classify(err error) *dberr.Error {
	if derr := classifyCommon(err); derr != nil {
		return derr
	}

	var perr *pq.Error
	if !errors.As(err, &perr) {
		return dberr.Wrap(dberr.KindDatabase, err, "")
	}

	switch perr.Code.Class() {
	case "01":
		return dberr.Wrap(dberr.KindWarning, err, "")
	case "0A":
		return dberr.Wrap(dberr.KindNotSupported, err, "")
	case "08", "28", "53", "54", "57", "58":
		// Connection failures, auth rejection, resource exhaustion,
		// operator intervention, system errors.
		return dberr.Wrap(dberr.KindOperational, err, "")
	case "21", "22":
		return dberr.Wrap(dberr.KindData, err, "")
	case "23", "27":
		return dberr.Wrap(dberr.KindIntegrity, err, "")
	case "24", "25", "26", "34", "40", "55", "XX":
		// Stale cursors, invalid transaction state, rollbacks; the
		// backend's own state is inconsistent with the request.
		return dberr.Wrap(dberr.KindInternal, err, "")
	case "03", "0F", "0L", "0P", "3D", "3F", "42", "44":
		// Syntax errors, undefined or duplicate objects, invalid names.
		return dberr.Wrap(dberr.KindProgramming, err, "")
	default:
		return dberr.Wrap(dberr.KindDatabase, err,
			fmt.Sprintf("postgres %s: %s", perr.Code, perr.Message))
	}
}
