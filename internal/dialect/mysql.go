package dialect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/dukaforge/sqlbridge/pkg/dberr"
	"github.com/dukaforge/sqlbridge/pkg/types"
)

// mysqlDialect drives github.com/go-sql-driver/mysql.
type mysqlDialect struct{}

func (mysqlDialect) Kind() types.DriverKind { return types.DriverMySQL }

func (mysqlDialect) DriverName() string { return "mysql" }

// DSN delegates formatting to the driver's own config type. ParseTime makes
// the driver hand DATETIME columns back as time.Time instead of raw bytes.
func (mysqlDialect) DSN(cfg types.DriverConfig) (string, error) {
	mc, ok := cfg.(types.MySQLConfig)
	if !ok {
		return "", wrongConfig(types.DriverMySQL, cfg)
	}
	dc := mysql.NewConfig()
	dc.User = mc.User
	dc.Passwd = mc.Password
	dc.Net = "tcp"
	dc.Addr = fmt.Sprintf("%s:%d", mc.Host, mc.Port)
	dc.DBName = mc.Name
	dc.ParseTime = true
	return dc.FormatDSN(), nil
}

func (mysqlDialect) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (mysqlDialect) Placeholder(int) string { return "?" }

// Classify maps MySQL server error numbers onto the taxonomy. The ranges
// follow the server's own grouping: integrity for constraint numbers, data
// for range/truncation numbers, operational for connectivity and resource
// numbers, programming for syntax and missing objects.
func (mysqlDialect) Classify(err error) *dberr.Error {
	if derr := classifyCommon(err); derr != nil {
		return derr
	}
	if errors.Is(err, mysql.ErrInvalidConn) || errors.Is(err, mysql.ErrBusyBuffer) {
		return dberr.Wrap(dberr.KindOperational, err, "")
	}

	var merr *mysql.MySQLError
	if !errors.As(err, &merr) {
		return dberr.Wrap(dberr.KindDatabase, err, "")
	}

	switch merr.Number {
	case 1022, 1062, 1169, 1216, 1217, 1451, 1452, 1557, 1586, 1761, 1762, 3819:
		// Duplicate keys, foreign key checks, check constraints.
		return dberr.Wrap(dberr.KindIntegrity, err, "")
	case 1264, 1265, 1292, 1365, 1366, 1406:
		// Out of range, truncation, incorrect value, division by zero.
		return dberr.Wrap(dberr.KindData, err, "")
	case 1040, 1041, 1044, 1045, 1049, 1053, 1129, 1130,
		1152, 1153, 1154, 1155, 1156, 1157, 1158, 1159, 1160, 1161,
		1203, 1205, 1213, 1226, 1227:
		// Access, connection, lock wait, deadlock, resource limits.
		return dberr.Wrap(dberr.KindOperational, err, "")
	case 1050, 1051, 1054, 1064, 1065, 1103, 1109, 1136, 1146, 1149, 1243:
		// Syntax errors, unknown tables or columns, wrong value counts.
		return dberr.Wrap(dberr.KindProgramming, err, "")
	case 1178, 1235:
		return dberr.Wrap(dberr.KindNotSupported, err, "")
	case 1180, 1181, 1188:
		// Commit/rollback failures and out-of-sync replication state.
		return dberr.Wrap(dberr.KindInternal, err, "")
	default:
		return dberr.Wrap(dberr.KindDatabase, err,
			fmt.Sprintf("mysql error %d: %s", merr.Number, merr.Message))
	}
}
