package dialect

import (
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaforge/sqlbridge/pkg/dberr"
	"github.com/dukaforge/sqlbridge/pkg/types"
)

func TestMySQLDSN(t *testing.T) {
	dia := mysqlDialect{}
	dsn, err := dia.DSN(types.MySQLConfig{
		Name:     "app",
		Host:     "db.internal",
		Port:     3307,
		User:     "svc",
		Password: "secret",
	})
	require.NoError(t, err)

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "svc", parsed.User)
	assert.Equal(t, "secret", parsed.Passwd)
	assert.Equal(t, "db.internal:3307", parsed.Addr)
	assert.Equal(t, "app", parsed.DBName)
	assert.True(t, parsed.ParseTime)
}

func TestMySQLDSNWrongConfigType(t *testing.T) {
	_, err := mysqlDialect{}.DSN(types.SQLiteConfig{Filename: "x.db"})
	assert.ErrorIs(t, err, dberr.Interface)
}

func TestMySQLClassify(t *testing.T) {
	tests := []struct {
		name   string
		number uint16
		want   *dberr.Error
	}{
		{"duplicate entry", 1062, dberr.Integrity},
		{"foreign key fails", 1452, dberr.Integrity},
		{"check constraint", 3819, dberr.Integrity},
		{"out of range", 1264, dberr.Data},
		{"data too long", 1406, dberr.Data},
		{"incorrect value", 1366, dberr.Data},
		{"access denied", 1045, dberr.Operational},
		{"too many connections", 1040, dberr.Operational},
		{"lock wait timeout", 1205, dberr.Operational},
		{"deadlock", 1213, dberr.Operational},
		{"syntax error", 1064, dberr.Programming},
		{"unknown column", 1054, dberr.Programming},
		{"no such table", 1146, dberr.Programming},
		{"table exists", 1050, dberr.Programming},
		{"not supported yet", 1235, dberr.NotSupported},
		{"commit failed", 1180, dberr.Internal},
	}

	dia := mysqlDialect{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &mysql.MySQLError{Number: tt.number, Message: tt.name}
			got := dia.Classify(raw)
			require.NotNil(t, got)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, raw)
		})
	}
}

func TestMySQLClassifyUnknownNumber(t *testing.T) {
	got := mysqlDialect{}.Classify(&mysql.MySQLError{Number: 9999, Message: "weird"})
	require.NotNil(t, got)
	assert.Equal(t, dberr.KindDatabase, got.Kind)
	assert.Contains(t, got.Message, "9999")
}

func TestMySQLClassifyDriverSentinels(t *testing.T) {
	got := mysqlDialect{}.Classify(mysql.ErrInvalidConn)
	require.NotNil(t, got)
	assert.ErrorIs(t, got, dberr.Operational)
}
