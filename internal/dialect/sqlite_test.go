package dialect

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaforge/sqlbridge/pkg/dberr"
	"github.com/dukaforge/sqlbridge/pkg/types"
)

func TestSQLiteDSN(t *testing.T) {
	dia := sqliteDialect{}
	dsn, err := dia.DSN(types.SQLiteConfig{Filename: "/tmp/app.db"})
	require.NoError(t, err)
	assert.Equal(t, "file:/tmp/app.db?_pragma=busy_timeout(5000)", dsn)
}

func TestSQLiteDSNWrongConfigType(t *testing.T) {
	_, err := sqliteDialect{}.DSN(types.PostgresConfig{Name: "app", User: "u"})
	assert.ErrorIs(t, err, dberr.Interface)
}

func TestSQLiteQuoting(t *testing.T) {
	dia := sqliteDialect{}
	assert.Equal(t, `"users"`, dia.QuoteIdentifier("users"))
	assert.Equal(t, `"odd""name"`, dia.QuoteIdentifier(`odd"name`))
	assert.Equal(t, "?", dia.Placeholder(3))
}

// openSQLite opens a throwaway database file and registers cleanup.
func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	dia := sqliteDialect{}
	dsn, err := dia.DSN(types.SQLiteConfig{Filename: filepath.Join(t.TempDir(), "classify.db")})
	require.NoError(t, err)
	raw, err := sql.Open(dia.DriverName(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return raw
}

// The modernc driver's error type cannot be constructed from outside the
// package, so classification is exercised against a live database.
func TestSQLiteClassifyLiveErrors(t *testing.T) {
	raw := openSQLite(t)
	_, err := raw.Exec(`CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL UNIQUE)`)
	require.NoError(t, err)
	_, err = raw.Exec(`INSERT INTO users (id, name) VALUES (1, 'a')`)
	require.NoError(t, err)

	dia := sqliteDialect{}
	tests := []struct {
		name string
		stmt string
		want *dberr.Error
	}{
		{"unique violation", `INSERT INTO users (id, name) VALUES (2, 'a')`, dberr.Integrity},
		{"not null violation", `INSERT INTO users (id, name) VALUES (3, NULL)`, dberr.Integrity},
		{"syntax error", `SELEC * FROM users`, dberr.Programming},
		{"no such table", `SELECT * FROM missing`, dberr.Programming},
		{"no such column", `SELECT nope FROM users`, dberr.Programming},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, execErr := raw.Exec(tt.stmt)
			require.Error(t, execErr)

			got := dia.Classify(execErr)
			require.NotNil(t, got)
			assert.ErrorIs(t, got, tt.want, "raw error: %v", execErr)
		})
	}
}
