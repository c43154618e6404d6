package db

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"github.com/dukaforge/sqlbridge/pkg/dberr"
	"github.com/dukaforge/sqlbridge/pkg/types"
)

// ErrNoRows is returned by QueryOne when no row matches the filter. The
// absence of a row is not a backend failure, so it is not a taxonomy member.
var ErrNoRows = errors.New("no rows in result")

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validateIdentifier rejects table and column names that could not be plain
// SQL identifiers. Violations are misuse of the client surface.
func validateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return dberr.Newf(dberr.KindInterface, "invalid identifier %q", name)
	}
	return nil
}

// validateColumns checks the requested column list: non-empty, valid names,
// valid tags, no duplicates.
func validateColumns(columns []types.Column) error {
	if len(columns) == 0 {
		return dberr.New(dberr.KindInterface, "at least one column is required")
	}
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if err := validateIdentifier(col.Name); err != nil {
			return err
		}
		if !col.Type.Valid() {
			return dberr.Newf(dberr.KindInterface, "column %q has invalid value tag %d", col.Name, int(col.Type))
		}
		if seen[col.Name] {
			return dberr.Newf(dberr.KindInterface, "column %q requested twice", col.Name)
		}
		seen[col.Name] = true
	}
	return nil
}

// selectSQL assembles a SELECT for the given table, columns and filter.
func (d *Database) selectSQL(table string, columns []types.Column, filter Filter) (string, []any, error) {
	if err := validateIdentifier(table); err != nil {
		return "", nil, err
	}
	if err := validateColumns(columns); err != nil {
		return "", nil, err
	}

	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = d.dialect.QuoteIdentifier(col.Name)
	}
	where, args, err := filter.whereClause(d.dialect, 0)
	if err != nil {
		return "", nil, err
	}
	query := "SELECT " + strings.Join(names, ", ") +
		" FROM " + d.dialect.QuoteIdentifier(table) + where
	return query, args, nil
}

// QueryAll reads every row of table matching filter, decoding each column
// with its tag. Rows come back in the order the backend produced them; no
// client-side ordering is applied, so the order is backend-defined. An
// empty table yields an empty, non-nil slice.
func (d *Database) QueryAll(ctx context.Context, table string, columns []types.Column, filter Filter) ([]*types.RowMap, error) {
	query, args, err := d.selectSQL(table, columns, filter)
	if err != nil {
		return nil, err
	}

	var result []*types.RowMap
	err = d.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return d.dialect.Classify(err)
		}
		defer rows.Close()

		result, err = d.decodeRows(rows, columns)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// QueryOne reads a single row matching filter, or ErrNoRows when there is
// none. Which row matches first is backend-defined, as with QueryAll.
func (d *Database) QueryOne(ctx context.Context, table string, columns []types.Column, filter Filter) (*types.RowMap, error) {
	query, args, err := d.selectSQL(table, columns, filter)
	if err != nil {
		return nil, err
	}
	query += " LIMIT 1"

	var result *types.RowMap
	err = d.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return d.dialect.Classify(err)
		}
		defer rows.Close()

		decoded, err := d.decodeRows(rows, columns)
		if err != nil {
			return err
		}
		if len(decoded) == 0 {
			return ErrNoRows
		}
		result = decoded[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// InsertAll inserts the given rows into table in one statement and returns
// the number of rows inserted. Every row must have one value per column.
// Inserting zero rows is a no-op.
func (d *Database) InsertAll(ctx context.Context, table string, columns []string, rowValues [][]any) (int64, error) {
	if err := validateIdentifier(table); err != nil {
		return 0, err
	}
	if len(columns) == 0 {
		return 0, dberr.New(dberr.KindInterface, "at least one column is required")
	}
	names := make([]string, len(columns))
	for i, col := range columns {
		if err := validateIdentifier(col); err != nil {
			return 0, err
		}
		names[i] = d.dialect.QuoteIdentifier(col)
	}
	if len(rowValues) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(d.dialect.QuoteIdentifier(table))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(names, ", "))
	sb.WriteString(") VALUES ")

	args := make([]any, 0, len(rowValues)*len(columns))
	for i, row := range rowValues {
		if len(row) != len(columns) {
			return 0, dberr.Newf(dberr.KindInterface,
				"row %d has %d values for %d columns", i, len(row), len(columns))
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			args = append(args, row[j])
			sb.WriteString(d.dialect.Placeholder(len(args)))
		}
		sb.WriteString(")")
	}

	return d.exec(ctx, sb.String(), args)
}

// DeleteAll deletes every row of table matching filter and returns the
// number of rows removed. A nil filter empties the table.
func (d *Database) DeleteAll(ctx context.Context, table string, filter Filter) (int64, error) {
	if err := validateIdentifier(table); err != nil {
		return 0, err
	}
	where, args, err := filter.whereClause(d.dialect, 0)
	if err != nil {
		return 0, err
	}
	return d.exec(ctx, "DELETE FROM "+d.dialect.QuoteIdentifier(table)+where, args)
}

// Exec runs a raw statement on one pooled connection and returns the
// affected-row count. Intended for DDL and statements outside the structured
// surface; errors are classified like every other operation.
func (d *Database) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return d.exec(ctx, query, args)
}

func (d *Database) exec(ctx context.Context, query string, args []any) (int64, error) {
	var affected int64
	err := d.withConn(ctx, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, query, args...)
		if err != nil {
			return d.dialect.Classify(err)
		}
		// Not every backend reports affected rows for every statement;
		// treat an unavailable count as zero rather than a failure.
		if n, err := res.RowsAffected(); err == nil {
			affected = n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
