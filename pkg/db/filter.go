package db

import (
	"sort"
	"strings"

	"github.com/dukaforge/sqlbridge/internal/dialect"
)

// Filter restricts an operation to rows whose columns equal the given
// values, combined with AND. A nil value matches SQL NULL. A nil or empty
// Filter matches every row.
type Filter map[string]any

// whereClause compiles the filter into a WHERE fragment and its bind
// arguments. Terms are emitted in sorted column order so the generated SQL
// is deterministic. Placeholder numbering starts after argOffset.
func (f Filter) whereClause(dia dialect.Dialect, argOffset int) (string, []any, error) {
	if len(f) == 0 {
		return "", nil, nil
	}

	cols := make([]string, 0, len(f))
	for col := range f {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	terms := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for _, col := range cols {
		if err := validateIdentifier(col); err != nil {
			return "", nil, err
		}
		quoted := dia.QuoteIdentifier(col)
		if f[col] == nil {
			terms = append(terms, quoted+" IS NULL")
			continue
		}
		args = append(args, f[col])
		terms = append(terms, quoted+" = "+dia.Placeholder(argOffset+len(args)))
	}
	return " WHERE " + strings.Join(terms, " AND "), args, nil
}
