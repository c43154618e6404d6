package db

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dukaforge/sqlbridge/pkg/dberr"
	"github.com/dukaforge/sqlbridge/pkg/types"
)

// Accepted textual layouts per temporal tag. Drivers that parse timestamps
// themselves hand back time.Time directly; SQLite stores text, so the
// decoder accepts the common storage forms too.
var (
	dateTimeLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}
	dateLayouts = []string{"2006-01-02"}
	timeLayouts = []string{"15:04:05.999999999", "15:04:05", "15:04"}
)

// decodeRows drains rows into RowMaps, dispatching each column on its tag.
// Values are first scanned untyped so that a conversion failure can name
// the exact column and tag it occurred on.
func (d *Database) decodeRows(rows *sql.Rows, columns []types.Column) ([]*types.RowMap, error) {
	result := make([]*types.RowMap, 0)
	for rows.Next() {
		raw := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, d.dialect.Classify(err)
		}

		row := types.NewRowMap(len(columns))
		for i, col := range columns {
			value, err := convertValue(raw[i], col.Type)
			if err != nil {
				if derr, ok := err.(*dberr.Error); ok {
					return nil, derr
				}
				return nil, dberr.Newf(dberr.KindData,
					"decode column %q as %s: %v", col.Name, col.Type, err)
			}
			row.Set(col.Name, value)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, d.dialect.Classify(err)
	}
	return result, nil
}

// convertValue converts one stored value to the Go representation of its
// tag. SQL NULL converts to nil for every tag. A stored type that cannot
// represent the tag is a conversion error, never a silent nil.
func convertValue(raw any, tag types.ValueTag) (any, error) {
	if raw == nil {
		return nil, nil
	}

	switch tag {
	case types.TagNull:
		return nil, nil

	case types.TagString:
		switch v := raw.(type) {
		case string:
			return v, nil
		case []byte:
			return string(v), nil
		}

	case types.TagI64:
		n, err := toInt64(raw)
		if err != nil {
			return nil, err
		}
		return n, nil

	case types.TagI32:
		n, err := toInt64(raw)
		if err != nil {
			return nil, err
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return nil, fmt.Errorf("value %d out of int32 range", n)
		}
		return int32(n), nil

	case types.TagI16:
		n, err := toInt64(raw)
		if err != nil {
			return nil, err
		}
		if n < math.MinInt16 || n > math.MaxInt16 {
			return nil, fmt.Errorf("value %d out of int16 range", n)
		}
		return int16(n), nil

	case types.TagBool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case int64:
			// SQLite has no boolean storage class; 0/1 integers are
			// the conventional encoding.
			switch v {
			case 0:
				return false, nil
			case 1:
				return true, nil
			}
			return nil, fmt.Errorf("integer %d is not a boolean", v)
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, err
			}
			return b, nil
		case []byte:
			b, err := strconv.ParseBool(string(v))
			if err != nil {
				return nil, err
			}
			return b, nil
		}

	case types.TagF64:
		f, err := toFloat64(raw)
		if err != nil {
			return nil, err
		}
		return f, nil

	case types.TagF32:
		f, err := toFloat64(raw)
		if err != nil {
			return nil, err
		}
		if !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
			return nil, fmt.Errorf("value %g out of float32 range", f)
		}
		return float32(f), nil

	case types.TagBinary:
		switch v := raw.(type) {
		case []byte:
			return v, nil
		case string:
			return []byte(v), nil
		}

	case types.TagTime:
		return toTime(raw, timeLayouts)

	case types.TagDate:
		return toTime(raw, dateLayouts)

	case types.TagDateTime:
		return toTime(raw, dateTimeLayouts)

	default:
		return nil, dberr.Newf(dberr.KindNotSupported, "value tag %s is not supported", tag)
	}

	return nil, fmt.Errorf("stored type %T does not match tag %s", raw, tag)
}

func toInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	case []byte:
		return strconv.ParseInt(string(v), 10, 64)
	}
	return 0, fmt.Errorf("stored type %T is not an integer", raw)
}

func toFloat64(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	case []byte:
		return strconv.ParseFloat(string(v), 64)
	}
	return 0, fmt.Errorf("stored type %T is not a float", raw)
}

func toTime(raw any, layouts []string) (any, error) {
	var text string
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		return nil, fmt.Errorf("stored type %T is not a timestamp", raw)
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("cannot parse %q with any accepted layout", text)
}
