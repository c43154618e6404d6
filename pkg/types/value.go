package types

import (
	"encoding/json"
	"fmt"
)

// ValueTag identifies the semantic type of a single column value. Callers
// attach a tag to every requested column at query time; the decoder
// dispatches on it. The set is closed: the decoder switches exhaustively
// over these values.
type ValueTag int

const (
	TagNull ValueTag = iota
	TagString
	TagI64
	TagI32
	TagI16
	TagBool
	TagF64
	TagF32
	TagBinary
	TagTime
	TagDate
	TagDateTime
)

// tagNames maps each ValueTag to its canonical name. Used by String and
// ParseValueTag; keep in sync with the constant block above.
var tagNames = map[ValueTag]string{
	TagNull:     "null",
	TagString:   "string",
	TagI64:      "i64",
	TagI32:      "i32",
	TagI16:      "i16",
	TagBool:     "bool",
	TagF64:      "f64",
	TagF32:      "f32",
	TagBinary:   "binary",
	TagTime:     "time",
	TagDate:     "date",
	TagDateTime: "datetime",
}

func (t ValueTag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("valuetag(%d)", int(t))
}

// Valid reports whether t is a member of the closed tag set.
func (t ValueTag) Valid() bool {
	_, ok := tagNames[t]
	return ok
}

// ParseValueTag returns the ValueTag for a canonical tag name.
func ParseValueTag(name string) (ValueTag, error) {
	for tag, n := range tagNames {
		if n == name {
			return tag, nil
		}
	}
	return TagNull, fmt.Errorf("%w: %q", ErrUnknownValueTag, name)
}

// Column pairs a column name with the tag used to decode its values.
type Column struct {
	Name string
	Type ValueTag
}

// RowMap is an ordered mapping from column name to decoded value for one
// result row. Order is insertion order, which the decoder sets to the
// caller's requested column order. The zero value is not usable; construct
// with NewRowMap.
type RowMap struct {
	columns []string
	values  map[string]any
}

// NewRowMap returns an empty RowMap with capacity for n columns.
func NewRowMap(n int) *RowMap {
	return &RowMap{
		columns: make([]string, 0, n),
		values:  make(map[string]any, n),
	}
}

// Set stores a value under name. First insertion of a name fixes its
// position; setting an existing name overwrites in place.
func (r *RowMap) Set(name string, value any) {
	if _, ok := r.values[name]; !ok {
		r.columns = append(r.columns, name)
	}
	r.values[name] = value
}

// Get returns the value stored under name and whether it is present.
func (r *RowMap) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Columns returns the column names in insertion order. The returned slice
// is shared; callers must not modify it.
func (r *RowMap) Columns() []string {
	return r.columns
}

// Len returns the number of columns.
func (r *RowMap) Len() int {
	return len(r.columns)
}

// MarshalJSON renders the row as a JSON object with keys in column order.
func (r *RowMap) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, name := range r.columns {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[name])
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}
	return append(buf, '}'), nil
}
