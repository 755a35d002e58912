package store

import (
	"context"
	"errors"
)

var (
	// ErrMissingTable indicates an operation was called without a table name.
	ErrMissingTable = errors.New("table is required")
	// ErrMissingData indicates an insert or update was called with no column data.
	ErrMissingData = errors.New("no data provided")
	// ErrUnsafeOperation indicates an update or delete with no filters, which
	// would mutate the whole table. Rejected before any statement executes.
	ErrUnsafeOperation = errors.New("unsafe operation: update and delete require at least one filter")
	// ErrDriverNotRegistered indicates the database driver package is not linked in.
	ErrDriverNotRegistered = errors.New("database driver not registered")
)

// Field is a single column name/value pair.
type Field struct {
	Name  string
	Value any
}

// F is a shorthand constructor for a Field.
func F(name string, value any) Field {
	return Field{Name: name, Value: value}
}

// Fields is an ordered set of column name/value pairs. Order is significant:
// it fixes both the generated clause order and the bound parameter order.
// Used as equality filters (ANDed) or as insert/update column data.
type Fields []Field

// Names returns the field names in order.
func (f Fields) Names() []string {
	names := make([]string, len(f))
	for i := range f {
		names[i] = f[i].Name
	}
	return names
}

// Values returns the field values in order.
func (f Fields) Values() []any {
	values := make([]any, len(f))
	for i := range f {
		values[i] = f[i].Value
	}
	return values
}

// Row is a single result row keyed by column name.
type Row map[string]any

// Int64 returns the named column as an int64, or 0 when absent or non-numeric.
func (r Row) Int64(column string) int64 {
	switch v := r[column].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// String returns the named column as a string, or "" when absent.
func (r Row) String(column string) string {
	switch v := r[column].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return ""
}

// Store is the generic data-access capability set. Filter and data values are
// always bound through placeholders; table and column names are trusted caller
// input and are interpolated into the statement as-is.
//
// One implementation exists per engine; callers depend only on this interface.
type Store interface {
	// Select runs one parameterized SELECT. columns is the explicit projection
	// (all columns when empty); filters are ANDed equality constraints. An
	// empty result is a nil slice, not an error.
	Select(ctx context.Context, table string, columns []string, filters Fields) ([]Row, error)
	// Insert runs one parameterized INSERT and returns the generated row id.
	Insert(ctx context.Context, table string, data Fields) (int64, error)
	// Update runs one parameterized UPDATE and returns the affected row count.
	// Bound parameter order is SET values first, then WHERE values.
	Update(ctx context.Context, table string, data Fields, filters Fields) (int64, error)
	// Delete runs one parameterized DELETE and returns the affected row count.
	Delete(ctx context.Context, table string, filters Fields) (int64, error)
	// Exec runs a schema statement verbatim (CREATE TABLE and friends).
	Exec(ctx context.Context, stmt string) error
	Close() error
}
