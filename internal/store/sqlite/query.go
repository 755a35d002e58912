package sqlite

import (
	"strings"

	"account-api/internal/store"
)

// The build functions lower typed arguments into a single parameterized
// statement. Values always become ? placeholders; table and column names are
// trusted caller input and are interpolated unescaped.

func buildSelect(table string, columns []string, filters store.Fields) (string, []any, error) {
	if table == "" {
		return "", nil, store.ErrMissingTable
	}

	cols := "*"
	if len(columns) > 0 {
		cols = strings.Join(columns, ", ")
	}

	query := "SELECT " + cols + " FROM " + table
	where, args := whereClause(filters)
	if where != "" {
		query += " WHERE " + where
	}
	return query, args, nil
}

func buildInsert(table string, data store.Fields) (string, []any, error) {
	if table == "" {
		return "", nil, store.ErrMissingTable
	}
	if len(data) == 0 {
		return "", nil, store.ErrMissingData
	}

	placeholders := make([]string, len(data))
	for i := range data {
		placeholders[i] = "?"
	}

	query := "INSERT INTO " + table +
		" (" + strings.Join(data.Names(), ", ") + ")" +
		" VALUES (" + strings.Join(placeholders, ", ") + ")"
	return query, data.Values(), nil
}

func buildUpdate(table string, data store.Fields, filters store.Fields) (string, []any, error) {
	if table == "" {
		return "", nil, store.ErrMissingTable
	}
	if len(data) == 0 {
		return "", nil, store.ErrMissingData
	}
	if len(filters) == 0 {
		return "", nil, store.ErrUnsafeOperation
	}

	setClauses := make([]string, len(data))
	for i, f := range data {
		setClauses[i] = f.Name + " = ?"
	}
	where, whereArgs := whereClause(filters)

	// SET values bind first, WHERE values after.
	args := append(data.Values(), whereArgs...)
	query := "UPDATE " + table + " SET " + strings.Join(setClauses, ", ") + " WHERE " + where
	return query, args, nil
}

func buildDelete(table string, filters store.Fields) (string, []any, error) {
	if table == "" {
		return "", nil, store.ErrMissingTable
	}
	if len(filters) == 0 {
		return "", nil, store.ErrUnsafeOperation
	}

	where, args := whereClause(filters)
	query := "DELETE FROM " + table + " WHERE " + where
	return query, args, nil
}

func whereClause(filters store.Fields) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}
	clauses := make([]string, len(filters))
	for i, f := range filters {
		clauses[i] = f.Name + " = ?"
	}
	return strings.Join(clauses, " AND "), filters.Values()
}
