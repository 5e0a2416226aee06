// Package models declares the ClickHouse row types and column schemas for the
// indexer's tables. Column lists are the single source of truth: table DDL and
// insert statements are both generated from them.
package models

import (
	"fmt"
	"strings"
)

// ColumnDef defines a single table column.
type ColumnDef struct {
	Name string
	// Type is the ClickHouse data type (e.g. "UInt64", "String", "DateTime").
	Type string
	// Codec is the optional compression codec, empty for none.
	Codec string
}

// SQL returns the column definition for CREATE TABLE statements.
func (c ColumnDef) SQL() string {
	if c.Codec != "" {
		return fmt.Sprintf("%s %s CODEC(%s)", c.Name, c.Type, c.Codec)
	}
	return fmt.Sprintf("%s %s", c.Name, c.Type)
}

// ColumnsToSchemaSQL renders a column list as the body of a CREATE TABLE.
func ColumnsToSchemaSQL(cols []ColumnDef) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c.SQL()
	}
	return strings.Join(parts, ",\n\t\t\t")
}

// ColumnNames renders a comma-separated column name list for INSERT statements.
func ColumnNames(cols []ColumnDef) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c.Name
	}
	return strings.Join(parts, ", ")
}
