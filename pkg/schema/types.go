// Package schema builds retrievable descriptions of the target
// database's tables and serves similarity search over them.
package schema

import (
	"context"
	"fmt"
)

// Column describes one column of a table.
type Column struct {
	Name         string
	DataType     string
	IsNullable   bool
	IsPrimaryKey bool
	Default      *string
	Comment      string
}

// Reference is a foreign-key-like link from a column of this table to a
// column of another table.
type Reference struct {
	Column           string
	ReferencedTable  string
	ReferencedColumn string
}

// Unit is one table prepared for retrieval: structure, annotations and
// relation links. Units are immutable once built; a refresh rebuilds
// the full set.
type Unit struct {
	SchemaName string
	TableName  string
	Comment    string
	RowCount   int64
	Columns    []Column
	References []Reference
}

// QualifiedName returns "schema.table", the unit's stable identifier.
func (u Unit) QualifiedName() string {
	if u.SchemaName == "" {
		return u.TableName
	}
	return fmt.Sprintf("%s.%s", u.SchemaName, u.TableName)
}

// Source provides raw metadata for the builder. Implemented by the
// database client; faked in tests.
type Source interface {
	// Tables lists all user tables.
	Tables(ctx context.Context) ([]TableInfo, error)

	// Columns lists the columns of one table in ordinal order.
	Columns(ctx context.Context, schemaName, tableName string) ([]Column, error)

	// ForeignKeys lists all foreign key links in the database.
	ForeignKeys(ctx context.Context) ([]ForeignKey, error)
}

// TableInfo identifies a discovered table.
type TableInfo struct {
	SchemaName string
	TableName  string
	Comment    string
	RowCount   int64
}

// ForeignKey is a raw foreign key row from the metadata source.
type ForeignKey struct {
	SchemaName       string
	TableName        string
	ColumnName       string
	ReferencedTable  string
	ReferencedColumn string
}
