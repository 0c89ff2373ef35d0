package db

import (
	"context"
	"fmt"

	"github.com/sqlmend/sqlmend/pkg/schema"
)

// Tables returns all user tables with their comments and estimated row
// counts, excluding system schemas.
func (c *Client) Tables(ctx context.Context) ([]schema.TableInfo, error) {
	const query = `
		SELECT
			t.table_schema,
			t.table_name,
			COALESCE(obj_description(cl.oid, 'pg_class'), '') AS table_comment,
			COALESCE(cl.reltuples::bigint, 0) AS row_count
		FROM information_schema.tables t
		LEFT JOIN pg_class cl ON cl.relname = t.table_name
		LEFT JOIN pg_namespace n ON n.oid = cl.relnamespace AND n.nspname = t.table_schema
		WHERE t.table_type = 'BASE TABLE'
		  AND t.table_schema NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
		ORDER BY t.table_schema, t.table_name
	`

	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var tables []schema.TableInfo
	for rows.Next() {
		var t schema.TableInfo
		if err := rows.Scan(&t.SchemaName, &t.TableName, &t.Comment, &t.RowCount); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	return tables, nil
}

// Columns returns the columns of one table in ordinal order.
// Primary key detection goes through pg_index, which also catches PKs
// created as unique indexes by ORMs.
func (c *Client) Columns(ctx context.Context, schemaName, tableName string) ([]schema.Column, error) {
	const query = `
		SELECT
			c.column_name,
			c.data_type,
			c.is_nullable = 'YES' AS is_nullable,
			COALESCE(pk.is_pk, false) AS is_primary_key,
			c.column_default,
			COALESCE(col_description(cl.oid, c.ordinal_position), '') AS column_comment
		FROM information_schema.columns c
		LEFT JOIN pg_class cl ON cl.relname = c.table_name
		LEFT JOIN pg_namespace n ON n.oid = cl.relnamespace AND n.nspname = c.table_schema
		LEFT JOIN (
			SELECT a.attname AS column_name, true AS is_pk
			FROM pg_index ix
			JOIN pg_class t ON t.oid = ix.indrelid
			JOIN pg_namespace ns ON ns.oid = t.relnamespace
			JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
			WHERE ix.indisprimary = true
			  AND ns.nspname = $1
			  AND t.relname = $2
		) pk ON c.column_name = pk.column_name
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position
	`

	rows, err := c.pool.Query(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		if err := rows.Scan(&col.Name, &col.DataType, &col.IsNullable, &col.IsPrimaryKey, &col.Default, &col.Comment); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}

	return columns, nil
}

// ForeignKeys returns all foreign key links between user tables.
func (c *Client) ForeignKeys(ctx context.Context) ([]schema.ForeignKey, error) {
	const query = `
		SELECT
			tc.table_schema,
			tc.table_name,
			kcu.column_name,
			ccu.table_name AS referenced_table,
			ccu.column_name AS referenced_column
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name
		 AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
		  ON ccu.constraint_name = tc.constraint_name
		 AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
		ORDER BY tc.table_schema, tc.table_name, kcu.column_name
	`

	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query foreign keys: %w", err)
	}
	defer rows.Close()

	var fks []schema.ForeignKey
	for rows.Next() {
		var fk schema.ForeignKey
		if err := rows.Scan(&fk.SchemaName, &fk.TableName, &fk.ColumnName, &fk.ReferencedTable, &fk.ReferencedColumn); err != nil {
			return nil, fmt.Errorf("scan foreign key: %w", err)
		}
		fks = append(fks, fk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foreign keys: %w", err)
	}

	return fks, nil
}

// Ensure Client implements the schema builder's source contract.
var _ schema.Source = (*Client)(nil)
