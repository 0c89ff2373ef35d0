package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// QueryResult holds the rows and column names of a successful query.
type QueryResult struct {
	Columns []string
	Rows    []map[string]any
}

// ExecError is a query-level database rejection: the SQL reached the
// server and the server refused it. Its text is fed back verbatim into
// repair prompts, so the format must stay stable.
type ExecError struct {
	Code    string // SQLSTATE code, e.g. "42703"
	Message string
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("ERROR %s: %s", e.Code, e.Message)
}

// Execute runs a SQL statement and collects its result set.
//
// Errors come in two flavors: a *ExecError means the server rejected
// the statement (repairable); any other error is an infrastructure
// fault (connection loss, cancellation) and is not worth a repair
// prompt. limit > 0 caps the result set for SELECT statements.
func (c *Client) Execute(ctx context.Context, sqlQuery string, limit int) (*QueryResult, error) {
	queryToRun := sqlQuery
	if limit > 0 && isRowReturning(sqlQuery) {
		queryToRun = fmt.Sprintf("SELECT * FROM (%s) AS _limited LIMIT %d", sqlQuery, limit)
	}

	rows, err := c.pool.Query(ctx, queryToRun)
	if err != nil {
		return nil, classifyExecError(err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = string(fd.Name)
	}

	resultRows := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}

		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			rowMap[col] = values[i]
		}
		resultRows = append(resultRows, rowMap)
	}

	if err := rows.Err(); err != nil {
		return nil, classifyExecError(err)
	}

	return &QueryResult{
		Columns: columns,
		Rows:    resultRows,
	}, nil
}

// classifyExecError converts server rejections into *ExecError and
// leaves infrastructure faults untouched.
func classifyExecError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &ExecError{
			Code:    pgErr.Code,
			Message: pgErr.Message,
		}
	}
	return fmt.Errorf("execute query: %w", err)
}

// isRowReturning reports whether the statement produces a result set
// that can be wrapped in a LIMIT subquery.
func isRowReturning(sqlQuery string) bool {
	head := strings.ToUpper(strings.TrimSpace(sqlQuery))
	return strings.HasPrefix(head, "SELECT") || strings.HasPrefix(head, "WITH")
}
