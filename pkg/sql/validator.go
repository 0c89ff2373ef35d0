package sql

import (
	"errors"
	"strings"
)

// ErrMultipleStatements indicates the query contains multiple SQL
// statements; only single statements are executed.
var ErrMultipleStatements = errors.New("multiple SQL statements not allowed; only single statements are permitted")

// Normalize strips the trailing semicolon and rejects statements that
// still contain a semicolon outside string literals (i.e. more than
// one statement).
func Normalize(sqlQuery string) (string, error) {
	sqlQuery = strings.TrimSpace(sqlQuery)
	if sqlQuery == "" {
		return "", nil
	}

	normalized := stripTrailingSemicolon(sqlQuery)

	if hasSemicolonOutsideStrings(normalized) {
		return "", ErrMultipleStatements
	}

	return normalized, nil
}

// hasSemicolonOutsideStrings returns true if the SQL contains any
// semicolon outside of string literals.
func hasSemicolonOutsideStrings(sqlQuery string) bool {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
	)

	state := stateNormal
	prevChar := rune(0)

	for _, char := range sqlQuery {
		switch state {
		case stateNormal:
			switch char {
			case ';':
				return true
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			}
		case stateSingleQuote:
			// Both backslash escape (\') and SQL doubled quote ('')
			// keep us inside the literal: a doubled quote exits and
			// immediately re-enters on the next character.
			if char == '\'' && prevChar != '\\' {
				state = stateNormal
			}
		case stateDoubleQuote:
			if char == '"' && prevChar != '\\' {
				state = stateNormal
			}
		}
		prevChar = char
	}

	return false
}

// stripTrailingSemicolon removes a trailing semicolon and surrounding
// whitespace.
func stripTrailingSemicolon(sqlQuery string) string {
	sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	if strings.HasSuffix(sqlQuery, ";") {
		sqlQuery = strings.TrimSuffix(sqlQuery, ";")
		sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	}
	return sqlQuery
}
