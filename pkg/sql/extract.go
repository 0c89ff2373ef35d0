// Package sql provides text-level handling of generated SQL: extraction
// from model responses, normalization, and safety screening.
package sql

import (
	"errors"
	"strings"
)

// ErrEmptyResponse means the model response contained no SQL after
// fence and comment stripping.
var ErrEmptyResponse = errors.New("model response contained no SQL")

// ExtractFromResponse pulls a single SQL statement out of a model
// response. Models tend to wrap SQL in markdown fences and sometimes
// append commentary; everything but the statement itself is dropped
// and the surviving lines are joined into one.
func ExtractFromResponse(response string) (string, error) {
	text := strings.TrimSpace(response)

	if strings.HasPrefix(text, "```sql") {
		text = strings.TrimPrefix(text, "```sql")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
	}
	if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	text = strings.TrimSpace(text)

	var sqlLines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") || strings.HasPrefix(line, "#") {
			continue
		}
		sqlLines = append(sqlLines, line)
	}

	if len(sqlLines) == 0 {
		return "", ErrEmptyResponse
	}
	return strings.Join(sqlLines, " "), nil
}
