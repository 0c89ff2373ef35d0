package sql

import (
	"fmt"
	"strings"

	libinjection "github.com/corazawaf/libinjection-go"
)

// dangerousKeywords are operations a generated query must never
// perform, regardless of what the model produced.
var dangerousKeywords = []string{
	"DROP",
	"TRUNCATE",
	"ALTER",
	"CREATE USER",
	"GRANT",
	"REVOKE",
	"KILL",
	"SHUTDOWN",
	"EXECUTE",
	"LOAD_FILE",
}

// DangerousStatementError reports which forbidden keyword a generated
// statement contained.
type DangerousStatementError struct {
	Keyword string
}

// Error implements the error interface.
func (e *DangerousStatementError) Error() string {
	return fmt.Sprintf("statement contains forbidden keyword %s", e.Keyword)
}

// CheckStatement screens a generated SQL statement for destructive
// operations. Returns a *DangerousStatementError naming the first
// forbidden keyword found, or nil if the statement is clean.
func CheckStatement(sqlQuery string) error {
	upper := strings.ToUpper(sqlQuery)
	for _, keyword := range dangerousKeywords {
		if containsKeyword(upper, keyword) {
			return &DangerousStatementError{Keyword: keyword}
		}
	}
	return nil
}

// QuestionInjectionResult describes an injection pattern detected in a
// user question.
type QuestionInjectionResult struct {
	Fingerprint string
}

// CheckQuestion uses libinjection to detect raw SQL injection payloads
// smuggled in as natural-language questions. Legitimate questions about
// data never fingerprint as SQLi; a literal payload does.
//
// Returns nil when the question is clean.
func CheckQuestion(question string) *QuestionInjectionResult {
	isSQLi, fingerprint := libinjection.IsSQLi(question)
	if isSQLi {
		return &QuestionInjectionResult{Fingerprint: string(fingerprint)}
	}
	return nil
}

// containsKeyword matches keyword as a whole word (or phrase) so that
// e.g. a column named "dropped_at" does not trip the DROP check.
func containsKeyword(upperSQL, keyword string) bool {
	idx := 0
	for {
		pos := strings.Index(upperSQL[idx:], keyword)
		if pos < 0 {
			return false
		}
		pos += idx

		beforeOK := pos == 0 || !isWordChar(upperSQL[pos-1])
		end := pos + len(keyword)
		afterOK := end == len(upperSQL) || !isWordChar(upperSQL[end])
		if beforeOK && afterOK {
			return true
		}
		idx = pos + 1
	}
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z')
}
