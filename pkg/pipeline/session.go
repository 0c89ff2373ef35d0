// Package pipeline implements the generate-execute-repair loop that
// turns a natural-language question into an executed SQL query.
package pipeline

import (
	"github.com/google/uuid"

	"github.com/sqlmend/sqlmend/pkg/db"
	"github.com/sqlmend/sqlmend/pkg/schema"
)

// State is a position in the loop's state machine.
type State string

const (
	StateGenerating State = "generating"
	StateExecuting  State = "executing"
	StateRepairing  State = "repairing"
	StateSuccess    State = "success"
	StateExhausted  State = "exhausted"
)

// Outcome classifies one attempt.
type Outcome string

const (
	OutcomePending Outcome = "pending"
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Attempt is one generation-or-repair cycle within a session.
type Attempt struct {
	Ordinal int     // 1-based position in the session
	SQL     string  // generated SQL; empty if generation itself failed
	Outcome Outcome
	Error   string // error detail when Outcome is failure
}

// Session is the bounded sequence of attempts answering one question.
// It is an explicit value threaded through the loop, never shared
// between requests, so concurrent sessions cannot interfere.
type Session struct {
	ID         uuid.UUID
	Question   string
	MaxRetries int

	// Context is the schema context retrieved once at session start
	// and reused by every repair prompt.
	Context []schema.Entry

	State    State
	Attempts []Attempt

	// FinalSQL and Result are set when the session succeeds.
	FinalSQL string
	Result   *db.QueryResult
}

// NewSession creates a session for one question with its retrieved
// schema context fixed for the session's lifetime.
func NewSession(question string, maxRetries int, context []schema.Entry) *Session {
	return &Session{
		ID:         uuid.New(),
		Question:   question,
		MaxRetries: maxRetries,
		Context:    context,
		State:      StateGenerating,
	}
}

// contextTexts returns the rendered schema blocks for prompt building.
func (s *Session) contextTexts() []string {
	texts := make([]string, len(s.Context))
	for i, e := range s.Context {
		texts[i] = e.Text
	}
	return texts
}

// recordFailure appends a failed attempt.
func (s *Session) recordFailure(sqlText, errText string) {
	s.Attempts = append(s.Attempts, Attempt{
		Ordinal: len(s.Attempts) + 1,
		SQL:     sqlText,
		Outcome: OutcomeFailure,
		Error:   errText,
	})
}

// markSuccess appends the successful attempt and finalizes the session.
func (s *Session) markSuccess(sqlText string, result *db.QueryResult) {
	s.Attempts = append(s.Attempts, Attempt{
		Ordinal: len(s.Attempts) + 1,
		SQL:     sqlText,
		Outcome: OutcomeSuccess,
	})
	s.FinalSQL = sqlText
	s.Result = result
	s.State = StateSuccess
}

// lastFailure returns the most recent failed SQL and its error text.
// Attempts whose generation failed outright (empty SQL) are skipped:
// there is no statement to repair.
func (s *Session) lastFailure() (sqlText, errText string, ok bool) {
	for i := len(s.Attempts) - 1; i >= 0; i-- {
		a := s.Attempts[i]
		if a.Outcome == OutcomeFailure && a.SQL != "" {
			return a.SQL, a.Error, true
		}
	}
	return "", "", false
}

// Err returns the terminal error of an exhausted session, nil otherwise.
func (s *Session) Err() error {
	if s.State != StateExhausted {
		return nil
	}
	lastSQL, lastErr := "", ""
	if n := len(s.Attempts); n > 0 {
		last := s.Attempts[n-1]
		lastSQL, lastErr = last.SQL, last.Error
	}
	return &ExhaustedError{
		SessionID: s.ID,
		Attempts:  len(s.Attempts),
		LastSQL:   lastSQL,
		LastError: lastErr,
	}
}
