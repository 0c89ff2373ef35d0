// Package services holds the application layer between HTTP handlers
// and the pipeline, schema, and database packages.
package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sqlmend/sqlmend/pkg/pipeline"
	sqltext "github.com/sqlmend/sqlmend/pkg/sql"
)

// QueryService answers natural-language questions with executed SQL.
type QueryService interface {
	// Ask runs one self-healing query session. maxRetries < 0 selects
	// the configured default; values above the ceiling are clamped.
	Ask(ctx context.Context, question string, maxRetries int) (*pipeline.Response, error)
}

// QueryRunner is the pipeline capability the service drives.
type QueryRunner interface {
	Run(ctx context.Context, question string, maxRetries int) (*pipeline.Session, error)
}

// QuestionRejectedError reports a question that failed input screening.
type QuestionRejectedError struct {
	Reason string
}

// Error implements the error interface.
func (e *QuestionRejectedError) Error() string {
	return fmt.Sprintf("question rejected: %s", e.Reason)
}

// RetryPolicy bounds the per-request retry budget.
type RetryPolicy struct {
	Default int // used when the caller does not specify
	Ceiling int // hard cap on caller-specified budgets
}

type queryService struct {
	runner QueryRunner
	policy RetryPolicy
	logger *zap.Logger
}

// NewQueryService creates a query service over the pipeline loop.
func NewQueryService(runner QueryRunner, policy RetryPolicy, logger *zap.Logger) QueryService {
	return &queryService{
		runner: runner,
		policy: policy,
		logger: logger.Named("query"),
	}
}

// Ask validates and screens the question, resolves the retry budget,
// runs the session, and formats the outcome.
func (s *queryService) Ask(ctx context.Context, question string, maxRetries int) (*pipeline.Response, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, &QuestionRejectedError{Reason: "question is empty"}
	}

	if hit := sqltext.CheckQuestion(question); hit != nil {
		s.logger.Warn("question flagged as injection payload",
			zap.String("fingerprint", hit.Fingerprint))
		return nil, &QuestionRejectedError{Reason: "question looks like a SQL injection payload"}
	}

	budget := s.resolveBudget(maxRetries)

	sess, err := s.runner.Run(ctx, question, budget)
	if err != nil {
		return nil, err
	}
	return pipeline.Format(sess), nil
}

// resolveBudget applies the default and ceiling to a requested budget.
func (s *queryService) resolveBudget(requested int) int {
	if requested < 0 {
		return s.policy.Default
	}
	if requested > s.policy.Ceiling {
		return s.policy.Ceiling
	}
	return requested
}
