package pipeline

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/sqlmend/sqlmend/pkg/db"
	"github.com/sqlmend/sqlmend/pkg/logging"
	"github.com/sqlmend/sqlmend/pkg/prompts"
	"github.com/sqlmend/sqlmend/pkg/schema"
	sqltext "github.com/sqlmend/sqlmend/pkg/sql"
)

// Retriever is the similarity-search capability of the schema index.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]schema.Entry, error)
}

// Generator is the completion capability of the LLM client.
type Generator interface {
	GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error)
}

// Executor runs SQL against the target database.
type Executor interface {
	Execute(ctx context.Context, sqlQuery string, limit int) (*db.QueryResult, error)
}

// Options tune a loop.
type Options struct {
	TopK        int     // schema units retrieved per session
	RowLimit    int     // result row cap, 0 for unlimited
	Temperature float64 // completion temperature
}

// Loop orchestrates one session at a time through the state machine
// GENERATING -> EXECUTING -> {SUCCESS, REPAIRING -> GENERATING, EXHAUSTED}.
// A Loop is stateless between runs and safe for concurrent use.
type Loop struct {
	retriever Retriever
	generator Generator
	executor  Executor
	opts      Options
	logger    *zap.Logger
}

// NewLoop creates a loop over the given collaborators.
func NewLoop(retriever Retriever, generator Generator, executor Executor, opts Options, logger *zap.Logger) *Loop {
	return &Loop{
		retriever: retriever,
		generator: generator,
		executor:  executor,
		opts:      opts,
		logger:    logger.Named("pipeline"),
	}
}

// Run answers one question. The schema context is retrieved once and
// fixed for the whole session; each failed execution feeds its error
// text back into a repair prompt until an attempt succeeds or the
// budget of maxRetries+1 attempts is spent.
//
// A returned error is an infrastructure fault (empty index, database
// unreachable, caller cancellation). Query-level failures never escape
// as errors; they terminate the returned session as StateExhausted.
func (l *Loop) Run(ctx context.Context, question string, maxRetries int) (*Session, error) {
	entries, err := l.retriever.Search(ctx, question, l.opts.TopK)
	if err != nil {
		return nil, err
	}

	sess := NewSession(question, maxRetries, entries)
	log := l.logger.With(zap.String("session_id", sess.ID.String()))
	log.Info("session started",
		zap.Int("max_retries", maxRetries),
		zap.Int("schema_units", len(entries)))

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sess.State = StateGenerating
		prompt, system := l.composePrompt(sess)

		raw, err := l.generator.GenerateResponse(ctx, prompt, system, l.opts.Temperature)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			genErr := &GenerationError{Cause: err}
			log.Warn("generation failed", zap.Int("attempt", attempt+1), zap.Error(genErr))
			// No new database error to report: the next attempt reuses
			// the same prompt rather than a repair prompt.
			sess.recordFailure("", genErr.Error())
			continue
		}

		stmt, err := sqltext.ExtractFromResponse(raw)
		if err != nil {
			genErr := &GenerationError{Cause: err}
			log.Warn("generation produced no SQL", zap.Int("attempt", attempt+1), zap.Error(genErr))
			sess.recordFailure("", genErr.Error())
			continue
		}

		// Normalization and safety rejections behave like execution
		// failures: the statement and the rejection text go into the
		// next repair prompt so the model can correct course.
		if normalized, err := sqltext.Normalize(stmt); err != nil {
			log.Warn("statement rejected", zap.Int("attempt", attempt+1), zap.Error(err))
			sess.recordFailure(stmt, err.Error())
			sess.State = StateRepairing
			continue
		} else {
			stmt = normalized
		}

		if err := sqltext.CheckStatement(stmt); err != nil {
			log.Warn("statement rejected by safety screen",
				zap.Int("attempt", attempt+1),
				zap.String("sql", logging.SanitizeQuery(stmt)),
				zap.Error(err))
			sess.recordFailure(stmt, err.Error())
			sess.State = StateRepairing
			continue
		}

		sess.State = StateExecuting
		log.Debug("executing", zap.Int("attempt", attempt+1), zap.String("sql", logging.SanitizeQuery(stmt)))

		result, err := l.executor.Execute(ctx, stmt, l.opts.RowLimit)
		if err != nil {
			var execErr *db.ExecError
			if errors.As(err, &execErr) {
				log.Info("execution failed",
					zap.Int("attempt", attempt+1),
					zap.String("code", execErr.Code))
				sess.recordFailure(stmt, execErr.Error())
				sess.State = StateRepairing
				continue
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			// Driver-level fault: not repairable, not query-level.
			log.Error("execution infrastructure fault", zap.String("error", logging.SanitizeError(err)))
			return nil, err
		}

		sess.markSuccess(stmt, result)
		log.Info("session succeeded",
			zap.Int("attempts", len(sess.Attempts)),
			zap.Int("rows", len(result.Rows)))
		return sess, nil
	}

	sess.State = StateExhausted
	log.Warn("session exhausted", zap.Int("attempts", len(sess.Attempts)))
	return sess, nil
}

// composePrompt picks the initial or repair prompt depending on whether
// the session has a failed statement to correct.
func (l *Loop) composePrompt(sess *Session) (prompt, system string) {
	if failedSQL, errText, ok := sess.lastFailure(); ok {
		return prompts.BuildRepairPrompt(sess.Question, sess.contextTexts(), failedSQL, errText),
			prompts.RepairSystemMessage
	}
	return prompts.BuildGenerationPrompt(sess.Question, sess.contextTexts()),
		prompts.GenerationSystemMessage
}
