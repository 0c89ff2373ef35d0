package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sqlmend/sqlmend/pkg/apperrors"
	"github.com/sqlmend/sqlmend/pkg/services"
)

// AskRequest is the POST /query body. MaxRetries is optional; omitting
// it selects the configured default.
type AskRequest struct {
	Question   string `json:"question"`
	MaxRetries *int   `json:"max_retries,omitempty"`
}

// QueryHandler answers natural-language questions over HTTP.
type QueryHandler struct {
	queryService services.QueryService
	logger       *zap.Logger
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(queryService services.QueryService, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{
		queryService: queryService,
		logger:       logger,
	}
}

// RegisterRoutes registers the query handler's routes on the given mux.
func (h *QueryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /query", h.Ask)
}

// Ask handles POST /query requests.
// Runs one self-healing query session and returns its outcome. An
// exhausted session is still a 200: the body carries success=false with
// the attempt history.
func (h *QueryHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	maxRetries := -1
	if req.MaxRetries != nil {
		if *req.MaxRetries < 0 {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "max_retries must not be negative")
			return
		}
		maxRetries = *req.MaxRetries
	}

	resp, err := h.queryService.Ask(r.Context(), req.Question, maxRetries)
	if err != nil {
		h.writeAskError(w, r.Context(), err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode query response", zap.Error(err))
	}
}

func (h *QueryHandler) writeAskError(w http.ResponseWriter, ctx context.Context, err error) {
	var rejected *services.QuestionRejectedError
	switch {
	case errors.As(err, &rejected):
		_ = ErrorResponse(w, http.StatusBadRequest, "question_rejected", rejected.Reason)
	case errors.Is(err, apperrors.ErrIndexEmpty):
		// The service cannot answer anything until a refresh lands.
		_ = ErrorResponse(w, http.StatusServiceUnavailable, "index_empty", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// Client went away or timed out; 499-style close without a body.
		w.WriteHeader(http.StatusServiceUnavailable)
	default:
		h.logger.Error("Query pipeline failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "query execution failed")
	}
}
