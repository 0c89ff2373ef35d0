package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/sqlmend/sqlmend/pkg/services"
)

// RefreshResponse is the POST /schema/refresh result.
type RefreshResponse struct {
	Tables     int    `json:"tables"`
	DurationMS int64  `json:"duration_ms"`
	Status     string `json:"status"`
}

// TablesResponse is the GET /schema/tables result.
type TablesResponse struct {
	Tables []string `json:"tables"`
}

// SchemaHandler exposes schema index management over HTTP.
type SchemaHandler struct {
	schemaService services.SchemaService
	logger        *zap.Logger
}

// NewSchemaHandler creates a new schema handler.
func NewSchemaHandler(schemaService services.SchemaService, logger *zap.Logger) *SchemaHandler {
	return &SchemaHandler{
		schemaService: schemaService,
		logger:        logger,
	}
}

// RegisterRoutes registers the schema handler's routes on the given mux.
func (h *SchemaHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /schema/refresh", h.Refresh)
	mux.HandleFunc("GET /schema/tables", h.Tables)
	mux.HandleFunc("GET /schema/info", h.Info)
}

// Refresh handles POST /schema/refresh requests.
// Re-extracts the database schema and rebuilds the vector index.
func (h *SchemaHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.schemaService.Refresh(r.Context())
	if err != nil {
		h.logger.Error("Schema refresh failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "refresh_failed", "schema refresh failed")
		return
	}

	resp := RefreshResponse{
		Tables:     result.Tables,
		DurationMS: result.Duration.Milliseconds(),
		Status:     "ok",
	}
	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode refresh response", zap.Error(err))
	}
}

// Info handles GET /schema/info requests.
// Returns the rendered schema text for every indexed table; an empty
// index triggers a refresh first.
func (h *SchemaHandler) Info(w http.ResponseWriter, r *http.Request) {
	info, err := h.schemaService.Info(r.Context())
	if err != nil {
		h.logger.Error("Schema info failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "schema_info_failed", "schema info unavailable")
		return
	}
	if info.Tables == nil {
		info.Tables = []services.TableDescription{}
	}
	if err := WriteJSON(w, http.StatusOK, info); err != nil {
		h.logger.Error("Failed to encode schema info response", zap.Error(err))
	}
}

// Tables handles GET /schema/tables requests.
// Lists the qualified names of all indexed tables.
func (h *SchemaHandler) Tables(w http.ResponseWriter, r *http.Request) {
	names := h.schemaService.Tables()
	if names == nil {
		names = []string{}
	}
	if err := WriteJSON(w, http.StatusOK, TablesResponse{Tables: names}); err != nil {
		h.logger.Error("Failed to encode tables response", zap.Error(err))
	}
}
