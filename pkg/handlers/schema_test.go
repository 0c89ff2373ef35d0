package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sqlmend/sqlmend/pkg/services"
)

func newSchemaMux(svc *mockSchemaService) *http.ServeMux {
	mux := http.NewServeMux()
	NewSchemaHandler(svc, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestRefreshEndpoint(t *testing.T) {
	svc := &mockSchemaService{
		RefreshFunc: func(ctx context.Context) (*services.RefreshResult, error) {
			return &services.RefreshResult{Tables: 12, Duration: 1500 * time.Millisecond}, nil
		},
	}
	mux := newSchemaMux(svc)

	req := httptest.NewRequest(http.MethodPost, "/schema/refresh", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp RefreshResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 12, resp.Tables)
	assert.Equal(t, int64(1500), resp.DurationMS)
	assert.Equal(t, "ok", resp.Status)
}

func TestRefreshEndpointFailure(t *testing.T) {
	svc := &mockSchemaService{
		RefreshFunc: func(ctx context.Context) (*services.RefreshResult, error) {
			return nil, errors.New("connect: password=secret refused")
		},
	}
	mux := newSchemaMux(svc)

	req := httptest.NewRequest(http.MethodPost, "/schema/refresh", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestInfoEndpoint(t *testing.T) {
	svc := &mockSchemaService{
		InfoFunc: func(ctx context.Context) (*services.SchemaInfo, error) {
			return &services.SchemaInfo{Tables: []services.TableDescription{
				{Name: "public.customers", Text: "Table: public.customers"},
			}}, nil
		},
	}
	mux := newSchemaMux(svc)

	req := httptest.NewRequest(http.MethodGet, "/schema/info", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp services.SchemaInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Tables, 1)
	assert.Equal(t, "public.customers", resp.Tables[0].Name)
	assert.Equal(t, "Table: public.customers", resp.Tables[0].Text)
}

func TestInfoEndpointFailure(t *testing.T) {
	svc := &mockSchemaService{
		InfoFunc: func(ctx context.Context) (*services.SchemaInfo, error) {
			return nil, errors.New("connect: password=secret refused")
		},
	}
	mux := newSchemaMux(svc)

	req := httptest.NewRequest(http.MethodGet, "/schema/info", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestTablesEndpoint(t *testing.T) {
	svc := &mockSchemaService{
		TablesFunc: func() []string {
			return []string{"public.customers", "public.orders"}
		},
	}
	mux := newSchemaMux(svc)

	req := httptest.NewRequest(http.MethodGet, "/schema/tables", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp TablesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"public.customers", "public.orders"}, resp.Tables)
}

func TestTablesEndpointEmptyIndex(t *testing.T) {
	svc := &mockSchemaService{}
	mux := newSchemaMux(svc)

	req := httptest.NewRequest(http.MethodGet, "/schema/tables", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// Empty index serializes as an empty array, not null.
	assert.JSONEq(t, `{"tables":[]}`, rec.Body.String())
}
