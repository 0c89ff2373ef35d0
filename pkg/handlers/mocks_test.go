package handlers

import (
	"context"

	"github.com/sqlmend/sqlmend/pkg/pipeline"
	"github.com/sqlmend/sqlmend/pkg/services"
)

// mockQueryService implements services.QueryService with function fields.
type mockQueryService struct {
	AskFunc func(ctx context.Context, question string, maxRetries int) (*pipeline.Response, error)

	askCalls   int
	questions  []string
	maxRetries []int
}

func (m *mockQueryService) Ask(ctx context.Context, question string, maxRetries int) (*pipeline.Response, error) {
	m.askCalls++
	m.questions = append(m.questions, question)
	m.maxRetries = append(m.maxRetries, maxRetries)
	if m.AskFunc != nil {
		return m.AskFunc(ctx, question, maxRetries)
	}
	return &pipeline.Response{Success: true, SQL: "SELECT 1"}, nil
}

// mockSchemaService implements services.SchemaService with function fields.
type mockSchemaService struct {
	RefreshFunc func(ctx context.Context) (*services.RefreshResult, error)
	TablesFunc  func() []string
	InfoFunc    func(ctx context.Context) (*services.SchemaInfo, error)

	refreshCalls int
}

func (m *mockSchemaService) Refresh(ctx context.Context) (*services.RefreshResult, error) {
	m.refreshCalls++
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx)
	}
	return &services.RefreshResult{Tables: 0}, nil
}

func (m *mockSchemaService) Tables() []string {
	if m.TablesFunc != nil {
		return m.TablesFunc()
	}
	return nil
}

func (m *mockSchemaService) Info(ctx context.Context) (*services.SchemaInfo, error) {
	if m.InfoFunc != nil {
		return m.InfoFunc(ctx)
	}
	return &services.SchemaInfo{}, nil
}

// mockPinger implements Pinger.
type mockPinger struct {
	PingFunc func(ctx context.Context) error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}
