package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sqlmend/sqlmend/pkg/schema"
)

// SchemaService manages the schema index lifecycle.
type SchemaService interface {
	// Refresh re-extracts the database schema and rebuilds the index.
	Refresh(ctx context.Context) (*RefreshResult, error)

	// Tables lists the qualified names of all indexed schema units.
	Tables() []string

	// Info returns the rendered schema for every indexed unit,
	// refreshing lazily when nothing has been indexed yet.
	Info(ctx context.Context) (*SchemaInfo, error)
}

// SchemaInfo is the full rendered schema dump.
type SchemaInfo struct {
	Tables []TableDescription `json:"tables"`
}

// TableDescription is one table's rendered schema text.
type TableDescription struct {
	Name string `json:"name"`
	Text string `json:"schema"`
}

// RefreshResult summarizes one completed refresh.
type RefreshResult struct {
	Tables   int           `json:"tables"`
	Duration time.Duration `json:"-"`
}

// SchemaExtractor builds schema units from the live database.
type SchemaExtractor interface {
	Build(ctx context.Context) ([]schema.Unit, error)
}

// SchemaIndexer embeds units and serves the current generation.
type SchemaIndexer interface {
	Refresh(ctx context.Context, units []schema.Unit) error
	UnitNames() []string
	Snapshot() []schema.Entry
}

type schemaService struct {
	extractor SchemaExtractor
	indexer   SchemaIndexer
	logger    *zap.Logger
}

// NewSchemaService creates a schema service over the extractor and index.
func NewSchemaService(extractor SchemaExtractor, indexer SchemaIndexer, logger *zap.Logger) SchemaService {
	return &schemaService{
		extractor: extractor,
		indexer:   indexer,
		logger:    logger.Named("schema"),
	}
}

// Refresh extracts the current schema and swaps in a new index
// generation. On failure the previous generation keeps serving.
func (s *schemaService) Refresh(ctx context.Context) (*RefreshResult, error) {
	start := time.Now()

	units, err := s.extractor.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("extract schema: %w", err)
	}

	if err := s.indexer.Refresh(ctx, units); err != nil {
		return nil, fmt.Errorf("refresh index: %w", err)
	}

	result := &RefreshResult{Tables: len(units), Duration: time.Since(start)}
	s.logger.Info("schema refreshed",
		zap.Int("tables", result.Tables),
		zap.Duration("duration", result.Duration))
	return result, nil
}

// Tables lists the indexed unit names in stable order.
func (s *schemaService) Tables() []string {
	return s.indexer.UnitNames()
}

// Info returns the rendered schema for every indexed unit. An empty
// index triggers a refresh first, so the first caller after startup
// still gets a dump.
func (s *schemaService) Info(ctx context.Context) (*SchemaInfo, error) {
	snap := s.indexer.Snapshot()
	if len(snap) == 0 {
		if _, err := s.Refresh(ctx); err != nil {
			return nil, err
		}
		snap = s.indexer.Snapshot()
	}

	info := &SchemaInfo{Tables: make([]TableDescription, len(snap))}
	for i, e := range snap {
		info.Tables[i] = TableDescription{Name: e.UnitID, Text: e.Text}
	}
	return info, nil
}
