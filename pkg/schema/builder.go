package schema

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// Builder extracts table metadata from a Source and assembles ordered
// Units. The output ordering is deterministic (by qualified name) so a
// rebuilt index is reproducible across refreshes.
type Builder struct {
	source Source
	logger *zap.Logger
}

// NewBuilder creates a builder over the given metadata source.
func NewBuilder(source Source, logger *zap.Logger) *Builder {
	return &Builder{
		source: source,
		logger: logger.Named("schema"),
	}
}

// Build extracts the full schema in one pass. Any source failure aborts
// the whole build with an ExtractionError; there is no partial result.
// Missing annotations (comments, row counts) degrade the rendered text
// but never fail the build.
func (b *Builder) Build(ctx context.Context) ([]Unit, error) {
	tables, err := b.source.Tables(ctx)
	if err != nil {
		return nil, &ExtractionError{Stage: "tables", Cause: err}
	}

	fks, err := b.source.ForeignKeys(ctx)
	if err != nil {
		return nil, &ExtractionError{Stage: "foreign keys", Cause: err}
	}

	refsByTable := make(map[string][]Reference)
	for _, fk := range fks {
		key := fk.SchemaName + "." + fk.TableName
		refsByTable[key] = append(refsByTable[key], Reference{
			Column:           fk.ColumnName,
			ReferencedTable:  fk.ReferencedTable,
			ReferencedColumn: fk.ReferencedColumn,
		})
	}

	units := make([]Unit, 0, len(tables))
	for _, t := range tables {
		columns, err := b.source.Columns(ctx, t.SchemaName, t.TableName)
		if err != nil {
			return nil, &ExtractionError{Stage: "columns of " + t.TableName, Cause: err}
		}

		unit := Unit{
			SchemaName: t.SchemaName,
			TableName:  t.TableName,
			Comment:    t.Comment,
			RowCount:   t.RowCount,
			Columns:    columns,
			References: refsByTable[t.SchemaName+"."+t.TableName],
		}
		units = append(units, unit)

		b.logger.Debug("built schema unit",
			zap.String("table", unit.QualifiedName()),
			zap.Int("columns", len(columns)),
			zap.Int("references", len(unit.References)))
	}

	sort.Slice(units, func(i, j int) bool {
		return units[i].QualifiedName() < units[j].QualifiedName()
	})

	b.logger.Info("schema build complete", zap.Int("tables", len(units)))
	return units, nil
}
