package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleUnit() Unit {
	def := "now()"
	return Unit{
		SchemaName: "public",
		TableName:  "customer_order",
		RowCount:   1200,
		Columns: []Column{
			{Name: "id", DataType: "bigint", IsPrimaryKey: true},
			{Name: "customer_id", DataType: "bigint", Comment: "owning customer"},
			{Name: "placed_at", DataType: "timestamptz", IsNullable: true, Default: &def},
		},
		References: []Reference{
			{Column: "customer_id", ReferencedTable: "customers", ReferencedColumn: "id"},
		},
	}
}

func TestRenderDeclaration(t *testing.T) {
	text := Render(sampleUnit())

	assert.Contains(t, text, "Table: public.customer_order")
	assert.Contains(t, text, "CREATE TABLE public.customer_order (")
	assert.Contains(t, text, "id bigint NOT NULL PRIMARY KEY,")
	assert.Contains(t, text, "placed_at timestamptz DEFAULT now()")
	assert.Contains(t, text, "customer_id -> customers.id")
	assert.Contains(t, text, "customer_id: owning customer")
}

func TestRenderPurposeFallback(t *testing.T) {
	text := Render(sampleUnit())
	assert.Contains(t, text, "This table stores customer orders.")
}

func TestRenderPurposeFromComment(t *testing.T) {
	u := sampleUnit()
	u.Comment = "Orders placed through the storefront."
	text := Render(u)

	assert.Contains(t, text, "Orders placed through the storefront.")
	assert.NotContains(t, text, "This table stores")
}

func TestRenderOmitsEmptySections(t *testing.T) {
	u := Unit{
		SchemaName: "public",
		TableName:  "settings",
		Columns:    []Column{{Name: "key", DataType: "text"}},
	}
	text := Render(u)

	assert.NotContains(t, text, "Foreign key relationships")
	assert.NotContains(t, text, "Column descriptions")
}

func TestRenderDeterministic(t *testing.T) {
	u := sampleUnit()
	assert.Equal(t, Render(u), Render(u))
}

func TestRenderAll(t *testing.T) {
	units := []Unit{
		{SchemaName: "public", TableName: "a", Columns: []Column{{Name: "id", DataType: "int"}}},
		{SchemaName: "public", TableName: "b", Columns: []Column{{Name: "id", DataType: "int"}}},
	}
	text := RenderAll(units)
	assert.Contains(t, text, "Table: public.a")
	assert.Contains(t, text, "Table: public.b")
}

func TestHumanizeTableName(t *testing.T) {
	assert.Equal(t, "customer orders", humanizeTableName("customer_order"))
	assert.Equal(t, "addresses", humanizeTableName("address"))
	assert.Equal(t, "people", humanizeTableName("person"))
}
