package schema

import (
	"fmt"
	"strings"

	"github.com/jinzhu/inflection"
)

// Render serializes a unit into the canonical text block that gets
// embedded and placed into prompts. The block carries a declaration-
// equivalent structure plus every available annotation; absent
// annotations are simply omitted.
func Render(u Unit) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Table: %s\n", u.QualifiedName())
	b.WriteString(strings.Repeat("=", 50))
	b.WriteString("\n")

	// Declaration-equivalent structure.
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", u.QualifiedName())
	for i, col := range u.Columns {
		fmt.Fprintf(&b, "    %s %s", col.Name, col.DataType)
		if !col.IsNullable {
			b.WriteString(" NOT NULL")
		}
		if col.IsPrimaryKey {
			b.WriteString(" PRIMARY KEY")
		}
		if col.Default != nil {
			fmt.Fprintf(&b, " DEFAULT %s", *col.Default)
		}
		if i < len(u.Columns)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(");\n")

	// Column annotations.
	annotated := false
	for _, col := range u.Columns {
		if col.Comment == "" {
			continue
		}
		if !annotated {
			b.WriteString("\nColumn descriptions:\n")
			annotated = true
		}
		fmt.Fprintf(&b, "  - %s: %s\n", col.Name, col.Comment)
	}

	if len(u.References) > 0 {
		b.WriteString("\nForeign key relationships:\n")
		for _, ref := range u.References {
			fmt.Fprintf(&b, "  - %s -> %s.%s\n", ref.Column, ref.ReferencedTable, ref.ReferencedColumn)
		}
	}

	b.WriteString("\nPurpose:\n")
	if u.Comment != "" {
		b.WriteString(u.Comment)
		b.WriteString("\n")
	} else {
		fmt.Fprintf(&b, "This table stores %s.\n", humanizeTableName(u.TableName))
	}

	return b.String()
}

// RenderAll renders every unit separated by blank lines, in input order.
func RenderAll(units []Unit) string {
	blocks := make([]string, len(units))
	for i, u := range units {
		blocks[i] = Render(u)
	}
	return strings.Join(blocks, "\n")
}

// humanizeTableName turns "customer_order" into "customer orders" for
// the fallback purpose line.
func humanizeTableName(name string) string {
	words := strings.Split(name, "_")
	if len(words) == 0 {
		return name
	}
	words[len(words)-1] = inflection.Plural(words[len(words)-1])
	return strings.Join(words, " ")
}
