package tabledefinition

import (
	"fmt"
	"strings"

	"github.com/relloyd/lakepipe/helper"
)

// BuildExtractionQuery generates the SELECT used to extract owner.table.
// Columns are selected in the order given. NUMBER columns are cast to NUMBER(precision,scale)
// and aliased back to their own name; everything else is selected as is.
// All identifiers are quoted so case and reserved words survive.
// It returns false if there are no columns.
func BuildExtractionQuery(owner string, table string, columns []ColumnDescriptor, precision int, scale int) (string, bool) {
	if len(columns) == 0 {
		return "", false
	}
	clauses := make([]string, len(columns))
	for i, c := range columns {
		col := helper.QuoteIdentifier(c.Name)
		if c.IsNumber() {
			clauses[i] = fmt.Sprintf("CAST(%v AS NUMBER(%v,%v)) AS %v", col, precision, scale, col)
		} else {
			clauses[i] = col
		}
	}
	return fmt.Sprintf("SELECT %v FROM %v.%v",
		strings.Join(clauses, ", "),
		helper.QuoteIdentifier(owner),
		helper.QuoteIdentifier(table)), true
}
