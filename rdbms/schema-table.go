package rdbms

import (
	"strings"

	"github.com/relloyd/lakepipe/helper"
)

// SchemaTable is a table identifier of the form [<schema>.]<table> where either part may be
// double quoted to preserve case, e.g. sales.orders, "Sales"."Orders" or "random.table".
type SchemaTable struct {
	SchemaTable string `errorTxt:"[<schema>.]<object>" mandatory:"yes"`
}

func NewSchemaTable(schema string, table string) SchemaTable {
	if schema == "" {
		return SchemaTable{table}
	}
	return SchemaTable{schema + "." + table}
}

// separatorIndex returns the index of the first '.' that is not inside double quotes, or -1.
func (st *SchemaTable) separatorIndex() int {
	inQuotes := false
	for i, r := range st.SchemaTable {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case '.':
			if !inQuotes {
				return i
			}
		}
	}
	return -1
}

// GetTable returns the table part as written, including any quotes.
func (st *SchemaTable) GetTable() string {
	s := strings.TrimSpace(st.SchemaTable)
	i := (&SchemaTable{s}).separatorIndex()
	if i < 0 { // if we have just a table...
		return s
	}
	return s[i+1:]
}

// GetSchema returns the schema part as written, including any quotes, or "" if there isn't one.
func (st *SchemaTable) GetSchema() string {
	s := strings.TrimSpace(st.SchemaTable)
	i := (&SchemaTable{s}).separatorIndex()
	if i < 0 {
		return ""
	}
	return s[:i]
}

// HasSchema is true when an owner was supplied.
func (st *SchemaTable) HasSchema() bool {
	return st.GetSchema() != ""
}

// Owner returns the schema as Oracle stores it in the catalog:
// upper case unless it was quoted.
func (st *SchemaTable) Owner() string {
	return helper.ToUpperIfNotQuoted(st.GetSchema())
}

// Table returns the table name as Oracle stores it in the catalog.
func (st *SchemaTable) Table() string {
	return helper.ToUpperIfNotQuoted(st.GetTable())
}

func (st *SchemaTable) String() string {
	return st.SchemaTable
}
