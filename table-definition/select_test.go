package tabledefinition

import (
	"strings"
	"testing"
)

func TestBuildExtractionQuery(t *testing.T) {
	cols := []ColumnDescriptor{
		{Name: "ID", DataType: "VARCHAR2"},
		{Name: "AMOUNT", DataType: "NUMBER"},
		{Name: "STATUS", DataType: "VARCHAR2"},
	}
	// Note ID is declared as VARCHAR2 here so it is not cast.
	q, ok := BuildExtractionQuery("SALES", "ORDERS", cols, 22, 0)
	if !ok {
		t.Fatal("expected a query to be built")
	}
	expected := `SELECT "ID", CAST("AMOUNT" AS NUMBER(22,0)) AS "AMOUNT", "STATUS" FROM "SALES"."ORDERS"`
	if q != expected {
		t.Fatalf("expected:\n%v\ngot:\n%v", expected, q)
	}
}

func TestBuildExtractionQueryCastsEveryNumber(t *testing.T) {
	cols := []ColumnDescriptor{
		{Name: "ID", DataType: "NUMBER"},
		{Name: "PRICE", DataType: "number"},
		{Name: "CREATED", DataType: "DATE"},
	}
	q, ok := BuildExtractionQuery("S", "T", cols, 38, 4)
	if !ok {
		t.Fatal("expected a query to be built")
	}
	expected := `SELECT CAST("ID" AS NUMBER(38,4)) AS "ID", CAST("PRICE" AS NUMBER(38,4)) AS "PRICE", "CREATED" FROM "S"."T"`
	if q != expected {
		t.Fatalf("expected:\n%v\ngot:\n%v", expected, q)
	}
	if strings.Count(q, "CAST(") != 2 {
		t.Fatalf("expected exactly two casts in %v", q)
	}
}

func TestBuildExtractionQueryQuoting(t *testing.T) {
	cols := []ColumnDescriptor{
		{Name: `ODD"NAME`, DataType: "VARCHAR2"},
		{Name: "select", DataType: "CHAR"},
	}
	q, ok := BuildExtractionQuery("MixedCase", `we"ird`, cols, 22, 0)
	if !ok {
		t.Fatal("expected a query to be built")
	}
	expected := `SELECT "ODD""NAME", "select" FROM "MixedCase"."we""ird"`
	if q != expected {
		t.Fatalf("expected:\n%v\ngot:\n%v", expected, q)
	}
}

func TestBuildExtractionQueryNoColumns(t *testing.T) {
	if q, ok := BuildExtractionQuery("SALES", "ORDERS", nil, 22, 0); ok || q != "" {
		t.Fatalf("expected no query for an empty column list, got %q", q)
	}
	if _, ok := BuildExtractionQuery("SALES", "ORDERS", []ColumnDescriptor{}, 22, 0); ok {
		t.Fatal("expected no query for an empty column list")
	}
}
