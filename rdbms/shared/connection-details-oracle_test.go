package shared

import (
	"strings"
	"testing"
)

func TestOracleConnectionDetails_ConnectString(t *testing.T) {
	d := OracleConnectionDetails{User: "scott", Password: "ti/ger@1", Dsn: "dbhost:1521/ORCLPDB1"}
	got := d.ConnectString()
	expected := "oracle://scott/ti%2Fger%401@dbhost:1521/ORCLPDB1?prefetch_rows=500"
	if got != expected {
		t.Fatalf("expected %v; got %v", expected, got)
	}
	// Params supplied by the user are kept.
	d.Dsn = "dbhost:1521/ORCLPDB1?prefetch_rows=10"
	got = d.ConnectString()
	if !strings.HasSuffix(got, "?prefetch_rows=10") {
		t.Fatalf("expected user params to be preserved; got %v", got)
	}
}

func TestOracleConnectionDetails_String(t *testing.T) {
	d := OracleConnectionDetails{User: "scott", Password: "tiger", Dsn: "TNSALIAS"}
	got := d.String()
	if strings.Contains(got, "tiger") {
		t.Fatalf("password was not redacted: %v", got)
	}
	if got != "oracle://scott/xxxxx@TNSALIAS" {
		t.Fatalf("unexpected string: %v", got)
	}
}
