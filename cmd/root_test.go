package cmd

import (
	"bytes"
	"errors"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/relloyd/lakepipe/actions"
	"github.com/relloyd/lakepipe/constants"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		err      error
		expected int
	}{
		{errors.New("bad flag"), constants.ExitCodeSetupError},
		{&actions.ExitError{Code: constants.ExitCodeTableFailures, Err: errors.New("1 table(s) failed")}, constants.ExitCodeTableFailures},
		{pkgerrors.Wrap(&actions.ExitError{Code: constants.ExitCodeNothingToProcess, Err: actions.ErrNothingToProcess}, "wrapped"), constants.ExitCodeNothingToProcess},
	}
	for i, c := range cases {
		if got := exitCode(c.err); got != c.expected {
			t.Fatalf("case %v: expected exit code %v; got %v", i, c.expected, got)
		}
	}
}

func TestConfigShow(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	cfg := `
processing_settings:
  tables_to_process:
    - oracle_table_name: SALES.ORDERS
      local_file_name: orders.parquet
      lakehouse_dest_folder_path: raw
      lakehouse_dest_file_name: orders.parquet
`
	if err := ioutil.WriteFile(p, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"config", "show", "--config", p})
	defer rootCmd.SetArgs(nil)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range []string{
		"oracle_table_name: SALES.ORDERS",
		"cast_number_to_precision: 22",
		"base_local_output_directory: " + constants.DefaultLocalOutputDirectory,
		"endpoint: " + constants.DefaultOneLakeEndpoint,
	} {
		if !strings.Contains(out.String(), s) {
			t.Fatalf("expected output to contain %q; got:\n%v", s, out.String())
		}
	}
}

func TestVersion(t *testing.T) {
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), version) {
		t.Fatalf("expected version %v in output %q", version, out.String())
	}
}
