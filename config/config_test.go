package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
oracle_settings:
  thick_mode_lib_dir: /opt/oracle/instantclient
processing_settings:
  base_local_output_directory: out
  cast_number_to_precision: 20
  tables_to_process:
    - oracle_table_name: SALES.ORDERS
      local_file_name: orders.parquet
      lakehouse_dest_folder_path: raw/sales
      lakehouse_dest_file_name: orders.parquet
    - oracle_table_name: CUSTOMERS
      local_file_name: customers.parquet
      lakehouse_dest_folder_path: raw/sales
      lakehouse_dest_file_name: customers.parquet
      cast_number_to_precision: 38
      cast_number_to_scale: 4
    - oracle_table_name: BROKEN
      local_file_name: broken.parquet
fabric_lakehouse_settings:
  workspace_id: ws
  lakehouse_id: lh
  colour: blue
`

func setOracleEnv(t *testing.T) {
	t.Setenv(constants.EnvVarOracleUser, "scott")
	t.Setenv(constants.EnvVarOraclePassword, "tiger")
	t.Setenv(constants.EnvVarOracleDsn, "db:1521/ORCL")
	t.Setenv(constants.EnvVarOracleClientLibDir, "")
	t.Setenv(constants.EnvVarFabricTenantID, "")
	t.Setenv(constants.EnvVarFabricClientID, "")
	t.Setenv(constants.EnvVarFabricClientSecret, "")
}

func TestParse(t *testing.T) {
	f, unused, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, []string{"fabric_lakehouse_settings.colour"}, unused)
	assert.Equal(t, "/opt/oracle/instantclient", f.OracleSettings.ThickModeLibDir)
	require.Len(t, f.ProcessingSettings.TablesToProcess, 3)
	assert.Equal(t, "SALES.ORDERS", f.ProcessingSettings.TablesToProcess[0].OracleTableName)
	require.NotNil(t, f.ProcessingSettings.CastNumberToPrecision)
	assert.Equal(t, 20, *f.ProcessingSettings.CastNumberToPrecision)
	assert.Nil(t, f.ProcessingSettings.CastNumberToScale)
}

func TestParseJSON(t *testing.T) {
	f, _, err := Parse([]byte(`{"processing_settings": {"tables_to_process": [{"oracle_table_name": "T"}]}}`))
	require.NoError(t, err)
	assert.Equal(t, "T", f.ProcessingSettings.TablesToProcess[0].OracleTableName)
}

func TestLoad(t *testing.T) {
	log := logger.NewLogger("lakepipe-test", "error", false)
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	require.NoError(t, ioutil.WriteFile(p, []byte(sampleConfig), 0644))
	f, err := Load(log, p)
	require.NoError(t, err)
	assert.Equal(t, p, f.Path())

	_, err = Load(log, filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	_, ok := err.(FileNotFoundError)
	assert.True(t, ok, "expected FileNotFoundError, got %T", err)

	require.NoError(t, ioutil.WriteFile(p, []byte("processing_settings: [unclosed"), 0644))
	_, err = Load(log, p)
	assert.Error(t, err)
}

func TestWithDefaults(t *testing.T) {
	f := (&File{}).WithDefaults()
	p := f.ProcessingSettings
	assert.Equal(t, constants.DefaultLocalOutputDirectory, p.BaseLocalOutputDirectory)
	assert.Equal(t, 22, *p.CastNumberToPrecision)
	assert.Equal(t, 0, *p.CastNumberToScale)
	assert.True(t, *p.RetainLocalFiles)
	assert.Equal(t, constants.UploadTargetOneLake, f.UploadTarget)
	assert.Equal(t, constants.DefaultOneLakeEndpoint, f.FabricLakehouseSettings.Endpoint)
	assert.Equal(t, "Shared Documents", f.SharePointSettings.DocumentLibrary)
}

func TestNewRunContext(t *testing.T) {
	setOracleEnv(t)
	f, _, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)
	rc, err := NewRunContext(f)
	require.NoError(t, err)

	assert.Equal(t, "scott", rc.Oracle.User)
	assert.Equal(t, "/opt/oracle/instantclient", rc.Oracle.ClientLibDir)
	assert.Equal(t, "out", rc.BaseOutputDirectory)
	assert.Equal(t, 20, rc.Precision)
	assert.Equal(t, 0, rc.Scale)
	assert.True(t, rc.RetainLocalFiles)
	require.Len(t, rc.Tables, 2)
	assert.Equal(t, TableJob{SourceTable: "SALES.ORDERS", LocalFile: "orders.parquet", DestFolder: "raw/sales", DestFileName: "orders.parquet", Precision: 20, Scale: 0}, rc.Tables[0])
	assert.Equal(t, 38, rc.Tables[1].Precision)
	assert.Equal(t, 4, rc.Tables[1].Scale)
	require.Len(t, rc.Skipped, 1)
	assert.Equal(t, 2, rc.Skipped[0].Index)
	assert.Equal(t, []string{"lakehouse_dest_folder_path", "lakehouse_dest_file_name"}, rc.Skipped[0].Missing)
	// No Fabric credentials so no uploads.
	assert.False(t, rc.Destination.Complete())
	assert.Contains(t, rc.Destination.Missing(), "FABRIC_TENANT_ID")
}

func TestNewRunContextEnvOverrides(t *testing.T) {
	setOracleEnv(t)
	t.Setenv(constants.EnvVarOracleClientLibDir, "/usr/lib/oracle")
	t.Setenv(constants.EnvVarFabricTenantID, "t")
	t.Setenv(constants.EnvVarFabricClientID, "c")
	t.Setenv(constants.EnvVarFabricClientSecret, "s")
	f, _, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)
	rc, err := NewRunContext(f)
	require.NoError(t, err)
	assert.Equal(t, "/usr/lib/oracle", rc.Oracle.ClientLibDir)
	assert.True(t, rc.Destination.Complete())
	assert.Equal(t, "ws", rc.Destination.Lakehouse.WorkspaceID)
}

func TestNewRunContextReportsAllErrors(t *testing.T) {
	setOracleEnv(t)
	t.Setenv(constants.EnvVarOracleUser, "")
	t.Setenv(constants.EnvVarOracleDsn, "")
	f, _, err := Parse([]byte(`
processing_settings:
  cast_number_to_precision: 50
  rows_per_row_group: -1
upload_target: ftp
`))
	require.NoError(t, err)
	_, err = NewRunContext(f)
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{"ORACLE_DB_USER", "ORACLE_DB_DSN", "cast_number_to_precision", "rows_per_row_group", "upload_target"} {
		assert.Contains(t, msg, want)
	}
	assert.NotContains(t, msg, "ORACLE_DB_PASSWORD")
}

func TestNewRunContextNoTables(t *testing.T) {
	setOracleEnv(t)
	rc, err := NewRunContext(&File{})
	require.NoError(t, err)
	assert.Empty(t, rc.Tables)
	assert.Empty(t, rc.Skipped)
}

func TestS3Destination(t *testing.T) {
	setOracleEnv(t)
	f, _, err := Parse([]byte(`
upload_target: S3
s3_settings:
  bucket: s3://lake/landing
  prefix: oracle
  region: eu-west-2
`))
	require.NoError(t, err)
	rc, err := NewRunContext(f)
	require.NoError(t, err)
	assert.Equal(t, constants.UploadTargetS3, rc.Destination.Target)
	assert.Equal(t, "lake", rc.Destination.S3.Name)
	assert.Equal(t, "landing/oracle", rc.Destination.S3.Prefix)
	assert.True(t, rc.Destination.Complete())

	f.S3Settings.Region = ""
	_, err = NewRunContext(f)
	assert.Error(t, err)
}

func TestNewFetchContext(t *testing.T) {
	setOracleEnv(t)
	t.Setenv(constants.EnvVarFabricTenantID, "t")
	t.Setenv(constants.EnvVarFabricClientID, "c")
	t.Setenv(constants.EnvVarFabricClientSecret, "")
	t.Setenv(constants.EnvVarSharePointUsername, "me@example.com")
	t.Setenv(constants.EnvVarSharePointPassword, "pw")
	f, _, err := Parse([]byte(`
sharepoint_settings:
  site_url: https://example.sharepoint.com/sites/Team
`))
	require.NoError(t, err)
	fc, err := NewFetchContext(f)
	require.NoError(t, err)
	assert.Equal(t, "Shared Documents", fc.SharePoint.DocumentLibrary)
	assert.Equal(t, "t", fc.SharePoint.TenantID)
	assert.False(t, fc.Destination.Complete())

	t.Setenv(constants.EnvVarSharePointPassword, "")
	_, err = NewFetchContext(f)
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	f, _, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)
	d := f.WithDefaults()
	b, err := d.Render()
	require.NoError(t, err)
	out := string(b)
	assert.True(t, strings.Contains(out, "oracle_table_name: SALES.ORDERS"), out)
	assert.Contains(t, out, "retain_local_files: true")
}

func TestLoadEnvFile(t *testing.T) {
	log := logger.NewLogger("lakepipe-test", "error", false)
	dir := t.TempDir()
	p := filepath.Join(dir, ".env")
	require.NoError(t, ioutil.WriteFile(p, []byte("LP_TEST_NEW=from-file\nLP_TEST_SET=from-file\n"), 0644))
	t.Setenv("LP_TEST_SET", "from-env")
	t.Setenv("LP_TEST_NEW", "")
	require.NoError(t, os.Unsetenv("LP_TEST_NEW"))
	require.NoError(t, LoadEnvFile(log, p))
	assert.Equal(t, "from-file", os.Getenv("LP_TEST_NEW"))
	assert.Equal(t, "from-env", os.Getenv("LP_TEST_SET"))
	assert.NoError(t, LoadEnvFile(log, filepath.Join(dir, "missing.env")))
}
