package constants

// Extract

const (
	TimeFormatYearSeconds         = "20060102T150405" // used for human readable file names
	TimeFormatYearSecondsRegex    = "[0-9]{4}[0-9]{2}[0-9]{2}T[0-9]{6}"
	TimeFormatYearSecondsTZ       = "20060102T150405-0700"
	OracleConnectionDefaultParams = "prefetch_rows=500"
	OracleCurrentSchemaSql        = "SELECT SYS_CONTEXT('USERENV', 'CURRENT_SCHEMA') FROM DUAL"
	OracleNumberDataType          = "NUMBER"
	DefaultCastPrecision          = 22
	DefaultCastScale              = 0
	MaxOracleNumberPrecision      = 38
	DefaultLocalOutputDirectory   = "parquet_output"
	DefaultRowsPerRowGroup        = 65536
	DefaultSharePointOutputDir    = "sharepoint_output"
	DefaultConfigFile             = "config.yaml"
	DefaultEnvFile                = ".env"
	TempFileSuffix                = ".tmp"
	LakehouseFilesRoot            = "Files"
	DefaultOneLakeEndpoint        = "https://onelake.blob.fabric.microsoft.com"
	DefaultSharePointDocLibrary   = "Shared Documents"
	UploadTargetOneLake           = "onelake"
	UploadTargetS3                = "s3"
	ExitCodeSetupError            = 1
	ExitCodeTableFailures         = 2
	ExitCodeNothingToProcess      = 3
	EmojiBang                     = "\U0001F4A5"
	EnvVarPrefix                  = "LP" // prefix for environment variables owned by lakepipe
	LpPluginOracle                = "lp-oracle-plugin.so"
	EnvVarPluginDir               = EnvVarPrefix + "_PLUGIN_DIR"
	EnvVarLogLevel                = EnvVarPrefix + "_LOG_LEVEL"
	ConnectionTypeOracle          = "oracle"
	ConnectionTypeMockOracle      = "mockOracle"
)

// Environment variables read by the extract and fetch actions.

const (
	EnvVarOracleUser         = "ORACLE_DB_USER"
	EnvVarOraclePassword     = "ORACLE_DB_PASSWORD"
	EnvVarOracleDsn          = "ORACLE_DB_DSN"
	EnvVarOracleClientLibDir = "ORACLE_CLIENT_LIB_DIR"
	EnvVarFabricTenantID     = "FABRIC_TENANT_ID"
	EnvVarFabricClientID     = "FABRIC_CLIENT_ID"
	EnvVarFabricClientSecret = "FABRIC_CLIENT_SECRET"
	EnvVarSharePointUsername = "SHAREPOINT_USERNAME"
	EnvVarSharePointPassword = "SHAREPOINT_PASSWORD"
)
