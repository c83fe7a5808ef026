package config

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/relloyd/lakepipe/aws/s3"
	"github.com/relloyd/lakepipe/azure/onelake"
	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/helper"
	"github.com/relloyd/lakepipe/rdbms/shared"
	"github.com/relloyd/lakepipe/sharepoint"
	"go.uber.org/multierr"
)

// TableJob is a validated table extraction.
type TableJob struct {
	SourceTable  string // "owner.table" or "table"
	LocalFile    string
	DestFolder   string
	DestFileName string
	Precision    int
	Scale        int
}

// SkippedTable is a tables_to_process entry that was missing required values.
type SkippedTable struct {
	Index   int
	Entry   TableSpec
	Missing []string
}

// Destination is where finished files are uploaded.
type Destination struct {
	Target    string // constants.UploadTargetOneLake or constants.UploadTargetS3
	Lakehouse onelake.Settings
	S3        s3.AwsS3Bucket
}

// Complete is true when there is enough configuration to upload.
func (d Destination) Complete() bool {
	if d.Target == constants.UploadTargetS3 {
		return helper.ValidateStructIsPopulated(d.S3) == nil
	}
	return d.Lakehouse.Complete()
}

// Missing lists what is needed before uploads can happen.
func (d Destination) Missing() []string {
	missing := make([]string, 0)
	if d.Target == constants.UploadTargetS3 {
		helper.GetStructErrorTxt4UnsetFields(d.S3, &missing)
		return missing
	}
	return d.Lakehouse.Missing()
}

// RunContext is the validated configuration of an extract run.
// It is built once and not modified afterwards.
type RunContext struct {
	Oracle              shared.OracleConnectionDetails
	BaseOutputDirectory string
	Precision           int
	Scale               int
	RetainLocalFiles    bool
	RowsPerRowGroup     int
	Tables              []TableJob
	Skipped             []SkippedTable
	Destination         Destination
}

// NewRunContext combines the config file with credentials from the environment.
// Every problem found is returned in one error. Incomplete table entries are not errors;
// they are listed in Skipped.
func NewRunContext(f *File) (*RunContext, error) {
	cfg := f.WithDefaults()
	p := cfg.ProcessingSettings
	var errs error

	rc := &RunContext{
		Precision:        *p.CastNumberToPrecision,
		Scale:            *p.CastNumberToScale,
		RetainLocalFiles: *p.RetainLocalFiles,
		RowsPerRowGroup:  p.RowsPerRowGroup,
	}
	// Oracle credentials.
	_ = helper.ReadValueFromEnv(constants.EnvVarOracleUser, &rc.Oracle.User)
	_ = helper.ReadValueFromEnv(constants.EnvVarOraclePassword, &rc.Oracle.Password)
	_ = helper.ReadValueFromEnv(constants.EnvVarOracleDsn, &rc.Oracle.Dsn)
	if err := helper.ValidateStructIsPopulated(rc.Oracle); err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "missing Oracle credentials"))
	}
	libDir, err := expandPath(helper.FirstNonEmpty(
		helper.ReadValueFromEnvWithDefault(constants.EnvVarOracleClientLibDir, ""),
		strings.TrimSpace(cfg.OracleSettings.ThickModeLibDir)))
	errs = multierr.Append(errs, err)
	rc.Oracle.ClientLibDir = libDir
	// Processing settings.
	rc.BaseOutputDirectory, err = expandPath(strings.TrimSpace(p.BaseLocalOutputDirectory))
	errs = multierr.Append(errs, err)
	errs = multierr.Append(errs, validateCast("processing_settings", rc.Precision, rc.Scale))
	if rc.RowsPerRowGroup < 0 {
		errs = multierr.Append(errs, fmt.Errorf("processing_settings.rows_per_row_group must be positive, got %v", rc.RowsPerRowGroup))
	}
	for idx, t := range p.TablesToProcess {
		t = trimTableSpec(t)
		missing := make([]string, 0)
		helper.GetStructErrorTxt4UnsetFields(t, &missing)
		if len(missing) > 0 {
			rc.Skipped = append(rc.Skipped, SkippedTable{Index: idx, Entry: t, Missing: missing})
			continue
		}
		job := TableJob{
			SourceTable:  t.OracleTableName,
			LocalFile:    t.LocalFileName,
			DestFolder:   t.LakehouseDestFolderPath,
			DestFileName: t.LakehouseDestFileName,
			Precision:    rc.Precision,
			Scale:        rc.Scale,
		}
		if t.CastNumberToPrecision != nil {
			job.Precision = *t.CastNumberToPrecision
		}
		if t.CastNumberToScale != nil {
			job.Scale = *t.CastNumberToScale
		}
		if t.CastNumberToPrecision != nil || t.CastNumberToScale != nil {
			errs = multierr.Append(errs, validateCast(fmt.Sprintf("tables_to_process[%v] (%v)", idx, t.OracleTableName), job.Precision, job.Scale))
		}
		rc.Tables = append(rc.Tables, job)
	}
	// Destination.
	rc.Destination, err = newDestination(cfg)
	errs = multierr.Append(errs, err)
	if errs != nil {
		return nil, errs
	}
	return rc, nil
}

// FetchContext is the validated configuration of a SharePoint fetch.
type FetchContext struct {
	SharePoint  sharepoint.Settings
	Destination Destination
}

// NewFetchContext combines the config file with SharePoint and lakehouse credentials from the environment.
func NewFetchContext(f *File) (*FetchContext, error) {
	cfg := f.WithDefaults()
	sp := cfg.SharePointSettings
	fc := &FetchContext{
		SharePoint: sharepoint.Settings{
			SiteURL:         strings.TrimSpace(sp.SiteURL),
			DocumentLibrary: strings.TrimSpace(sp.DocumentLibrary),
			TenantID: helper.FirstNonEmpty(strings.TrimSpace(sp.TenantID),
				helper.ReadValueFromEnvWithDefault(constants.EnvVarFabricTenantID, "")),
			ClientID:     helper.ReadValueFromEnvWithDefault(constants.EnvVarFabricClientID, ""),
			ClientSecret: helper.ReadValueFromEnvWithDefault(constants.EnvVarFabricClientSecret, ""),
			Username:     helper.ReadValueFromEnvWithDefault(constants.EnvVarSharePointUsername, ""),
			Password:     helper.ReadValueFromEnvWithDefault(constants.EnvVarSharePointPassword, ""),
		},
	}
	var errs error
	errs = multierr.Append(errs, fc.SharePoint.Validate())
	var err error
	fc.Destination, err = newDestination(cfg)
	errs = multierr.Append(errs, err)
	if errs != nil {
		return nil, errs
	}
	return fc, nil
}

func newDestination(cfg File) (Destination, error) {
	d := Destination{Target: strings.ToLower(strings.TrimSpace(cfg.UploadTarget))}
	d.Lakehouse = onelake.Settings{
		TenantID:     helper.ReadValueFromEnvWithDefault(constants.EnvVarFabricTenantID, ""),
		ClientID:     helper.ReadValueFromEnvWithDefault(constants.EnvVarFabricClientID, ""),
		ClientSecret: helper.ReadValueFromEnvWithDefault(constants.EnvVarFabricClientSecret, ""),
		WorkspaceID:  strings.TrimSpace(cfg.FabricLakehouseSettings.WorkspaceID),
		LakehouseID:  strings.TrimSpace(cfg.FabricLakehouseSettings.LakehouseID),
		Endpoint:     strings.TrimSpace(cfg.FabricLakehouseSettings.Endpoint),
	}
	switch d.Target {
	case constants.UploadTargetOneLake:
	case constants.UploadTargetS3:
		s := cfg.S3Settings
		if strings.TrimSpace(s.Bucket) == "" || strings.TrimSpace(s.Region) == "" {
			return d, fmt.Errorf("upload_target is %v so s3_settings.bucket and s3_settings.region are required", d.Target)
		}
		b, err := s3.ParseDSN(strings.TrimSpace(s.Bucket), strings.TrimSpace(s.Region))
		if err != nil {
			return d, errors.Wrap(err, "invalid s3_settings")
		}
		if p := strings.Trim(s.Prefix, "/ "); p != "" {
			b.Prefix = strings.Trim(b.Prefix+"/"+p, "/")
		}
		d.S3 = b
	default:
		return d, fmt.Errorf("upload_target must be %v or %v, got %q", constants.UploadTargetOneLake, constants.UploadTargetS3, cfg.UploadTarget)
	}
	return d, nil
}

func validateCast(where string, precision, scale int) error {
	if precision < 1 || precision > constants.MaxOracleNumberPrecision {
		return fmt.Errorf("%v: cast_number_to_precision must be between 1 and %v, got %v", where, constants.MaxOracleNumberPrecision, precision)
	}
	if scale < 0 || scale > precision {
		return fmt.Errorf("%v: cast_number_to_scale must be between 0 and the precision %v, got %v", where, precision, scale)
	}
	return nil
}

func trimTableSpec(t TableSpec) TableSpec {
	t.OracleTableName = strings.TrimSpace(t.OracleTableName)
	t.LocalFileName = strings.TrimSpace(t.LocalFileName)
	t.LakehouseDestFolderPath = strings.TrimSpace(t.LakehouseDestFolderPath)
	t.LakehouseDestFileName = strings.TrimSpace(t.LakehouseDestFileName)
	return t
}
