package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"sort"

	ghodss "github.com/ghodss/yaml"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/logger"
	"gopkg.in/yaml.v2"
)

// FileNotFoundError denotes failing to find configuration file.
type FileNotFoundError struct {
	name string
}

// Error returns the formatted configuration error.
func (f FileNotFoundError) Error() string {
	return fmt.Sprintf("config file %q not found", f.name)
}

// TableSpec is one entry of processing_settings.tables_to_process.
type TableSpec struct {
	OracleTableName         string `mapstructure:"oracle_table_name" json:"oracle_table_name" errorTxt:"oracle_table_name" mandatory:"yes"`
	LocalFileName           string `mapstructure:"local_file_name" json:"local_file_name" errorTxt:"local_file_name" mandatory:"yes"`
	LakehouseDestFolderPath string `mapstructure:"lakehouse_dest_folder_path" json:"lakehouse_dest_folder_path" errorTxt:"lakehouse_dest_folder_path" mandatory:"yes"`
	LakehouseDestFileName   string `mapstructure:"lakehouse_dest_file_name" json:"lakehouse_dest_file_name" errorTxt:"lakehouse_dest_file_name" mandatory:"yes"`
	CastNumberToPrecision   *int   `mapstructure:"cast_number_to_precision" json:"cast_number_to_precision,omitempty"`
	CastNumberToScale       *int   `mapstructure:"cast_number_to_scale" json:"cast_number_to_scale,omitempty"`
}

type OracleSettings struct {
	ThickModeLibDir string `mapstructure:"thick_mode_lib_dir" json:"thick_mode_lib_dir"`
}

type ProcessingSettings struct {
	BaseLocalOutputDirectory string      `mapstructure:"base_local_output_directory" json:"base_local_output_directory"`
	TablesToProcess          []TableSpec `mapstructure:"tables_to_process" json:"tables_to_process"`
	CastNumberToPrecision    *int        `mapstructure:"cast_number_to_precision" json:"cast_number_to_precision"`
	CastNumberToScale        *int        `mapstructure:"cast_number_to_scale" json:"cast_number_to_scale"`
	RetainLocalFiles         *bool       `mapstructure:"retain_local_files" json:"retain_local_files"`
	RowsPerRowGroup          int         `mapstructure:"rows_per_row_group" json:"rows_per_row_group"`
}

type FabricLakehouseSettings struct {
	WorkspaceID string `mapstructure:"workspace_id" json:"workspace_id"`
	LakehouseID string `mapstructure:"lakehouse_id" json:"lakehouse_id"`
	Endpoint    string `mapstructure:"endpoint" json:"endpoint"`
}

type S3Settings struct {
	Bucket string `mapstructure:"bucket" json:"bucket"`
	Prefix string `mapstructure:"prefix" json:"prefix"`
	Region string `mapstructure:"region" json:"region"`
}

type SharePointSettings struct {
	SiteURL         string `mapstructure:"site_url" json:"site_url"`
	DocumentLibrary string `mapstructure:"document_library" json:"document_library"`
	TenantID        string `mapstructure:"tenant_id" json:"tenant_id"`
}

// File is the content of the configuration file.
type File struct {
	OracleSettings          OracleSettings          `mapstructure:"oracle_settings" json:"oracle_settings"`
	ProcessingSettings      ProcessingSettings      `mapstructure:"processing_settings" json:"processing_settings"`
	FabricLakehouseSettings FabricLakehouseSettings `mapstructure:"fabric_lakehouse_settings" json:"fabric_lakehouse_settings"`
	UploadTarget            string                  `mapstructure:"upload_target" json:"upload_target"`
	S3Settings              S3Settings              `mapstructure:"s3_settings" json:"s3_settings"`
	SharePointSettings      SharePointSettings      `mapstructure:"sharepoint_settings" json:"sharepoint_settings"`
	path                    string
}

// Path returns where the file was read from.
func (f *File) Path() string {
	return f.path
}

// Load reads the YAML (or JSON) configuration file at path.
// A leading ~ is expanded. Unknown keys are logged and otherwise ignored.
func Load(log logger.Logger, path string) (*File, error) {
	full, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	b, err := ioutil.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, FileNotFoundError{name: full}
		}
		return nil, errors.Wrapf(err, "error reading config file %q", full)
	}
	f, unused, err := Parse(b)
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing config file %q", full)
	}
	for _, k := range unused {
		log.Warn("ignoring unknown config key ", k, " in ", full)
	}
	f.path = full
	return f, nil
}

// Parse decodes configuration file content and returns the keys it did not recognise.
func Parse(b []byte) (*File, []string, error) {
	data := make(map[interface{}]interface{})
	if err := yaml.Unmarshal(b, &data); err != nil {
		return nil, nil, err
	}
	f := &File{}
	md := &mapstructure.Metadata{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata:         md,
		Result:           f,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := dec.Decode(data); err != nil {
		return nil, nil, err
	}
	sort.Strings(md.Unused)
	return f, md.Unused, nil
}

// Render returns f as YAML using the same key names as the file.
func (f *File) Render() ([]byte, error) {
	return ghodss.Marshal(f)
}

// WithDefaults returns a copy of f with every optional setting filled in.
func (f File) WithDefaults() File {
	p := &f.ProcessingSettings
	if p.BaseLocalOutputDirectory == "" {
		p.BaseLocalOutputDirectory = constants.DefaultLocalOutputDirectory
	}
	if p.CastNumberToPrecision == nil {
		p.CastNumberToPrecision = intPtr(constants.DefaultCastPrecision)
	}
	if p.CastNumberToScale == nil {
		p.CastNumberToScale = intPtr(constants.DefaultCastScale)
	}
	if p.RetainLocalFiles == nil {
		retain := true
		p.RetainLocalFiles = &retain
	}
	if p.RowsPerRowGroup == 0 {
		p.RowsPerRowGroup = constants.DefaultRowsPerRowGroup
	}
	if f.FabricLakehouseSettings.Endpoint == "" {
		f.FabricLakehouseSettings.Endpoint = constants.DefaultOneLakeEndpoint
	}
	if f.UploadTarget == "" {
		f.UploadTarget = constants.UploadTargetOneLake
	}
	if f.SharePointSettings.DocumentLibrary == "" {
		f.SharePointSettings.DocumentLibrary = constants.DefaultSharePointDocLibrary
	}
	return f
}

func intPtr(i int) *int {
	return &i
}
