package actions

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/relloyd/lakepipe/aws/s3"
	"github.com/relloyd/lakepipe/azure/onelake"
	"github.com/relloyd/lakepipe/config"
	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/logger"
	"github.com/relloyd/lakepipe/rdbms"
	"github.com/relloyd/lakepipe/stats"
	tabledefinition "github.com/relloyd/lakepipe/table-definition"
	"github.com/rs/xid"
)

var ErrNothingToProcess = errors.New("no tables to process")

// ExitError is returned when a run should end with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func setupError(err error) error {
	return &ExitError{Code: constants.ExitCodeSetupError, Err: err}
}

// UploaderFactory creates the uploader for a complete destination.
type UploaderFactory func(d config.Destination) (onelake.Uploader, error)

type ExtractConfig struct {
	ConfigFile       string
	EnvFile          string
	LogLevel         string
	StackDumpOnPanic bool
	DryRun           bool
	Strict           bool
	StatsFrequency   int       // seconds between progress logs while a table is extracted
	Out              io.Writer // dry run output, defaults to stdout
	// Optional dependencies, defaulted by RunExtract.
	Log            logger.Logger
	InitClient     func(log logger.Logger, libDir string) error
	OpenConnection rdbms.OpenConnectionFunc
	NewUploader    UploaderFactory
}

func (cfg *ExtractConfig) setDefaults() error {
	if cfg.Log == nil {
		l, err := logger.NewLoggerWithError("lakepipe", cfg.LogLevel, cfg.StackDumpOnPanic)
		if err != nil {
			return err
		}
		cfg.Log = l
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.InitClient == nil {
		cfg.InitClient = rdbms.InitOracleClient
	}
	if cfg.OpenConnection == nil {
		cfg.OpenConnection = rdbms.NewOracleConnection
	}
	if cfg.NewUploader == nil {
		cfg.NewUploader = NewUploader
	}
	return nil
}

// NewUploader returns the uploader for d.Target.
func NewUploader(d config.Destination) (onelake.Uploader, error) {
	if d.Target == constants.UploadTargetS3 {
		u, err := s3.NewUploader(d.S3)
		if err != nil {
			return nil, err
		}
		return u, nil
	}
	c, err := onelake.NewClient(d.Lakehouse)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// RunExtract extracts every configured table to Parquet and uploads the files when a destination is configured.
// Setup problems are returned as an *ExitError before any table is touched.
// Table failures are logged and summarised; they only produce an error when cfg.Strict is set.
func RunExtract(ctx context.Context, cfg *ExtractConfig) (*stats.BatchStats, error) {
	if err := cfg.setDefaults(); err != nil {
		return nil, setupError(err)
	}
	log := cfg.Log.WithField("runId", xid.New().String())
	// Configuration.
	if err := config.LoadEnvFile(log, cfg.EnvFile); err != nil {
		return nil, setupError(err)
	}
	f, err := config.Load(log, cfg.ConfigFile)
	if err != nil {
		return nil, setupError(err)
	}
	rc, err := config.NewRunContext(f)
	if err != nil {
		return nil, setupError(errors.Wrap(err, "invalid configuration"))
	}
	batch := stats.NewBatchStats(log)
	for _, s := range rc.Skipped {
		log.Warn(fmt.Sprintf("Skipping tables_to_process[%v] (%q): missing %v", s.Index, s.Entry.OracleTableName, s.Missing))
		batch.AddSkipped()
	}
	if len(rc.Tables) == 0 {
		log.Warn("No tables specified in ", f.Path(), " under processing_settings.tables_to_process; nothing to do")
		if cfg.Strict {
			return batch, &ExitError{Code: constants.ExitCodeNothingToProcess, Err: ErrNothingToProcess}
		}
		return batch, nil
	}
	// Destination.
	var uploader onelake.Uploader
	switch {
	case cfg.DryRun:
	case rc.Destination.Complete():
		if uploader, err = cfg.NewUploader(rc.Destination); err != nil {
			return nil, setupError(errors.Wrap(err, "error creating uploader"))
		}
	default:
		log.Warn("Lakehouse connection details are incomplete (missing ", rc.Destination.Missing(), "). Files will not be uploaded.")
	}
	// Database.
	if err := cfg.InitClient(log, rc.Oracle.ClientLibDir); err != nil {
		return nil, setupError(errors.Wrap(err, "error initialising Oracle client"))
	}
	log.Info("Connecting to ", rc.Oracle.String())
	db, err := cfg.OpenConnection(log, &rc.Oracle)
	if err != nil {
		return nil, setupError(errors.Wrap(err, "error connecting to Oracle"))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("error closing Oracle connection: ", err)
		}
		log.Debug("Oracle connection closed")
	}()
	// Tables, in configuration order.
	r := &tableRunner{
		log:       log,
		db:        db,
		rc:        rc,
		uploader:  uploader,
		mapper:    tabledefinition.NewOracleToArrowDataTypeMapper(),
		dryRun:    cfg.DryRun,
		out:       cfg.Out,
		statsFreq: cfg.StatsFrequency,
	}
	for _, job := range rc.Tables {
		batch.Add(r.run(ctx, job))
	}
	batch.LogSummary()
	if n := batch.Failures(); n > 0 && cfg.Strict {
		return batch, &ExitError{Code: constants.ExitCodeTableFailures, Err: fmt.Errorf("%v table(s) failed", n)}
	}
	return batch, nil
}
