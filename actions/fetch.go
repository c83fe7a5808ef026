package actions

import (
	"context"

	"github.com/pkg/errors"
	"github.com/relloyd/lakepipe/config"
	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/logger"
	"github.com/relloyd/lakepipe/sharepoint"
)

// Fetcher is implemented by *sharepoint.Client.
type Fetcher interface {
	FetchSingle(ctx context.Context, fileName string, sourceFolder string, destFolder string) (sharepoint.FetchResult, error)
	FetchAll(ctx context.Context, sourceFolder string, destFolder string) ([]sharepoint.FetchResult, error)
}

type FetchConfig struct {
	ConfigFile       string
	EnvFile          string
	LogLevel         string
	StackDumpOnPanic bool
	FileName         string // fetch every file in SourceFolder when empty
	SourceFolder     string
	DestFolder       string
	LocalDir         string // used when no lakehouse is configured
	// Optional dependencies, defaulted by RunFetch.
	Log         logger.Logger
	NewUploader UploaderFactory
	NewFetcher  func(log logger.Logger, s sharepoint.Settings, w sharepoint.Writer) (Fetcher, error)
}

func (cfg *FetchConfig) setDefaults() error {
	if cfg.Log == nil {
		l, err := logger.NewLoggerWithError("lakepipe", cfg.LogLevel, cfg.StackDumpOnPanic)
		if err != nil {
			return err
		}
		cfg.Log = l
	}
	if cfg.NewUploader == nil {
		cfg.NewUploader = NewUploader
	}
	if cfg.LocalDir == "" {
		cfg.LocalDir = constants.DefaultSharePointOutputDir
	}
	if cfg.NewFetcher == nil {
		cfg.NewFetcher = func(log logger.Logger, s sharepoint.Settings, w sharepoint.Writer) (Fetcher, error) {
			c, err := sharepoint.NewClient(log, s, w)
			if err != nil {
				return nil, err
			}
			return c, nil
		}
	}
	return nil
}

// RunFetch copies one file, or every file of a folder, from SharePoint to the lakehouse.
// Without lakehouse settings the files are saved under cfg.LocalDir instead.
func RunFetch(ctx context.Context, cfg *FetchConfig) ([]sharepoint.FetchResult, error) {
	if err := cfg.setDefaults(); err != nil {
		return nil, setupError(err)
	}
	log := cfg.Log
	if err := config.LoadEnvFile(log, cfg.EnvFile); err != nil {
		return nil, setupError(err)
	}
	f, err := config.Load(log, cfg.ConfigFile)
	if err != nil {
		return nil, setupError(err)
	}
	fc, err := config.NewFetchContext(f)
	if err != nil {
		return nil, setupError(errors.Wrap(err, "invalid configuration"))
	}
	var w sharepoint.Writer
	if fc.Destination.Complete() {
		if w, err = cfg.NewUploader(fc.Destination); err != nil {
			return nil, setupError(errors.Wrap(err, "error creating uploader"))
		}
	} else {
		log.Warn("Lakehouse connection details are incomplete (missing ", fc.Destination.Missing(), "). Files will be saved under ", cfg.LocalDir)
		w = sharepoint.LocalWriter{Dir: cfg.LocalDir}
	}
	sp, err := cfg.NewFetcher(log, fc.SharePoint, w)
	if err != nil {
		return nil, setupError(err)
	}
	if cfg.FileName != "" {
		res, err := sp.FetchSingle(ctx, cfg.FileName, cfg.SourceFolder, cfg.DestFolder)
		return []sharepoint.FetchResult{res}, err
	}
	return sp.FetchAll(ctx, cfg.SourceFolder, cfg.DestFolder)
}
