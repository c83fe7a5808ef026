package actions

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/relloyd/lakepipe/azure/onelake"
	"github.com/relloyd/lakepipe/config"
	"github.com/relloyd/lakepipe/file"
	"github.com/relloyd/lakepipe/logger"
	"github.com/relloyd/lakepipe/rdbms"
	"github.com/relloyd/lakepipe/rdbms/shared"
	"github.com/relloyd/lakepipe/stats"
	tabledefinition "github.com/relloyd/lakepipe/table-definition"
)

// State is a step in the extraction of one table.
type State int

const (
	StateResolveOwner State = iota + 1
	StateFetchMetadata
	StateBuildQuery
	StateExecuteQuery
	StateWriteLocal
	StateUpload
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateResolveOwner:  "RESOLVE_OWNER",
	StateFetchMetadata: "FETCH_METADATA",
	StateBuildQuery:    "BUILD_QUERY",
	StateExecuteQuery:  "EXECUTE_QUERY",
	StateWriteLocal:    "WRITE_LOCAL",
	StateUpload:        "UPLOAD",
	StateDone:          "DONE",
	StateFailed:        "FAILED",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// TableResult is the outcome of one table. It implements stats.Result.
type TableResult struct {
	Table         string
	State         State // DONE or FAILED
	FailedAt      State // the step that failed, when State is FAILED
	Owner         string
	Query         string
	Rows          int64
	LocalPath     string
	RemotePath    string
	UploadSkipped bool
	Err           error
	Elapsed       time.Duration
}

func (r TableResult) TableName() string {
	return r.Table
}

func (r TableResult) Failed() bool {
	return r.State == StateFailed
}

func (r TableResult) RowCount() int64 {
	return r.Rows
}

func (r TableResult) String() string {
	if r.Failed() {
		return fmt.Sprintf("table %v FAILED at %v: %v", r.Table, r.FailedAt, r.Err)
	}
	switch {
	case r.UploadSkipped:
		return fmt.Sprintf("table %v DONE rows=%v local=%v upload=skipped", r.Table, r.Rows, r.LocalPath)
	case r.RemotePath != "":
		return fmt.Sprintf("table %v DONE rows=%v local=%v remote=%v", r.Table, r.Rows, r.LocalPath, r.RemotePath)
	default:
		return fmt.Sprintf("table %v DONE", r.Table)
	}
}

// tableRunner extracts tables one at a time over a single connection.
type tableRunner struct {
	log         logger.Logger
	db          shared.Connector
	rc          *config.RunContext
	uploader    onelake.Uploader // nil when uploads are disabled
	mapper      tabledefinition.Mapper
	dryRun      bool
	out         io.Writer // dry run queries are printed here
	statsFreq   int
	sessionUser string // cached current schema
}

// run takes job through every state and always returns a result.
func (r *tableRunner) run(ctx context.Context, job config.TableJob) (res TableResult) {
	start := time.Now()
	log := r.log.WithField("table", job.SourceTable)
	res = TableResult{Table: job.SourceTable}
	state := StateResolveOwner
	fail := func(err error) TableResult {
		res.State = StateFailed
		res.FailedAt = state
		res.Err = err
		res.Elapsed = time.Since(start)
		log.Error("Error processing table ", job.SourceTable, " at ", state, ": ", err)
		return res
	}
	log.Info("Processing table ", job.SourceTable)

	// RESOLVE_OWNER
	st := rdbms.SchemaTable{SchemaTable: job.SourceTable}
	owner, table := st.Owner(), st.Table()
	if table == "" {
		return fail(fmt.Errorf("invalid table name %q", job.SourceTable))
	}
	if !st.HasSchema() {
		var err error
		if owner, err = r.currentSchema(ctx); err != nil {
			return fail(err)
		}
		log.Debug("resolved owner ", owner)
	}
	res.Owner = owner

	// FETCH_METADATA
	state = StateFetchMetadata
	cols := tabledefinition.GetTableColumns(ctx, log, r.db, owner, table)
	if len(cols) == 0 {
		log.Warn("No columns found for ", owner, ".", table, "; skipping table")
		return fail(fmt.Errorf("no columns found for %v.%v", owner, table))
	}

	// BUILD_QUERY
	state = StateBuildQuery
	query, ok := tabledefinition.BuildExtractionQuery(owner, table, cols, job.Precision, job.Scale)
	if !ok {
		return fail(fmt.Errorf("no query generated for %v.%v", owner, table))
	}
	res.Query = query
	log.Debug("query: ", query)
	if r.dryRun {
		if _, err := fmt.Fprintln(r.out, query); err != nil {
			return fail(errors.Wrap(err, "error printing query"))
		}
		res.State = StateDone
		res.Elapsed = time.Since(start)
		return res
	}

	// EXECUTE_QUERY and WRITE_LOCAL stream together: the file is opened once the result set arrives.
	state = StateExecuteQuery
	schema := tabledefinition.ArrowSchema(r.mapper, cols, job.Precision, job.Scale)
	h := &parquetHandler{
		log: log,
		open: func() (*file.ParquetFileOutput, error) {
			state = StateWriteLocal
			return file.NewParquetFileOutput(log, r.rc.BaseOutputDirectory, job.LocalFile, schema, r.rc.RowsPerRowGroup)
		},
		watcher: stats.NewTableWatcher(log, job.SourceTable, r.statsFreq),
	}
	_, err := rdbms.SqlQuery(ctx, log, r.db, query, h)
	h.watcher.StopWatching()
	if err != nil {
		h.abort()
		if h.writeErr == nil {
			state = StateExecuteQuery
		}
		return fail(err)
	}
	state = StateWriteLocal
	if err := h.close(); err != nil {
		return fail(err)
	}
	res.Rows = h.out.Rows()
	res.LocalPath = h.out.Path()
	log.Info("Wrote ", res.Rows, " rows to ", res.LocalPath)

	// UPLOAD
	if r.uploader == nil {
		log.Warn("Lakehouse destination is not fully configured; skipping upload of ", res.LocalPath)
		res.UploadSkipped = true
		res.State = StateDone
		res.Elapsed = time.Since(start)
		return res
	}
	state = StateUpload
	res.RemotePath = r.uploader.RemotePath(job.DestFolder, job.DestFileName)
	log.Info("Uploading ", res.LocalPath, " to ", res.RemotePath)
	remote, err := r.uploader.UploadFile(ctx, res.LocalPath, job.DestFolder, job.DestFileName)
	if err != nil {
		return fail(errors.Wrapf(err, "error uploading %v to %v", res.LocalPath, res.RemotePath))
	}
	if remote != "" {
		res.RemotePath = remote
	}
	log.Info("Uploaded ", res.RemotePath)
	if !r.rc.RetainLocalFiles {
		if err := os.Remove(res.LocalPath); err != nil {
			log.Warn("unable to remove local file ", res.LocalPath, ": ", err)
		} else {
			log.Debug("removed local file ", res.LocalPath)
		}
	}
	res.State = StateDone
	res.Elapsed = time.Since(start)
	return res
}

// currentSchema resolves the session schema on first use and caches it for the batch.
func (r *tableRunner) currentSchema(ctx context.Context) (string, error) {
	if r.sessionUser != "" {
		return r.sessionUser, nil
	}
	s, err := tabledefinition.CurrentSchema(ctx, r.db)
	if err != nil {
		return "", err
	}
	r.sessionUser = s
	return s, nil
}

// parquetHandler opens the output file when the result set header arrives.
// Errors from the file are kept in writeErr so they can be told apart from database errors.
type parquetHandler struct {
	log      logger.Logger
	open     func() (*file.ParquetFileOutput, error)
	out      *file.ParquetFileOutput
	watcher  *stats.TableWatcher
	writeErr error
}

func (h *parquetHandler) HandleHeader(cols []string) error {
	out, err := h.open()
	if err != nil {
		h.writeErr = err
		return err
	}
	h.out = out
	if err := out.HandleHeader(cols); err != nil {
		h.writeErr = err
		return err
	}
	h.watcher.StartWatching(out.Rows)
	return nil
}

func (h *parquetHandler) HandleRow(row []interface{}) error {
	if err := h.out.HandleRow(row); err != nil {
		h.writeErr = err
		return err
	}
	return nil
}

func (h *parquetHandler) abort() {
	if h.out != nil {
		h.out.Abort()
	}
}

func (h *parquetHandler) close() error {
	if h.out == nil {
		return errors.New("no result set received")
	}
	if err := h.out.Close(); err != nil {
		return err
	}
	return nil
}
