package file

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/pkg/errors"
	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/helper"
	"github.com/relloyd/lakepipe/logger"
	"github.com/rs/xid"
)

// ParquetFileOutput writes a SQL result set to a single Parquet file.
// Rows are written to a temp file in the output directory that is renamed into place by Close,
// so a failed extraction never leaves a partial file under the final name.
// It implements shared.SqlResultHandler.
type ParquetFileOutput struct {
	log             logger.Logger
	directory       string
	fileName        string
	tempName        string
	schema          *arrow.Schema
	mem             memory.Allocator
	file            *os.File
	writer          *pqarrow.FileWriter
	builder         *array.RecordBuilder
	rowsPerRowGroup int
	currentRowCount int
	totalRowCount   int64
	closed          bool
}

// NewParquetFileOutput creates outputDirectory if needed and opens a temp file ready for rows
// matching schema. Set rowsPerRowGroup <= 0 to use the default.
func NewParquetFileOutput(log logger.Logger, outputDirectory string, fileName string, schema *arrow.Schema, rowsPerRowGroup int) (*ParquetFileOutput, error) {
	if fileName == "" {
		return nil, errors.New("missing output file name")
	}
	if rowsPerRowGroup <= 0 {
		rowsPerRowGroup = constants.DefaultRowsPerRowGroup
	}
	f := &ParquetFileOutput{
		log:             log,
		directory:       outputDirectory,
		fileName:        fileName,
		schema:          schema,
		mem:             memory.NewGoAllocator(),
		rowsPerRowGroup: rowsPerRowGroup,
	}
	// fileName may include sub directories.
	dir := filepath.Dir(f.Path())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "error creating output directory %q", dir)
	}
	f.tempName = filepath.Join(dir, fmt.Sprintf(".%v.%v%v", filepath.Base(fileName), xid.New().String(), constants.TempFileSuffix))
	var err error
	f.file, err = os.Create(f.tempName)
	if err != nil {
		return nil, errors.Wrapf(err, "error creating temp file %q", f.tempName)
	}
	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithAllocator(f.mem))
	f.writer, err = pqarrow.NewFileWriter(schema, f.file, props, pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema()))
	if err != nil {
		_ = f.file.Close()
		_ = os.Remove(f.tempName)
		return nil, errors.Wrap(err, "error creating parquet writer")
	}
	f.builder = array.NewRecordBuilder(f.mem, schema)
	log.Debug("ParquetFileOutput temp file=", f.tempName, "; rowsPerRowGroup=", rowsPerRowGroup)
	return f, nil
}

// Path returns the final location of the file.
func (f *ParquetFileOutput) Path() string {
	return filepath.Join(f.directory, f.fileName)
}

// Rows returns the number of rows written so far. It is safe to call from other goroutines.
func (f *ParquetFileOutput) Rows() int64 {
	return atomic.LoadInt64(&f.totalRowCount)
}

// HandleHeader checks the result set columns line up with the schema.
func (f *ParquetFileOutput) HandleHeader(cols []string) error {
	if len(cols) != f.schema.NumFields() {
		return fmt.Errorf("result set has %v columns but the table has %v", len(cols), f.schema.NumFields())
	}
	for i, c := range cols {
		if !strings.EqualFold(c, f.schema.Field(i).Name) {
			f.log.Warn("result column ", i, " is named ", c, " but expected ", f.schema.Field(i).Name)
		}
	}
	return nil
}

// HandleRow appends row to the current row group, flushing it when full.
func (f *ParquetFileOutput) HandleRow(row []interface{}) error {
	if len(row) != f.schema.NumFields() {
		return fmt.Errorf("row has %v values but the table has %v columns", len(row), f.schema.NumFields())
	}
	for i, v := range row {
		if err := appendValue(f.builder.Field(i), v); err != nil {
			return errors.Wrapf(err, "column %q row %v", f.schema.Field(i).Name, f.Rows()+1)
		}
	}
	f.currentRowCount++
	atomic.AddInt64(&f.totalRowCount, 1)
	if f.currentRowCount >= f.rowsPerRowGroup {
		return f.flush()
	}
	return nil
}

func (f *ParquetFileOutput) flush() error {
	if f.currentRowCount == 0 {
		return nil
	}
	rec := f.builder.NewRecord()
	defer rec.Release()
	if err := f.writer.Write(rec); err != nil {
		return errors.Wrap(err, "error writing row group")
	}
	f.log.Trace("wrote row group of ", f.currentRowCount, " rows")
	f.currentRowCount = 0
	return nil
}

// Close flushes outstanding rows, closes the file and renames it into place.
// On any error the temp file is removed.
func (f *ParquetFileOutput) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	defer f.builder.Release()
	if err := f.flush(); err != nil {
		f.cleanup()
		return err
	}
	if err := f.writer.Close(); err != nil {
		f.cleanup()
		return errors.Wrap(err, "error closing parquet writer")
	}
	if err := f.file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		_ = os.Remove(f.tempName)
		return errors.Wrapf(err, "error closing %q", f.tempName)
	}
	if err := os.Rename(f.tempName, f.Path()); err != nil {
		_ = os.Remove(f.tempName)
		return errors.Wrapf(err, "error renaming %q to %q", f.tempName, f.Path())
	}
	f.log.Debug("wrote ", f.Rows(), " rows to ", f.Path())
	return nil
}

// Abort discards the temp file. It is a no-op after Close.
func (f *ParquetFileOutput) Abort() {
	if f.closed {
		return
	}
	f.closed = true
	f.builder.Release()
	f.cleanup()
}

func (f *ParquetFileOutput) cleanup() {
	_ = f.writer.Close()
	_ = f.file.Close()
	if err := os.Remove(f.tempName); err != nil && !os.IsNotExist(err) {
		f.log.Warn("unable to remove temp file ", f.tempName, ": ", err)
	}
}

// appendValue converts a driver value into the builder's type.
func appendValue(b array.Builder, v interface{}) error {
	if v == nil {
		b.AppendNull()
		return nil
	}
	switch bb := b.(type) {
	case *array.StringBuilder:
		s, err := helper.GetStringFromInterface(v, true)
		if err != nil {
			return err
		}
		bb.Append(s)
	case *array.Int64Builder:
		n, err := toInt64(v)
		if err != nil {
			return err
		}
		bb.Append(n)
	case *array.Float64Builder:
		n, err := toFloat64(v)
		if err != nil {
			return err
		}
		bb.Append(n)
	case *array.Decimal128Builder:
		dt := bb.Type().(*arrow.Decimal128Type)
		s, err := helper.GetStringFromInterface(v, true)
		if err != nil {
			return err
		}
		n, err := decimal128.FromString(s, dt.Precision, dt.Scale)
		if err != nil {
			return errors.Wrapf(err, "unable to convert %q to decimal(%v,%v)", s, dt.Precision, dt.Scale)
		}
		bb.Append(n)
	case *array.TimestampBuilder:
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("expected a time value, got %T", v)
		}
		bb.Append(arrow.Timestamp(t.UTC().UnixMicro()))
	case *array.BinaryBuilder:
		switch x := v.(type) {
		case []byte:
			bb.Append(x)
		case string:
			bb.AppendString(x)
		default:
			return fmt.Errorf("expected binary data, got %T", v)
		}
	default:
		return fmt.Errorf("unsupported column builder %T", b)
	}
	return nil
}

func toInt64(v interface{}) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case float64:
		if x != math.Trunc(x) || x > math.MaxInt64 || x < math.MinInt64 {
			return 0, fmt.Errorf("value %v is not a whole number that fits int64", x)
		}
		return int64(x), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(x), 10, 64)
	case []byte:
		return strconv.ParseInt(strings.TrimSpace(string(x)), 10, 64)
	}
	return 0, fmt.Errorf("unable to convert %T to int64", v)
}

func toFloat64(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int:
		return float64(x), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
	}
	return 0, fmt.Errorf("unable to convert %T to float64", v)
}
