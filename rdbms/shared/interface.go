package shared

import (
	"context"

	"github.com/relloyd/lakepipe/logger"
)

// Connector abstracts all access to Go SQL functionality.
type Connector interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (Rows, error)
	Close() error
	GetType() string
}

// Rows is the subset of sql.Rows used by lakepipe, so both relloyd/go-sql and mocks can supply results.
type Rows interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
	Close() error
}

// SqlResultHandler receives the column names once followed by every row of a query.
type SqlResultHandler interface {
	HandleHeader(columns []string) error
	HandleRow(row []interface{}) error
}

// Oracle plugin interfaces.

type OracleConnector interface {
	NewOracleConnection(log logger.Logger, d *OracleConnectionDetails) (Connector, error)
}
