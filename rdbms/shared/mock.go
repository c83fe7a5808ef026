package shared

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/helper"
)

// MockQuery records a query sent to a MockConnection.
type MockQuery struct {
	Sql  string
	Args []interface{}
}

// MockResult is the canned response to a query.
type MockResult struct {
	Columns []string
	Rows    [][]interface{}
	Err     error // returned by QueryContext
	RowsErr error // returned by Rows.Err after the last row
}

// MockConnection implements Connector using canned results.
// QueryFn decides the result for each query; when nil every query returns an empty result.
type MockConnection struct {
	QueryFn func(query string, args []interface{}) MockResult
	Queries []MockQuery
	Closed  bool
	mu      sync.Mutex
}

func NewMockConnection(fn func(query string, args []interface{}) MockResult) *MockConnection {
	return &MockConnection{QueryFn: fn}
}

func (m *MockConnection) QueryContext(ctx context.Context, query string, args ...interface{}) (Rows, error) {
	m.mu.Lock()
	m.Queries = append(m.Queries, MockQuery{Sql: query, Args: args})
	m.mu.Unlock()
	var res MockResult
	if m.QueryFn != nil {
		res = m.QueryFn(query, args)
	}
	if res.Err != nil {
		return nil, res.Err
	}
	return &MockRows{columns: res.Columns, rows: res.Rows, rowsErr: res.RowsErr, idx: -1}, nil
}

func (m *MockConnection) Close() error {
	m.Closed = true
	return nil
}

func (m *MockConnection) GetType() string {
	return constants.ConnectionTypeMockOracle
}

// CountQueries returns the number of queries executed whose SQL matches sqlText exactly.
func (m *MockConnection) CountQueries(sqlText string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, q := range m.Queries {
		if q.Sql == sqlText {
			n++
		}
	}
	return n
}

// MockRows implements Rows over an in-memory slice.
type MockRows struct {
	columns []string
	rows    [][]interface{}
	rowsErr error
	idx     int
	closed  bool
}

func (r *MockRows) Columns() ([]string, error) {
	return r.columns, nil
}

func (r *MockRows) Next() bool {
	if r.closed || r.idx+1 >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

// Scan supports *interface{}, *string and *int64 destinations.
func (r *MockRows) Scan(dest ...interface{}) error {
	if r.idx < 0 || r.idx >= len(r.rows) {
		return errors.New("scan called without a current row")
	}
	row := r.rows[r.idx]
	if len(dest) != len(row) {
		return fmt.Errorf("expected %v destination arguments in Scan, not %v", len(row), len(dest))
	}
	for i, v := range row {
		switch d := dest[i].(type) {
		case *interface{}:
			*d = v
		case *string:
			s, err := helper.GetStringFromInterface(v, false)
			if err != nil {
				return err
			}
			*d = s
		case *int64:
			n, ok := v.(int64)
			if !ok {
				return fmt.Errorf("unable to scan %T into *int64", v)
			}
			*d = n
		default:
			return fmt.Errorf("unsupported scan destination %T", dest[i])
		}
	}
	return nil
}

func (r *MockRows) Err() error {
	if r.idx+1 >= len(r.rows) {
		return r.rowsErr
	}
	return nil
}

func (r *MockRows) Close() error {
	r.closed = true
	return nil
}
