package shared

import (
	"context"
	"errors"

	relloyd "github.com/relloyd/go-sql/database/sql"
)

// HpConnection is a wrapper around relloyd/go-sql.DB, which the OCI driver registers with.
type HpConnection struct {
	DbRelloyd *relloyd.DB
	DbType    string
}

func (c *HpConnection) QueryContext(ctx context.Context, query string, args ...interface{}) (Rows, error) {
	if c.DbRelloyd == nil {
		return nil, errors.New("HpConnection was not configured correctly: DbRelloyd is missing")
	}
	r, err := c.DbRelloyd.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &HpRows{rowsRelloyd: r}, nil
}

func (c *HpConnection) Close() error {
	if c.DbRelloyd == nil {
		return nil
	}
	return c.DbRelloyd.Close()
}

func (c *HpConnection) GetType() string {
	return c.DbType
}

// Rows:

type HpRows struct {
	rowsRelloyd *relloyd.Rows
}

func (r *HpRows) Close() error {
	return r.rowsRelloyd.Close()
}

func (r *HpRows) Columns() ([]string, error) {
	return r.rowsRelloyd.Columns()
}

func (r *HpRows) Err() error {
	return r.rowsRelloyd.Err()
}

func (r *HpRows) Next() bool {
	return r.rowsRelloyd.Next()
}

func (r *HpRows) Scan(dest ...interface{}) error {
	return r.rowsRelloyd.Scan(dest...)
}
