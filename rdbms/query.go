package rdbms

import (
	"context"

	"github.com/pkg/errors"
	"github.com/relloyd/lakepipe/logger"
	"github.com/relloyd/lakepipe/rdbms/shared"
)

// SqlQuery executes sqltext and sends the header followed by every row to the handler.
// It returns the number of rows sent.
func SqlQuery(ctx context.Context, log logger.Logger, db shared.Connector, sqltext string, h shared.SqlResultHandler) (int64, error) {
	rows, err := db.QueryContext(ctx, sqltext)
	if err != nil {
		return 0, errors.Wrapf(err, "error during database query using SQL: '%v'", sqltext)
	}
	defer func() {
		_ = rows.Close()
	}()
	cols, err := rows.Columns()
	if err != nil {
		return 0, errors.Wrap(err, "error fetching column names")
	}
	log.Debug("fetched columns: ", cols)
	if err = h.HandleHeader(cols); err != nil {
		return 0, err
	}
	// Scan the values dynamically.
	scanPtrs := make([]interface{}, len(cols))
	scanVals := make([]interface{}, len(cols))
	for idx := range cols { // for each column...
		scanPtrs[idx] = &scanVals[idx]
	}
	var count int64
	for rows.Next() {
		if err := ctx.Err(); err != nil { // quit if asked to
			return count, err
		}
		if err := rows.Scan(scanPtrs...); err != nil {
			return count, errors.Wrap(err, "error scanning row")
		}
		row := make([]interface{}, len(cols))
		copy(row, scanVals)
		if err := h.HandleRow(row); err != nil {
			return count, err
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return count, errors.Wrap(err, "error fetching rows")
	}
	return count, nil
}
