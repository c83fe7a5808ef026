package tabledefinition

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/logger"
	"github.com/relloyd/lakepipe/rdbms/shared"
)

// Oracle stores unquoted identifiers in upper case, so callers bind upper case names
// unless the identifier was quoted.
const sqlGetTableColumns = `SELECT COLUMN_NAME, DATA_TYPE FROM ALL_TAB_COLUMNS WHERE OWNER = :1 AND TABLE_NAME = :2 ORDER BY COLUMN_ID`

// ColumnDescriptor defines a single table column as reported by ALL_TAB_COLUMNS.
type ColumnDescriptor struct {
	Name     string
	DataType string
}

// IsNumber is true for the NUMBER family, the columns that get an explicit cast.
func (c ColumnDescriptor) IsNumber() bool {
	return strings.EqualFold(strings.TrimSpace(c.DataType), constants.OracleNumberDataType)
}

// CurrentSchema returns the session's current schema.
func CurrentSchema(ctx context.Context, db shared.Connector) (string, error) {
	rows, err := db.QueryContext(ctx, constants.OracleCurrentSchemaSql)
	if err != nil {
		return "", errors.Wrap(err, "error getting current schema")
	}
	defer func() {
		_ = rows.Close()
	}()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", errors.Wrap(err, "error getting current schema")
		}
		return "", errors.New("current schema query returned no rows")
	}
	var schema string
	if err := rows.Scan(&schema); err != nil {
		return "", errors.Wrap(err, "error scanning current schema")
	}
	if strings.TrimSpace(schema) == "" {
		return "", errors.New("current schema is empty")
	}
	return schema, nil
}

// GetTableColumns returns the columns of owner.table in COLUMN_ID order.
// owner and table must already be in catalog form (see rdbms.SchemaTable).
// A missing table gives an empty slice, and so does any database error, which is logged
// rather than returned so one bad table name can't stop the batch.
func GetTableColumns(ctx context.Context, log logger.Logger, db shared.Connector, owner string, table string) []ColumnDescriptor {
	rows, err := db.QueryContext(ctx, sqlGetTableColumns, owner, table)
	if err != nil {
		log.Error("Error fetching metadata for ", owner, ".", table, ": ", err)
		return []ColumnDescriptor{}
	}
	defer func() {
		_ = rows.Close()
	}()
	cols := make([]ColumnDescriptor, 0)
	for rows.Next() {
		var c ColumnDescriptor
		if err := rows.Scan(&c.Name, &c.DataType); err != nil {
			log.Error("Error scanning metadata for ", owner, ".", table, ": ", err)
			return []ColumnDescriptor{}
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		log.Error("Error fetching metadata for ", owner, ".", table, ": ", err)
		return []ColumnDescriptor{}
	}
	log.Debug("found ", len(cols), " columns for ", owner, ".", table)
	return cols
}
