package main

import (
	"github.com/pkg/errors"
	_ "github.com/relloyd/go-oci8"
	"github.com/relloyd/go-sql/database/sql"
	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/logger"
	"github.com/relloyd/lakepipe/rdbms/shared"
)

// This plugin exports public symbol Exports with top-level functions bound to it.
// All functions that bind to this variable must live in here, not other files despite them
// belonging to the same main package. Code that loads the plugin is unable to successfully
// interface type check when functions live in other files.
//
// Build with:
//   go build -buildmode=plugin -o lp-oracle-plugin.so ./rdbms/oracle

type exports struct{}

var Exports exports

// NewOracleConnection opens and pings an OCI connection.
// The connection is held open for the whole run; one session is enough for sequential extracts.
func (v exports) NewOracleConnection(log logger.Logger, d *shared.OracleConnectionDetails) (shared.Connector, error) {
	db, err := sql.Open("oci8", d.ConnectString())
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open database %v", d)
	}
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "unable to ping database %v", d)
	}
	log.Info("Successful database connection to Oracle as user '", d.User, "' with DSN '", d.Dsn, "'")
	return &shared.HpConnection{DbRelloyd: db, DbType: constants.ConnectionTypeOracle}, nil
}

func main() {}
