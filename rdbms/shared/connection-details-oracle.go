package shared

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/relloyd/lakepipe/constants"
)

// OracleConnectionDetails holds the credentials used to open the source database.
// Dsn is anything OCI accepts as a connect string: an EZConnect host:port/service or a TNS alias.
type OracleConnectionDetails struct {
	User         string `errorTxt:"ORACLE_DB_USER" mandatory:"yes"`
	Password     string `errorTxt:"ORACLE_DB_PASSWORD" mandatory:"yes"`
	Dsn          string `errorTxt:"ORACLE_DB_DSN" mandatory:"yes"`
	ClientLibDir string // optional thick mode client library directory
}

// String redacts the password.
func (d OracleConnectionDetails) String() string {
	return fmt.Sprintf("oracle://%v/%v@%v", d.User, "xxxxx", d.Dsn)
}

// ConnectString builds the go-oci8 data source name:
// oracle://user/password@dsn[?params]
// User and password are query-escaped so they may contain '/' or '@'.
// Default connection params are appended unless the DSN already carries some.
func (d OracleConnectionDetails) ConnectString() string {
	dsn := strings.TrimSpace(d.Dsn)
	if !strings.Contains(dsn, "?") {
		dsn = dsn + "?" + constants.OracleConnectionDefaultParams
	}
	return fmt.Sprintf("oracle://%v/%v@%v",
		url.QueryEscape(d.User),
		url.QueryEscape(d.Password),
		dsn)
}
