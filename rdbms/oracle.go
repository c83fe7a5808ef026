package rdbms

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"

	"github.com/pkg/errors"
	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/logger"
	pluginloader "github.com/relloyd/lakepipe/plugin-loader"
	"github.com/relloyd/lakepipe/rdbms/shared"
)

// OpenConnectionFunc opens the source database.
type OpenConnectionFunc func(log logger.Logger, d *shared.OracleConnectionDetails) (shared.Connector, error)

// oracleClientLibPatterns are the OCI client library names looked for in a thick mode lib dir.
var oracleClientLibPatterns = []string{"libclntsh.so*", "libclntsh.dylib*", "oci.dll"}

// NewOracleConnection loads the OCI plugin and opens a pinged connection.
// The plugin keeps the cgo OCI driver out of the lp binary.
func NewOracleConnection(log logger.Logger, d *shared.OracleConnectionDetails) (shared.Connector, error) {
	exports, err := pluginloader.LoadPluginExports(constants.LpPluginOracle)
	if err != nil {
		return nil, err
	}
	i, ok := exports.(shared.OracleConnector)
	if !ok {
		r := reflect.TypeOf(exports)
		return nil, fmt.Errorf("plugin %v does not implement the required interface: OracleConnector: %v", constants.LpPluginOracle, r.String())
	}
	return i.NewOracleConnection(log, d)
}

// loadClientLibrary is replaced in tests.
var loadClientLibrary = dlopenGlobal

// InitOracleClient prepares thick mode using the Oracle client library directory libDir.
// An empty libDir means the OCI plugin finds the client libraries on the system library path.
// Otherwise the client library in libDir is loaded before the plugin is opened, so the plugin binds
// to that client rather than one found by the dynamic linker. libDir/network/admin is used as
// TNS_ADMIN unless TNS_ADMIN is already set, so TNS aliases resolve like they do for sqlplus.
func InitOracleClient(log logger.Logger, libDir string) error {
	if libDir == "" {
		log.Info("Initialising Oracle client from the system library path (no client lib dir supplied)")
		return nil
	}
	log.Info("Initialising Oracle client from: ", libDir)
	fi, err := os.Stat(libDir)
	if err != nil {
		return errors.Wrapf(err, "unable to use Oracle client lib dir %q", libDir)
	}
	if !fi.IsDir() {
		return fmt.Errorf("Oracle client lib dir %q is not a directory", libDir)
	}
	lib := findClientLibrary(libDir)
	if lib == "" {
		return fmt.Errorf("Oracle client library not found in %q (looked for %v)", libDir, oracleClientLibPatterns)
	}
	if err := loadClientLibrary(lib); err != nil {
		return errors.Wrap(err, "error loading Oracle client library")
	}
	log.Debug("loaded Oracle client library ", lib)
	tnsAdmin := filepath.Join(libDir, "network", "admin")
	if _, err := os.Stat(tnsAdmin); err == nil && os.Getenv("TNS_ADMIN") == "" {
		if err := os.Setenv("TNS_ADMIN", tnsAdmin); err != nil {
			return errors.Wrap(err, "unable to set TNS_ADMIN")
		}
		log.Debug("TNS_ADMIN=", tnsAdmin)
	}
	log.Info("Successfully initialised Oracle client in thick mode")
	return nil
}

// findClientLibrary returns the OCI client library in libDir, preferring the shortest name
// (the unversioned symlink), or "" if there is none.
func findClientLibrary(libDir string) string {
	for _, p := range oracleClientLibPatterns {
		m, _ := filepath.Glob(filepath.Join(libDir, p))
		if len(m) == 0 {
			continue
		}
		sort.Slice(m, func(i, j int) bool {
			if len(m[i]) != len(m[j]) {
				return len(m[i]) < len(m[j])
			}
			return m[i] < m[j]
		})
		return m[0]
	}
	return ""
}
