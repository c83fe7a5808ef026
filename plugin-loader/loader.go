package plugin_loader

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"plugin"
	"strings"

	"github.com/relloyd/lakepipe/constants"
)

type Loc []string

var Locations = Loc{
	"/usr/local/lib",
}

// searchPath returns the directories to look for plugins in: LP_PLUGIN_DIR (if set),
// then the directory of the lp executable, then Locations.
func searchPath() Loc {
	var l Loc
	if d := os.Getenv(constants.EnvVarPluginDir); d != "" {
		l = append(l, d)
	}
	if ex, err := os.Executable(); err == nil {
		if exReal, err := filepath.EvalSymlinks(ex); err == nil {
			l = append(l, filepath.Dir(exReal))
		}
	}
	return append(l, Locations...)
}

func (l Loc) String() string {
	tmp := make([]string, 0, len(l))
	for _, v := range l {
		tmp = append(tmp, fmt.Sprintf("'%v'", v))
	}
	return strings.Join(tmp, ", ")
}

// LoadPluginExports opens pluginName from the first location that has it and
// returns its exported symbol "Exports".
func LoadPluginExports(pluginName string) (interface{}, error) {
	var symbolName = "Exports"
	var errs []string
	for _, l := range searchPath() { // for each location...
		fullPath := path.Join(l, pluginName)
		plug, err := plugin.Open(fullPath)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%v: %v", fullPath, err))
			continue
		}
		t, err := plug.Lookup(symbolName)
		if err != nil {
			return nil, fmt.Errorf("symbol %v not found in plugin %v: %v", symbolName, fullPath, err)
		}
		return t, nil
	}
	// Build one error string from all errors of format: (<n>) <error>
	var errTxt string
	for i, e := range errs {
		errTxt = fmt.Sprintf("%v (%v) %v", errTxt, i+1, e)
	}
	return nil, fmt.Errorf("unable to load plugin %v (set %v to its directory) due to the following error(s): %v",
		pluginName, constants.EnvVarPluginDir, strings.TrimSpace(errTxt))
}
