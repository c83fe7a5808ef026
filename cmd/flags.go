package cmd

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/helper"
	"github.com/spf13/cobra"
)

type cliFlag struct {
	name      string // name of flag
	val       string // default value
	shortHand string // single character name for the flag
	desc      string // description of the flag; the long text
}

type cliFlags map[string]cliFlag

var switches = cliFlags{
	"config": cliFlag{name: "config", shortHand: "c",
		desc: "YAML (or JSON) configuration file listing the tables to process"},
	"env-file": cliFlag{name: "env-file", shortHand: "e",
		desc: "Optional dotenv file with credentials; variables already set in the \n" +
			"environment take priority"},
	"log-level": cliFlag{name: "log-level", shortHand: "l",
		desc: "Log level: \"error | warn | info | debug | trace\""},
	"dry-run": cliFlag{name: "dry-run", shortHand: "d",
		desc: "Print the extraction query for each table without executing it"},
	"strict": cliFlag{name: "strict", shortHand: "s",
		desc: "Exit with status 2 when any table fails and 3 when there is nothing to process"},
	"stats": cliFlag{name: "stats", shortHand: "L",
		desc: "Number of seconds between logging row counts while a table is extracted (use -1 to disable)"},
	"file": cliFlag{name: "file", shortHand: "f",
		desc: "Name of a single file to fetch; leave blank to fetch every file in the source folder"},
	"source-folder": cliFlag{name: "source-folder", shortHand: "S",
		desc: "Folder inside the SharePoint document library"},
	"dest-folder": cliFlag{name: "dest-folder", shortHand: "D",
		desc: "Lakehouse folder under Files/ to write to"},
	"local-dir": cliFlag{name: "local-dir", shortHand: "o",
		desc: "Directory to save files in when no lakehouse is configured"},
}

// addFlag adds a flag to cobra.Command c, based on the type of targetVar (which must be a pointer).
// The name of the flag is looked up in map, cliFlags.
// The default value is read from environment variable LP_<FLAG NAME> if it is set, else defaultValue is used.
// The flag is marked as required in Cobra based on the value of required.
// Supply a value for desc2 to append to the existing description found in map cliFlags.
func (f *cliFlags) addFlag(c *cobra.Command, targetVar interface{}, name string, defaultValue string, required bool, desc2 string) {
	v := reflect.ValueOf(targetVar)
	if v.Kind() != reflect.Ptr {
		fmt.Println("error adding flag: targetVar must be a pointer")
		os.Exit(1)
	}
	sw := f.getCliFlag(name, defaultValue, helper.ReadValueFromEnv)
	desc := sw.desc + desc2
	switch p := targetVar.(type) {
	case *string:
		c.Flags().StringVarP(p, sw.name, sw.shortHand, sw.val, desc)
	case *bool:
		c.Flags().BoolVarP(p, sw.name, sw.shortHand, helper.GetTrueFalseStringAsBool(sw.val), desc)
	case *int:
		defaultInt := 0
		if sw.val != "" {
			var err error
			if defaultInt, err = strconv.Atoi(sw.val); err != nil {
				fmt.Printf("the value for flag %q must be an integer: %v\n", sw.name, err)
				os.Exit(1)
			}
		}
		c.Flags().IntVarP(p, sw.name, sw.shortHand, defaultInt, desc)
	default:
		panic("Error: unhandled CLI flag target value type")
	}
	if required {
		_ = c.MarkFlagRequired(sw.name)
	}
}

// getCliFlag fetches the default value of name from the environment.
// If a value cannot be found then use the supplied defaultValue in its place.
func (f *cliFlags) getCliFlag(name string, defaultValue string, fnGetEnv func(key string, out *string) error) cliFlag {
	s, ok := (*f)[name]
	if !ok {
		panic(fmt.Sprintf("unregistered CLI flag, %q", name))
	}
	if err := fnGetEnv(flagNameToEnvVar(name), &s.val); err != nil {
		s.val = defaultValue
	}
	return s
}

// flagNameToEnvVar will form a sanitised environment variable name using constants.EnvVarPrefix.
func flagNameToEnvVar(name string) string {
	return constants.EnvVarPrefix + "_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}
