package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/relloyd/lakepipe/actions"
	"github.com/relloyd/lakepipe/constants"
	"github.com/spf13/cobra"
)

var (
	// Default values may be set at compile time.
	version          = "0.1.0"
	buildDate        = "2026-01-01T00:00+0000"
	osArch           = "linux"
	stackDumpOnPanic bool
)

var rootCmd = &cobra.Command{
	Use:   "lp",
	Short: "Lakepipe copies Oracle tables and SharePoint files into a Fabric lakehouse.",
	Long: `Lakepipe extracts Oracle tables listed in a configuration file, casts NUMBER columns
to a fixed precision and scale, writes each table to a local Parquet file and uploads
the files to a Microsoft Fabric lakehouse (OneLake) when credentials are supplied.
It can also copy files from a SharePoint document library into the lakehouse.`,
}

func init() {
	// General setup.
	cobra.EnableCommandSorting = false
	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&stackDumpOnPanic, "print-stack", false, "Print a stack dump if there is a panic")
	_ = rootCmd.PersistentFlags().MarkHidden("print-stack")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Execute() prints the error.
		os.Exit(exitCode(err))
	}
}

// exitCode returns the status carried by an actions.ExitError, else the setup error status.
func exitCode(err error) int {
	var e *actions.ExitError
	if errors.As(err, &e) {
		return e.Code
	}
	return constants.ExitCodeSetupError
}
