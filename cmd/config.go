package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/relloyd/lakepipe/config"
	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/logger"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration with defaults applied",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.NewLogger("lakepipe", configLogLevel, stackDumpOnPanic)
		f, err := config.Load(log, configFile)
		if err != nil {
			return err
		}
		full := f.WithDefaults()
		b, err := full.Render()
		if err != nil {
			return errors.Wrap(err, "error rendering config")
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and credentials without connecting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.NewLogger("lakepipe", configLogLevel, stackDumpOnPanic)
		if err := config.LoadEnvFile(log, configEnvFile); err != nil {
			return err
		}
		f, err := config.Load(log, configFile)
		if err != nil {
			return err
		}
		rc, err := config.NewRunContext(f)
		if err != nil {
			return errors.Wrap(err, "invalid configuration")
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Oracle:      %v\n", rc.Oracle)
		fmt.Fprintf(out, "Output:      %v\n", rc.BaseOutputDirectory)
		fmt.Fprintf(out, "Cast:        NUMBER(%v,%v)\n", rc.Precision, rc.Scale)
		if rc.Destination.Complete() {
			fmt.Fprintf(out, "Upload:      %v\n", rc.Destination.Target)
		} else {
			fmt.Fprintf(out, "Upload:      disabled (missing %v)\n", rc.Destination.Missing())
		}
		for _, t := range rc.Tables {
			fmt.Fprintf(out, "Table:       %v -> %v/%v\n", t.SourceTable, t.DestFolder, t.DestFileName)
		}
		for _, s := range rc.Skipped {
			fmt.Fprintf(out, "Skipped:     tables_to_process[%v] missing %v\n", s.Index, s.Missing)
		}
		return nil
	},
}

var (
	configFile     string
	configEnvFile  string
	configLogLevel string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configCheckCmd)
	for _, c := range []*cobra.Command{configShowCmd, configCheckCmd} {
		c.SilenceUsage = true
		switches.addFlag(c, &configFile, "config", constants.DefaultConfigFile, false, "")
		switches.addFlag(c, &configLogLevel, "log-level", "warn", false, "")
	}
	switches.addFlag(configCheckCmd, &configEnvFile, "env-file", constants.DefaultEnvFile, false, "")
}
