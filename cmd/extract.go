package cmd

import (
	"context"
	"fmt"

	"github.com/relloyd/lakepipe/actions"
	"github.com/relloyd/lakepipe/constants"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract Oracle tables to Parquet and upload them to a lakehouse",
	Long: fmt.Sprintf(`Extract every table listed under processing_settings.tables_to_process.

Oracle credentials are read from %v, %v and %v.
Uploads happen when %v, %v and %v are set
and fabric_lakehouse_settings holds a workspace and lakehouse id; otherwise the
Parquet files are only written locally.

Use --dry-run to print the generated queries.`,
		constants.EnvVarOracleUser, constants.EnvVarOraclePassword, constants.EnvVarOracleDsn,
		constants.EnvVarFabricTenantID, constants.EnvVarFabricClientID, constants.EnvVarFabricClientSecret),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		extractCfg.StackDumpOnPanic = stackDumpOnPanic
		extractCfg.Out = cmd.OutOrStdout()
		_, err := actions.RunExtract(context.Background(), &extractCfg)
		return err
	},
}

var extractCfg = actions.ExtractConfig{}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().SortFlags = false
	extractCmd.SilenceUsage = true // avoid dumping command help when a table fails.
	switches.addFlag(extractCmd, &extractCfg.ConfigFile, "config", constants.DefaultConfigFile, false, "")
	switches.addFlag(extractCmd, &extractCfg.EnvFile, "env-file", constants.DefaultEnvFile, false, "")
	switches.addFlag(extractCmd, &extractCfg.LogLevel, "log-level", "info", false, "")
	switches.addFlag(extractCmd, &extractCfg.DryRun, "dry-run", "false", false, "")
	switches.addFlag(extractCmd, &extractCfg.Strict, "strict", "false", false, "")
	switches.addFlag(extractCmd, &extractCfg.StatsFrequency, "stats", "30", false, "")
}
