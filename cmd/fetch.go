package cmd

import (
	"context"
	"fmt"

	"github.com/relloyd/lakepipe/actions"
	"github.com/relloyd/lakepipe/constants"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Copy files from a SharePoint document library to a lakehouse",
	Long: fmt.Sprintf(`Copy one file, or every file of a folder, from the SharePoint site and
document library in sharepoint_settings to a lakehouse folder.

Authentication uses %v with %v and %v when they are set,
otherwise %v. Files are saved under --local-dir when the
lakehouse settings are incomplete.`,
		constants.EnvVarFabricClientID, constants.EnvVarSharePointUsername, constants.EnvVarSharePointPassword,
		constants.EnvVarFabricClientSecret),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fetchCfg.StackDumpOnPanic = stackDumpOnPanic
		res, err := actions.RunFetch(context.Background(), &fetchCfg)
		for _, r := range res {
			if r.Err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%v -> %v\n", r.Name, r.Remote)
			}
		}
		return err
	},
}

var fetchCfg = actions.FetchConfig{}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().SortFlags = false
	fetchCmd.SilenceUsage = true
	switches.addFlag(fetchCmd, &fetchCfg.ConfigFile, "config", constants.DefaultConfigFile, false, "")
	switches.addFlag(fetchCmd, &fetchCfg.EnvFile, "env-file", constants.DefaultEnvFile, false, "")
	switches.addFlag(fetchCmd, &fetchCfg.LogLevel, "log-level", "info", false, "")
	switches.addFlag(fetchCmd, &fetchCfg.FileName, "file", "", false, "")
	switches.addFlag(fetchCmd, &fetchCfg.SourceFolder, "source-folder", "", true, "")
	switches.addFlag(fetchCmd, &fetchCfg.DestFolder, "dest-folder", "", true, "")
	switches.addFlag(fetchCmd, &fetchCfg.LocalDir, "local-dir", constants.DefaultSharePointOutputDir, false, "")
}
