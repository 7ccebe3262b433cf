// Package cmd provides the CLI commands for the selcollect tool.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	envFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "selcollect",
	Short: "Collect System Event Logs from managed servers",
	Long: `selcollect fetches System Event Log (SEL) files from servers managed
by the infrastructure-management platform:
  - Inventories physical servers (legacy-managed servers are excluded)
  - Triggers SEL generation via each server's settings resource
  - Downloads the generated log files into a local folder

Credentials come from the environment or a local .env file:
  INTERSIGHT_URL  API host, e.g. eu-central-1.intersight.com
  KEY_ID          API key identifier
  PRIVATE_KEY     path to the PEM signing key`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "settings file (YAML, optional)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file with credentials (default ./.env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(setupCollectCmd())
	rootCmd.AddCommand(setupServersCmd())
}
