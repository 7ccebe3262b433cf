package cmd

import (
	"context"
	"fmt"

	"selcollect/internal/config"
	"selcollect/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// setupServersCmd configures the servers command.
func setupServersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "servers",
		Short: "List servers eligible for SEL collection",
		Long: `List the physical servers the platform manages, excluding servers
under the legacy management mode.

Examples:
  selcollect servers
  selcollect servers --env-file ./prod.env`,
		RunE: runServers,
	}
	return cmd
}

func runServers(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(envFile, cfgFile)
	if err != nil {
		return err
	}

	logCfg := cfg.Logging
	if logCfg == nil {
		logCfg = logging.DefaultConfig()
	}
	logCfg.ConsoleFormat = "plain"
	// Inventory output goes to stdout; keep the console logger quiet
	// unless asked for.
	if !verbose {
		logCfg.EnableConsole = false
	} else {
		logCfg.Level = "debug"
	}
	if err := logging.Setup(logCfg); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer func() { _ = logging.Close() }()

	logger := logging.L().With(zap.String("command", "servers"))

	col, err := buildCollector(cfg, DefaultCollectOptions(), logger)
	if err != nil {
		return err
	}

	records, err := col.Inventory(context.Background())
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No eligible servers found.")
		return nil
	}

	fmt.Printf("%-26s %s\n", "MOID", "MANAGEMENT MODE")
	for _, rec := range records {
		fmt.Printf("%-26s %s\n", rec.Moid, rec.ManagementMode)
	}
	fmt.Printf("\n%d eligible servers.\n", len(records))
	return nil
}
