// Package cmd provides the CLI commands for the selcollect tool.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"selcollect/internal/collector"
	"selcollect/internal/config"
	"selcollect/internal/intersight"
	"selcollect/internal/logging"
	"selcollect/internal/signing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// CollectOptions holds options for the collect command. Zero values defer
// to the loaded configuration.
type CollectOptions struct {
	EnvFile     string
	ConfigFile  string
	OutputDir   string
	Wait        time.Duration
	SkipTrigger bool
	DryRun      bool
}

// DefaultCollectOptions returns the default collect options.
func DefaultCollectOptions() *CollectOptions {
	return &CollectOptions{}
}

// CollectRunner handles the collection workflow.
type CollectRunner struct {
	options   *CollectOptions
	cfg       *config.Config
	logger    *zap.Logger
	collector *collector.Collector
}

// NewCollectRunner creates a new collect runner with the given options.
func NewCollectRunner(opts *CollectOptions) (*CollectRunner, error) {
	if opts == nil {
		opts = DefaultCollectOptions()
	}

	cfg, err := config.Load(opts.EnvFile, opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if opts.OutputDir != "" {
		cfg.OutputDir = opts.OutputDir
	}
	if opts.Wait > 0 {
		cfg.Wait = opts.Wait
	}

	// Set up logging
	logCfg := cfg.Logging
	if logCfg == nil {
		logCfg = logging.DefaultConfig()
	}
	logCfg.ConsoleFormat = "plain"
	if verbose {
		logCfg.Level = "debug"
	}
	if err := logging.Setup(logCfg); err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	logger := logging.L().With(
		zap.String("command", "collect"),
		logging.Host(cfg.APIHost),
	)

	col, err := buildCollector(cfg, opts, logger)
	if err != nil {
		return nil, err
	}

	return &CollectRunner{
		options:   opts,
		cfg:       cfg,
		logger:    logger,
		collector: col,
	}, nil
}

// buildCollector constructs the signer, the signed clients for the
// control-plane and download hosts, and the collector itself.
func buildCollector(cfg *config.Config, opts *CollectOptions, logger *zap.Logger) (*collector.Collector, error) {
	signer, err := signing.NewFromFile(cfg.KeyID, cfg.PrivateKeyPath)
	if err != nil {
		return nil, err
	}

	clientOpts := []intersight.Option{intersight.WithTimeout(cfg.RequestTimeout)}
	if cfg.Insecure {
		clientOpts = append(clientOpts, intersight.WithInsecureTLS())
	}

	api := intersight.New("https://"+cfg.APIHost, signer, clientOpts...)
	download := intersight.New("https://"+cfg.ResolvedDownloadHost(), signer, clientOpts...)

	return collector.New(&collector.Config{
		API:         api,
		Download:    download,
		OutputDir:   cfg.OutputDir,
		Wait:        cfg.Wait,
		SkipTrigger: opts.SkipTrigger,
		DryRun:      opts.DryRun,
		Logger:      logger,
	})
}

// Run executes the collection workflow.
func (r *CollectRunner) Run(ctx context.Context) error {
	r.logger.Info("collect_starting",
		zap.String("output_dir", r.cfg.OutputDir),
		zap.Bool("skip_trigger", r.options.SkipTrigger),
		zap.Bool("dry_run", r.options.DryRun),
	)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle signals for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		r.logger.Info("received_signal", zap.String("signal", sig.String()))
		cancel()
	}()

	report, err := r.collector.Run(ctx)
	if err != nil {
		return err
	}

	// Per-server failures never fail the run; the report is the signal.
	fmt.Printf("Collected %d of %d servers (%d triggered, %d failures).\n",
		report.Downloaded, report.Servers, report.Triggered, report.FailureCount())
	for _, f := range report.Failures {
		fmt.Printf("  %s\n", f.Error())
	}
	fmt.Println("Finished downloading SEL files.")
	return nil
}

// Close releases resources.
func (r *CollectRunner) Close() error {
	return logging.Close()
}

// RunCollectCommand executes the collect command with the given options.
func RunCollectCommand(opts *CollectOptions) error {
	runner, err := NewCollectRunner(opts)
	if err != nil {
		return err
	}
	defer func() { _ = runner.Close() }()

	return runner.Run(context.Background())
}

// setupCollectCmd configures the collect command.
func setupCollectCmd() *cobra.Command {
	opts := DefaultCollectOptions()

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Trigger and download SEL files for all eligible servers",
		Long: `Run the full collection pipeline: inventory servers, trigger SEL
generation, wait for the configured delay, and download the generated logs.

Only servers managed by the platform or in standalone mode are collected;
legacy-managed servers are excluded.

Examples:
  selcollect collect
  selcollect collect --output ./sel --wait 10s
  selcollect collect --skip-trigger
  selcollect collect --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.EnvFile = envFile
			opts.ConfigFile = cfgFile
			return RunCollectCommand(opts)
		},
	}

	cmd.Flags().StringVar(&opts.OutputDir, "output", "", "output folder for downloaded logs (default SEL_logs)")
	cmd.Flags().DurationVar(&opts.Wait, "wait", 0, "delay between trigger and download (default 5s)")
	cmd.Flags().BoolVar(&opts.SkipTrigger, "skip-trigger", false, "download existing logs without triggering generation")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "resolve servers and settings without triggering or downloading")

	return cmd
}
