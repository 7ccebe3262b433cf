// Package collector implements the SEL collection pipeline.
//
// A run advances every inventoried server through four stages: settings
// resolution, collection trigger, endpoint log resolution, and download.
// Stage failures are recorded per server and never abort the batch; a
// server whose record is missing a field is skipped by later stages. The
// platform exposes no completion signal for SEL generation, so a fixed
// wait separates the trigger phase from the download phase.
package collector

import (
	"context"
	"time"

	"selcollect/internal/errors"
	"selcollect/internal/intersight"
	"selcollect/internal/logging"
	"selcollect/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds collector configuration.
type Config struct {
	// API is the client for the control-plane host.
	API *intersight.Client

	// Download is the client for the download host.
	Download *intersight.Client

	// OutputDir is the local folder log files are written to.
	OutputDir string

	// Wait is the delay between the trigger phase and the download phase.
	// Default: 5 seconds
	Wait time.Duration

	// SkipTrigger skips the collection trigger and the generation wait,
	// downloading whatever logs the platform already holds.
	SkipTrigger bool

	// DryRun stops after settings resolution; nothing is triggered or
	// downloaded.
	DryRun bool

	// Logger is the logger instance.
	Logger *zap.Logger
}

// DefaultWait is the delay applied when Config.Wait is zero.
const DefaultWait = 5 * time.Second

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.API == nil {
		return errors.NewConfigValidationError("API", nil, "API client is required")
	}
	if c.Download == nil {
		return errors.NewConfigValidationError("Download", nil, "download client is required")
	}
	if c.OutputDir == "" {
		return errors.NewConfigValidationError("OutputDir", c.OutputDir, "must not be empty")
	}
	if c.Wait < 0 {
		return errors.NewConfigValidationError("Wait", c.Wait, "must be non-negative")
	}
	return nil
}

// Collector drives the collection pipeline against one platform.
type Collector struct {
	api         *intersight.Client
	downloader  *Downloader
	wait        time.Duration
	skipTrigger bool
	dryRun      bool
	logger      *zap.Logger
}

// New creates a Collector with the given configuration.
func New(cfg *Config) (*Collector, error) {
	if cfg == nil {
		return nil, errors.NewConfigValidationError("config", nil, "configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.L()
	}

	wait := cfg.Wait
	if wait == 0 {
		wait = DefaultWait
	}

	return &Collector{
		api:         cfg.API,
		downloader:  NewDownloader(cfg.Download, cfg.OutputDir, logger),
		wait:        wait,
		skipTrigger: cfg.SkipTrigger,
		dryRun:      cfg.DryRun,
		logger:      logger,
	}, nil
}

// Inventory lists every server eligible for SEL collection, excluding
// servers under the legacy management mode.
func (c *Collector) Inventory(ctx context.Context) ([]*models.ServerRecord, error) {
	summaries, err := c.api.ListPhysicalSummaries(ctx)
	if err != nil {
		return nil, errors.NewInventoryError(err)
	}

	records := make([]*models.ServerRecord, 0, len(summaries))
	for _, s := range summaries {
		if s.ManagementMode == intersight.ManagementModeLegacy {
			c.logger.Debug("server_skipped_legacy_mode",
				logging.Server(s.Moid),
				zap.String("management_mode", s.ManagementMode),
			)
			continue
		}
		records = append(records, &models.ServerRecord{
			Moid:           s.Moid,
			ManagementMode: s.ManagementMode,
		})
	}

	c.logger.Info("inventory_complete",
		logging.Count(len(records)),
		zap.Int("total", len(summaries)),
		zap.Int("excluded", len(summaries)-len(records)),
	)
	return records, nil
}

// ResolveSetting resolves the server's settings resource Moid. When the
// query returns multiple settings, the first result wins.
func (c *Collector) ResolveSetting(ctx context.Context, rec *models.ServerRecord) error {
	settings, err := c.api.ListServerSettings(ctx, rec.Moid)
	if err != nil {
		return errors.NewSettingResolveError(rec.Moid, err)
	}
	if len(settings) == 0 {
		return errors.NewSettingNotFoundError(rec.Moid)
	}
	rec.SettingMoid = settings[0].Moid
	return nil
}

// Trigger instructs the server's settings resource to begin SEL
// collection. Fire-and-forget: the platform acknowledges the update but
// never reports generation progress.
func (c *Collector) Trigger(ctx context.Context, rec *models.ServerRecord) error {
	if !rec.HasSetting() {
		return errors.NewSettingNotFoundError(rec.Moid)
	}
	setting := intersight.ServerSetting{
		Moid:       rec.SettingMoid,
		CollectSel: intersight.CollectSelInitiate,
	}
	if err := c.api.UpdateServerSetting(ctx, rec.SettingMoid, setting); err != nil {
		return errors.NewTriggerError(rec.Moid, rec.SettingMoid, err)
	}
	return nil
}

// ResolveLog resolves the server's generated endpoint log Moid and
// filename. When the query returns multiple logs, the first result wins.
func (c *Collector) ResolveLog(ctx context.Context, rec *models.ServerRecord) error {
	logs, err := c.api.ListEndPointLogs(ctx, rec.Moid)
	if err != nil {
		return errors.NewLogResolveError(rec.Moid, err)
	}
	if len(logs) == 0 {
		return errors.NewLogNotFoundError(rec.Moid)
	}
	rec.LogMoid = logs[0].Moid
	rec.LogFilename = logs[0].FileName
	return nil
}

// Run executes the full pipeline and returns the run report. Per-server
// failures are recorded in the report; only inventory failure is fatal.
func (c *Collector) Run(ctx context.Context) (*models.Report, error) {
	report := &models.Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	logger := c.logger.With(zap.String("run_id", report.RunID))

	logger.Info("collection_starting", logging.Duration(c.wait))

	records, err := c.Inventory(ctx)
	if err != nil {
		return report, err
	}
	report.Servers = len(records)

	for _, rec := range records {
		if err := c.ResolveSetting(ctx, rec); err != nil {
			logger.Warn("settings_resolution_failed", logging.Server(rec.Moid), zap.Error(err))
			report.AddFailure(rec.Moid, models.StageSettings, err)
			continue
		}
		if c.dryRun {
			continue
		}
		if !c.skipTrigger {
			if err := c.Trigger(ctx, rec); err != nil {
				logger.Warn("trigger_failed", logging.Server(rec.Moid), zap.Error(err))
				report.AddFailure(rec.Moid, models.StageTrigger, err)
				continue
			}
			report.Triggered++
		}
		if err := c.ResolveLog(ctx, rec); err != nil {
			logger.Warn("log_resolution_failed", logging.Server(rec.Moid), zap.Error(err))
			report.AddFailure(rec.Moid, models.StageLogResolve, err)
			continue
		}
	}

	if c.dryRun {
		report.Duration = time.Since(report.StartedAt)
		logger.Info("dry_run_complete",
			zap.Int("servers", report.Servers),
			zap.Int("failures", report.FailureCount()),
		)
		return report, nil
	}

	if !c.skipTrigger {
		// No completion signal exists for SEL generation; the wait is the
		// only synchronization between trigger and download.
		logger.Info("waiting_for_generation", logging.Duration(c.wait))
		select {
		case <-ctx.Done():
			report.Duration = time.Since(report.StartedAt)
			return report, ctx.Err()
		case <-time.After(c.wait):
		}
	}

	for _, rec := range records {
		if !rec.HasLog() {
			continue
		}
		path, err := c.downloader.Download(ctx, rec)
		if err != nil {
			logger.Warn("download_failed", logging.Server(rec.Moid), zap.Error(err))
			report.AddFailure(rec.Moid, models.StageDownload, err)
			continue
		}
		logger.Info("log_downloaded",
			logging.Server(rec.Moid),
			logging.File(rec.LogFilename),
			zap.String("path", path),
		)
		report.Downloaded++
	}

	report.Duration = time.Since(report.StartedAt)
	logger.Info("collection_complete",
		zap.Int("servers", report.Servers),
		zap.Int("triggered", report.Triggered),
		zap.Int("downloaded", report.Downloaded),
		zap.Int("failures", report.FailureCount()),
		logging.Duration(report.Duration),
	)
	return report, nil
}
