package collector

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"selcollect/internal/errors"
	"selcollect/internal/intersight"
	"selcollect/internal/logging"
	"selcollect/internal/models"

	"go.uber.org/zap"
)

// Downloader fetches generated log bodies from the download host and
// writes them to the local output folder. The folder is created on the
// first download of a run; an already-existing folder is fine.
type Downloader struct {
	client    *intersight.Client
	outputDir string
	logger    *zap.Logger

	mkdirOnce sync.Once
	mkdirErr  error
}

// NewDownloader creates a Downloader writing into outputDir.
func NewDownloader(client *intersight.Client, outputDir string, logger *zap.Logger) *Downloader {
	if logger == nil {
		logger = logging.L()
	}
	return &Downloader{
		client:    client,
		outputDir: outputDir,
		logger:    logger,
	}
}

// ensureDir creates the output folder once per Downloader.
func (d *Downloader) ensureDir() error {
	d.mkdirOnce.Do(func() {
		d.mkdirErr = os.MkdirAll(d.outputDir, 0755)
		if d.mkdirErr == nil {
			d.logger.Debug("output_dir_ready", zap.String("path", d.outputDir))
		}
	})
	return d.mkdirErr
}

// Download fetches the record's log body and writes it to a file named
// after the resolved filename inside the output folder. Returns the path
// of the written file. Records without a resolved log are rejected.
func (d *Downloader) Download(ctx context.Context, rec *models.ServerRecord) (string, error) {
	if !rec.HasLog() {
		return "", errors.NewLogNotFoundError(rec.Moid)
	}

	body, err := d.client.DownloadLog(ctx, rec.LogMoid)
	if err != nil {
		return "", errors.NewDownloadError(rec.LogMoid, err)
	}

	if err := d.ensureDir(); err != nil {
		return "", errors.NewSaveError(d.outputDir, err)
	}

	// The filename comes from the platform; strip any path components.
	name := filepath.Base(rec.LogFilename)
	path := filepath.Join(d.outputDir, name)

	if err := os.WriteFile(path, body, 0644); err != nil {
		return "", errors.NewSaveError(path, err)
	}
	return path, nil
}
