// Package config loads and validates the collector configuration.
//
// Credentials and the API host come from the environment, optionally seeded
// from a local .env file (the same keys the platform's own tooling uses:
// INTERSIGHT_URL, KEY_ID, PRIVATE_KEY). Non-credential knobs can be set in
// an optional YAML settings file. The resulting Config is an explicit value
// passed to every collaborator; nothing reads the environment after Load.
package config

import (
	"os"
	"time"

	"selcollect/internal/errors"
	"selcollect/internal/logging"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names, matching the platform's tooling conventions.
const (
	EnvAPIHost        = "INTERSIGHT_URL"
	EnvKeyID          = "KEY_ID"
	EnvPrivateKeyPath = "PRIVATE_KEY"
)

// Config holds the full collector configuration.
type Config struct {
	// APIHost is the management platform host (no scheme), e.g.
	// "eu-central-1.intersight.com".
	APIHost string `yaml:"api_host"`

	// KeyID is the API key identifier used in the Authorization header.
	KeyID string `yaml:"-"`

	// PrivateKeyPath is the path to the PEM-encoded signing key.
	PrivateKeyPath string `yaml:"-"`

	// DownloadHost is the host serving raw log bodies. Empty means
	// "download." prepended to APIHost.
	DownloadHost string `yaml:"download_host"`

	// OutputDir is the local folder log files are written to.
	OutputDir string `yaml:"output_dir"`

	// Wait is the delay between the trigger phase and the download phase.
	// The platform exposes no completion signal for SEL generation; the
	// delay is the only synchronization.
	Wait time.Duration `yaml:"wait"`

	// RequestTimeout bounds each platform request.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Insecure disables TLS certificate verification. The platform's
	// on-prem appliances commonly present self-signed certificates.
	Insecure bool `yaml:"insecure"`

	// Logging configures the structured logger.
	Logging *logging.Config `yaml:"logging"`
}

// Default returns the default configuration (credentials unset).
func Default() *Config {
	return &Config{
		OutputDir:      "SEL_logs",
		Wait:           5 * time.Second,
		RequestTimeout: 30 * time.Second,
		Insecure:       true,
		Logging:        logging.DefaultConfig(),
	}
}

// yamlConfig mirrors the YAML settings file. Durations are parsed from
// strings like "5s" so the file stays human-editable.
type yamlConfig struct {
	APIHost        string          `yaml:"api_host"`
	DownloadHost   string          `yaml:"download_host"`
	OutputDir      string          `yaml:"output_dir"`
	Wait           string          `yaml:"wait"`
	RequestTimeout string          `yaml:"request_timeout"`
	Insecure       *bool           `yaml:"insecure"`
	Logging        *logging.Config `yaml:"logging"`
}

// Load builds the configuration from defaults, an optional YAML settings
// file, an optional .env file, and the process environment, in that order
// of increasing precedence for the credential fields.
func Load(envFile, configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := applyFile(cfg, configFile); err != nil {
			return nil, err
		}
	}

	// Seed the process environment from the .env file. Existing variables
	// win; a missing default .env file is not an error.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, errors.NewConfigMissingError(envFile)
		}
	} else {
		_ = godotenv.Load()
	}

	if v := os.Getenv(EnvAPIHost); v != "" {
		cfg.APIHost = v
	}
	cfg.KeyID = os.Getenv(EnvKeyID)
	cfg.PrivateKeyPath = os.Getenv(EnvPrivateKeyPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile overlays settings from a YAML file onto cfg.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewConfigMissingError(path)
		}
		return errors.NewConfigInvalidError("failed to read settings file", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return errors.NewConfigInvalidError("failed to parse settings file", err)
	}

	if yc.APIHost != "" {
		cfg.APIHost = yc.APIHost
	}
	if yc.DownloadHost != "" {
		cfg.DownloadHost = yc.DownloadHost
	}
	if yc.OutputDir != "" {
		cfg.OutputDir = yc.OutputDir
	}
	if yc.Wait != "" {
		d, err := time.ParseDuration(yc.Wait)
		if err != nil {
			return errors.NewConfigValidationError("wait", yc.Wait, "invalid duration")
		}
		cfg.Wait = d
	}
	if yc.RequestTimeout != "" {
		d, err := time.ParseDuration(yc.RequestTimeout)
		if err != nil {
			return errors.NewConfigValidationError("request_timeout", yc.RequestTimeout, "invalid duration")
		}
		cfg.RequestTimeout = d
	}
	if yc.Insecure != nil {
		cfg.Insecure = *yc.Insecure
	}
	if yc.Logging != nil {
		cfg.Logging = yc.Logging
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.APIHost == "" {
		return errors.NewConfigValidationError("APIHost", c.APIHost, EnvAPIHost+" is required")
	}
	if c.KeyID == "" {
		return errors.NewConfigValidationError("KeyID", c.KeyID, EnvKeyID+" is required")
	}
	if c.PrivateKeyPath == "" {
		return errors.NewConfigValidationError("PrivateKeyPath", c.PrivateKeyPath, EnvPrivateKeyPath+" is required")
	}
	if c.OutputDir == "" {
		return errors.NewConfigValidationError("OutputDir", c.OutputDir, "must not be empty")
	}
	if c.Wait < 0 {
		return errors.NewConfigValidationError("Wait", c.Wait, "must be non-negative")
	}
	if c.RequestTimeout <= 0 {
		return errors.NewConfigValidationError("RequestTimeout", c.RequestTimeout, "must be positive")
	}
	return nil
}

// ResolvedDownloadHost returns the host raw log bodies are fetched from.
func (c *Config) ResolvedDownloadHost() string {
	if c.DownloadHost != "" {
		return c.DownloadHost
	}
	return "download." + c.APIHost
}
