// Package logging_test provides tests for the collector logging package.
package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"selcollect/internal/logging"
)

func TestDefaultConfig(t *testing.T) {
	cfg := logging.DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.LogDir != "logs" {
		t.Errorf("expected log dir 'logs', got %q", cfg.LogDir)
	}
	if cfg.LogFile != "selcollect.jsonl" {
		t.Errorf("expected log file 'selcollect.jsonl', got %q", cfg.LogFile)
	}
	if cfg.MaxSizeMB != 10 {
		t.Errorf("expected max size 10MB, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 5 {
		t.Errorf("expected max backups 5, got %d", cfg.MaxBackups)
	}
	if !cfg.EnableConsole {
		t.Error("console should be enabled by default")
	}
	if !cfg.EnableFile {
		t.Error("file should be enabled by default")
	}
}

func TestSetupWithDefaults(t *testing.T) {
	// Use temp directory for logs
	tmpDir := t.TempDir()
	cfg := &logging.Config{
		Level:         "debug",
		LogDir:        tmpDir,
		LogFile:       "test.jsonl",
		MaxSizeMB:     1,
		MaxBackups:    2,
		EnableConsole: false, // Disable console to avoid test output noise
		EnableFile:    true,
		ConsoleFormat: "plain",
	}

	err := logging.Setup(cfg)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer func() { _ = logging.Close() }()

	// Log something
	logger := logging.L()
	logger.Info("test message", logging.Moid("srv-123"))

	// Verify log file was created
	logPath := filepath.Join(tmpDir, "test.jsonl")
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("log file was not created")
	}
}

func TestLoggerOutputsJSONL(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &logging.Config{
		Level:         "info",
		LogDir:        tmpDir,
		LogFile:       "jsonl-test.jsonl",
		MaxSizeMB:     1,
		MaxBackups:    1,
		EnableConsole: false,
		EnableFile:    true,
	}

	err := logging.Setup(cfg)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer func() { _ = logging.Close() }()

	logger := logging.L()
	logger.Info("test_event", logging.Count(42), logging.File("sel.txt"))
	_ = logging.Sync()

	// Read and parse the log file
	logPath := filepath.Join(tmpDir, "jsonl-test.jsonl")
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	// Each line should be valid JSON
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) == 0 {
		t.Fatal("no log lines written")
	}

	for i, line := range lines {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Errorf("line %d is not valid JSON: %v\nLine: %s", i, err, line)
		}

		if _, ok := entry["timestamp"]; !ok {
			t.Error("log entry missing 'timestamp' field")
		}
		if _, ok := entry["level"]; !ok {
			t.Error("log entry missing 'level' field")
		}
		if _, ok := entry["msg"]; !ok {
			t.Error("log entry missing 'msg' field")
		}
		if _, ok := entry["service"]; !ok {
			t.Error("log entry missing 'service' field")
		}
	}
}

func TestWithRun(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &logging.Config{
		Level:         "debug",
		LogDir:        tmpDir,
		LogFile:       "run-test.jsonl",
		MaxSizeMB:     1,
		MaxBackups:    1,
		EnableConsole: false,
		EnableFile:    true,
	}

	err := logging.Setup(cfg)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer func() { _ = logging.Close() }()

	// Create child logger with run correlation
	logger := logging.WithRun("run-123")
	logger.Info("collection_started")
	_ = logging.Sync()

	// Read and verify the run_id field
	logPath := filepath.Join(tmpDir, "run-test.jsonl")
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) == 0 {
		t.Fatal("no log lines written")
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &entry); err != nil {
		t.Fatalf("failed to parse log line: %v", err)
	}

	if entry["run_id"] != "run-123" {
		t.Errorf("expected run_id 'run-123', got %v", entry["run_id"])
	}
}

func TestFieldConstructors(t *testing.T) {
	// Test that field constructors don't panic
	fields := []struct {
		name  string
		field interface{}
	}{
		{"Moid", logging.Moid("srv-1")},
		{"Server", logging.Server("srv-1")},
		{"File", logging.File("sel.txt")},
		{"Stage", logging.Stage("download")},
		{"Host", logging.Host("intersight.example.com")},
		{"Count", logging.Count(100)},
		{"Duration", logging.Duration(1000)},
		{"ErrorCode", logging.ErrorCode("SELCOL_1001")},
	}

	for _, tc := range fields {
		t.Run(tc.name, func(t *testing.T) {
			if tc.field == nil {
				t.Errorf("%s returned nil", tc.name)
			}
		})
	}
}
