// Package models defines the core data structures used across the collector.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ServerRecord is the per-server record accumulated through the collection
// pipeline. Fields populate monotonically left-to-right: Moid at inventory,
// SettingMoid at settings resolution, LogMoid/LogFilename at log resolution.
// A missing later field means an earlier stage failed and the server is
// skipped downstream.
type ServerRecord struct {
	// Moid is the managed object identifier of the physical server.
	Moid string `json:"moid"`

	// ManagementMode is how the server is administered (e.g. Intersight,
	// Standalone). Servers under the legacy UCSM mode never enter the
	// pipeline.
	ManagementMode string `json:"management_mode,omitempty"`

	// SettingMoid is the Moid of the server's settings resource.
	SettingMoid string `json:"setting_moid,omitempty"`

	// LogMoid is the Moid of the server's generated endpoint log.
	LogMoid string `json:"log_moid,omitempty"`

	// LogFilename is the filename reported for the endpoint log.
	LogFilename string `json:"log_filename,omitempty"`
}

// HasSetting reports whether settings resolution succeeded for this server.
func (s *ServerRecord) HasSetting() bool {
	return s.SettingMoid != ""
}

// HasLog reports whether the endpoint log was resolved for this server.
// Only records with a resolved log may be handed to the downloader.
func (s *ServerRecord) HasLog() bool {
	return s.LogMoid != "" && s.LogFilename != ""
}

// ToJSON serializes the ServerRecord to JSON bytes.
func (s *ServerRecord) ToJSON() ([]byte, error) {
	return json.Marshal(s)
}

// FromJSON deserializes a ServerRecord from JSON bytes.
func FromJSON(data []byte) (*ServerRecord, error) {
	var record ServerRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Stage identifies a pipeline stage for failure reporting.
type Stage string

const (
	StageInventory  Stage = "inventory"
	StageSettings   Stage = "settings"
	StageTrigger    Stage = "trigger"
	StageLogResolve Stage = "log_resolve"
	StageDownload   Stage = "download"
)

// StageFailure records one server's failure at one pipeline stage.
type StageFailure struct {
	// ServerMoid is the server the failure belongs to.
	ServerMoid string `json:"server_moid"`

	// Stage is the pipeline stage that failed.
	Stage Stage `json:"stage"`

	// Err is the underlying error.
	Err error `json:"-"`

	// Reason is the error message, kept separately so failures serialize.
	Reason string `json:"reason"`
}

// Error implements the error interface.
func (f *StageFailure) Error() string {
	return fmt.Sprintf("server %s: stage %s: %s", f.ServerMoid, f.Stage, f.Reason)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (f *StageFailure) Unwrap() error {
	return f.Err
}

// NewStageFailure creates a StageFailure for the given server and stage.
func NewStageFailure(moid string, stage Stage, err error) *StageFailure {
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	return &StageFailure{
		ServerMoid: moid,
		Stage:      stage,
		Err:        err,
		Reason:     reason,
	}
}

// Report aggregates the outcome of one collection run. Per-server failures
// accumulate here instead of aborting the batch, so callers can decide
// whether to skip, log, or summarize.
type Report struct {
	// RunID correlates all log lines of one run.
	RunID string `json:"run_id"`

	// Servers is the number of servers returned by inventory.
	Servers int `json:"servers"`

	// Triggered is the number of servers for which SEL collection was
	// successfully requested.
	Triggered int `json:"triggered"`

	// Downloaded is the number of log files written to disk.
	Downloaded int `json:"downloaded"`

	// Failures holds every per-server stage failure of the run.
	Failures []*StageFailure `json:"failures,omitempty"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Duration is the total run duration.
	Duration time.Duration `json:"duration"`
}

// AddFailure records a per-server stage failure.
func (r *Report) AddFailure(moid string, stage Stage, err error) *StageFailure {
	f := NewStageFailure(moid, stage, err)
	r.Failures = append(r.Failures, f)
	return f
}

// FailureCount returns the number of recorded failures.
func (r *Report) FailureCount() int {
	return len(r.Failures)
}

// FailuresAt returns the failures recorded for the given stage.
func (r *Report) FailuresAt(stage Stage) []*StageFailure {
	var out []*StageFailure
	for _, f := range r.Failures {
		if f.Stage == stage {
			out = append(out, f)
		}
	}
	return out
}
