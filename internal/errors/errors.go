// Package errors provides structured error types for the SEL collector.
//
// This package follows Go best practices for error handling:
// - Sentinel errors for type checking with errors.Is()
// - Error wrapping with context using fmt.Errorf("%w", err)
// - Structured error types for detailed information
// - Error codes for machine-readable categorization
//
// Error code ranges:
// - 1xxx: Configuration errors
// - 2xxx: Inventory errors
// - 3xxx: Settings and trigger errors
// - 4xxx: Log resolution errors
// - 5xxx: Download and transport errors
// - 9xxx: General errors
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable error identifier.
type ErrorCode string

// Configuration error codes (1xxx)
const (
	ErrCodeConfigInvalid    ErrorCode = "SELCOL_1001"
	ErrCodeConfigMissing    ErrorCode = "SELCOL_1002"
	ErrCodeConfigValidation ErrorCode = "SELCOL_1003"
	ErrCodeKeyLoadFailed    ErrorCode = "SELCOL_1004"
)

// Inventory error codes (2xxx)
const (
	ErrCodeInventoryFailed ErrorCode = "SELCOL_2001"
	ErrCodeInventoryEmpty  ErrorCode = "SELCOL_2002"
)

// Settings and trigger error codes (3xxx)
const (
	ErrCodeSettingResolveFailed ErrorCode = "SELCOL_3001"
	ErrCodeSettingNotFound      ErrorCode = "SELCOL_3002"
	ErrCodeTriggerFailed        ErrorCode = "SELCOL_3003"
)

// Log resolution error codes (4xxx)
const (
	ErrCodeLogResolveFailed ErrorCode = "SELCOL_4001"
	ErrCodeLogNotFound      ErrorCode = "SELCOL_4002"
)

// Download and transport error codes (5xxx)
const (
	ErrCodeDownloadFailed ErrorCode = "SELCOL_5001"
	ErrCodeSaveFailed     ErrorCode = "SELCOL_5002"
	ErrCodeCommFailed     ErrorCode = "SELCOL_5003"
	ErrCodeAuthFailed     ErrorCode = "SELCOL_5004"
)

// General error codes (9xxx)
const (
	ErrCodeUnknown ErrorCode = "SELCOL_9999"
)

// Sentinel errors for type checking with errors.Is()
var (
	// Configuration errors
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrConfigMissing    = errors.New("configuration not found")
	ErrConfigValidation = errors.New("configuration validation failed")
	ErrKeyLoadFailed    = errors.New("signing key load failed")

	// Inventory errors
	ErrInventoryFailed = errors.New("server inventory failed")
	ErrInventoryEmpty  = errors.New("no servers in inventory")

	// Settings and trigger errors
	ErrSettingResolveFailed = errors.New("server settings resolution failed")
	ErrSettingNotFound      = errors.New("no settings resource for server")
	ErrTriggerFailed        = errors.New("SEL collection trigger failed")

	// Log resolution errors
	ErrLogResolveFailed = errors.New("endpoint log resolution failed")
	ErrLogNotFound      = errors.New("no endpoint log for server")

	// Download and transport errors
	ErrDownloadFailed = errors.New("log download failed")
	ErrSaveFailed     = errors.New("log save failed")
	ErrCommFailed     = errors.New("platform request failed")
	ErrAuthFailed     = errors.New("request signing failed")
)

// CollectorError is the base error type with structured information.
type CollectorError struct {
	Code        ErrorCode
	Message     string
	Context     map[string]interface{}
	IsRetryable bool
	Cause       error
}

// Error implements the error interface.
func (e *CollectorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CollectorError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error's cause.
func (e *CollectorError) Is(target error) bool {
	if e.Cause != nil {
		return errors.Is(e.Cause, target)
	}
	return false
}

// WithContext adds context information to the error.
func (e *CollectorError) WithContext(key string, value interface{}) *CollectorError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// ToMap converts the error to a map for structured logging.
func (e *CollectorError) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"error_code":   string(e.Code),
		"message":      e.Message,
		"is_retryable": e.IsRetryable,
	}
	if e.Context != nil {
		m["context"] = e.Context
	}
	if e.Cause != nil {
		m["cause"] = e.Cause.Error()
	}
	return m
}

// NewCollectorError creates a new CollectorError.
func NewCollectorError(code ErrorCode, message string, cause error) *CollectorError {
	return &CollectorError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Configuration Error constructors

// NewConfigInvalidError creates a configuration invalid error.
func NewConfigInvalidError(message string, cause error) *CollectorError {
	return &CollectorError{
		Code:        ErrCodeConfigInvalid,
		Message:     message,
		Cause:       cause,
		IsRetryable: false,
		Context:     make(map[string]interface{}),
	}
}

// NewConfigMissingError creates a configuration missing error.
func NewConfigMissingError(path string) *CollectorError {
	return &CollectorError{
		Code:        ErrCodeConfigMissing,
		Message:     fmt.Sprintf("configuration file not found: %s", path),
		Cause:       ErrConfigMissing,
		IsRetryable: false,
		Context: map[string]interface{}{
			"path": path,
		},
	}
}

// NewConfigValidationError creates a configuration validation error.
func NewConfigValidationError(field string, value interface{}, reason string) *CollectorError {
	return &CollectorError{
		Code:        ErrCodeConfigValidation,
		Message:     fmt.Sprintf("validation failed for '%s': %s", field, reason),
		Cause:       ErrConfigValidation,
		IsRetryable: false,
		Context: map[string]interface{}{
			"field":  field,
			"value":  fmt.Sprintf("%v", value),
			"reason": reason,
		},
	}
}

// NewKeyLoadError creates a signing key load error.
func NewKeyLoadError(path string, cause error) *CollectorError {
	return &CollectorError{
		Code:        ErrCodeKeyLoadFailed,
		Message:     fmt.Sprintf("failed to load signing key: %s", path),
		Cause:       cause,
		IsRetryable: false,
		Context: map[string]interface{}{
			"path": path,
		},
	}
}

// Inventory Error constructors

// NewInventoryError creates a server inventory error.
func NewInventoryError(cause error) *CollectorError {
	return &CollectorError{
		Code:        ErrCodeInventoryFailed,
		Message:     "failed to list servers",
		Cause:       cause,
		IsRetryable: true,
		Context:     make(map[string]interface{}),
	}
}

// Settings and trigger Error constructors

// NewSettingResolveError creates a settings resolution error.
func NewSettingResolveError(serverMoid string, cause error) *CollectorError {
	return &CollectorError{
		Code:        ErrCodeSettingResolveFailed,
		Message:     fmt.Sprintf("failed to resolve settings for server %s", serverMoid),
		Cause:       cause,
		IsRetryable: true,
		Context: map[string]interface{}{
			"server_moid": serverMoid,
		},
	}
}

// NewSettingNotFoundError creates a settings-not-found error.
func NewSettingNotFoundError(serverMoid string) *CollectorError {
	return &CollectorError{
		Code:        ErrCodeSettingNotFound,
		Message:     fmt.Sprintf("no settings resource for server %s", serverMoid),
		Cause:       ErrSettingNotFound,
		IsRetryable: false,
		Context: map[string]interface{}{
			"server_moid": serverMoid,
		},
	}
}

// NewTriggerError creates a SEL collection trigger error.
func NewTriggerError(serverMoid string, settingMoid string, cause error) *CollectorError {
	return &CollectorError{
		Code:        ErrCodeTriggerFailed,
		Message:     fmt.Sprintf("failed to trigger SEL collection for server %s", serverMoid),
		Cause:       cause,
		IsRetryable: true,
		Context: map[string]interface{}{
			"server_moid":  serverMoid,
			"setting_moid": settingMoid,
		},
	}
}

// Log resolution Error constructors

// NewLogResolveError creates an endpoint log resolution error.
func NewLogResolveError(serverMoid string, cause error) *CollectorError {
	return &CollectorError{
		Code:        ErrCodeLogResolveFailed,
		Message:     fmt.Sprintf("failed to resolve endpoint log for server %s", serverMoid),
		Cause:       cause,
		IsRetryable: true,
		Context: map[string]interface{}{
			"server_moid": serverMoid,
		},
	}
}

// NewLogNotFoundError creates a log-not-found error.
func NewLogNotFoundError(serverMoid string) *CollectorError {
	return &CollectorError{
		Code:        ErrCodeLogNotFound,
		Message:     fmt.Sprintf("no endpoint log for server %s", serverMoid),
		Cause:       ErrLogNotFound,
		IsRetryable: false,
		Context: map[string]interface{}{
			"server_moid": serverMoid,
		},
	}
}

// Download Error constructors

// NewDownloadError creates a log download error.
func NewDownloadError(logMoid string, cause error) *CollectorError {
	return &CollectorError{
		Code:        ErrCodeDownloadFailed,
		Message:     fmt.Sprintf("failed to download log %s", logMoid),
		Cause:       cause,
		IsRetryable: true,
		Context: map[string]interface{}{
			"log_moid": logMoid,
		},
	}
}

// NewSaveError creates a log save error.
func NewSaveError(path string, cause error) *CollectorError {
	return &CollectorError{
		Code:        ErrCodeSaveFailed,
		Message:     fmt.Sprintf("failed to save log file: %s", path),
		Cause:       cause,
		IsRetryable: false,
		Context: map[string]interface{}{
			"path": path,
		},
	}
}

// NewCommError creates a platform communication error.
func NewCommError(operation string, cause error) *CollectorError {
	return &CollectorError{
		Code:        ErrCodeCommFailed,
		Message:     fmt.Sprintf("platform request '%s' failed", operation),
		Cause:       cause,
		IsRetryable: true,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewAuthError creates a request signing error.
func NewAuthError(reason string, cause error) *CollectorError {
	return &CollectorError{
		Code:        ErrCodeAuthFailed,
		Message:     fmt.Sprintf("request signing failed: %s", reason),
		Cause:       cause,
		IsRetryable: false,
		Context:     make(map[string]interface{}),
	}
}

// IsRetryableError checks if an error is retryable.
func IsRetryableError(err error) bool {
	var collectorErr *CollectorError
	if errors.As(err, &collectorErr) {
		return collectorErr.IsRetryable
	}
	return false
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	var collectorErr *CollectorError
	if errors.As(err, &collectorErr) {
		return collectorErr.Code
	}
	return ErrCodeUnknown
}
