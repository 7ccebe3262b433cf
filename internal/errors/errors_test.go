// Package errors_test provides tests for the collector error types.
package errors_test

import (
	"errors"
	"testing"

	collectorerrors "selcollect/internal/errors"
)

func TestErrorCodes(t *testing.T) {
	t.Run("error codes follow ranges", func(t *testing.T) {
		// Configuration: 1xxx
		if collectorerrors.ErrCodeConfigInvalid[:9] != "SELCOL_10" {
			t.Errorf("config errors should be 1xxx, got %s", collectorerrors.ErrCodeConfigInvalid)
		}

		// Inventory: 2xxx
		if collectorerrors.ErrCodeInventoryFailed[:9] != "SELCOL_20" {
			t.Errorf("inventory errors should be 2xxx, got %s", collectorerrors.ErrCodeInventoryFailed)
		}

		// Settings and trigger: 3xxx
		if collectorerrors.ErrCodeSettingResolveFailed[:9] != "SELCOL_30" {
			t.Errorf("settings errors should be 3xxx, got %s", collectorerrors.ErrCodeSettingResolveFailed)
		}

		// Log resolution: 4xxx
		if collectorerrors.ErrCodeLogResolveFailed[:9] != "SELCOL_40" {
			t.Errorf("log resolution errors should be 4xxx, got %s", collectorerrors.ErrCodeLogResolveFailed)
		}

		// Download and transport: 5xxx
		if collectorerrors.ErrCodeDownloadFailed[:9] != "SELCOL_50" {
			t.Errorf("download errors should be 5xxx, got %s", collectorerrors.ErrCodeDownloadFailed)
		}
	})
}

func TestCollectorError(t *testing.T) {
	t.Run("Error method formats correctly", func(t *testing.T) {
		err := collectorerrors.NewCollectorError(
			collectorerrors.ErrCodeConfigInvalid,
			"test error",
			nil,
		)
		expected := "[SELCOL_1001] test error"
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})

	t.Run("Error with cause includes cause", func(t *testing.T) {
		cause := errors.New("original error")
		err := collectorerrors.NewCollectorError(
			collectorerrors.ErrCodeConfigInvalid,
			"wrapped error",
			cause,
		)
		result := err.Error()
		if result != "[SELCOL_1001] wrapped error: original error" {
			t.Errorf("unexpected error string: %s", result)
		}
	})

	t.Run("WithContext adds context", func(t *testing.T) {
		err := collectorerrors.NewCollectorError(
			collectorerrors.ErrCodeConfigInvalid,
			"test",
			nil,
		)
		err = err.WithContext("key", "value")
		if err.Context["key"] != "value" {
			t.Error("context not set correctly")
		}
	})

	t.Run("ToMap serializes correctly", func(t *testing.T) {
		err := collectorerrors.NewCollectorError(
			collectorerrors.ErrCodeConfigInvalid,
			"test error",
			nil,
		)
		err.IsRetryable = true
		err.Context["field"] = "value"

		m := err.ToMap()
		if m["error_code"] != "SELCOL_1001" {
			t.Errorf("unexpected error_code: %v", m["error_code"])
		}
		if m["message"] != "test error" {
			t.Errorf("unexpected message: %v", m["message"])
		}
		if m["is_retryable"] != true {
			t.Error("is_retryable should be true")
		}
	})
}

func TestUnwrap(t *testing.T) {
	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("root cause")
		err := collectorerrors.NewCollectorError(
			collectorerrors.ErrCodeConfigInvalid,
			"wrapped",
			cause,
		)
		if err.Unwrap() != cause {
			t.Error("Unwrap should return the cause")
		}
	})

	t.Run("errors.Is works with cause", func(t *testing.T) {
		err := collectorerrors.NewConfigMissingError("/selcollect.yaml")
		if !errors.Is(err, collectorerrors.ErrConfigMissing) {
			t.Error("errors.Is should match the cause")
		}
	})

	t.Run("errors.As works with CollectorError", func(t *testing.T) {
		var target *collectorerrors.CollectorError
		err := collectorerrors.NewSettingNotFoundError("srv-1")
		if !errors.As(err, &target) {
			t.Error("errors.As should match CollectorError")
		}
		if target.Code != collectorerrors.ErrCodeSettingNotFound {
			t.Errorf("unexpected code: %s", target.Code)
		}
	})
}

func TestConstructors(t *testing.T) {
	t.Run("setting resolve error carries server moid", func(t *testing.T) {
		cause := errors.New("HTTP 500")
		err := collectorerrors.NewSettingResolveError("srv-1", cause)
		if err.Context["server_moid"] != "srv-1" {
			t.Errorf("expected server_moid context, got %v", err.Context)
		}
		if !err.IsRetryable {
			t.Error("settings resolution failures should be retryable")
		}
	})

	t.Run("trigger error carries both moids", func(t *testing.T) {
		err := collectorerrors.NewTriggerError("srv-1", "set-1", errors.New("HTTP 503"))
		if err.Context["server_moid"] != "srv-1" || err.Context["setting_moid"] != "set-1" {
			t.Errorf("expected both moids in context, got %v", err.Context)
		}
	})

	t.Run("save error is not retryable", func(t *testing.T) {
		err := collectorerrors.NewSaveError("/tmp/sel.txt", errors.New("disk full"))
		if err.IsRetryable {
			t.Error("save failures should not be retryable")
		}
	})

	t.Run("key load error wraps cause", func(t *testing.T) {
		cause := errors.New("no such file")
		err := collectorerrors.NewKeyLoadError("/keys/api.pem", cause)
		if !errors.Is(err, cause) {
			t.Error("errors.Is should match the cause")
		}
	})
}

func TestHelpers(t *testing.T) {
	t.Run("IsRetryableError", func(t *testing.T) {
		retryable := collectorerrors.NewInventoryError(errors.New("timeout"))
		if !collectorerrors.IsRetryableError(retryable) {
			t.Error("inventory failures should be retryable")
		}
		if collectorerrors.IsRetryableError(errors.New("plain")) {
			t.Error("plain errors are not retryable")
		}
	})

	t.Run("GetErrorCode", func(t *testing.T) {
		err := collectorerrors.NewLogNotFoundError("srv-1")
		if code := collectorerrors.GetErrorCode(err); code != collectorerrors.ErrCodeLogNotFound {
			t.Errorf("unexpected code: %s", code)
		}
		if code := collectorerrors.GetErrorCode(errors.New("plain")); code != collectorerrors.ErrCodeUnknown {
			t.Errorf("plain errors should map to unknown, got %s", code)
		}
	})
}
