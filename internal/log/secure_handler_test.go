package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// capture returns a logger writing to the returned buffer at debug level.
func capture() (*slog.Logger, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	return New(buf, 2), buf
}

// TestSecureHandlerMasksKeys tests key-based masking.
func TestSecureHandlerMasksKeys(t *testing.T) {
	t.Parallel()

	logger, buf := capture()
	logger.Info("login", "user", "uabcd", "password", "hunter2", "Cookie", "PHPSESSID=deadbeef")

	out := buf.String()
	if strings.Contains(out, "hunter2") {
		t.Error("password value leaked into log output")
	}
	if strings.Contains(out, "deadbeef") {
		t.Error("cookie value leaked into log output")
	}
	if !strings.Contains(out, "uabcd") {
		t.Error("non-sensitive attribute was masked")
	}
	if !strings.Contains(out, MaskValue) {
		t.Error("mask marker missing from output")
	}
}

// TestSecureHandlerMasksPatterns tests value-based masking.
func TestSecureHandlerMasksPatterns(t *testing.T) {
	t.Parallel()

	logger, buf := capture()
	logger.Info("request", "header", "Bearer abc.def.ghi", "trace", "GET /ilias.php PHPSESSID=cafe123 done")

	out := buf.String()
	if strings.Contains(out, "abc.def.ghi") {
		t.Error("bearer token leaked into log output")
	}
	if strings.Contains(out, "cafe123") {
		t.Error("embedded session id leaked into log output")
	}
}

// TestSecureHandlerGroups tests masking inside attribute groups.
func TestSecureHandlerGroups(t *testing.T) {
	t.Parallel()

	logger, buf := capture()
	logger.Info("handshake", slog.Group("form", slog.String("j_password", "hunter2"), slog.String("j_username", "uabcd")))

	out := buf.String()
	if strings.Contains(out, "hunter2") {
		t.Error("grouped password leaked into log output")
	}
	if !strings.Contains(out, "uabcd") {
		t.Error("grouped non-sensitive attribute was masked")
	}
}

// TestVerbosityLevels tests the verbosity-to-level mapping.
func TestVerbosityLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		verbosity int
		debugSeen bool
		infoSeen  bool
	}{
		{0, false, false},
		{1, false, true},
		{2, true, true},
		{5, true, true},
	}
	for _, tt := range tests {
		buf := new(bytes.Buffer)
		logger := New(buf, tt.verbosity)
		logger.Debug("dbg")
		logger.Info("inf")
		logger.Warn("wrn")

		out := buf.String()
		if got := strings.Contains(out, "dbg"); got != tt.debugSeen {
			t.Errorf("verbosity %d: debug seen = %v, want %v", tt.verbosity, got, tt.debugSeen)
		}
		if got := strings.Contains(out, "inf"); got != tt.infoSeen {
			t.Errorf("verbosity %d: info seen = %v, want %v", tt.verbosity, got, tt.infoSeen)
		}
		if !strings.Contains(out, "wrn") {
			t.Errorf("verbosity %d: warnings must always be logged", tt.verbosity)
		}
	}
}
