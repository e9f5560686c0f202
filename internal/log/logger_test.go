package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/felixgeelhaar/painel/internal/errors"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Level = level
	cfg.Format = format
	cfg.Output = &buf
	return New(cfg), &buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warning", LevelWarn},
		{"Error", LevelError},
		{"bogus", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	if ValidLevel("verbose") {
		t.Error("verbose should not be a valid level")
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("JSON") != FormatJSON {
		t.Error("JSON should parse as FormatJSON")
	}
	if ParseFormat("console") != FormatText {
		t.Error("unknown formats should fall back to text")
	}
	if FormatJSON.String() != "json" || FormatText.String() != "text" {
		t.Error("unexpected format strings")
	}
}

func TestLogLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn, FormatText)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn message missing: %s", out)
	}
}

func TestRedaction(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)

	logger.Info("login", "token", "eyJhbGciOiJIUzI1NiJ9.payload.signature", "email", "admin@x.com")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json log line: %v", err)
	}
	token, _ := entry["token"].(string)
	if strings.Contains(token, "payload") {
		t.Errorf("token was not redacted: %q", token)
	}
	if !strings.HasPrefix(token, "eyJh") {
		t.Errorf("masked token should keep its prefix: %q", token)
	}
	if entry["email"] != "admin@x.com" {
		t.Errorf("non-secret attributes must pass through, got %v", entry["email"])
	}
}

func TestMask(t *testing.T) {
	if got := Mask("short"); got != "########" {
		t.Errorf("short secrets are fully hidden, got %q", got)
	}
	if got := Mask("abcdefghijkl"); got != "abcd########ijkl" {
		t.Errorf("Mask() = %q", got)
	}
}

func TestWithError(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)

	logger.WithError(errors.NewServer(500, "boom")).Error("request failed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json log line: %v", err)
	}
	if entry["error_code"] != "API-001" {
		t.Errorf("error_code = %v", entry["error_code"])
	}
	if entry["error_kind"] != "server" {
		t.Errorf("error_kind = %v", entry["error_kind"])
	}
	if entry["status"] != float64(500) {
		t.Errorf("status = %v", entry["status"])
	}
}

func TestWithErrorPlain(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatText)

	logger.WithError(fmt.Errorf("plain failure")).Warn("ignored")
	if !strings.Contains(buf.String(), "plain failure") {
		t.Errorf("plain error text missing: %s", buf.String())
	}

	if logger.WithError(nil) != logger {
		t.Error("WithError(nil) should return the same logger")
	}
}

func TestContextLogger(t *testing.T) {
	logger := Discard()
	ctx := WithLogger(context.Background(), logger)

	if FromContext(ctx) != logger {
		t.Error("FromContext should return the stored logger")
	}
	if FromContext(context.Background()) == nil {
		t.Error("FromContext should fall back to the default logger")
	}
}

func TestDefaultLogger(t *testing.T) {
	original := defaultLogger
	defer func() { defaultLogger = original }()

	custom := Discard()
	SetDefaultLogger(custom)
	if DefaultLogger() != custom {
		t.Error("DefaultLogger did not return the configured logger")
	}

	defaultLogger = nil
	if DefaultLogger() == nil {
		t.Error("DefaultLogger should lazily create a logger")
	}
}
