package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T, level LogLevel) (Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	logger, err := NewZapLogger(LogConfig{Level: level, Output: buf})
	if err != nil {
		t.Fatalf("NewZapLogger() error = %v", err)
	}
	return logger, buf
}

func TestZapLogger_LevelFiltering(t *testing.T) {
	logger, buf := newTestLogger(t, WarnLevel)

	logger.Info("should be dropped")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn message should be logged")
	}
}

func TestZapLogger_FieldsAndError(t *testing.T) {
	logger, buf := newTestLogger(t, DebugLevel)

	logger.Info("dataset loaded", Field{Key: "rows", Value: 3})
	logger.Error("load failed", assertErr("disk on fire"))

	out := buf.String()
	if !strings.Contains(out, "rows") || !strings.Contains(out, "3") {
		t.Errorf("field should be encoded, got %q", out)
	}
	if !strings.Contains(out, "disk on fire") {
		t.Errorf("error should be encoded, got %q", out)
	}
}

func TestZapLogger_WithContextRequestID(t *testing.T) {
	logger, buf := newTestLogger(t, InfoLevel)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-abc-1")
	logger.WithContext(ctx).Info("handled")

	if !strings.Contains(buf.String(), "req-abc-1") {
		t.Errorf("request ID should be carried into log output, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"Warning", WarnLevel},
		{"error", ErrorLevel},
		{"nonsense", InfoLevel},
		{"", InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

type testError string

func (e testError) Error() string { return string(e) }

func assertErr(msg string) error { return testError(msg) }
