package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestFromContextFallsBackToDefault(t *testing.T) {
	if got := FromContext(context.Background()); got != slog.Default() {
		t.Fatalf("expected default logger")
	}
}

func TestWithLoggerRoundTrip(t *testing.T) {
	logger := Discard()
	ctx := WithLogger(context.Background(), logger)
	if got := FromContext(ctx); got != logger {
		t.Fatalf("expected embedded logger")
	}
}

func TestNewFormats(t *testing.T) {
	cases := []struct {
		format string
		want   string
	}{
		{"text", "msg=hello"},
		{"json", `"msg":"hello"`},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		logger, err := New(&buf, tc.format, "info")
		if err != nil {
			t.Fatalf("New(%s): %v", tc.format, err)
		}
		logger.Info("hello")
		if !strings.Contains(buf.String(), tc.want) {
			t.Fatalf("format %s: expected %q in %q", tc.format, tc.want, buf.String())
		}
	}
}

func TestNewRejectsUnknownValues(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "xml", "info"); err == nil {
		t.Fatalf("expected format error")
	}
	if _, err := New(&bytes.Buffer{}, "text", "trace"); err == nil {
		t.Fatalf("expected level error")
	}
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "text", "info")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected debug to be filtered, got %q", buf.String())
	}
}
