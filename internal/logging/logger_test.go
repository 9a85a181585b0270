package logging

import (
	"strings"
	"testing"
)

func TestNewDefaultLevel(t *testing.T) {
	var buf strings.Builder
	logger := New(Options{Writer: &buf})

	logger.Debug("hidden")
	logger.Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message should be suppressed at default level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("info message should be emitted at default level")
	}
}

func TestNewVerboseLevel(t *testing.T) {
	var buf strings.Builder
	logger := New(Options{Verbose: true, Writer: &buf})

	logger.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Error("debug message should be emitted in verbose mode")
	}
}

func TestSlogAdapterWith(t *testing.T) {
	var buf strings.Builder
	adapter := NewSlogAdapter(New(Options{Writer: &buf}))

	child := adapter.With("component", "engine")
	child.Info("hello")

	out := buf.String()
	if !strings.Contains(out, "component=engine") {
		t.Errorf("expected attribute in output, got %q", out)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNopLogger()
	// Must not panic and With must return a usable logger.
	logger.With("k", "v").Error("ignored")
}
