package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "quiz.log")

	logger, err := New(Options{Level: "debug", File: path, MaxSizeMB: 1, Console: &console})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("quiz is ready")
	_ = logger.Sync()

	if !strings.Contains(console.String(), "quiz is ready") {
		t.Fatalf("expected console output, got %q", console.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"quiz is ready"`) {
		t.Fatalf("expected json log line, got %q", data)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(Options{Level: "chatty"}); err == nil {
		t.Fatalf("expected level error")
	}
}

func TestNewWithoutSinksIsNop(t *testing.T) {
	logger, err := New(Options{})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("dropped")
}
