package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sentinel/internal/config"
	"sentinel/internal/logging"
)

func TestNewWritesConsoleLineWithComponent(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "out.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	child := logging.NewComponentLogger(logger, "supervisor")
	child.Info("camera online", logging.Camera("cam-01"))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "INFO supervisor: camera online") {
		t.Fatalf("unexpected log line: %q", line)
	}
	if !strings.Contains(line, "camera_id=cam-01") {
		t.Fatalf("missing camera attr: %q", line)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "out.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "warn",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("suppressed")
	logger.Warn("visible")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "suppressed") {
		t.Fatal("info line should be suppressed at warn level")
	}
	if !strings.Contains(string(data), "visible") {
		t.Fatal("warn line missing")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestNewFromConfigCreatesLogDir(t *testing.T) {
	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger instance")
	}
	if _, err := os.Stat(cfg.Paths.LogDir); err != nil {
		t.Fatalf("log dir not created: %v", err)
	}
}
