package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sentinel/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "sentinel")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Catalog.MaxEvents != 200 {
		t.Fatalf("unexpected retention ceiling: %d", cfg.Catalog.MaxEvents)
	}
	if cfg.Recording.ClipSeconds != 15 {
		t.Fatalf("unexpected clip duration: %d", cfg.Recording.ClipSeconds)
	}
	if cfg.Supervisor.ConnectRetry != 30 || cfg.Supervisor.CloseRetry != 10 {
		t.Fatalf("unexpected retry backoffs: %+v", cfg.Supervisor)
	}
	if cfg.Simulation.Enabled {
		t.Fatal("expected simulation disabled by default")
	}
}

func TestLoadParsesCameraFleet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[[cameras]]
id = "cam-01"
name = "Front Door"
address = "192.168.1.20"
username = "sentinel"
password = "secret"

[[cameras]]
id = "cam-02"
address = "192.168.1.21"
stream_path = "stream2"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if len(cfg.Cameras) != 2 {
		t.Fatalf("expected 2 cameras, got %d", len(cfg.Cameras))
	}
	if cfg.Cameras[0].StreamPath != "/stream1" {
		t.Fatalf("expected default stream path, got %q", cfg.Cameras[0].StreamPath)
	}
	if cfg.Cameras[1].StreamPath != "/stream2" {
		t.Fatalf("expected normalized stream path, got %q", cfg.Cameras[1].StreamPath)
	}
	if cfg.Cameras[1].Name != "Camera 2" {
		t.Fatalf("expected generated display name, got %q", cfg.Cameras[1].Name)
	}
}

func TestLoadRejectsDuplicateCameraIDs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[[cameras]]
id = "cam-01"

[[cameras]]
id = "cam-01"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "duplicate camera id") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestValidateRejectsShortCaptureTimeout(t *testing.T) {
	cfg := config.Default()
	cfg.Recording.CaptureTimeout = cfg.Recording.ClipSeconds

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected capture timeout validation error")
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[[cameras]]") {
		t.Fatal("sample config missing camera section")
	}
}
