package testsupport

import (
	"path/filepath"
	"testing"

	"sentinel/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.MediaDir = filepath.Join(base, "media")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithMaxEvents overrides the retention ceiling on the test config.
func WithMaxEvents(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Catalog.MaxEvents = n
	}
}

// WithCameras sets the configured fleet on the test config.
func WithCameras(cams ...config.Camera) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Cameras = cams
	}
}

// Camera builds a minimal supervised camera config for tests.
func Camera(id string) config.Camera {
	return config.Camera{
		ID:         id,
		Name:       "Camera " + id,
		Zone:       "interior",
		Address:    "192.0.2.10",
		StreamPath: "/stream1",
		Username:   "sentinel",
		Password:   "secret",
	}
}
