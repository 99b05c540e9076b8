package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir  string `toml:"data_dir"`
	MediaDir string `toml:"media_dir"`
	LogDir   string `toml:"log_dir"`
}

// Catalog contains settings for the persisted event catalog.
type Catalog struct {
	MaxEvents int `toml:"max_events"`
}

// Recording contains settings for event-driven clip capture.
type Recording struct {
	ClipSeconds            int `toml:"clip_seconds"`
	ThumbnailOffsetSeconds int `toml:"thumbnail_offset_seconds"`
	CaptureTimeout         int `toml:"capture_timeout"`
}

// Snapshot contains settings for on-demand frame capture.
type Snapshot struct {
	Timeout int `toml:"timeout"`
}

// Supervisor contains settings for camera session supervision.
type Supervisor struct {
	EventPort      int `toml:"event_port"`
	ConnectTimeout int `toml:"connect_timeout"`
	ConnectRetry   int `toml:"connect_retry"`
	CloseRetry     int `toml:"close_retry"`
}

// Simulation contains settings for the mock event generator.
type Simulation struct {
	Enabled            bool `toml:"enabled"`
	InitialDelaySecs   int  `toml:"initial_delay_seconds"`
	MinIntervalSeconds int  `toml:"min_interval_seconds"`
	MaxIntervalSeconds int  `toml:"max_interval_seconds"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Camera describes one configured network camera.
type Camera struct {
	ID         string `toml:"id"`
	Name       string `toml:"name"`
	Zone       string `toml:"zone"`
	Address    string `toml:"address"`
	StreamPath string `toml:"stream_path"`
	Username   string `toml:"username"`
	Password   string `toml:"password"`
}

// Config encapsulates all configuration values for Sentinel.
//
// Configuration sections by subsystem:
//   - Paths: data, media, and log directories
//   - Catalog: event retention ceiling
//   - Recording: clip duration, thumbnail offset, capture timeout
//   - Snapshot: on-demand frame capture timeout
//   - Supervisor: camera session ports, timeouts, and retry backoffs
//   - Simulation: mock event generator
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
//   - Cameras: the static camera fleet
type Config struct {
	Paths         Paths         `toml:"paths"`
	Catalog       Catalog       `toml:"catalog"`
	Recording     Recording     `toml:"recording"`
	Snapshot      Snapshot      `toml:"snapshot"`
	Supervisor    Supervisor    `toml:"supervisor"`
	Simulation    Simulation    `toml:"simulation"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
	Cameras       []Camera      `toml:"cameras"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/sentinel/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("sentinel.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// RecordingsDir returns the directory holding recorded clips.
func (c *Config) RecordingsDir() string {
	return filepath.Join(c.Paths.MediaDir, "recordings")
}

// ThumbnailsDir returns the directory holding extracted thumbnails.
func (c *Config) ThumbnailsDir() string {
	return filepath.Join(c.Paths.MediaDir, "thumbnails")
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.DataDir,
		c.Paths.LogDir,
		c.RecordingsDir(),
		c.ThumbnailsDir(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the capture executable name.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
