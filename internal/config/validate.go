package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateRecording(); err != nil {
		return err
	}
	if err := c.validateSupervisor(); err != nil {
		return err
	}
	if err := c.validateSimulation(); err != nil {
		return err
	}
	if err := c.validateCameras(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.MediaDir == "" {
		return errors.New("paths.media_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.MaxEvents <= 0 {
		return errors.New("catalog.max_events must be positive")
	}
	return nil
}

func (c *Config) validateRecording() error {
	if c.Recording.ClipSeconds <= 0 {
		return errors.New("recording.clip_seconds must be positive")
	}
	if c.Recording.ThumbnailOffsetSeconds < 0 {
		return errors.New("recording.thumbnail_offset_seconds must not be negative")
	}
	if c.Recording.CaptureTimeout <= c.Recording.ClipSeconds {
		return errors.New("recording.capture_timeout must exceed recording.clip_seconds")
	}
	return nil
}

func (c *Config) validateSupervisor() error {
	if c.Supervisor.EventPort <= 0 || c.Supervisor.EventPort > 65535 {
		return fmt.Errorf("supervisor.event_port %d is out of range", c.Supervisor.EventPort)
	}
	if c.Supervisor.ConnectTimeout <= 0 {
		return errors.New("supervisor.connect_timeout must be positive")
	}
	if c.Supervisor.ConnectRetry <= 0 || c.Supervisor.CloseRetry <= 0 {
		return errors.New("supervisor retry intervals must be positive")
	}
	return nil
}

func (c *Config) validateSimulation() error {
	if c.Simulation.MinIntervalSeconds <= 0 || c.Simulation.MaxIntervalSeconds <= 0 {
		return errors.New("simulation intervals must be positive")
	}
	if c.Simulation.MaxIntervalSeconds < c.Simulation.MinIntervalSeconds {
		return errors.New("simulation.max_interval_seconds must not be below simulation.min_interval_seconds")
	}
	return nil
}

func (c *Config) validateCameras() error {
	seen := make(map[string]struct{}, len(c.Cameras))
	for i, cam := range c.Cameras {
		if cam.ID == "" {
			return fmt.Errorf("cameras[%d].id must be set", i)
		}
		if _, dup := seen[cam.ID]; dup {
			return fmt.Errorf("duplicate camera id %q", cam.ID)
		}
		seen[cam.ID] = struct{}{}
	}
	return nil
}
