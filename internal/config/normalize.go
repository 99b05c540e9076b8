package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.MediaDir, err = expandPath(c.Paths.MediaDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)

	for i := range c.Cameras {
		cam := &c.Cameras[i]
		cam.ID = strings.TrimSpace(cam.ID)
		cam.Name = strings.TrimSpace(cam.Name)
		cam.Address = strings.TrimSpace(cam.Address)
		if cam.Name == "" {
			cam.Name = fmt.Sprintf("Camera %d", i+1)
		}
		if cam.StreamPath == "" {
			cam.StreamPath = "/stream1"
		}
		if !strings.HasPrefix(cam.StreamPath, "/") {
			cam.StreamPath = "/" + cam.StreamPath
		}
	}
	return nil
}
