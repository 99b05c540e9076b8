package fleet

import (
	"fmt"
	"net/url"

	"sentinel/internal/config"
)

// Camera is the static description of a managed device.
type Camera struct {
	ID         string
	Name       string
	Zone       string
	Address    string
	StreamPath string
	Username   string
	Password   string
}

func fromConfig(cfg config.Camera) Camera {
	return Camera{
		ID:         cfg.ID,
		Name:       cfg.Name,
		Zone:       cfg.Zone,
		Address:    cfg.Address,
		StreamPath: cfg.StreamPath,
		Username:   cfg.Username,
		Password:   cfg.Password,
	}
}

// StreamURL builds the RTSP endpoint for the camera's video feed.
// Credentials are escaped so passwords with reserved characters survive.
func (c Camera) StreamURL() string {
	u := url.URL{
		Scheme: "rtsp",
		Host:   fmt.Sprintf("%s:554", c.Address),
		Path:   c.StreamPath,
	}
	if c.Username != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		} else {
			u.User = url.User(c.Username)
		}
	}
	return u.String()
}

// EventAddress builds the broker endpoint used for detection sessions.
func (c Camera) EventAddress(port int) string {
	return fmt.Sprintf("tcp://%s:%d", c.Address, port)
}
