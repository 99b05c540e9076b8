package config

import "time"

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// ClipDuration returns the configured clip length.
func (r Recording) ClipDuration() time.Duration {
	return seconds(r.ClipSeconds)
}

// ThumbnailOffset returns the seek offset for thumbnail extraction.
func (r Recording) ThumbnailOffset() time.Duration {
	return seconds(r.ThumbnailOffsetSeconds)
}

// CaptureTimeoutDuration bounds a full clip capture.
func (r Recording) CaptureTimeoutDuration() time.Duration {
	return seconds(r.CaptureTimeout)
}

// TimeoutDuration bounds a single frame capture.
func (s Snapshot) TimeoutDuration() time.Duration {
	return seconds(s.Timeout)
}

// ConnectTimeoutDuration bounds one session handshake.
func (s Supervisor) ConnectTimeoutDuration() time.Duration {
	return seconds(s.ConnectTimeout)
}

// ConnectRetryDuration is the backoff after a failed connect.
func (s Supervisor) ConnectRetryDuration() time.Duration {
	return seconds(s.ConnectRetry)
}

// CloseRetryDuration is the backoff after a dropped session.
func (s Supervisor) CloseRetryDuration() time.Duration {
	return seconds(s.CloseRetry)
}

// InitialDelay is the wait before the first simulated event.
func (s Simulation) InitialDelay() time.Duration {
	return seconds(s.InitialDelaySecs)
}

// MinInterval is the lower bound between simulated events.
func (s Simulation) MinInterval() time.Duration {
	return seconds(s.MinIntervalSeconds)
}

// MaxInterval is the upper bound between simulated events.
func (s Simulation) MaxInterval() time.Duration {
	return seconds(s.MaxIntervalSeconds)
}

// RequestTimeoutDuration bounds one push notification request.
func (n Notifications) RequestTimeoutDuration() time.Duration {
	return seconds(n.RequestTimeout)
}
