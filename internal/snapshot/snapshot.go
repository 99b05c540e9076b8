package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"sentinel/internal/config"
	"sentinel/internal/fleet"
	"sentinel/internal/logging"
	"sentinel/internal/media"
)

// ErrUnknownCamera is returned for camera identifiers outside the fleet.
var ErrUnknownCamera = errors.New("unknown camera")

// Service captures live frames on demand. One capture runs per camera;
// contended or failed requests fall back to the last good frame.
type Service struct {
	registry *fleet.Registry
	states   *fleet.StateMap
	runner   *media.Runner
	cfg      config.Snapshot
	logger   *slog.Logger
}

// New builds the snapshot service.
func New(registry *fleet.Registry, states *fleet.StateMap, runner *media.Runner, cfg config.Snapshot, logger *slog.Logger) *Service {
	return &Service{
		registry: registry,
		states:   states,
		runner:   runner,
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "snapshot"),
	}
}

// Snapshot returns a JPEG frame for the camera. A nil frame with nil
// error means no image is available; the caller renders a placeholder.
func (s *Service) Snapshot(ctx context.Context, cameraID string) ([]byte, error) {
	cam, ok := s.registry.Get(cameraID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCamera, cameraID)
	}

	state := s.states.Get(cameraID)
	if !state.BeginSnapshot() {
		// Another capture is in flight; serve the cache immediately.
		frame, _ := state.CachedSnapshot()
		return frame, nil
	}
	defer state.EndSnapshot()

	frame, err := s.runner.CaptureFrame(ctx, media.FrameJob{
		StreamURL: cam.StreamURL(),
		Timeout:   s.cfg.TimeoutDuration(),
	})
	if err != nil {
		s.logger.Warn("frame capture failed", logging.Camera(cameraID), logging.Error(err))
		cached, _ := state.CachedSnapshot()
		return cached, nil
	}

	state.StoreSnapshot(frame)
	return frame, nil
}
