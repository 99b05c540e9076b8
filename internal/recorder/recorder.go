package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"sentinel/internal/bus"
	"sentinel/internal/catalog"
	"sentinel/internal/config"
	"sentinel/internal/fleet"
	"sentinel/internal/logging"
	"sentinel/internal/media"
	"sentinel/internal/notifications"
)

// ErrRecordingInProgress is returned when the camera's recording guard
// is already held.
var ErrRecordingInProgress = errors.New("recording already in progress")

// ErrUnknownCamera is returned for camera identifiers outside the fleet.
var ErrUnknownCamera = errors.New("unknown camera")

// Pipeline captures detection clips and files them into the catalog.
type Pipeline struct {
	states   *fleet.StateMap
	runner   *media.Runner
	store    *catalog.Store
	bus      *bus.Bus
	notifier notifications.Service
	cfg      *config.Config
	logger   *slog.Logger
}

// New builds the recording pipeline.
func New(states *fleet.StateMap, runner *media.Runner, store *catalog.Store, eventBus *bus.Bus, notifier notifications.Service, cfg *config.Config, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		states:   states,
		runner:   runner,
		store:    store,
		bus:      eventBus,
		notifier: notifier,
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "recorder"),
	}
}

// Record captures one clip for the camera and files the resulting event.
// At most one recording runs per camera; concurrent triggers get
// ErrRecordingInProgress. The guard is released on every exit path.
func (p *Pipeline) Record(ctx context.Context, cam fleet.Camera, detection catalog.DetectionType) error {
	state := p.states.Get(cam.ID)
	if state == nil {
		return fmt.Errorf("%w: %s", ErrUnknownCamera, cam.ID)
	}
	if !state.BeginRecording() {
		return ErrRecordingInProgress
	}
	defer state.EndRecording()

	start := time.Now()
	videoName := media.RecordingFileName(cam.ID, start)
	videoPath := filepath.Join(p.cfg.RecordingsDir(), videoName)

	p.logger.Info("recording started",
		logging.Camera(cam.ID),
		logging.String(logging.FieldEventType, string(detection)),
		logging.String(logging.FieldFile, videoName))

	err := p.runner.CaptureClip(ctx, media.ClipJob{
		StreamURL:  cam.StreamURL(),
		Duration:   p.cfg.Recording.ClipDuration(),
		OutputPath: videoPath,
		Timeout:    p.cfg.Recording.CaptureTimeoutDuration(),
	})
	if err != nil {
		// A failed capture can leave a partial file behind.
		if rmErr := os.Remove(videoPath); rmErr != nil && !os.IsNotExist(rmErr) {
			p.logger.Warn("removing partial clip", logging.String(logging.FieldFile, videoName), logging.Error(rmErr))
		}
		return fmt.Errorf("capture clip for %s: %w", cam.ID, err)
	}

	thumbName := media.ThumbnailFileName(cam.ID, start)
	thumbPath := filepath.Join(p.cfg.ThumbnailsDir(), thumbName)
	thumbRel := path.Join("thumbnails", thumbName)
	if err := p.runner.ExtractThumbnail(ctx, media.ThumbnailJob{
		VideoPath:  videoPath,
		Offset:     p.cfg.Recording.ThumbnailOffset(),
		OutputPath: thumbPath,
		Timeout:    p.cfg.Snapshot.TimeoutDuration(),
	}); err != nil {
		p.logger.Warn("thumbnail extraction failed",
			logging.Camera(cam.ID),
			logging.String(logging.FieldFile, thumbName),
			logging.Error(err))
		thumbRel = ""
	}

	event, err := p.store.AddEvent(ctx, catalog.NewEvent{
		CameraID:      cam.ID,
		Type:          detection,
		VideoPath:     path.Join("recordings", videoName),
		ThumbnailPath: thumbRel,
		Timestamp:     start,
	})
	if err != nil {
		return fmt.Errorf("store event for %s: %w", cam.ID, err)
	}

	p.bus.Publish(bus.Message{Topic: bus.TopicNewSecurityEvent, Event: *event})

	if err := p.notifier.NotifyEventRecorded(ctx, cam.Name, detection); err != nil {
		p.logger.Warn("notification failed", logging.Camera(cam.ID), logging.Error(err))
	}

	p.logger.Info("recording complete",
		logging.Camera(cam.ID),
		logging.String(logging.FieldEventID, event.ID),
		logging.Duration("elapsed", time.Since(start)))
	return nil
}
