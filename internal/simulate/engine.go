package simulate

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"sentinel/internal/bus"
	"sentinel/internal/catalog"
	"sentinel/internal/config"
	"sentinel/internal/fleet"
	"sentinel/internal/logging"
	"sentinel/internal/media"
)

var detectionTypes = []catalog.DetectionType{
	catalog.DetectionPerson,
	catalog.DetectionMotion,
	catalog.DetectionVehicle,
	catalog.DetectionAnimal,
}

// Engine periodically fabricates security events from existing
// recordings so the pipeline can be exercised without live cameras. It
// never invokes ffmpeg and never touches the per-camera guards.
type Engine struct {
	registry *fleet.Registry
	store    *catalog.Store
	bus      *bus.Bus
	cfg      *config.Config
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a simulation engine.
func New(registry *fleet.Registry, store *catalog.Store, eventBus *bus.Bus, cfg *config.Config, logger *slog.Logger) *Engine {
	return &Engine{
		registry: registry,
		store:    store,
		bus:      eventBus,
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "simulate"),
	}
}

// Start launches the generator loop. Calling Start twice is an error.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		return errors.New("simulation already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.run(runCtx)
	}()
	e.logger.Info("simulation started",
		logging.Duration("initial_delay", e.cfg.Simulation.InitialDelay()))
	return nil
}

// Stop cancels the generator loop and waits for it to exit. Stop on a
// stopped engine is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	cancel := e.cancel
	e.cancel = nil
	e.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	e.wg.Wait()
	e.logger.Info("simulation stopped")
}

func (e *Engine) run(ctx context.Context) {
	delay := e.cfg.Simulation.InitialDelay()
	for {
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return
		}

		if err := e.Step(ctx); err != nil {
			e.logger.Warn("simulated event failed", logging.Error(err))
		}
		delay = e.nextInterval()
	}
}

func (e *Engine) nextInterval() time.Duration {
	min := e.cfg.Simulation.MinInterval()
	max := e.cfg.Simulation.MaxInterval()
	if max <= min {
		return min
	}
	return min + rand.N(max-min)
}

// Step fabricates a single event: a random camera paired with a random
// recording already on disk. With no recordings available it does
// nothing.
func (e *Engine) Step(ctx context.Context) error {
	cameras := e.registry.All()
	if len(cameras) == 0 {
		return nil
	}

	recordings, err := e.listRecordings()
	if err != nil {
		return err
	}
	if len(recordings) == 0 {
		e.logger.Debug("no recordings available for simulation")
		return nil
	}

	cam := cameras[rand.IntN(len(cameras))]
	recording := recordings[rand.IntN(len(recordings))]
	detection := detectionTypes[rand.IntN(len(detectionTypes))]

	event, err := e.store.AddEvent(ctx, catalog.NewEvent{
		CameraID:      cam.ID,
		Type:          detection,
		VideoPath:     path.Join("recordings", recording),
		ThumbnailPath: e.matchThumbnail(recording),
	})
	if err != nil {
		return err
	}

	e.bus.Publish(bus.Message{Topic: bus.TopicNewSecurityEvent, Event: *event})
	e.logger.Info("simulated event",
		logging.Camera(cam.ID),
		logging.String(logging.FieldEventID, event.ID),
		logging.String(logging.FieldEventType, string(detection)))
	return nil
}

func (e *Engine) listRecordings() ([]string, error) {
	entries, err := os.ReadDir(e.cfg.RecordingsDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, _, err := media.ParseRecordingFileName(entry.Name()); err != nil {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// matchThumbnail prefers the thumbnail belonging to the recording and
// falls back to any thumbnail on disk.
func (e *Engine) matchThumbnail(recording string) string {
	cameraID, captured, err := media.ParseRecordingFileName(recording)
	if err == nil {
		matched := media.ThumbnailFileName(cameraID, captured)
		if _, err := os.Stat(filepath.Join(e.cfg.ThumbnailsDir(), matched)); err == nil {
			return path.Join("thumbnails", matched)
		}
	}

	entries, err := os.ReadDir(e.cfg.ThumbnailsDir())
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			return path.Join("thumbnails", entry.Name())
		}
	}
	return ""
}
