package supervisor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"sentinel/internal/config"
	"sentinel/internal/fleet"
	"sentinel/internal/logging"
)

// Supervisor keeps one detection session alive per camera. Each camera
// runs an independent connect loop: offline, connecting, online, and
// back to offline on failure with a fixed retry delay.
type Supervisor struct {
	registry *fleet.Registry
	states   *fleet.StateMap
	dialer   Dialer
	handler  MessageHandler
	cfg      config.Supervisor
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]Session
	wg       sync.WaitGroup
}

// New builds a supervisor over the given fleet.
func New(registry *fleet.Registry, states *fleet.StateMap, dialer Dialer, handler MessageHandler, cfg config.Supervisor, logger *slog.Logger) *Supervisor {
	return &Supervisor{
		registry: registry,
		states:   states,
		dialer:   dialer,
		handler:  handler,
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "supervisor"),
		sessions: make(map[string]Session),
	}
}

// StartAll launches a supervision loop for every camera that has an
// address and credentials. Loops run until ctx is cancelled.
func (s *Supervisor) StartAll(ctx context.Context) {
	for _, cam := range s.registry.All() {
		if cam.Address == "" || cam.Username == "" {
			s.logger.Info("skipping unsupervised camera", logging.Camera(cam.ID))
			continue
		}
		s.wg.Add(1)
		go func(cam fleet.Camera) {
			defer s.wg.Done()
			s.supervise(ctx, cam)
		}(cam)
	}
}

// Wait blocks until every supervision loop has exited.
func (s *Supervisor) Wait() {
	s.wg.Wait()
}

// Online reports whether the camera currently holds an active session.
func (s *Supervisor) Online(cameraID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[cameraID]
	return ok
}

func (s *Supervisor) supervise(ctx context.Context, cam fleet.Camera) {
	state := s.states.Get(cam.ID)
	for {
		if ctx.Err() != nil {
			return
		}

		closed := make(chan struct{})
		var once sync.Once
		signalClose := func() { once.Do(func() { close(closed) }) }

		if !s.connect(ctx, cam, state, signalClose) {
			state.SetStatus(fleet.StatusOffline)
			if !sleepCtx(ctx, s.cfg.ConnectRetryDuration()) {
				return
			}
			continue
		}

		var remote bool
		select {
		case <-closed:
			remote = true
		case <-ctx.Done():
		}

		s.dropSession(cam.ID)
		state.SetStatus(fleet.StatusOffline)
		if !remote {
			return
		}
		if !sleepCtx(ctx, s.cfg.CloseRetryDuration()) {
			return
		}
	}
}

// connect dials one session and registers it. Dials are suppressed when
// a session is already active for the camera.
func (s *Supervisor) connect(ctx context.Context, cam fleet.Camera, state *fleet.CameraState, signalClose func()) bool {
	s.mu.Lock()
	if _, active := s.sessions[cam.ID]; active {
		s.mu.Unlock()
		s.logger.Debug("connect suppressed, session active", logging.Camera(cam.ID))
		return false
	}
	s.mu.Unlock()

	state.SetStatus(fleet.StatusConnecting)
	s.logger.Info("connecting", logging.Camera(cam.ID))

	session, err := s.dialer.Dial(ctx, cam, Handlers{
		OnMessage: func(topic string, payload []byte) {
			s.handler.HandleMessage(ctx, cam, topic, payload)
		},
		OnClose: func(err error) {
			if err != nil {
				s.logger.Warn("session dropped", logging.Camera(cam.ID), logging.Error(err))
			}
			signalClose()
		},
	})
	if err != nil {
		s.logger.Warn("connect failed", logging.Camera(cam.ID), logging.Error(err))
		return false
	}

	s.mu.Lock()
	s.sessions[cam.ID] = session
	s.mu.Unlock()
	state.SetStatus(fleet.StatusOnline)
	s.logger.Info("connected", logging.Camera(cam.ID))
	return true
}

func (s *Supervisor) dropSession(cameraID string) {
	s.mu.Lock()
	session := s.sessions[cameraID]
	delete(s.sessions, cameraID)
	s.mu.Unlock()
	if session != nil {
		if err := session.Close(); err != nil {
			s.logger.Debug("session close", logging.Camera(cameraID), logging.Error(err))
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
