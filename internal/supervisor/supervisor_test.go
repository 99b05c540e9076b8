package supervisor_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"sentinel/internal/config"
	"sentinel/internal/fleet"
	"sentinel/internal/logging"
	"sentinel/internal/supervisor"
	"sentinel/internal/testsupport"
)

type fakeSession struct {
	mu     sync.Mutex
	closed bool
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSession) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// fakeDialer scripts dial outcomes and exposes the handlers of the most
// recent session so tests can inject messages and closures.
type fakeDialer struct {
	mu       sync.Mutex
	failures int
	dials    int
	handlers []supervisor.Handlers
	sessions []*fakeSession
	dialed   chan struct{}
}

func newFakeDialer(failures int) *fakeDialer {
	return &fakeDialer{failures: failures, dialed: make(chan struct{}, 16)}
}

func (d *fakeDialer) Dial(_ context.Context, _ fleet.Camera, handlers supervisor.Handlers) (supervisor.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials++
	defer func() { d.dialed <- struct{}{} }()
	if d.failures > 0 {
		d.failures--
		return nil, errors.New("connection refused")
	}
	session := &fakeSession{}
	d.handlers = append(d.handlers, handlers)
	d.sessions = append(d.sessions, session)
	return session, nil
}

func (d *fakeDialer) Dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

func (d *fakeDialer) Latest() (supervisor.Handlers, *fakeSession) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.sessions) == 0 {
		return supervisor.Handlers{}, nil
	}
	return d.handlers[len(d.handlers)-1], d.sessions[len(d.sessions)-1]
}

type recordingHandler struct {
	mu       sync.Mutex
	messages []string
}

func (h *recordingHandler) HandleMessage(_ context.Context, cam fleet.Camera, topic string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, cam.ID+" "+topic+" "+string(payload))
}

func (h *recordingHandler) Messages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.messages...)
}

func supervisorConfig() config.Supervisor {
	// Zero retry delays so loops respin immediately under test.
	return config.Supervisor{EventPort: 1883, ConnectTimeout: 1}
}

func newFleet(t *testing.T, ids ...string) (*fleet.Registry, *fleet.StateMap) {
	t.Helper()
	cams := make([]config.Camera, 0, len(ids))
	for _, id := range ids {
		cams = append(cams, testsupport.Camera(id))
	}
	cfg := testsupport.NewConfig(t, testsupport.WithCameras(cams...))
	registry := fleet.NewRegistry(cfg)
	return registry, fleet.NewStateMap(registry)
}

func waitDial(t *testing.T, d *fakeDialer) {
	t.Helper()
	select {
	case <-d.dialed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dial")
	}
}

func waitStatus(t *testing.T, state *fleet.CameraState, want fleet.Status) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if status, _ := state.Status(); status == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	status, _ := state.Status()
	t.Fatalf("status %q, want %q", status, want)
}

func TestStartAllConnectsAndForwardsMessages(t *testing.T) {
	registry, states := newFleet(t, "cam-01")
	dialer := newFakeDialer(0)
	handler := &recordingHandler{}
	sup := supervisor.New(registry, states, dialer, handler, supervisorConfig(), logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sup.StartAll(ctx)
	waitDial(t, dialer)
	waitStatus(t, states.Get("cam-01"), fleet.StatusOnline)

	handlers, _ := dialer.Latest()
	handlers.OnMessage("tns1:PeopleDetector/People", []byte("true"))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(handler.Messages()) == 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	msgs := handler.Messages()
	if len(msgs) != 1 || msgs[0] != "cam-01 tns1:PeopleDetector/People true" {
		t.Fatalf("unexpected messages: %v", msgs)
	}

	cancel()
	sup.Wait()
}

func TestConnectFailureRetriesUntilOnline(t *testing.T) {
	registry, states := newFleet(t, "cam-01")
	dialer := newFakeDialer(2)
	sup := supervisor.New(registry, states, dialer, &recordingHandler{}, supervisorConfig(), logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sup.StartAll(ctx)

	waitStatus(t, states.Get("cam-01"), fleet.StatusOnline)
	if dials := dialer.Dials(); dials != 3 {
		t.Fatalf("expected 3 dials, got %d", dials)
	}

	cancel()
	sup.Wait()
}

func TestSessionCloseTriggersReconnect(t *testing.T) {
	registry, states := newFleet(t, "cam-01")
	dialer := newFakeDialer(0)
	sup := supervisor.New(registry, states, dialer, &recordingHandler{}, supervisorConfig(), logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sup.StartAll(ctx)
	waitDial(t, dialer)
	waitStatus(t, states.Get("cam-01"), fleet.StatusOnline)

	handlers, first := dialer.Latest()
	handlers.OnClose(errors.New("broker went away"))

	waitDial(t, dialer)
	waitStatus(t, states.Get("cam-01"), fleet.StatusOnline)
	if !first.Closed() {
		t.Fatal("dropped session should have been closed")
	}
	if dials := dialer.Dials(); dials != 2 {
		t.Fatalf("expected 2 dials, got %d", dials)
	}

	cancel()
	sup.Wait()
}

func TestShutdownClosesSessions(t *testing.T) {
	registry, states := newFleet(t, "cam-01", "cam-02")
	dialer := newFakeDialer(0)
	sup := supervisor.New(registry, states, dialer, &recordingHandler{}, supervisorConfig(), logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	sup.StartAll(ctx)
	waitDial(t, dialer)
	waitDial(t, dialer)

	cancel()
	sup.Wait()

	dialer.mu.Lock()
	defer dialer.mu.Unlock()
	for i, session := range dialer.sessions {
		if !session.Closed() {
			t.Fatalf("session %d not closed on shutdown", i)
		}
	}
	for _, id := range []string{"cam-01", "cam-02"} {
		if status, _ := states.Get(id).Status(); status != fleet.StatusOffline {
			t.Fatalf("camera %s status %q after shutdown", id, status)
		}
	}
}

func TestStartAllSkipsCamerasWithoutCredentials(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCameras(
		testsupport.Camera("cam-01"),
		config.Camera{ID: "view-only", Name: "Viewer", Address: "192.0.2.30", StreamPath: "/stream1"},
	))
	registry := fleet.NewRegistry(cfg)
	states := fleet.NewStateMap(registry)
	dialer := newFakeDialer(0)
	sup := supervisor.New(registry, states, dialer, &recordingHandler{}, supervisorConfig(), logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sup.StartAll(ctx)
	waitDial(t, dialer)
	waitStatus(t, states.Get("cam-01"), fleet.StatusOnline)

	if dials := dialer.Dials(); dials != 1 {
		t.Fatalf("expected a single dial, got %d", dials)
	}
	if status, _ := states.Get("view-only").Status(); status != fleet.StatusOffline {
		t.Fatalf("unsupervised camera status %q, want offline", status)
	}

	cancel()
	sup.Wait()
}
