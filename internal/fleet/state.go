package fleet

import (
	"sync"
	"time"
)

// Status describes a camera's event-channel connectivity.
type Status string

const (
	StatusOffline    Status = "offline"
	StatusConnecting Status = "connecting"
	StatusOnline     Status = "online"
)

// CameraState tracks the mutable runtime facts for one camera: its
// connection status, in-flight operation guards, and the last good
// snapshot frame.
type CameraState struct {
	mu sync.Mutex

	status      Status
	statusSince time.Time

	recording    bool
	snapshotting bool

	cachedFrame []byte
	cachedAt    time.Time
}

func newCameraState() *CameraState {
	return &CameraState{status: StatusOffline, statusSince: time.Now()}
}

// Status returns the current connection status and when it was entered.
func (s *CameraState) Status() (Status, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.statusSince
}

// SetStatus records a connection status transition. Setting the current
// status again does not refresh the transition time.
func (s *CameraState) SetStatus(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == status {
		return
	}
	s.status = status
	s.statusSince = time.Now()
}

// BeginRecording claims the recording guard. It returns false when a
// recording is already in flight; callers that get true must call
// EndRecording when done.
func (s *CameraState) BeginRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recording {
		return false
	}
	s.recording = true
	return true
}

// EndRecording releases the recording guard.
func (s *CameraState) EndRecording() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recording = false
}

// Recording reports whether a recording is in flight.
func (s *CameraState) Recording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording
}

// BeginSnapshot claims the snapshot guard. It returns false when a
// capture is already in flight.
func (s *CameraState) BeginSnapshot() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshotting {
		return false
	}
	s.snapshotting = true
	return true
}

// EndSnapshot releases the snapshot guard.
func (s *CameraState) EndSnapshot() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshotting = false
}

// CachedSnapshot returns the most recent good frame, or nil when none
// has been captured yet.
func (s *CameraState) CachedSnapshot() ([]byte, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cachedFrame, s.cachedAt
}

// StoreSnapshot replaces the cached frame.
func (s *CameraState) StoreSnapshot(frame []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cachedFrame = frame
	s.cachedAt = time.Now()
}

// StateMap holds a CameraState per registered camera.
type StateMap struct {
	states map[string]*CameraState
}

// NewStateMap allocates runtime state for every camera in the registry.
func NewStateMap(reg *Registry) *StateMap {
	states := make(map[string]*CameraState, reg.Len())
	for _, cam := range reg.All() {
		states[cam.ID] = newCameraState()
	}
	return &StateMap{states: states}
}

// Get returns the state for a camera, or nil for unknown identifiers.
func (m *StateMap) Get(id string) *CameraState {
	return m.states[id]
}
