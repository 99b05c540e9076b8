package snapshot_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"sentinel/internal/config"
	"sentinel/internal/fleet"
	"sentinel/internal/logging"
	"sentinel/internal/media"
	"sentinel/internal/snapshot"
	"sentinel/internal/testsupport"
)

type frameExecutor struct {
	frames [][]byte
	errs   []error
	calls  int
}

func (f *frameExecutor) Run(context.Context, string, []string) error {
	return errors.New("unexpected Run call")
}

func (f *frameExecutor) Output(context.Context, string, []string) ([]byte, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.frames) {
		return f.frames[i], nil
	}
	return nil, errors.New("no scripted frame")
}

func newService(t *testing.T, exec *frameExecutor) (*snapshot.Service, *fleet.StateMap) {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithCameras(testsupport.Camera("cam-01")))
	registry := fleet.NewRegistry(cfg)
	states := fleet.NewStateMap(registry)
	runner, err := media.NewRunner("ffmpeg", media.WithExecutor(exec))
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return snapshot.New(registry, states, runner, config.Snapshot{Timeout: 5}, logging.NewNop()), states
}

func TestSnapshotUnknownCamera(t *testing.T) {
	svc, _ := newService(t, &frameExecutor{})
	_, err := svc.Snapshot(context.Background(), "ghost")
	if !errors.Is(err, snapshot.ErrUnknownCamera) {
		t.Fatalf("expected ErrUnknownCamera, got %v", err)
	}
}

func TestSnapshotCapturesAndCaches(t *testing.T) {
	exec := &frameExecutor{frames: [][]byte{[]byte("frame-1")}}
	svc, states := newService(t, exec)

	frame, err := svc.Snapshot(context.Background(), "cam-01")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if !bytes.Equal(frame, []byte("frame-1")) {
		t.Fatalf("unexpected frame %q", frame)
	}

	cached, _ := states.Get("cam-01").CachedSnapshot()
	if !bytes.Equal(cached, []byte("frame-1")) {
		t.Fatalf("cache not updated: %q", cached)
	}
}

func TestSnapshotContentionServesCache(t *testing.T) {
	exec := &frameExecutor{frames: [][]byte{[]byte("stale")}}
	svc, states := newService(t, exec)

	if _, err := svc.Snapshot(context.Background(), "cam-01"); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	state := states.Get("cam-01")
	if !state.BeginSnapshot() {
		t.Fatal("BeginSnapshot should succeed")
	}
	defer state.EndSnapshot()

	frame, err := svc.Snapshot(context.Background(), "cam-01")
	if err != nil {
		t.Fatalf("Snapshot under contention: %v", err)
	}
	if !bytes.Equal(frame, []byte("stale")) {
		t.Fatalf("expected cached frame, got %q", frame)
	}
	if exec.calls != 1 {
		t.Fatalf("contended call must not capture, calls=%d", exec.calls)
	}
}

func TestSnapshotFailureFallsBackToCache(t *testing.T) {
	exec := &frameExecutor{
		frames: [][]byte{[]byte("good")},
		errs:   []error{nil, errors.New("stream offline")},
	}
	svc, _ := newService(t, exec)

	if _, err := svc.Snapshot(context.Background(), "cam-01"); err != nil {
		t.Fatalf("first Snapshot: %v", err)
	}
	frame, err := svc.Snapshot(context.Background(), "cam-01")
	if err != nil {
		t.Fatalf("second Snapshot: %v", err)
	}
	if !bytes.Equal(frame, []byte("good")) {
		t.Fatalf("expected cached fallback, got %q", frame)
	}
}

func TestSnapshotFailureWithEmptyCacheReturnsNil(t *testing.T) {
	exec := &frameExecutor{errs: []error{errors.New("stream offline")}}
	svc, _ := newService(t, exec)

	frame, err := svc.Snapshot(context.Background(), "cam-01")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if frame != nil {
		t.Fatalf("expected nil frame, got %q", frame)
	}
}
