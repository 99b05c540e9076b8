package supervisor_test

import (
	"context"
	"sync"
	"testing"

	"sentinel/internal/catalog"
	"sentinel/internal/fleet"
	"sentinel/internal/logging"
	"sentinel/internal/recorder"
	"sentinel/internal/supervisor"
	"sentinel/internal/testsupport"
)

type fakeRecorder struct {
	mu    sync.Mutex
	calls []catalog.DetectionType
	err   error
}

func (r *fakeRecorder) Record(_ context.Context, _ fleet.Camera, detection catalog.DetectionType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, detection)
	return r.err
}

func (r *fakeRecorder) Calls() []catalog.DetectionType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]catalog.DetectionType(nil), r.calls...)
}

func newClassifier(t *testing.T, rec *fakeRecorder) (*supervisor.Classifier, *fleet.StateMap, fleet.Camera) {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithCameras(testsupport.Camera("cam-01")))
	registry := fleet.NewRegistry(cfg)
	states := fleet.NewStateMap(registry)
	cam, _ := registry.Get("cam-01")
	return supervisor.NewClassifier(states, rec, logging.NewNop()), states, cam
}

func TestHandleMessageTriggersOnPersonTopics(t *testing.T) {
	topics := []string{
		"tns1:RuleEngine/PeopleDetector/People",
		"tns1:VideoAnalytics/PersonDetection",
		"tns1:Device/Visitor",
	}
	for _, topic := range topics {
		rec := &fakeRecorder{}
		classifier, _, cam := newClassifier(t, rec)

		classifier.HandleMessage(context.Background(), cam, topic, []byte("true"))
		classifier.Wait()

		calls := rec.Calls()
		if len(calls) != 1 || calls[0] != catalog.DetectionPerson {
			t.Fatalf("topic %q: unexpected calls %v", topic, calls)
		}
	}
}

func TestHandleMessageIgnoresUnrelatedTopics(t *testing.T) {
	rec := &fakeRecorder{}
	classifier, _, cam := newClassifier(t, rec)

	classifier.HandleMessage(context.Background(), cam, "tns1:Device/HardwareFailure", []byte("true"))
	classifier.Wait()

	if len(rec.Calls()) != 0 {
		t.Fatalf("unexpected recorder calls: %v", rec.Calls())
	}
}

func TestHandleMessagePayloadForms(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		trigger bool
	}{
		{"bare true", "true", true},
		{"bare false", "false", false},
		{"wrapped bool", `{"value": true}`, true},
		{"wrapped false", `{"value": false}`, false},
		{"wrapped string", `{"value": "true"}`, true},
		{"wrapped string false", `{"value": "false"}`, false},
		{"malformed json", `{"value":`, false},
		{"missing value", `{"state": true}`, false},
		{"empty", "", false},
		{"numeric value", `{"value": 3.5}`, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := &fakeRecorder{}
			classifier, _, cam := newClassifier(t, rec)

			classifier.HandleMessage(context.Background(), cam, "tns1:RuleEngine/PeopleDetector/People", []byte(tc.payload))
			classifier.Wait()

			got := len(rec.Calls()) == 1
			if got != tc.trigger {
				t.Fatalf("payload %q: triggered=%v, want %v", tc.payload, got, tc.trigger)
			}
		})
	}
}

func TestHandleMessageIgnoresDetectionsWhileRecording(t *testing.T) {
	rec := &fakeRecorder{}
	classifier, states, cam := newClassifier(t, rec)

	state := states.Get(cam.ID)
	if !state.BeginRecording() {
		t.Fatal("BeginRecording should succeed")
	}
	defer state.EndRecording()

	classifier.HandleMessage(context.Background(), cam, "tns1:RuleEngine/PeopleDetector/People", []byte("true"))
	classifier.Wait()

	if len(rec.Calls()) != 0 {
		t.Fatalf("expected no recorder calls while recording, got %v", rec.Calls())
	}
}

func TestHandleMessageToleratesRecordingRace(t *testing.T) {
	rec := &fakeRecorder{err: recorder.ErrRecordingInProgress}
	classifier, _, cam := newClassifier(t, rec)

	// Must not panic or surface the race to the session.
	classifier.HandleMessage(context.Background(), cam, "tns1:RuleEngine/PeopleDetector/People", []byte("true"))
	classifier.Wait()
}
