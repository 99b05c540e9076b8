package supervisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"sentinel/internal/catalog"
	"sentinel/internal/fleet"
	"sentinel/internal/logging"
	"sentinel/internal/recorder"
)

// Topic fragments that mark a person detection across the vendor
// firmwares in the fleet.
var personTopicMarkers = []string{
	"PeopleDetector/People",
	"VideoAnalytics/PersonDetection",
	"Visitor",
}

// Recorder starts a recording for one camera.
type Recorder interface {
	Record(ctx context.Context, cam fleet.Camera, detection catalog.DetectionType) error
}

// Classifier inspects detection messages and triggers the recording
// pipeline when a person detection goes active.
type Classifier struct {
	states   *fleet.StateMap
	recorder Recorder
	logger   *slog.Logger

	wg sync.WaitGroup
}

// NewClassifier builds a classifier over the fleet state.
func NewClassifier(states *fleet.StateMap, rec Recorder, logger *slog.Logger) *Classifier {
	return &Classifier{
		states:   states,
		recorder: rec,
		logger:   logging.NewComponentLogger(logger, "classifier"),
	}
}

// HandleMessage classifies one detection message. Recordings run in the
// background so the session's message delivery is never blocked.
func (c *Classifier) HandleMessage(ctx context.Context, cam fleet.Camera, topic string, payload []byte) {
	detection, ok := classifyTopic(topic)
	if !ok {
		return
	}

	active, err := parseDetectionPayload(payload)
	if err != nil {
		c.logger.Warn("dropping malformed detection payload",
			logging.Camera(cam.ID),
			logging.String(logging.FieldTopic, topic),
			logging.Error(err))
		return
	}
	if !active {
		return
	}

	state := c.states.Get(cam.ID)
	if state != nil && state.Recording() {
		c.logger.Debug("detection ignored, recording in progress", logging.Camera(cam.ID))
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		err := c.recorder.Record(ctx, cam, detection)
		switch {
		case err == nil:
		case errors.Is(err, recorder.ErrRecordingInProgress):
			c.logger.Debug("detection lost recording race", logging.Camera(cam.ID))
		default:
			c.logger.Error("recording failed",
				logging.Camera(cam.ID),
				logging.String(logging.FieldEventType, string(detection)),
				logging.Error(err))
		}
	}()
}

// Wait blocks until all in-flight recordings triggered by the
// classifier have finished.
func (c *Classifier) Wait() {
	c.wg.Wait()
}

func classifyTopic(topic string) (catalog.DetectionType, bool) {
	for _, marker := range personTopicMarkers {
		if strings.Contains(topic, marker) {
			return catalog.DetectionPerson, true
		}
	}
	return "", false
}

// parseDetectionPayload accepts a bare boolean or the simple-item form
// {"value": …} where the value is a boolean or boolean-ish string.
func parseDetectionPayload(payload []byte) (bool, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return false, errors.New("empty payload")
	}
	if v, err := strconv.ParseBool(string(trimmed)); err == nil {
		return v, nil
	}

	var wrapped struct {
		Value any `json:"value"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return false, fmt.Errorf("parse payload: %w", err)
	}
	switch v := wrapped.Value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("parse payload value %q: %w", v, err)
		}
		return b, nil
	case nil:
		return false, errors.New("payload has no value field")
	default:
		return false, fmt.Errorf("unsupported payload value type %T", v)
	}
}
