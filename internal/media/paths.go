package media

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Artifact naming is load-bearing: the reconciliation scanner recovers the
// camera id and capture timestamp by parsing these names.
const (
	RecordingPrefix = "sentinel"
	RecordingExt    = ".mp4"
	ThumbnailPrefix = "thumb"
	ThumbnailExt    = ".jpg"
)

// ErrBadArtifactName indicates a filename outside the recording convention.
var ErrBadArtifactName = errors.New("artifact name does not match convention")

// RecordingFileName returns sentinel_{cameraID}_{epochMillis}.mp4.
func RecordingFileName(cameraID string, ts time.Time) string {
	return fmt.Sprintf("%s_%s_%d%s", RecordingPrefix, cameraID, ts.UnixMilli(), RecordingExt)
}

// ThumbnailFileName returns thumb_{cameraID}_{epochMillis}.jpg.
func ThumbnailFileName(cameraID string, ts time.Time) string {
	return fmt.Sprintf("%s_%s_%d%s", ThumbnailPrefix, cameraID, ts.UnixMilli(), ThumbnailExt)
}

// ParseRecordingFileName recovers the camera id and capture timestamp from a
// recording filename. The camera id may itself contain underscores; the
// prefix and the trailing timestamp are fixed.
func ParseRecordingFileName(name string) (string, time.Time, error) {
	if !strings.HasSuffix(name, RecordingExt) {
		return "", time.Time{}, fmt.Errorf("%w: %q", ErrBadArtifactName, name)
	}
	base := strings.TrimSuffix(name, RecordingExt)
	parts := strings.Split(base, "_")
	if len(parts) < 3 || parts[0] != RecordingPrefix {
		return "", time.Time{}, fmt.Errorf("%w: %q", ErrBadArtifactName, name)
	}
	millis, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %q", ErrBadArtifactName, name)
	}
	cameraID := strings.Join(parts[1:len(parts)-1], "_")
	if cameraID == "" {
		return "", time.Time{}, fmt.Errorf("%w: %q", ErrBadArtifactName, name)
	}
	return cameraID, time.UnixMilli(millis).UTC(), nil
}
