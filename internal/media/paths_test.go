package media_test

import (
	"errors"
	"testing"
	"time"

	"sentinel/internal/media"
)

func TestRecordingFileNameRoundTrip(t *testing.T) {
	ts := time.UnixMilli(1771517731608).UTC()
	name := media.RecordingFileName("cam-01", ts)
	if name != "sentinel_cam-01_1771517731608.mp4" {
		t.Fatalf("unexpected name: %q", name)
	}

	cameraID, parsed, err := media.ParseRecordingFileName(name)
	if err != nil {
		t.Fatalf("ParseRecordingFileName: %v", err)
	}
	if cameraID != "cam-01" {
		t.Fatalf("unexpected camera id: %q", cameraID)
	}
	if !parsed.Equal(ts) {
		t.Fatalf("timestamp mismatch: got %v want %v", parsed, ts)
	}
}

func TestParseRecordingFileNameRejectsForeignNames(t *testing.T) {
	cases := []string{
		"clip.mp4",
		"sentinel_cam-01_notatime.mp4",
		"sentinel_cam-01_1000.mkv",
		"other_cam-01_1000.mp4",
		"sentinel__1000.mp4",
	}
	for _, name := range cases {
		if _, _, err := media.ParseRecordingFileName(name); !errors.Is(err, media.ErrBadArtifactName) {
			t.Fatalf("expected ErrBadArtifactName for %q, got %v", name, err)
		}
	}
}

func TestParseRecordingFileNameKeepsUnderscoredCameraIDs(t *testing.T) {
	cameraID, ts, err := media.ParseRecordingFileName("sentinel_front_door_2000.mp4")
	if err != nil {
		t.Fatalf("ParseRecordingFileName: %v", err)
	}
	if cameraID != "front_door" {
		t.Fatalf("unexpected camera id: %q", cameraID)
	}
	if ts.UnixMilli() != 2000 {
		t.Fatalf("unexpected timestamp: %v", ts)
	}
}

func TestThumbnailFileName(t *testing.T) {
	name := media.ThumbnailFileName("cam-02", time.UnixMilli(5000))
	if name != "thumb_cam-02_5000.jpg" {
		t.Fatalf("unexpected name: %q", name)
	}
}
