package media

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// The analyze/probe budget keeps frame grabs responsive on streams with
// sparse keyframes.
const probeBudget = "5000000"

// ClipJob captures a fixed-duration clip from a live stream to a file. The
// stream is copied without re-encoding and audio is stripped.
type ClipJob struct {
	StreamURL  string
	Duration   time.Duration
	OutputPath string
	Timeout    time.Duration
}

func (j ClipJob) validate() error {
	if j.StreamURL == "" {
		return errors.New("clip job: stream url required")
	}
	if j.Duration <= 0 {
		return errors.New("clip job: duration required")
	}
	if j.OutputPath == "" {
		return errors.New("clip job: output path required")
	}
	return nil
}

func (j ClipJob) args() []string {
	return []string{
		"-y",
		"-rtsp_transport", "tcp",
		"-i", j.StreamURL,
		"-t", strconv.Itoa(int(j.Duration.Seconds())),
		"-an",
		"-c:v", "copy",
		j.OutputPath,
	}
}

// FrameJob captures a single frame from a live stream to stdout.
type FrameJob struct {
	StreamURL string
	Timeout   time.Duration
}

func (j FrameJob) validate() error {
	if j.StreamURL == "" {
		return errors.New("frame job: stream url required")
	}
	return nil
}

func (j FrameJob) args() []string {
	return []string{
		"-y",
		"-rtsp_transport", "tcp",
		"-analyzeduration", probeBudget,
		"-probesize", probeBudget,
		"-i", j.StreamURL,
		"-frames:v", "1",
		"-q:v", "2",
		"-f", "image2",
		"-",
	}
}

// ThumbnailJob extracts a still frame from a locally saved clip at a fixed
// offset.
type ThumbnailJob struct {
	VideoPath  string
	Offset     time.Duration
	OutputPath string
	Timeout    time.Duration
}

func (j ThumbnailJob) validate() error {
	if j.VideoPath == "" {
		return errors.New("thumbnail job: video path required")
	}
	if j.OutputPath == "" {
		return errors.New("thumbnail job: output path required")
	}
	return nil
}

func (j ThumbnailJob) args() []string {
	return []string{
		"-y",
		"-i", j.VideoPath,
		"-ss", formatOffset(j.Offset),
		"-frames:v", "1",
		"-q:v", "2",
		j.OutputPath,
	}
}

func formatOffset(offset time.Duration) string {
	if offset < 0 {
		offset = 0
	}
	total := int(offset.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
