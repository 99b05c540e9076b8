// Package media wraps the external capture facility (ffmpeg) behind a typed
// command builder and an injectable executor.
//
// Three invocation shapes exist: ClipJob copies a fixed-duration clip from a
// live stream to disk, FrameJob grabs one frame from a live stream onto
// stdout, and ThumbnailJob extracts a still from a locally saved clip. The
// recording pipeline, snapshot service, and reconciliation scanner all share
// this single reviewed implementation instead of building argument arrays ad
// hoc.
//
// The package also owns the artifact filename convention and its parser.
package media
