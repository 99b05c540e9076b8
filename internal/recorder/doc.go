// Package recorder runs the recording pipeline: clip capture, thumbnail
// extraction, catalog insert, and event publication for one detection.
package recorder
