// Package snapshot serves on-demand camera frames with a per-camera
// in-flight guard and a last-good-image cache.
package snapshot
