// Package fleet describes the configured camera fleet and its runtime
// state: identity and addressing for each device plus the per-camera
// guards and status used by the supervisor, recorder, and snapshot
// services.
package fleet
