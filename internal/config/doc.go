// Package config loads, normalizes, and validates Sentinel configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and declares the static camera fleet. The
// Config type centralizes every knob the daemon and CLI need: media and data
// directories, retention ceiling, capture timings, supervision backoffs, and
// notification settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
