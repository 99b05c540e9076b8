// Package daemon wires the sentinel services together and manages their
// lifecycle under a single-instance file lock.
package daemon
