// Package logs reads the daemon log file for the CLI: trailing lines
// and a polling follow mode.
package logs
