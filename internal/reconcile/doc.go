// Package reconcile brings the catalog back in sync with the recordings
// directory after an unclean shutdown.
package reconcile
