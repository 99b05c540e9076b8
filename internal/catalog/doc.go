// Package catalog persists security events and camera mirror rows in SQLite.
//
// The Store owns database connections, schema initialization, and every CRUD
// operation the pipeline, scanner, and CLI need. Event timestamps are stored
// as UTC epoch milliseconds so reconciliation can match catalog rows against
// the millisecond timestamps embedded in recording filenames.
//
// Retention is enforced synchronously inside AddEvent: once the configured
// ceiling is exceeded, the oldest read event (or the oldest event overall when
// none are read) is evicted together with its media files. The ceiling is an
// invariant, not a periodic sweep target.
package catalog
