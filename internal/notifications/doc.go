// Package notifications delivers pipeline events via ntfy push.
//
// The default implementation publishes to the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Delivery is best-effort; callers log failures and move on.
package notifications
