// Package simulate fabricates security events from recordings already
// on disk, for demos and test rigs without live cameras.
package simulate
