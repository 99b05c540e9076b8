// Command sentinel is the operator CLI. It reads the shared
// configuration and catalog directly; the daemon does not need to be
// running for read-only commands.
package main
