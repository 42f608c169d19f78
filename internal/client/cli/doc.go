// Package cli provides the interactive gophauth command-line client.
//
// It wires configuration and the gRPC client into a small REPL with
// register, login, profile and logout commands. The REPL is started via
// App.Run(ctx), which blocks until the user exits or input ends.
package cli
