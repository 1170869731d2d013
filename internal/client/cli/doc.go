// Package cli provides the interactive gophvault command-line client.
//
// It wires configuration, the gRPC API client, the session manager and the
// application services into a REPL. The session key lives only inside the
// session manager; commands reach it through the services.
//
// Key features:
//   - Register / Login / Logout, with a spinner while the key is derived
//   - Add / List / Show / Edit / Delete credential records, search by query
//   - Reload: drop in-memory state and restore the session from the volatile store
//   - Generate random passwords
//   - Inactivity expiry notice
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
