// Package cli provides the interactive OrderDesk command-line client.
//
// It wires configuration, the encrypted credential store, the API client,
// the session manager and the application services behind a small REPL.
// The previous session is restored in the background while the prompt is
// already usable; the prompt shows "(restoring session)" until it is done.
//
// Key features:
//   - Login / Logout, with the session persisted across restarts
//   - Register (signup) and password reset
//   - Order submission with images
//   - whoami / status
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
