// Package cli provides the interactive ledger command-line client.
//
// It wires configuration, the authenticated HTTP client, the API services
// and a REPL. Each input line is dispatched through a google/subcommands
// commander, so "help" and per-command usage come for free.
//
// Commands:
//   - login / register / logout / status
//   - get / post / put / delete on any API path, printing JSON answers
//
// On start the client waits for the server health endpoint with exponential
// backoff. When a session can no longer be renewed the user is told to log
// in again. The REPL is started via App.Run(ctx), which blocks until the
// user exits.
package cli
