// Package credstore implements the persisted credential store: a small
// secure key/value store that survives process restarts.
//
// Store is the capability the session layer depends on (Get/Set/Delete by
// key). SQLiteStore persists values in a local SQLite database (schema
// managed by goose migrations) and seals every value with a Sealer before it
// touches disk. MemoryStore keeps values in process memory.
//
// Get reports a missing key as ("", false, nil), never as an error.
package credstore
