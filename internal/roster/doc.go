// Package roster implements SQLite persistence for the admin-managed roster:
// tracked artists, genre-to-playlist routes, and fallback playlists.
//
// The pipeline never mutates the roster. It reads a [Snapshot] once at the
// start of a run, so roster changes made while a run is executing are not
// observed until the next run.
//
// Uniqueness is enforced at the store level: a genre label maps to at most one
// playlist route, and duplicate registrations are rejected with
// [shared.ErrDuplicateEntry] before the pipeline ever sees them.
package roster
