// Package orchestrator drives an edit session over a form instance. For every
// attribute, in definition order, it resolves a renderer through the
// registry, merges runtime attribute settings into the working instance,
// keeps the edited input and confidential state, validates all attributes at
// once and turns the inputs back into values for the caller to persist.
//
// Server-side validation errors are fed back with ApplyErrors and shown next
// to the local ones. After a successful save the caller hands the confirmed
// values to Commit, which resets every attribute from that server truth.
package orchestrator
