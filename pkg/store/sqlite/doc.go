// Package sqlite persists attribute values in a single eav_values table
// through gorm and the pure-Go modernc SQLite driver. It plays the backend
// role for an edit session: Load serves the values of one owner with secrets
// masked, Save applies a submission and returns the confirmed values.
package sqlite
