// Package form implements the immutable form instance: one definition paired
// with the grouped values of one owner. Setters follow a copy-on-write model
// and return a fresh *Instance; callers swap the reference they hold. The
// package also provides the flat properties view used for bulk operations,
// where multi-valued attributes are joined with a comma. That join does not
// escape commas inside individual values.
package form
