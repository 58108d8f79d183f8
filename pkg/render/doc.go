// Package render defines the per-attribute renderer contract of the form
// engine and the registry that dispatches on (persistent type, face type).
//
// A Renderer converts between stored values and the input an editable view
// holds, builds the validation rules for its kind, and describes the view.
// Confidential attributes follow a small state machine (Empty, Masked,
// Editing); in Masked a renderer must report the attribute as untouched so
// the secret held by the backend is never overwritten by the mask token.
//
// The package also routes server-reported validation errors to attribute
// codes and localises violation messages.
package render
