package render

import "github.com/goliatone/go-eavform/pkg/model"

// Input is the renderer-specific representation of what the editable view
// holds: a string for text inputs, a newline-joined buffer for multi-valued
// text, a bool for toggles, a []string for multi-selects. Nil means "no
// input".
type Input any

// Edit carries the edited input together with the confidential state the
// attribute was in when the user finished editing.
type Edit struct {
	Input Input
	State ConfidentialState
}

// ViewContext bundles what a renderer needs to produce a View.
type ViewContext struct {
	Attribute model.Attribute
	Input     Input
	State     ConfidentialState
	Manager   Manager
	Errors    []string
}

// Renderer implements the behaviour of one attribute kind. Implementations
// are stateless and safe to share between forms.
type Renderer interface {
	// SupportsMultiple reports whether the renderer can edit several values
	// under one attribute code.
	SupportsMultiple() bool
	// SupportsConfidential reports whether the renderer implements the
	// masked/editing flow for write-only attributes.
	SupportsConfidential() bool
	// ToWireValues converts the edited input into values, reusing the
	// identities of existing values by position. The boolean is false when
	// the save does not control the attribute (a masked secret); callers must
	// then leave the attribute out of the outgoing payload.
	ToWireValues(edit Edit, existing []model.Value, attr model.Attribute) ([]model.Value, bool)
	// ToViewValue converts stored values into the input the view displays.
	// With no values and useDefault set, attr.DefaultValue is used.
	ToViewValue(values []model.Value, attr model.Attribute, useDefault bool) Input
	// Rules builds the constraint set for attr. hasValue reports whether a
	// stored value is kept when the input is left blank; manager is the one bound next to the
	// renderer and may be nil.
	Rules(attr model.Attribute, hasValue bool, manager Manager) Rules
	// View produces the editable view description.
	View(ctx ViewContext) View
}

// Manager is the auxiliary data source registered next to a renderer, for
// example the option list of an enumeration or the catalogue of known
// attachments.
type Manager interface {
	// Options lists selectable entries for attr. A nil result means the
	// renderer falls back to the options declared on the attribute.
	Options(attr model.Attribute) []model.Option
}

// ManagerFunc adapts a function to the Manager interface.
type ManagerFunc func(attr model.Attribute) []model.Option

// Options calls the wrapped function.
func (fn ManagerFunc) Options(attr model.Attribute) []model.Option {
	if fn == nil {
		return nil
	}
	return fn(attr)
}

// Untouched reports whether a save must leave attr alone because it is a
// confidential attribute the user did not explicitly open for editing, or
// because the input is still the mask token.
func Untouched(edit Edit, attr model.Attribute) bool {
	if !attr.Confidential {
		return false
	}
	if !edit.State.Controls() {
		return true
	}
	if s, ok := edit.Input.(string); ok && IsMaskToken(s) {
		return true
	}
	return false
}
