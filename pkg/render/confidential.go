package render

import "github.com/goliatone/go-eavform/pkg/model"

// MaskToken is what a masked confidential input displays.
const MaskToken = "********"

// ConfidentialState tracks the edit flow of a confidential attribute.
//
//	Empty   -> input enabled, the save controls the value
//	Masked  -> mask shown, input disabled, the save leaves the secret alone
//	Editing -> entered from Masked by an explicit user action
//
// After every reload the state is recomputed from server truth.
type ConfidentialState int

const (
	ConfidentialEmpty ConfidentialState = iota
	ConfidentialMasked
	ConfidentialEditing
)

// InitialConfidentialState returns Masked when a secret is stored and Empty
// otherwise.
func InitialConfidentialState(hasValue bool) ConfidentialState {
	if hasValue {
		return ConfidentialMasked
	}
	return ConfidentialEmpty
}

// RequestEdit performs the Masked -> Editing transition. Other states are
// returned unchanged.
func (s ConfidentialState) RequestEdit() ConfidentialState {
	if s == ConfidentialMasked {
		return ConfidentialEditing
	}
	return s
}

// Cancel abandons an edit and goes back to Masked.
func (s ConfidentialState) Cancel() ConfidentialState {
	if s == ConfidentialEditing {
		return ConfidentialMasked
	}
	return s
}

// Controls reports whether a save in this state may write the value.
func (s ConfidentialState) Controls() bool {
	return s != ConfidentialMasked
}

func (s ConfidentialState) String() string {
	switch s {
	case ConfidentialMasked:
		return "masked"
	case ConfidentialEditing:
		return "editing"
	default:
		return "empty"
	}
}

// IsMaskToken reports whether s is a placeholder rather than user input.
func IsMaskToken(s string) bool {
	return s == MaskToken || s == model.ConfidentialSentinel
}
