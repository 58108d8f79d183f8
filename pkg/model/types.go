package model

import internalmodel "github.com/goliatone/go-eavform/internal/model"

// PersistentType re-exports the internal PersistentType enumeration.
type PersistentType = internalmodel.PersistentType

const (
	PersistentTypeText        = internalmodel.PersistentTypeText
	PersistentTypeChar        = internalmodel.PersistentTypeChar
	PersistentTypeBoolean     = internalmodel.PersistentTypeBoolean
	PersistentTypeDate        = internalmodel.PersistentTypeDate
	PersistentTypeDateTime    = internalmodel.PersistentTypeDateTime
	PersistentTypeLong        = internalmodel.PersistentTypeLong
	PersistentTypeInt         = internalmodel.PersistentTypeInt
	PersistentTypeShort       = internalmodel.PersistentTypeShort
	PersistentTypeDouble      = internalmodel.PersistentTypeDouble
	PersistentTypeFloat       = internalmodel.PersistentTypeFloat
	PersistentTypeDecimal     = internalmodel.PersistentTypeDecimal
	PersistentTypeUUID        = internalmodel.PersistentTypeUUID
	PersistentTypeAttachment  = internalmodel.PersistentTypeAttachment
	PersistentTypeEnumeration = internalmodel.PersistentTypeEnumeration
	PersistentTypeByteArray   = internalmodel.PersistentTypeByteArray
)

const (
	FaceDefault  = internalmodel.FaceDefault
	FaceTextarea = internalmodel.FaceTextarea
	FacePassword = internalmodel.FacePassword
	FaceSelect   = internalmodel.FaceSelect
	FaceRadio    = internalmodel.FaceRadio
	FaceCheckbox = internalmodel.FaceCheckbox

	ConfidentialSentinel = internalmodel.ConfidentialSentinel

	DateLayout     = internalmodel.DateLayout
	DateTimeLayout = internalmodel.DateTimeLayout
)

type Option = internalmodel.Option
type Attribute = internalmodel.Attribute
type Value = internalmodel.Value
type Definition = internalmodel.Definition

// ValidateDefinition checks a definition for duplicate or missing codes and
// malformed constraints.
func ValidateDefinition(def Definition) error {
	return internalmodel.ValidateDefinition(def)
}

// PayloadString renders a payload as text.
func PayloadString(payload any) string {
	return internalmodel.PayloadString(payload)
}
