package model

import "strings"

// PersistentType is the storage-level kind of an attribute.
type PersistentType string

const (
	PersistentTypeText        PersistentType = "text"
	PersistentTypeChar        PersistentType = "char"
	PersistentTypeBoolean     PersistentType = "boolean"
	PersistentTypeDate        PersistentType = "date"
	PersistentTypeDateTime    PersistentType = "datetime"
	PersistentTypeLong        PersistentType = "long"
	PersistentTypeInt         PersistentType = "int"
	PersistentTypeShort       PersistentType = "short"
	PersistentTypeDouble      PersistentType = "double"
	PersistentTypeFloat       PersistentType = "float"
	PersistentTypeDecimal     PersistentType = "decimal"
	PersistentTypeUUID        PersistentType = "uuid"
	PersistentTypeAttachment  PersistentType = "attachment"
	PersistentTypeEnumeration PersistentType = "enumeration"
	PersistentTypeByteArray   PersistentType = "byte-array"
)

// Face types shipped with the built-in renderers. An empty face means "use
// the persistent type's default presentation".
const (
	FaceDefault  = ""
	FaceTextarea = "textarea"
	FacePassword = "password"
	FaceSelect   = "select"
	FaceRadio    = "radio"
	FaceCheckbox = "checkbox"
)

// ConfidentialSentinel replaces the payload of a confidential value loaded
// from the backend. It only signals that a value is set.
const ConfidentialSentinel = "*****"

// Option is one selectable entry of an enumeration attribute.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Attribute describes one named, typed field of a dynamic form definition.
// Min and Max bound the numeric value for numeric kinds and the length for
// textual kinds.
type Attribute struct {
	ID                string         `json:"id,omitempty" yaml:"id,omitempty"`
	Code              string         `json:"code" yaml:"code"`
	Name              string         `json:"name,omitempty" yaml:"name,omitempty"`
	Description       string         `json:"description,omitempty" yaml:"description,omitempty"`
	Placeholder       string         `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	PersistentType    PersistentType `json:"persistentType" yaml:"persistentType"`
	FaceType          string         `json:"faceType,omitempty" yaml:"faceType,omitempty"`
	Seq               int            `json:"seq" yaml:"seq"`
	Multiple          bool           `json:"multiple,omitempty" yaml:"multiple,omitempty"`
	Confidential      bool           `json:"confidential,omitempty" yaml:"confidential,omitempty"`
	Required          bool           `json:"required,omitempty" yaml:"required,omitempty"`
	Readonly          bool           `json:"readonly,omitempty" yaml:"readonly,omitempty"`
	Min               *float64       `json:"min,omitempty" yaml:"min,omitempty"`
	Max               *float64       `json:"max,omitempty" yaml:"max,omitempty"`
	Regex             string         `json:"regex,omitempty" yaml:"regex,omitempty"`
	ValidationMessage string         `json:"validationMessage,omitempty" yaml:"validationMessage,omitempty"`
	DefaultValue      any            `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Options           []Option       `json:"options,omitempty" yaml:"options,omitempty"`
}

// Face returns the normalised face type. A face equal to the persistent type
// collapses to FaceDefault.
func (a Attribute) Face() string {
	face := strings.ToLower(strings.TrimSpace(a.FaceType))
	if face == string(a.PersistentType) {
		return FaceDefault
	}
	return face
}

// Label returns the display name, falling back to the code.
func (a Attribute) Label() string {
	if name := strings.TrimSpace(a.Name); name != "" {
		return name
	}
	return a.Code
}

// Clone returns a copy that shares no pointers or slices with a.
func (a Attribute) Clone() Attribute {
	clone := a
	if a.Min != nil {
		v := *a.Min
		clone.Min = &v
	}
	if a.Max != nil {
		v := *a.Max
		clone.Max = &v
	}
	if len(a.Options) > 0 {
		clone.Options = append([]Option(nil), a.Options...)
	}
	return clone
}

// Value is one stored value instance of an attribute for one owner. Seq
// positions the value inside a multi-valued attribute and is 0 otherwise.
// An empty ID marks a value that has not been persisted yet.
type Value struct {
	ID            string `json:"id,omitempty" yaml:"id,omitempty"`
	AttributeCode string `json:"attributeCode" yaml:"attributeCode"`
	OwnerID       string `json:"ownerId,omitempty" yaml:"ownerId,omitempty"`
	Seq           int    `json:"seq" yaml:"seq"`
	Payload       any    `json:"payload" yaml:"payload"`
	Confidential  bool   `json:"confidential,omitempty" yaml:"confidential,omitempty"`
}

// Masked reports whether the value stands in for a secret held by the
// backend. The sentinel payload only masks values of confidential
// attributes; on any other attribute it is ordinary data.
func (v Value) Masked(attr Attribute) bool {
	if v.Confidential {
		return true
	}
	if !attr.Confidential {
		return false
	}
	s, ok := v.Payload.(string)
	return ok && s == ConfidentialSentinel
}

// Definition is an ordered set of attributes identified by (Type, Code).
// Render order is the order of Attributes, not Seq.
type Definition struct {
	Type       string      `json:"type" yaml:"type"`
	Code       string      `json:"code" yaml:"code"`
	Attributes []Attribute `json:"formAttributes" yaml:"formAttributes"`
}

// Attribute looks up an attribute by code.
func (d Definition) Attribute(code string) (Attribute, bool) {
	for _, attr := range d.Attributes {
		if attr.Code == code {
			return attr, true
		}
	}
	return Attribute{}, false
}

// Codes lists attribute codes in render order.
func (d Definition) Codes() []string {
	codes := make([]string, 0, len(d.Attributes))
	for _, attr := range d.Attributes {
		codes = append(codes, attr.Code)
	}
	return codes
}

// Key returns the "type/code" identifier of the definition.
func (d Definition) Key() string {
	return d.Type + "/" + d.Code
}
