package orchestrator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-eavform/pkg/model"
)

// AttributeSetting is a runtime override of one attribute's presentation and
// validation flags. ID matches the attribute ID or, failing that, its code.
// Nil fields leave the attribute unchanged.
type AttributeSetting struct {
	ID                string   `json:"id" yaml:"id"`
	Readonly          *bool    `json:"readonly,omitempty" yaml:"readonly,omitempty"`
	Required          *bool    `json:"required,omitempty" yaml:"required,omitempty"`
	Label             *string  `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder       *string  `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Min               *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max               *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Regex             *string  `json:"regex,omitempty" yaml:"regex,omitempty"`
	ValidationMessage *string  `json:"validationMessage,omitempty" yaml:"validationMessage,omitempty"`
}

// ParseAttributeSettings decodes a JSON array of settings. Blank input yields
// no settings.
func ParseAttributeSettings(raw string) ([]AttributeSetting, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var settings []AttributeSetting
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return nil, fmt.Errorf("orchestrator: decode attribute settings: %w", err)
	}
	return settings, nil
}

// Matches reports whether the setting targets attr.
func (s AttributeSetting) Matches(attr model.Attribute) bool {
	id := strings.TrimSpace(s.ID)
	if id == "" {
		return false
	}
	if attr.ID != "" && id == attr.ID {
		return true
	}
	return id == attr.Code
}

// Apply returns a copy of attr with the setting merged in.
func (s AttributeSetting) Apply(attr model.Attribute) model.Attribute {
	out := attr.Clone()
	if s.Readonly != nil {
		out.Readonly = *s.Readonly
	}
	if s.Required != nil {
		out.Required = *s.Required
	}
	if s.Label != nil {
		out.Name = *s.Label
	}
	if s.Placeholder != nil {
		out.Placeholder = *s.Placeholder
	}
	if s.Min != nil {
		v := *s.Min
		out.Min = &v
	}
	if s.Max != nil {
		v := *s.Max
		out.Max = &v
	}
	if s.Regex != nil {
		out.Regex = *s.Regex
	}
	if s.ValidationMessage != nil {
		out.ValidationMessage = *s.ValidationMessage
	}
	return out
}

func cloneSettings(settings []AttributeSetting) []AttributeSetting {
	if len(settings) == 0 {
		return nil
	}
	return append([]AttributeSetting(nil), settings...)
}
