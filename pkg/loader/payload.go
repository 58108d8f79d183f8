package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-eavform/pkg/model"
)

// ErrEmptyPayload is returned when a payload document has no content.
var ErrEmptyPayload = errors.New("loader: payload is empty")

// Payload is the document a backend serves for one edit session: the
// definition plus the stored values of one owner.
type Payload struct {
	FormDefinition model.Definition `json:"formDefinition" yaml:"formDefinition"`
	OwnerID        string           `json:"ownerId,omitempty" yaml:"ownerId,omitempty"`
	Values         []model.Value    `json:"values,omitempty" yaml:"values,omitempty"`
}

// DecodePayload parses a JSON or YAML payload and validates its definition.
func DecodePayload(data []byte) (Payload, error) {
	return decodePayload(data, "payload")
}

func decodePayload(data []byte, source string) (Payload, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Payload{}, fmt.Errorf("%w: %s", ErrEmptyPayload, source)
	}

	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		payload = Payload{}
		if err := yaml.Unmarshal(data, &payload); err != nil {
			return Payload{}, fmt.Errorf("loader: parse %s: invalid JSON or YAML", source)
		}
		normaliseYAML(&payload)
	}

	if err := model.ValidateDefinition(payload.FormDefinition); err != nil {
		return Payload{}, fmt.Errorf("loader: %s: %w", source, err)
	}
	return payload, nil
}

// normaliseYAML maps YAML integers to float64 so both encodings yield the
// same payloads.
func normaliseYAML(payload *Payload) {
	for idx := range payload.Values {
		payload.Values[idx].Payload = normaliseNumber(payload.Values[idx].Payload)
	}
	for idx := range payload.FormDefinition.Attributes {
		attr := &payload.FormDefinition.Attributes[idx]
		attr.DefaultValue = normaliseNumber(attr.DefaultValue)
	}
}

func normaliseNumber(value any) any {
	switch typed := value.(type) {
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	case uint64:
		return float64(typed)
	default:
		return value
	}
}
