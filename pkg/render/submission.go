package render

import (
	"sort"
	"strings"

	"github.com/goliatone/go-eavform/pkg/model"
)

// Names of the hidden inputs that identify the record an HTML form saves.
const (
	HiddenDefinition = "_definition"
	HiddenOwner      = "_owner"
)

// HiddenField is a hidden input emitted next to the attribute controls.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden returns a HiddenField for an arbitrary name/value pair. The value is
// rendered the way payloads are.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: model.PayloadString(value),
	}
}

// CSRFToken carries an anti-forgery token under the name the backend expects
// ("_csrf", "csrf_token", ...).
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// VersionField carries a record version for optimistic locking.
func VersionField(name string, version any) HiddenField {
	return Hidden(name, version)
}

// RecordFields identifies the record being edited: the definition key and,
// when known, the owner id.
func RecordFields(def model.Definition, ownerID string) []HiddenField {
	fields := []HiddenField{Hidden(HiddenDefinition, def.Key())}
	if strings.TrimSpace(ownerID) != "" {
		fields = append(fields, Hidden(HiddenOwner, ownerID))
	}
	return fields
}

// MergeHiddenFields combines field lists into a name-sorted list. Empty names
// are dropped and later fields win on name collisions.
func MergeHiddenFields(groups ...[]HiddenField) []HiddenField {
	merged := make(map[string]string)
	for _, group := range groups {
		for _, field := range group {
			name := strings.TrimSpace(field.Name)
			if name == "" {
				continue
			}
			merged[name] = field.Value
		}
	}
	if len(merged) == 0 {
		return nil
	}

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: name, Value: merged[name]})
	}
	return out
}
