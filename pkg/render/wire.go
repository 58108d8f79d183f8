package render

import (
	"strings"

	"github.com/goliatone/go-eavform/pkg/model"
)

// SplitLines splits a multi-line buffer into entries, one per line. Blank
// lines are dropped and a trailing carriage return is stripped.
func SplitLines(buffer string) []string {
	if buffer == "" {
		return nil
	}
	lines := strings.Split(buffer, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// JoinLines is the inverse of SplitLines for display.
func JoinLines(values []model.Value, attr model.Attribute) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		if value.Masked(attr) {
			continue
		}
		parts = append(parts, model.PayloadString(value.Payload))
	}
	return strings.Join(parts, "\n")
}

// Reuse builds the value at position idx, keeping the identity of the
// existing value at the same position so the backend sees an update rather
// than a delete plus insert.
func Reuse(existing []model.Value, idx int, attr model.Attribute, payload any) model.Value {
	value := model.Value{
		AttributeCode: attr.Code,
		Seq:           idx,
		Payload:       payload,
	}
	if idx < len(existing) {
		value.ID = existing[idx].ID
		value.OwnerID = existing[idx].OwnerID
	}
	return value
}

// FirstPayload returns the payload of the first unmasked value.
func FirstPayload(values []model.Value, attr model.Attribute) (any, bool) {
	for _, value := range values {
		if value.Masked(attr) {
			continue
		}
		return value.Payload, true
	}
	return nil, false
}
