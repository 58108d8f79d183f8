package render

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-eavform/pkg/model"
)

// FieldError is one server-reported validation error. OwnerID scopes the
// error in batch forms that edit several owners at once.
type FieldError struct {
	AttributeCode string `json:"attributeCode" yaml:"attributeCode"`
	OwnerID       string `json:"ownerId,omitempty" yaml:"ownerId,omitempty"`
	Message       string `json:"message" yaml:"message"`
}

// ErrorMapping splits server errors into attribute-level and form-level
// messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// RouteErrors assigns errs to the attributes of def for the given owner.
// Errors scoped to another owner are dropped; when either side omits the
// owner the error is kept. Unknown codes become form-level messages so they
// are not lost.
func RouteErrors(def model.Definition, ownerID string, errs []FieldError) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	for _, fe := range errs {
		if fe.OwnerID != "" && ownerID != "" && fe.OwnerID != ownerID {
			continue
		}
		message := strings.TrimSpace(fe.Message)
		if message == "" {
			continue
		}
		if _, ok := def.Attribute(fe.AttributeCode); ok {
			mapping.Fields[fe.AttributeCode] = append(mapping.Fields[fe.AttributeCode], message)
			continue
		}
		mapping.Form = append(mapping.Form, message)
	}
	for code, messages := range mapping.Fields {
		mapping.Fields[code] = normalizeMessages(messages)
	}
	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// MapErrorPayload converts a path-keyed server payload (JSON pointers,
// dotted or bracketed paths such as "/values/2/email" or "body.tags[0]")
// into FieldErrors. Wrapper segments and indexes are skipped; the first
// segment naming an attribute of def wins. Paths that name no attribute are
// reported with an empty AttributeCode.
func MapErrorPayload(def model.Definition, payload map[string][]string) []FieldError {
	if len(payload) == 0 {
		return nil
	}
	var out []FieldError
	for _, rawPath := range sortedKeys(payload) {
		code := ""
		if !isFormLevelKey(rawPath) {
			code = matchAttribute(def, parsePathSegments(rawPath))
		}
		for _, message := range normalizeMessages(payload[rawPath]) {
			out = append(out, FieldError{AttributeCode: code, Message: message})
		}
	}
	return out
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func matchAttribute(def model.Definition, segments []string) string {
	for _, segment := range dropWrapperSegments(stripNumericSegments(segments)) {
		if _, ok := def.Attribute(segment); ok {
			return segment
		}
	}
	return ""
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = clean[1:]
	}

	replacer := strings.NewReplacer("[", ".", "]", "", "//", "/")
	clean = strings.Trim(replacer.Replace(clean), "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	wrappers := map[string]struct{}{
		"body":       {},
		"request":    {},
		"payload":    {},
		"data":       {},
		"values":     {},
		"properties": {},
		"attributes": {},
	}

	out := segments
	for len(out) > 0 {
		if _, ok := wrappers[strings.ToLower(out[0])]; ok {
			out = out[1:]
			continue
		}
		break
	}
	return out
}

func stripNumericSegments(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}

func sortedKeys(payload map[string][]string) []string {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
