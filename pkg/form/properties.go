package form

import (
	"sort"
	"strings"

	"github.com/goliatone/go-eavform/pkg/model"
)

// Properties flattens the instance into a key/value map. Multi-valued
// attributes are joined with PropertySeparator in seq order; single-valued
// attributes map to their payload. Masked confidential values are left out so
// the sentinel can never travel back as a real payload.
func (i *Instance) Properties() map[string]any {
	props := make(map[string]any)
	for _, code := range i.codes() {
		values := i.values[code]
		if len(values) == 0 {
			continue
		}
		attr, known := i.Attribute(code)
		if known && attr.Multiple {
			parts := make([]string, 0, len(values))
			for _, value := range values {
				if value.Masked(attr) {
					continue
				}
				parts = append(parts, model.PayloadString(value.Payload))
			}
			if len(parts) == 0 {
				continue
			}
			props[code] = strings.Join(parts, PropertySeparator)
			continue
		}
		if values[0].Masked(attr) {
			continue
		}
		props[code] = values[0].Payload
	}
	return props
}

// SetProperties is the inverse of Properties and returns a new Instance
// holding exactly the values described by props. For a multiple attribute a
// string is split on PropertySeparator and a slice yields one value per
// element; any other kind returns a *ValueKindError. Keys that match no
// attribute still produce a value.
func (i *Instance) SetProperties(props map[string]any) (*Instance, error) {
	values := make([]model.Value, 0, len(props))
	for _, code := range i.propertyOrder(props) {
		raw := props[code]
		attr, known := i.Attribute(code)
		if known && attr.Multiple {
			items, err := splitMultiple(code, raw)
			if err != nil {
				return nil, err
			}
			for seq, item := range items {
				values = append(values, model.Value{AttributeCode: code, Seq: seq, Payload: item})
			}
			continue
		}
		if raw == nil {
			continue
		}
		values = append(values, model.Value{AttributeCode: code, Payload: raw})
	}
	return i.SetValues(values), nil
}

func splitMultiple(code string, raw any) ([]any, error) {
	switch typed := raw.(type) {
	case nil:
		return nil, nil
	case string:
		if typed == "" {
			return nil, nil
		}
		parts := strings.Split(typed, PropertySeparator)
		out := make([]any, 0, len(parts))
		for _, part := range parts {
			if part == "" {
				continue
			}
			out = append(out, part)
		}
		return out, nil
	case []string:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, item)
		}
		return out, nil
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			if item == nil {
				continue
			}
			out = append(out, item)
		}
		return out, nil
	default:
		return nil, &ValueKindError{Code: code, Value: raw}
	}
}

// propertyOrder yields known attributes in render order, then unknown keys
// sorted so the resulting instance is deterministic.
func (i *Instance) propertyOrder(props map[string]any) []string {
	order := make([]string, 0, len(props))
	for _, attr := range i.attributes {
		if _, ok := props[attr.Code]; ok {
			order = append(order, attr.Code)
		}
	}
	var unknown []string
	for code := range props {
		if _, known := i.index[code]; !known {
			unknown = append(unknown, code)
		}
	}
	sort.Strings(unknown)
	return append(order, unknown...)
}

func (i *Instance) codes() []string {
	codes := make([]string, 0, len(i.attributes)+len(i.extra))
	for _, attr := range i.attributes {
		codes = append(codes, attr.Code)
	}
	return append(codes, i.extra...)
}
