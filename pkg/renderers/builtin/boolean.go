package builtin

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-eavform/pkg/model"
	"github.com/goliatone/go-eavform/pkg/render"
)

// Boolean renders a checkbox. A nil input means the value was never set and
// nothing is written; an explicit false is a value.
type Boolean struct{}

var _ render.Renderer = Boolean{}

// NewBoolean returns the renderer for boolean attributes.
func NewBoolean() Boolean { return Boolean{} }

func (Boolean) SupportsMultiple() bool { return false }

func (Boolean) SupportsConfidential() bool { return false }

func (Boolean) ToWireValues(edit render.Edit, existing []model.Value, attr model.Attribute) ([]model.Value, bool) {
	if render.Untouched(edit, attr) {
		return nil, false
	}
	checked, ok := toBool(edit.Input)
	if !ok {
		return []model.Value{}, true
	}
	return []model.Value{render.Reuse(existing, 0, attr, checked)}, true
}

func (Boolean) ToViewValue(values []model.Value, attr model.Attribute, useDefault bool) render.Input {
	if payload, ok := render.FirstPayload(values, attr); ok {
		if checked, ok := toBool(payload); ok {
			return checked
		}
		return nil
	}
	if useDefault && attr.DefaultValue != nil {
		if checked, ok := toBool(attr.DefaultValue); ok {
			return checked
		}
	}
	return nil
}

func (Boolean) Rules(attr model.Attribute, hasValue bool, _ render.Manager) render.Rules {
	rules := render.RulesFor(attr, hasValue, render.MeasureNone)
	rules.Lines = false
	rules.Pattern = nil
	rules.Parse = func(entry string) error {
		_, err := strconv.ParseBool(strings.TrimSpace(entry))
		return err
	}
	return rules
}

func (Boolean) View(ctx render.ViewContext) render.View {
	view := baseView(ctx, render.WidgetCheckbox)
	view.InputType = "checkbox"
	view.Multiple = false
	if checked, ok := toBool(ctx.Input); ok {
		view.Value = checked
		view.Display = strconv.FormatBool(checked)
	} else {
		view.Value = nil
		view.Display = ""
	}
	if view.Attrs != nil {
		delete(view.Attrs, "pattern")
	}
	return view
}

func toBool(input any) (bool, bool) {
	switch typed := input.(type) {
	case bool:
		return typed, true
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return false, false
		}
		if trimmed == "on" {
			return true, true
		}
		v, err := strconv.ParseBool(trimmed)
		if err != nil {
			return false, false
		}
		return v, true
	case float64:
		return typed != 0, true
	case int:
		return typed != 0, true
	case int64:
		return typed != 0, true
	default:
		return false, false
	}
}
