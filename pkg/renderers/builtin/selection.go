package builtin

import (
	"strings"

	"github.com/goliatone/go-eavform/pkg/model"
	"github.com/goliatone/go-eavform/pkg/render"
)

// Select renders enumerations. Single-valued attributes hold one option
// value; multi-valued ones hold the selected values in selection order.
type Select struct {
	widget    string
	inputType string
}

var _ render.Renderer = (*Select)(nil)

// NewSelect returns the renderer for the select face of enumerations.
func NewSelect() *Select {
	return &Select{widget: render.WidgetSelect, inputType: "select"}
}

// NewRadio returns the renderer for the radio face. It differs from the
// select face only in the input type handed to output renderers.
func NewRadio() *Select {
	return &Select{widget: render.WidgetSelect, inputType: "radio"}
}

func (s *Select) SupportsMultiple() bool { return true }

func (s *Select) SupportsConfidential() bool { return false }

func (s *Select) ToWireValues(edit render.Edit, existing []model.Value, attr model.Attribute) ([]model.Value, bool) {
	if render.Untouched(edit, attr) {
		return nil, false
	}
	selected := selectionEntries(edit.Input)
	if !attr.Multiple && len(selected) > 1 {
		selected = selected[:1]
	}
	out := make([]model.Value, 0, len(selected))
	for idx, value := range selected {
		out = append(out, render.Reuse(existing, idx, attr, value))
	}
	return out, true
}

func (s *Select) ToViewValue(values []model.Value, attr model.Attribute, useDefault bool) render.Input {
	visible := unmasked(values, attr)
	if len(visible) == 0 && useDefault && attr.DefaultValue != nil {
		defaults := selectionEntries(attr.DefaultValue)
		if attr.Multiple {
			return defaults
		}
		if len(defaults) > 0 {
			return defaults[0]
		}
		return ""
	}
	if attr.Multiple {
		out := make([]string, 0, len(visible))
		for _, value := range visible {
			out = append(out, model.PayloadString(value.Payload))
		}
		return out
	}
	if len(visible) == 0 {
		return ""
	}
	return model.PayloadString(visible[0].Payload)
}

// Rules restricts entries to the options the view offers, so a manager
// list replaces the declared options here too.
func (s *Select) Rules(attr model.Attribute, hasValue bool, manager render.Manager) render.Rules {
	rules := render.RulesFor(attr, hasValue, render.MeasureNone)
	for _, option := range optionsFor(attr, manager) {
		rules.Allowed = append(rules.Allowed, option.Value)
	}
	return rules
}

func (s *Select) View(ctx render.ViewContext) render.View {
	view := baseView(ctx, s.widget)
	view.InputType = s.inputType
	view.Options = optionsFor(ctx.Attribute, ctx.Manager)

	selected := selectionEntries(ctx.Input)
	labels := make([]string, 0, len(selected))
	for _, value := range selected {
		labels = append(labels, optionLabel(view.Options, value))
	}
	view.Display = strings.Join(labels, ", ")
	if ctx.Attribute.Multiple {
		view.Value = selected
	}
	return view
}

// selectionEntries normalises select input: a []string or []any of values,
// or a string holding one value per line.
func selectionEntries(input any) []string {
	switch typed := input.(type) {
	case nil:
		return nil
	case string:
		return render.SplitLines(typed)
	case []string:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if strings.TrimSpace(item) != "" {
				out = append(out, item)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if s := model.PayloadString(item); strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := model.PayloadString(typed); strings.TrimSpace(s) != "" {
			return []string{s}
		}
		return nil
	}
}
