package builtin

import (
	"github.com/goliatone/go-eavform/pkg/model"
	"github.com/goliatone/go-eavform/pkg/render"
)

// Textarea renders a single long text value. Line breaks belong to the value,
// so the renderer cannot hold several values.
type Textarea struct{}

var _ render.Renderer = Textarea{}

// NewTextarea returns the renderer for the textarea face of text.
func NewTextarea() Textarea { return Textarea{} }

func (Textarea) SupportsMultiple() bool { return false }

func (Textarea) SupportsConfidential() bool { return false }

func (Textarea) ToWireValues(edit render.Edit, existing []model.Value, attr model.Attribute) ([]model.Value, bool) {
	if render.Untouched(edit, attr) {
		return nil, false
	}
	entries := textEntries(edit.Input, false)
	if len(entries) == 0 {
		return []model.Value{}, true
	}
	return []model.Value{render.Reuse(existing, 0, attr, entries[0])}, true
}

func (Textarea) ToViewValue(values []model.Value, attr model.Attribute, useDefault bool) render.Input {
	if payload, ok := render.FirstPayload(values, attr); ok {
		return model.PayloadString(payload)
	}
	if useDefault && attr.DefaultValue != nil {
		return model.PayloadString(attr.DefaultValue)
	}
	return ""
}

func (Textarea) Rules(attr model.Attribute, hasValue bool, _ render.Manager) render.Rules {
	rules := render.RulesFor(attr, hasValue, render.MeasureLength)
	rules.Lines = false
	return rules
}

func (Textarea) View(ctx render.ViewContext) render.View {
	view := baseView(ctx, render.WidgetTextarea)
	boundAttrs(&view, ctx.Attribute, render.MeasureLength)
	return view
}
