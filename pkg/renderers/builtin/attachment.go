package builtin

import (
	"strings"

	"github.com/goliatone/go-eavform/pkg/model"
	"github.com/goliatone/go-eavform/pkg/render"
)

// Attachment renders references to uploaded files. Values hold attachment
// identifiers; the registered manager, when present, lists known uploads so
// views can show their names.
type Attachment struct{}

var _ render.Renderer = Attachment{}

// NewAttachment returns the renderer for attachment attributes.
func NewAttachment() Attachment { return Attachment{} }

func (Attachment) SupportsMultiple() bool { return true }

func (Attachment) SupportsConfidential() bool { return false }

func (Attachment) ToWireValues(edit render.Edit, existing []model.Value, attr model.Attribute) ([]model.Value, bool) {
	if render.Untouched(edit, attr) {
		return nil, false
	}
	refs := selectionEntries(edit.Input)
	if !attr.Multiple && len(refs) > 1 {
		refs = refs[:1]
	}
	out := make([]model.Value, 0, len(refs))
	for idx, ref := range refs {
		out = append(out, render.Reuse(existing, idx, attr, strings.TrimSpace(ref)))
	}
	return out, true
}

func (Attachment) ToViewValue(values []model.Value, attr model.Attribute, _ bool) render.Input {
	visible := unmasked(values, attr)
	out := make([]string, 0, len(visible))
	for _, value := range visible {
		out = append(out, model.PayloadString(value.Payload))
	}
	if !attr.Multiple {
		if len(out) == 0 {
			return ""
		}
		return out[0]
	}
	return out
}

func (Attachment) Rules(attr model.Attribute, hasValue bool, _ render.Manager) render.Rules {
	rules := render.RulesFor(attr, hasValue, render.MeasureNone)
	rules.Pattern = nil
	return rules
}

func (Attachment) View(ctx render.ViewContext) render.View {
	view := baseView(ctx, render.WidgetFile)
	view.InputType = "file"
	view.Options = optionsFor(ctx.Attribute, ctx.Manager)
	refs := selectionEntries(ctx.Input)
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, optionLabel(view.Options, ref))
	}
	view.Display = strings.Join(names, ", ")
	if ctx.Attribute.Multiple {
		view.Value = refs
	}
	if view.Attrs != nil {
		delete(view.Attrs, "pattern")
	}
	return view
}
