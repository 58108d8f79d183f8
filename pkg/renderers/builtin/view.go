package builtin

import (
	"strings"

	"github.com/goliatone/go-eavform/pkg/model"
	"github.com/goliatone/go-eavform/pkg/render"
)

func baseView(ctx render.ViewContext, widget string) render.View {
	attr := ctx.Attribute
	view := render.View{
		Code:        attr.Code,
		Label:       attr.Label(),
		Description: attr.Description,
		Placeholder: attr.Placeholder,
		Widget:      widget,
		Value:       ctx.Input,
		Display:     displayText(ctx.Input),
		Multiple:    attr.Multiple,
		Required:    attr.Required,
		Readonly:    attr.Readonly,
		Disabled:    attr.Readonly,
		State:       ctx.State,
		Errors:      append([]string(nil), ctx.Errors...),
	}
	if attr.Regex != "" {
		setAttr(&view, "pattern", attr.Regex)
	}
	return view
}

func boundAttrs(view *render.View, attr model.Attribute, measure render.Measure) {
	minKey, maxKey := "", ""
	switch measure {
	case render.MeasureLength:
		minKey, maxKey = "minlength", "maxlength"
	case render.MeasureNumeric:
		minKey, maxKey = "min", "max"
	default:
		return
	}
	if attr.Min != nil {
		setAttr(view, minKey, model.PayloadString(*attr.Min))
	}
	if attr.Max != nil {
		setAttr(view, maxKey, model.PayloadString(*attr.Max))
	}
}

// applyConfidential hides the secret while the attribute is masked. The
// stored value never reaches the view; the mask is display-only.
func applyConfidential(view *render.View, state render.ConfidentialState) {
	view.State = state
	if state != render.ConfidentialMasked {
		return
	}
	view.Masked = true
	view.Disabled = true
	view.Value = ""
	view.Display = render.MaskToken
	view.Required = false
}

func setAttr(view *render.View, key, value string) {
	if view.Attrs == nil {
		view.Attrs = make(map[string]string)
	}
	view.Attrs[key] = value
}

func displayText(input render.Input) string {
	switch typed := input.(type) {
	case nil:
		return ""
	case string:
		return typed
	case []string:
		return strings.Join(typed, ", ")
	default:
		return model.PayloadString(typed)
	}
}

// optionsFor prefers the manager's options and falls back to the ones
// declared on the attribute.
func optionsFor(attr model.Attribute, manager render.Manager) []model.Option {
	if manager != nil {
		if options := manager.Options(attr); options != nil {
			return options
		}
	}
	return append([]model.Option(nil), attr.Options...)
}

func optionLabel(options []model.Option, value string) string {
	for _, option := range options {
		if option.Value == value {
			if option.Label != "" {
				return option.Label
			}
			return option.Value
		}
	}
	return value
}
