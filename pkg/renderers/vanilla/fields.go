package vanilla

import (
	"sort"

	"github.com/goliatone/go-eavform/pkg/model"
	"github.com/goliatone/go-eavform/pkg/orchestrator"
	"github.com/goliatone/go-eavform/pkg/render"
)

type fieldData struct {
	ID          string       `json:"id"`
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	Label       string       `json:"label"`
	Description string       `json:"description"`
	Placeholder string       `json:"placeholder"`
	Widget      string       `json:"widget"`
	InputType   string       `json:"input_type"`
	Value       string       `json:"value"`
	Display     string       `json:"display"`
	State       string       `json:"state"`
	Checked     bool         `json:"checked"`
	Multiple    bool         `json:"multiple"`
	Required    bool         `json:"required"`
	Readonly    bool         `json:"readonly"`
	Disabled    bool         `json:"disabled"`
	Masked      bool         `json:"masked"`
	Invalid     bool         `json:"invalid"`
	Options     []optionData `json:"options"`
	Current     []optionData `json:"current"`
	Errors      []string     `json:"errors"`
	Attrs       []attrData   `json:"attrs"`
}

type optionData struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type attrData struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (r *Renderer) fieldData(u orchestrator.Unit) fieldData {
	view := u.View
	field := fieldData{
		ID:          r.idPrefix + view.Code,
		Code:        view.Code,
		Name:        view.Code,
		Label:       r.labelPolicy.Sanitize(view.Label),
		Description: r.descriptionPolicy.Sanitize(view.Description),
		Placeholder: view.Placeholder,
		Widget:      view.Widget,
		InputType:   view.InputType,
		Display:     view.Display,
		Multiple:    view.Multiple,
		Required:    view.Required,
		Readonly:    view.Readonly,
		Disabled:    view.Disabled,
		Masked:      view.Masked,
		Invalid:     u.Status == orchestrator.StatusInvalid || len(view.Errors) > 0,
		Errors:      view.Errors,
		Attrs:       sortedAttrs(view.Attrs),
	}
	if u.Attribute.Confidential && u.Supported {
		field.State = view.State.String()
	}
	if field.InputType == "" {
		field.InputType = "text"
	}

	selected := map[string]bool{}
	switch typed := view.Value.(type) {
	case nil:
	case bool:
		field.Checked = typed
	case string:
		field.Value = typed
		selected[typed] = true
	case []string:
		for _, v := range typed {
			selected[v] = true
		}
	default:
		field.Value = model.PayloadString(typed)
	}
	if field.Masked {
		field.Value = ""
	}

	for _, option := range view.Options {
		label := option.Label
		if label == "" {
			label = option.Value
		}
		data := optionData{Value: option.Value, Label: label, Selected: selected[option.Value]}
		field.Options = append(field.Options, data)
	}
	if view.Widget == render.WidgetFile {
		for value := range selected {
			if value == "" {
				continue
			}
			field.Current = append(field.Current, optionData{Value: value, Label: labelFor(view.Options, value)})
		}
		sort.Slice(field.Current, func(i, j int) bool { return field.Current[i].Value < field.Current[j].Value })
	}
	return field
}

func controlTemplate(field fieldData) string {
	if field.Masked {
		return "masked"
	}
	switch field.Widget {
	case render.WidgetTextarea:
		return "textarea"
	case render.WidgetCheckbox:
		return "checkbox"
	case render.WidgetSelect:
		if field.InputType == "radio" && !field.Multiple {
			return "radio"
		}
		return "select"
	case render.WidgetFile:
		return "file"
	case render.WidgetUnsupported:
		return "unsupported"
	default:
		return "input"
	}
}

func sortedAttrs(attrs map[string]string) []attrData {
	if len(attrs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]attrData, 0, len(keys))
	for _, key := range keys {
		out = append(out, attrData{Key: key, Value: attrs[key]})
	}
	return out
}

func labelFor(options []model.Option, value string) string {
	for _, option := range options {
		if option.Value == value && option.Label != "" {
			return option.Label
		}
	}
	return value
}
