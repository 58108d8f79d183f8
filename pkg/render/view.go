package render

import "github.com/goliatone/go-eavform/pkg/model"

// Widget identifiers produced by the built-in renderers.
const (
	WidgetInput       = "input"
	WidgetTextarea    = "textarea"
	WidgetPassword    = "password"
	WidgetCheckbox    = "checkbox"
	WidgetSelect      = "select"
	WidgetDate        = "date"
	WidgetDateTime    = "datetime"
	WidgetNumber      = "number"
	WidgetFile        = "file"
	WidgetUnsupported = "unsupported"
)

// View describes the editable unit a renderer produces for one attribute.
// Output renderers (HTML, terminal) turn it into concrete controls.
type View struct {
	Code        string
	Label       string
	Description string
	Placeholder string
	Widget      string
	InputType   string
	Value       Input
	Display     string
	Options     []model.Option
	Multiple    bool
	Required    bool
	Readonly    bool
	Disabled    bool
	Masked      bool
	State       ConfidentialState
	Errors      []string
	Attrs       map[string]string
}

// UnsupportedView is the static placeholder shown for attributes whose kind
// has no registered renderer.
func UnsupportedView(attr model.Attribute) View {
	return View{
		Code:     attr.Code,
		Label:    attr.Label(),
		Widget:   WidgetUnsupported,
		Readonly: true,
		Disabled: true,
		Display:  "Unsupported attribute type " + string(attr.PersistentType),
	}
}
