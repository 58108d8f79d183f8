package builtin

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-eavform/pkg/model"
	"github.com/goliatone/go-eavform/pkg/render"
)

// Scalar renders kinds whose values are single-line text entries: plain
// text, passwords, numbers, dates and uuids. Multi-valued attributes are
// edited as one multi-line buffer, one value per line.
type Scalar struct {
	widget       string
	inputType    string
	confidential bool
	measure      render.Measure
	parse        func(entry string) (any, error)
	format       func(payload any) string
}

var _ render.Renderer = (*Scalar)(nil)

// NewText returns the renderer for free text. It supports confidential
// attributes.
func NewText() *Scalar {
	return &Scalar{
		widget:       render.WidgetInput,
		inputType:    "text",
		confidential: true,
		measure:      render.MeasureLength,
	}
}

// NewPassword returns the text renderer for the password face.
func NewPassword() *Scalar {
	s := NewText()
	s.widget = render.WidgetPassword
	s.inputType = "password"
	return s
}

// NewInteger returns the renderer for long, int and short attributes.
func NewInteger() *Scalar {
	return &Scalar{
		widget:    render.WidgetNumber,
		inputType: "number",
		measure:   render.MeasureNumeric,
		parse: func(entry string) (any, error) {
			return strconv.ParseInt(strings.TrimSpace(entry), 10, 64)
		},
	}
}

// NewDecimal returns the renderer for double, float and decimal attributes.
func NewDecimal() *Scalar {
	return &Scalar{
		widget:    render.WidgetNumber,
		inputType: "number",
		measure:   render.MeasureNumeric,
		parse: func(entry string) (any, error) {
			return strconv.ParseFloat(strings.TrimSpace(entry), 64)
		},
	}
}

// NewDate returns the renderer for calendar dates (2006-01-02).
func NewDate() *Scalar {
	return &Scalar{
		widget:    render.WidgetDate,
		inputType: "date",
		parse: func(entry string) (any, error) {
			t, err := time.Parse(model.DateLayout, strings.TrimSpace(entry))
			if err != nil {
				return nil, err
			}
			return t.Format(model.DateLayout), nil
		},
		format: timeFormatter(model.DateLayout),
	}
}

// NewDateTime returns the renderer for timestamps. RFC 3339 is stored; the
// shorter "2006-01-02T15:04" produced by browser inputs is accepted as UTC.
func NewDateTime() *Scalar {
	return &Scalar{
		widget:    render.WidgetDateTime,
		inputType: "datetime-local",
		parse: func(entry string) (any, error) {
			entry = strings.TrimSpace(entry)
			for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
				if t, err := time.Parse(layout, entry); err == nil {
					return t.Format(model.DateTimeLayout), nil
				}
			}
			return nil, fmt.Errorf("builtin: %q is not a timestamp", entry)
		},
		format: timeFormatter(model.DateTimeLayout),
	}
}

// NewUUID returns the renderer for uuid attributes. Payloads are stored in
// canonical lower-case form.
func NewUUID() *Scalar {
	return &Scalar{
		widget:    render.WidgetInput,
		inputType: "text",
		parse: func(entry string) (any, error) {
			id, err := uuid.Parse(strings.TrimSpace(entry))
			if err != nil {
				return nil, err
			}
			return id.String(), nil
		},
	}
}

func (s *Scalar) SupportsMultiple() bool { return true }

func (s *Scalar) SupportsConfidential() bool { return s.confidential }

func (s *Scalar) ToWireValues(edit render.Edit, existing []model.Value, attr model.Attribute) ([]model.Value, bool) {
	if render.Untouched(edit, attr) {
		return nil, false
	}
	entries := textEntries(edit.Input, attr.Multiple)
	out := make([]model.Value, 0, len(entries))
	for idx, entry := range entries {
		out = append(out, render.Reuse(existing, idx, attr, s.payload(entry)))
	}
	return out, true
}

func (s *Scalar) ToViewValue(values []model.Value, attr model.Attribute, useDefault bool) render.Input {
	visible := unmasked(values, attr)
	if len(visible) == 0 {
		if useDefault && attr.DefaultValue != nil {
			return s.text(attr.DefaultValue)
		}
		return ""
	}
	if !attr.Multiple {
		return s.text(visible[0].Payload)
	}
	lines := make([]string, 0, len(visible))
	for _, value := range visible {
		lines = append(lines, s.text(value.Payload))
	}
	return strings.Join(lines, "\n")
}

func (s *Scalar) Rules(attr model.Attribute, hasValue bool, _ render.Manager) render.Rules {
	rules := render.RulesFor(attr, hasValue, s.measure)
	if s.parse != nil {
		parse := s.parse
		rules.Parse = func(entry string) error {
			_, err := parse(entry)
			return err
		}
	}
	return rules
}

func (s *Scalar) View(ctx render.ViewContext) render.View {
	view := baseView(ctx, s.widget)
	view.InputType = s.inputType
	if ctx.Attribute.Multiple {
		view.Widget = render.WidgetTextarea
	}
	boundAttrs(&view, ctx.Attribute, s.measure)
	if ctx.Attribute.Confidential && s.confidential {
		applyConfidential(&view, ctx.State)
	}
	return view
}

func (s *Scalar) payload(entry string) any {
	if s.parse == nil {
		return entry
	}
	if parsed, err := s.parse(entry); err == nil {
		return parsed
	}
	// Invalid entries travel as typed so the backend reports them.
	return entry
}

func (s *Scalar) text(payload any) string {
	if s.format != nil {
		return s.format(payload)
	}
	return model.PayloadString(payload)
}

func timeFormatter(layout string) func(any) string {
	return func(payload any) string {
		if t, ok := payload.(time.Time); ok {
			return t.Format(layout)
		}
		return model.PayloadString(payload)
	}
}

// textEntries extracts the entries of a text input: one per non-blank line
// for multi-valued attributes, the whole buffer otherwise. Blank input means
// no value.
func textEntries(input render.Input, multiple bool) []string {
	var buffer string
	switch typed := input.(type) {
	case nil:
		return nil
	case string:
		buffer = typed
	case []string:
		buffer = strings.Join(typed, "\n")
	default:
		buffer = model.PayloadString(typed)
	}
	if multiple {
		return render.SplitLines(buffer)
	}
	if strings.TrimSpace(buffer) == "" {
		return nil
	}
	return []string{buffer}
}

func unmasked(values []model.Value, attr model.Attribute) []model.Value {
	out := make([]model.Value, 0, len(values))
	for _, value := range values {
		if value.Masked(attr) {
			continue
		}
		out = append(out, value)
	}
	return out
}
