package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-eavform/pkg/model"
	"github.com/goliatone/go-eavform/pkg/orchestrator"
	"github.com/goliatone/go-eavform/pkg/render"
)

const noneOption = "(none)"

// Renderer runs a terminal edit session over an orchestrator: one prompt per
// editable attribute, re-prompting until the attribute validates.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	out          io.Writer
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render runs Edit and serializes the values the session produced.
func (r *Renderer) Render(ctx context.Context, o *orchestrator.Orchestrator) ([]byte, error) {
	if err := r.Edit(ctx, o); err != nil {
		return nil, err
	}
	return r.serialize(o)
}

// Edit prompts for every attribute of o in definition order. Read-only and
// unsupported attributes are printed, masked secrets are only re-entered
// after the user confirms.
func (r *Renderer) Edit(ctx context.Context, o *orchestrator.Orchestrator) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if o == nil {
		return errors.New("tui: orchestrator is required")
	}
	if r.driver == nil {
		return errors.New("tui: prompt driver is nil")
	}
	if !o.Available() {
		_ = r.driver.Info(ctx, orchestrator.NotAvailableMessage)
		return ErrNotAvailable
	}

	for _, u := range o.Render() {
		if err := r.promptUnit(ctx, o, u); err != nil {
			return err
		}
	}

	if o.IsValid() {
		return nil
	}
	errs := o.Errors()
	codes := make([]string, 0, len(errs))
	for code := range errs {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		for _, message := range errs[code] {
			_ = r.driver.Info(ctx, fmt.Sprintf("%s: %s", code, message))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalid, o.Focus())
}

func (r *Renderer) promptUnit(ctx context.Context, o *orchestrator.Orchestrator, u orchestrator.Unit) error {
	view := u.View
	switch {
	case !u.Supported:
		return r.driver.Info(ctx, fmt.Sprintf("%s: %s", view.Label, view.Display))
	case view.Readonly:
		return r.driver.Info(ctx, fmt.Sprintf("%s: %s (read-only)", view.Label, view.Display))
	}

	if view.Masked {
		change, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("%s is set. Change it?", view.Label),
			Help:    view.Description,
		})
		if err != nil {
			return err
		}
		if !change {
			return nil
		}
		if err := o.RequestEdit(u.Code); err != nil {
			return err
		}
		view.Masked = false
		view.Value = ""
	}

	for {
		input, err := r.ask(ctx, u.Attribute, view)
		if err != nil {
			return err
		}
		if err := o.SetInput(u.Code, input); err != nil {
			return err
		}
		messages := o.Check(u.Code)
		if len(messages) == 0 {
			return nil
		}
		for _, message := range messages {
			_ = r.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", view.Label, message))
		}
		view.Value = input
	}
}

func (r *Renderer) ask(ctx context.Context, attr model.Attribute, view render.View) (render.Input, error) {
	label := view.Label
	help := view.Description

	switch view.Widget {
	case render.WidgetCheckbox:
		current, _ := view.Value.(bool)
		return r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: current, Help: help})
	case render.WidgetSelect:
		return r.askSelect(ctx, view)
	case render.WidgetTextarea:
		return r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: textOf(view.Value), Help: help})
	case render.WidgetPassword:
		return r.driver.Password(ctx, InputConfig{Message: label, Help: help})
	case render.WidgetFile:
		resp, err := r.driver.Input(ctx, InputConfig{
			Message: label + " (attachment ids, comma separated)",
			Default: strings.Join(refsOf(view.Value), ", "),
			Help:    help,
		})
		if err != nil {
			return nil, err
		}
		return splitRefs(resp), nil
	default:
		cfg := InputConfig{Message: label, Default: textOf(view.Value), Help: help, Placeholder: view.Placeholder}
		if attr.Confidential {
			return r.driver.Password(ctx, InputConfig{Message: label, Help: help})
		}
		return r.driver.Input(ctx, cfg)
	}
}

func (r *Renderer) askSelect(ctx context.Context, view render.View) (render.Input, error) {
	labels := make([]string, 0, len(view.Options)+1)
	values := make([]string, 0, len(view.Options)+1)
	if !view.Multiple && !view.Required {
		labels = append(labels, noneOption)
		values = append(values, "")
	}
	for _, option := range view.Options {
		label := option.Label
		if label == "" {
			label = option.Value
		}
		labels = append(labels, label)
		values = append(values, option.Value)
	}

	current := refsOf(view.Value)
	if view.Multiple {
		var defaults []int
		index := positions(values)
		for _, value := range current {
			if idx, ok := index[value]; ok {
				defaults = append(defaults, idx)
			}
		}
		picked, err := r.driver.MultiSelect(ctx, SelectConfig{Message: view.Label, Options: labels, Defaults: defaults, Help: view.Description})
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(picked))
		for _, idx := range picked {
			if idx >= 0 && idx < len(values) {
				out = append(out, values[idx])
			}
		}
		return out, nil
	}

	defaultIndex := 0
	if len(current) > 0 {
		if idx, ok := positions(values)[current[0]]; ok {
			defaultIndex = idx
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: view.Label, Options: labels, DefaultIndex: defaultIndex, Help: view.Description})
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(values) {
		return "", nil
	}
	return values[idx], nil
}

func (r *Renderer) serialize(o *orchestrator.Orchestrator) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		for key, value := range o.Properties() {
			form.Set(key, model.PayloadString(value))
		}
		return []byte(form.Encode()), nil
	case OutputFormatPrettyText:
		props := o.Properties()
		keys := make([]string, 0, len(props))
		for key := range props {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var b strings.Builder
		for _, key := range keys {
			fmt.Fprintf(&b, "%s: %s\n", key, model.PayloadString(props[key]))
		}
		return []byte(b.String()), nil
	default:
		data, err := json.MarshalIndent(o.Values(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode values: %w", err)
		}
		return data, nil
	}
}

func textOf(input render.Input) string {
	switch typed := input.(type) {
	case nil:
		return ""
	case string:
		return typed
	case []string:
		return strings.Join(typed, "\n")
	default:
		return model.PayloadString(typed)
	}
}

func refsOf(input render.Input) []string {
	switch typed := input.(type) {
	case nil:
		return nil
	case string:
		if typed == "" {
			return nil
		}
		return []string{typed}
	case []string:
		return typed
	default:
		return nil
	}
}

func splitRefs(resp string) []string {
	var out []string
	for _, part := range strings.Split(resp, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
