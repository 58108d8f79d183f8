package vanilla

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-eavform/pkg/orchestrator"
	"github.com/goliatone/go-eavform/pkg/render"
	rendertemplate "github.com/goliatone/go-eavform/pkg/render/template"
	"github.com/goliatone/go-eavform/pkg/render/template/pongo"
)

const (
	formTemplate      = "templates/form.tmpl"
	fieldTemplate     = "templates/field.tmpl"
	componentTemplate = "templates/components/"
)

type Option func(*config)

type config struct {
	templateFS        fs.FS
	templateRenderer  rendertemplate.TemplateRenderer
	labelPolicy       *bluemonday.Policy
	descriptionPolicy *bluemonday.Policy
	idPrefix          string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithDescriptionPolicy replaces the policy applied to attribute
// descriptions. The default keeps user-generated-content markup.
func WithDescriptionPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.descriptionPolicy = policy
		}
	}
}

// WithIDPrefix sets the prefix of generated element ids.
func WithIDPrefix(prefix string) Option {
	return func(cfg *config) {
		cfg.idPrefix = strings.TrimSpace(prefix)
	}
}

// RenderOptions carries per-request form attributes.
type RenderOptions struct {
	Action      string
	Method      string
	Title       string
	SubmitLabel string
	// Hidden adds inputs such as a CSRF token. The record inputs
	// (_definition, _owner) are always emitted.
	Hidden []render.HiddenField
}

// Renderer turns the units of an orchestrator into an HTML form.
type Renderer struct {
	templates         rendertemplate.TemplateRenderer
	labelPolicy       *bluemonday.Policy
	descriptionPolicy *bluemonday.Policy
	idPrefix          string
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:        TemplatesFS(),
		labelPolicy:       bluemonday.StrictPolicy(),
		descriptionPolicy: bluemonday.UGCPolicy(),
		idPrefix:          "eav-",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(cfg.templateFS)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:         renderer,
		labelPolicy:       cfg.labelPolicy,
		descriptionPolicy: cfg.descriptionPolicy,
		idPrefix:          cfg.idPrefix,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the HTML form for the current state of o. Units are
// rendered in definition order; errors recorded by IsValid or ApplyErrors
// appear under their fields.
func (r *Renderer) Render(ctx context.Context, o *orchestrator.Orchestrator, opts RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("vanilla renderer: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if o == nil {
		return nil, errors.New("vanilla renderer: orchestrator is required")
	}
	if r.templates == nil {
		return nil, errors.New("vanilla renderer: template renderer is nil")
	}

	units := o.Render()
	fields := make([]string, 0, len(units))
	for _, u := range units {
		html, err := r.renderField(u)
		if err != nil {
			return nil, err
		}
		fields = append(fields, html)
	}

	code := ""
	var hidden []render.HiddenField
	if o.Available() {
		inst := o.Instance()
		code = inst.Definition().Code
		hidden = render.MergeHiddenFields(render.RecordFields(inst.Definition(), inst.OwnerID()), opts.Hidden)
	}
	result, err := r.templates.RenderTemplate(formTemplate, map[string]any{
		"form": map[string]any{
			"code":         code,
			"action":       opts.Action,
			"method":       firstNonEmpty(opts.Method, "post"),
			"title":        opts.Title,
			"submit_label": firstNonEmpty(opts.SubmitLabel, "Save"),
			"errors":       o.FormErrors(),
			"available":    o.Available(),
			"hidden":       hidden,
		},
		"fields": fields,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) renderField(u orchestrator.Unit) (string, error) {
	field := r.fieldData(u)
	if !u.Supported && logger.IsVerbose() {
		logger.Verbose("vanilla renderer: placeholder for", u.Code)
	}

	control, err := r.templates.RenderTemplate(componentTemplate+controlTemplate(field)+".tmpl", map[string]any{
		"field": field,
	})
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render %s control: %w", u.Code, err)
	}
	html, err := r.templates.RenderTemplate(fieldTemplate, map[string]any{
		"field":   field,
		"control": strings.TrimSpace(control),
	})
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render %s field: %w", u.Code, err)
	}
	return strings.TrimRight(html, "\n"), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
