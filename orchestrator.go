package eavform

import (
	"context"

	"github.com/goliatone/go-eavform/pkg/form"
	"github.com/goliatone/go-eavform/pkg/model"
	"github.com/goliatone/go-eavform/pkg/orchestrator"
	"github.com/goliatone/go-eavform/pkg/render"
	"github.com/goliatone/go-eavform/pkg/renderers/vanilla"
)

// RenderOptions aliases the vanilla renderer options for callers that only
// import the root package.
type RenderOptions = vanilla.RenderOptions

// FieldError aliases render.FieldError so server errors can be routed without
// importing the render package.
type FieldError = render.FieldError

// NewInstance builds a form instance for def owned by ownerID.
func NewInstance(def model.Definition, ownerID string, values []model.Value) *form.Instance {
	return form.New(def, form.WithOwner(ownerID), form.WithValues(values))
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(instance *form.Instance, options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(instance, options...)
}

// GenerateHTML builds an edit session for the owner's values and renders it
// with the vanilla renderer. It is the simplest entry point for callers that
// just want HTML output.
func GenerateHTML(ctx context.Context, def model.Definition, ownerID string, values []model.Value, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	if err := model.ValidateDefinition(def); err != nil {
		return nil, err
	}
	renderer, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	o := orchestrator.New(NewInstance(def, ownerID, values), options...)
	return renderer.Render(ctx, o, opts)
}
