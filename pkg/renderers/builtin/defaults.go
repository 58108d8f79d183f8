package builtin

import (
	"github.com/goliatone/go-eavform/pkg/model"
	"github.com/goliatone/go-eavform/pkg/render"
)

// Option customises the default registry.
type Option func(*config)

type config struct {
	enumerations render.Manager
	attachments  render.Manager
}

// WithEnumerationManager registers manager next to every enumeration face,
// typically a lookup of options maintained outside the definition.
func WithEnumerationManager(manager render.Manager) Option {
	return func(c *config) {
		c.enumerations = manager
	}
}

// WithAttachmentManager registers manager as the catalogue of known uploads.
func WithAttachmentManager(manager render.Manager) Option {
	return func(c *config) {
		c.attachments = manager
	}
}

// NewDefaultRegistry constructs a registry pre-populated with the built-in
// kinds. byte-array has no renderer and shows the unsupported placeholder.
func NewDefaultRegistry(options ...Option) *render.Registry {
	cfg := config{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	registry := render.NewRegistry()

	text := NewText()
	registry.MustRegister(model.PersistentTypeText, model.FaceDefault, text, nil)
	registry.MustRegister(model.PersistentTypeText, model.FaceTextarea, NewTextarea(), nil)
	registry.MustRegister(model.PersistentTypeText, model.FacePassword, NewPassword(), nil)
	registry.MustRegister(model.PersistentTypeChar, model.FaceDefault, text, nil)

	registry.MustRegister(model.PersistentTypeBoolean, model.FaceDefault, NewBoolean(), nil)

	registry.MustRegister(model.PersistentTypeDate, model.FaceDefault, NewDate(), nil)
	registry.MustRegister(model.PersistentTypeDateTime, model.FaceDefault, NewDateTime(), nil)

	integer := NewInteger()
	for _, ptype := range []model.PersistentType{model.PersistentTypeLong, model.PersistentTypeInt, model.PersistentTypeShort} {
		registry.MustRegister(ptype, model.FaceDefault, integer, nil)
	}
	decimal := NewDecimal()
	for _, ptype := range []model.PersistentType{model.PersistentTypeDouble, model.PersistentTypeFloat, model.PersistentTypeDecimal} {
		registry.MustRegister(ptype, model.FaceDefault, decimal, nil)
	}

	registry.MustRegister(model.PersistentTypeUUID, model.FaceDefault, NewUUID(), nil)

	registry.MustRegister(model.PersistentTypeEnumeration, model.FaceDefault, NewSelect(), cfg.enumerations)
	registry.MustRegister(model.PersistentTypeEnumeration, model.FaceRadio, NewRadio(), cfg.enumerations)

	registry.MustRegister(model.PersistentTypeAttachment, model.FaceDefault, NewAttachment(), cfg.attachments)

	return registry
}
