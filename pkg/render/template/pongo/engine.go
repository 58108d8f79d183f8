package pongo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-eavform/pkg/render/template"
)

// DefaultExtension is appended to template names given without it.
const DefaultExtension = ".tmpl"

// Option configures an Engine.
type Option func(*Engine)

// WithExtension overrides DefaultExtension. A leading dot is added when
// missing; a blank value is ignored.
func WithExtension(ext string) Option {
	return func(e *Engine) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		e.ext = ext
	}
}

// Engine renders pongo2 templates read from an fs.FS. Parsed templates are
// cached by the template set, so an Engine is safe for concurrent use.
type Engine struct {
	set *pongo2.TemplateSet
	ext string
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an engine over files.
func New(files fs.FS, options ...Option) (*Engine, error) {
	if files == nil {
		return nil, errors.New("pongo: template fs is required")
	}
	e := &Engine{
		set: pongo2.NewSet("eavform", pongo2.NewFSLoader(files)),
		ext: DefaultExtension,
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e, nil
}

// RenderTemplate executes the template stored at name. Struct data is read
// through its JSON form, so templates address fields by their json names.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if !strings.HasSuffix(name, e.ext) {
		name += e.ext
	}
	tmpl, err := e.set.FromCache(name)
	if err != nil {
		return "", fmt.Errorf("pongo: load %q: %w", name, err)
	}
	ctx, err := contextOf(data)
	if err != nil {
		return "", fmt.Errorf("pongo: data for %q: %w", name, err)
	}
	rendered, err := tmpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("pongo: execute %q: %w", name, err)
	}
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func contextOf(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}
	value, err := plain(data)
	if err != nil {
		return nil, err
	}
	fields, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object, got %T", data)
	}
	return pongo2.Context(fields), nil
}

// plain keeps maps and scalars as they are and flattens anything else
// through JSON.
func plain(value any) (any, error) {
	switch v := value.(type) {
	case nil, string, bool, int, int64, float64, []string:
		return v, nil
	case pongo2.Context:
		return plainMap(v)
	case map[string]any:
		return plainMap(v)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func plainMap(in map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(in))
	for key, value := range in {
		converted, err := plain(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out[key] = converted
	}
	return out, nil
}
