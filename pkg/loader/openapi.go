package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-eavform/pkg/model"
)

// Schema extensions understood by the OpenAPI adapter.
const (
	ExtensionSeq  = "x-eav-seq"
	ExtensionFace = "x-eav-face"
	ExtensionID   = "x-eav-id"
	ExtensionType = "x-eav-type"
)

// OpenAPIOption configures FromOpenAPISchema.
type OpenAPIOption func(*openAPIConfig)

type openAPIConfig struct {
	labeler        func(string) string
	definitionType string
}

// WithLabeler overrides how attribute names are derived from property names
// that carry no title.
func WithLabeler(labeler func(string) string) OpenAPIOption {
	return func(cfg *openAPIConfig) {
		if labeler != nil {
			cfg.labeler = labeler
		}
	}
}

// WithDefinitionType sets the definition type used by FromOpenAPIDocument.
// Defaults to "openapi".
func WithDefinitionType(definitionType string) OpenAPIOption {
	return func(cfg *openAPIConfig) {
		if trimmed := strings.TrimSpace(definitionType); trimmed != "" {
			cfg.definitionType = trimmed
		}
	}
}

// FromOpenAPIDocument loads an OpenAPI 3 document and converts the named
// component schema into a definition whose code is the schema name.
func FromOpenAPIDocument(ctx context.Context, data []byte, schemaName string, options ...OpenAPIOption) (model.Definition, error) {
	if err := ctx.Err(); err != nil {
		return model.Definition{}, err
	}
	if len(data) == 0 {
		return model.Definition{}, errors.New("loader: openapi document is empty")
	}

	openapiLoader := &openapi3.Loader{Context: ctx}
	doc, err := openapiLoader.LoadFromData(data)
	if err != nil {
		return model.Definition{}, fmt.Errorf("loader: load openapi document: %w", err)
	}
	if doc.Components == nil {
		return model.Definition{}, fmt.Errorf("loader: openapi document has no components")
	}
	ref, ok := doc.Components.Schemas[schemaName]
	if !ok || ref == nil || ref.Value == nil {
		return model.Definition{}, fmt.Errorf("loader: openapi schema %q not found", schemaName)
	}

	cfg := newOpenAPIConfig(options)
	return FromOpenAPISchema(cfg.definitionType, schemaName, ref.Value, options...)
}

// FromOpenAPISchema converts an object schema into a definition. Properties
// become attributes ordered by their x-eav-seq extension, then by name.
func FromOpenAPISchema(definitionType, code string, schema *openapi3.Schema, options ...OpenAPIOption) (model.Definition, error) {
	if schema == nil {
		return model.Definition{}, errors.New("loader: openapi schema is nil")
	}
	cfg := newOpenAPIConfig(options)

	required := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}

	type entry struct {
		name   string
		seq    int
		hasSeq bool
		attr   model.Attribute
	}
	entries := make([]entry, 0, len(schema.Properties))
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			return model.Definition{}, fmt.Errorf("loader: property %q has an unresolved reference", name)
		}
		_, isRequired := required[name]
		attr, err := attributeFromSchema(name, ref.Value, isRequired, cfg)
		if err != nil {
			return model.Definition{}, err
		}
		seq, hasSeq := intExtension(ref.Value.Extensions, ExtensionSeq)
		entries = append(entries, entry{name: name, seq: seq, hasSeq: hasSeq, attr: attr})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.hasSeq != b.hasSeq {
			return a.hasSeq
		}
		if a.hasSeq && a.seq != b.seq {
			return a.seq < b.seq
		}
		return a.name < b.name
	})

	def := model.Definition{Type: definitionType, Code: code, Attributes: make([]model.Attribute, 0, len(entries))}
	for idx, e := range entries {
		e.attr.Seq = idx
		if e.hasSeq {
			e.attr.Seq = e.seq
		}
		def.Attributes = append(def.Attributes, e.attr)
	}

	if err := model.ValidateDefinition(def); err != nil {
		return model.Definition{}, fmt.Errorf("loader: openapi schema %q: %w", code, err)
	}
	return def, nil
}

func attributeFromSchema(name string, schema *openapi3.Schema, required bool, cfg openAPIConfig) (model.Attribute, error) {
	attr := model.Attribute{
		Code:         name,
		Name:         strings.TrimSpace(schema.Title),
		Description:  schema.Description,
		Required:     required,
		Readonly:     schema.ReadOnly,
		Confidential: schema.WriteOnly,
		DefaultValue: schema.Default,
	}
	if attr.Name == "" {
		attr.Name = cfg.labeler(name)
	}
	if id, ok := stringExtension(schema.Extensions, ExtensionID); ok {
		attr.ID = id
	}

	item := schema
	if schema.Type.Is(openapi3.TypeArray) {
		if schema.Items == nil || schema.Items.Value == nil {
			return model.Attribute{}, fmt.Errorf("loader: array property %q has no items", name)
		}
		attr.Multiple = true
		item = schema.Items.Value
	}

	attr.PersistentType, attr.FaceType = kindOf(item)
	if override, ok := stringExtension(schema.Extensions, ExtensionType); ok {
		attr.PersistentType = model.PersistentType(override)
	}
	if face, ok := stringExtension(schema.Extensions, ExtensionFace); ok {
		attr.FaceType = face
	}

	switch attr.PersistentType {
	case model.PersistentTypeLong, model.PersistentTypeInt, model.PersistentTypeShort,
		model.PersistentTypeDouble, model.PersistentTypeFloat, model.PersistentTypeDecimal:
		attr.Min = cloneFloat(item.Min)
		attr.Max = cloneFloat(item.Max)
	default:
		if item.MinLength > 0 {
			minLength := float64(item.MinLength)
			attr.Min = &minLength
		}
		if item.MaxLength != nil {
			maxLength := float64(*item.MaxLength)
			attr.Max = &maxLength
		}
	}
	attr.Regex = item.Pattern

	if len(item.Enum) > 0 {
		attr.PersistentType = model.PersistentTypeEnumeration
		for _, value := range item.Enum {
			attr.Options = append(attr.Options, model.Option{Value: model.PayloadString(value)})
		}
	}
	return attr, nil
}

func kindOf(schema *openapi3.Schema) (model.PersistentType, string) {
	switch {
	case schema.Type.Is(openapi3.TypeBoolean):
		return model.PersistentTypeBoolean, model.FaceDefault
	case schema.Type.Is(openapi3.TypeInteger):
		if schema.Format == "int32" {
			return model.PersistentTypeInt, model.FaceDefault
		}
		return model.PersistentTypeLong, model.FaceDefault
	case schema.Type.Is(openapi3.TypeNumber):
		if schema.Format == "float" {
			return model.PersistentTypeFloat, model.FaceDefault
		}
		return model.PersistentTypeDouble, model.FaceDefault
	}

	switch schema.Format {
	case "date":
		return model.PersistentTypeDate, model.FaceDefault
	case "date-time":
		return model.PersistentTypeDateTime, model.FaceDefault
	case "uuid":
		return model.PersistentTypeUUID, model.FaceDefault
	case "binary":
		return model.PersistentTypeAttachment, model.FaceDefault
	case "byte":
		return model.PersistentTypeByteArray, model.FaceDefault
	case "password":
		return model.PersistentTypeText, model.FacePassword
	default:
		return model.PersistentTypeText, model.FaceDefault
	}
}

func newOpenAPIConfig(options []OpenAPIOption) openAPIConfig {
	cfg := openAPIConfig{
		labeler:        DefaultLabeler,
		definitionType: "openapi",
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func stringExtension(extensions map[string]any, key string) (string, bool) {
	raw, ok := extensions[key]
	if !ok {
		return "", false
	}
	if msg, ok := raw.(json.RawMessage); ok {
		var decoded string
		if err := json.Unmarshal(msg, &decoded); err != nil {
			return "", false
		}
		raw = decoded
	}
	value, ok := raw.(string)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

func intExtension(extensions map[string]any, key string) (int, bool) {
	raw, ok := extensions[key]
	if !ok {
		return 0, false
	}
	switch typed := raw.(type) {
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case float64:
		if typed != math.Trunc(typed) {
			return 0, false
		}
		return int(typed), true
	case json.Number:
		n, err := typed.Int64()
		return int(n), err == nil
	case json.RawMessage:
		n, err := strconv.Atoi(strings.TrimSpace(string(typed)))
		return n, err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(typed))
		return n, err == nil
	default:
		return 0, false
	}
}

func cloneFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
