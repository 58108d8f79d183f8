package loader

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-eavform/pkg/model"
	"github.com/goliatone/go-eavform/pkg/testsupport"
)

const openAPIDocument = `{
  "openapi": "3.0.3",
  "info": {"title": "people", "version": "1.0.0"},
  "paths": {},
  "components": {
    "schemas": {
      "Person": {
        "type": "object",
        "required": ["fullName"],
        "properties": {
          "fullName": {"type": "string", "minLength": 2, "maxLength": 80, "x-eav-seq": 0, "x-eav-id": "attr-name"},
          "bio": {"type": "string", "x-eav-face": "textarea", "x-eav-seq": 1},
          "secret": {"type": "string", "format": "password", "writeOnly": true, "x-eav-seq": 2},
          "age": {"type": "integer", "minimum": 0, "maximum": 150, "x-eav-seq": 3},
          "born": {"type": "string", "format": "date", "x-eav-seq": 4},
          "tags": {"type": "array", "items": {"type": "string"}, "x-eav-seq": 5},
          "country": {"type": "string", "enum": ["nl", "pt"], "title": "Home country"},
          "avatar": {"type": "string", "format": "binary"},
          "created_at": {"type": "string", "format": "date-time", "readOnly": true},
          "id": {"type": "string", "format": "uuid", "pattern": "^[0-9a-f-]+$"}
        }
      }
    }
  }
}`

func TestFromOpenAPIDocument_MapsProperties(t *testing.T) {
	def, err := FromOpenAPIDocument(context.Background(), []byte(openAPIDocument), "Person", WithDefinitionType("person"))
	if err != nil {
		t.Fatalf("from document: %v", err)
	}

	if def.Key() != "person/Person" {
		t.Fatalf("unexpected key %q", def.Key())
	}
	wantOrder := []string{"fullName", "bio", "secret", "age", "born", "tags", "avatar", "country", "created_at", "id"}
	if diff := cmp.Diff(wantOrder, def.Codes()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	goldenPath := filepath.Join("testdata", "person_definition.golden.json")
	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if testsupport.WriteMaybeGolden(t, goldenPath, append(data, '\n')) {
		return
	}
	want := testsupport.MustLoadDefinition(t, goldenPath)
	if diff := testsupport.CompareGolden(want, def); diff != "" {
		t.Fatalf("definition mismatch (-want +got):\n%s", diff)
	}
}

func TestFromOpenAPIDocument_MissingSchema(t *testing.T) {
	_, err := FromOpenAPIDocument(context.Background(), []byte(openAPIDocument), "Pet")
	if err == nil || !strings.Contains(err.Error(), `openapi schema "Pet" not found`) {
		t.Fatalf("expected missing schema error, got %v", err)
	}
}

func TestFromOpenAPISchema_Overrides(t *testing.T) {
	schema := &openapi3.Schema{
		Type: &openapi3.Types{openapi3.TypeObject},
		Properties: openapi3.Schemas{
			"score": {Value: &openapi3.Schema{
				Type:       &openapi3.Types{openapi3.TypeNumber},
				Format:     "float",
				Extensions: map[string]any{ExtensionType: "decimal"},
			}},
			"flags": {Value: &openapi3.Schema{
				Type:  &openapi3.Types{openapi3.TypeArray},
				Items: &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeBoolean}}},
			}},
		},
	}

	def, err := FromOpenAPISchema("metrics", "scores", schema, WithLabeler(strings.ToUpper))
	if err != nil {
		t.Fatalf("from schema: %v", err)
	}
	want := []model.Attribute{
		{Code: "flags", Name: "FLAGS", PersistentType: model.PersistentTypeBoolean, Multiple: true, Seq: 0},
		{Code: "score", Name: "SCORE", PersistentType: model.PersistentTypeDecimal, Seq: 1},
	}
	if diff := cmp.Diff(want, def.Attributes); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestFromOpenAPISchema_Errors(t *testing.T) {
	if _, err := FromOpenAPISchema("t", "c", nil); err == nil {
		t.Fatalf("expected nil schema error")
	}

	unresolved := &openapi3.Schema{Properties: openapi3.Schemas{"x": {Ref: "#/components/schemas/X"}}}
	if _, err := FromOpenAPISchema("t", "c", unresolved); err == nil || !strings.Contains(err.Error(), "unresolved reference") {
		t.Fatalf("expected unresolved reference error, got %v", err)
	}

	noItems := &openapi3.Schema{Properties: openapi3.Schemas{"x": {Value: &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeArray}}}}}
	if _, err := FromOpenAPISchema("t", "c", noItems); err == nil || !strings.Contains(err.Error(), "has no items") {
		t.Fatalf("expected missing items error, got %v", err)
	}
}
