package loader

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-eavform/pkg/model"
)

const jsonPayload = `{
  "formDefinition": {
    "type": "person",
    "code": "profile",
    "formAttributes": [
      {"id": "a1", "code": "name", "name": "Name", "persistentType": "text", "required": true, "seq": 0},
      {"id": "a2", "code": "tags", "persistentType": "text", "multiple": true, "seq": 1}
    ]
  },
  "ownerId": "o1",
  "values": [
    {"id": "v1", "attributeCode": "name", "ownerId": "o1", "seq": 0, "payload": "Alice"},
    {"id": "v2", "attributeCode": "tags", "ownerId": "o1", "seq": 0, "payload": "a"}
  ]
}`

const yamlPayload = `
formDefinition:
  type: person
  code: profile
  formAttributes:
    - id: a1
      code: name
      name: Name
      persistentType: text
      required: true
      seq: 0
    - id: a2
      code: tags
      persistentType: text
      multiple: true
      seq: 1
ownerId: o1
values:
  - id: v1
    attributeCode: name
    ownerId: o1
    seq: 0
    payload: Alice
  - id: v2
    attributeCode: tags
    ownerId: o1
    seq: 0
    payload: a
`

func TestDecodePayload_JSONAndYAMLAgree(t *testing.T) {
	fromJSON, err := DecodePayload([]byte(jsonPayload))
	if err != nil {
		t.Fatalf("decode json: %v", err)
	}
	fromYAML, err := DecodePayload([]byte(yamlPayload))
	if err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if diff := cmp.Diff(fromJSON, fromYAML); diff != "" {
		t.Fatalf("payload mismatch (-json +yaml):\n%s", diff)
	}

	if fromJSON.FormDefinition.Key() != "person/profile" {
		t.Fatalf("unexpected key %q", fromJSON.FormDefinition.Key())
	}
	if diff := cmp.Diff([]string{"name", "tags"}, fromJSON.FormDefinition.Codes()); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodePayload_YAMLNumbersMatchJSON(t *testing.T) {
	data := `
formDefinition:
  type: person
  code: age
  formAttributes:
    - code: age
      persistentType: long
      defaultValue: 18
values:
  - attributeCode: age
    payload: 42
`
	payload, err := DecodePayload([]byte(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Values[0].Payload != float64(42) {
		t.Fatalf("expected float64 payload, got %T", payload.Values[0].Payload)
	}
	if payload.FormDefinition.Attributes[0].DefaultValue != float64(18) {
		t.Fatalf("expected float64 default, got %T", payload.FormDefinition.Attributes[0].DefaultValue)
	}
}

func TestDecodePayload_Errors(t *testing.T) {
	cases := []struct {
		name string
		data string
		want string
	}{
		{"empty", "  \n", "payload is empty"},
		{"garbage", "{not: [valid", "invalid JSON or YAML"},
		{"missing code", `{"formDefinition": {"type": "person", "formAttributes": []}}`, "definition code is required"},
		{"duplicate attribute", `{"formDefinition": {"type": "p", "code": "c", "formAttributes": [{"code": "a", "persistentType": "text"}, {"code": "a", "persistentType": "text"}]}}`, "duplicate attribute"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodePayload([]byte(tc.data))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}

	if _, err := DecodePayload(nil); !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("expected ErrEmptyPayload, got %v", err)
	}
}

func TestLoadFS_IndexesDefinitions(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/profile.json": {Data: []byte(jsonPayload)},
		"forms/address.yaml": {Data: []byte(`
formDefinition:
  type: person
  code: address
  formAttributes:
    - code: street
      persistentType: text
`)},
		"forms/README.md": {Data: []byte("not a payload")},
	}

	catalog, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if diff := cmp.Diff([]string{"person/address", "person/profile"}, catalog.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	payload, ok := catalog.Payload("person", "profile")
	if !ok {
		t.Fatalf("expected profile payload")
	}
	if payload.OwnerID != "o1" || len(payload.Values) != 2 {
		t.Fatalf("unexpected payload %+v", payload)
	}

	def, ok := catalog.Definition("person", "address")
	if !ok || def.Attributes[0].PersistentType != model.PersistentTypeText {
		t.Fatalf("unexpected address definition %+v", def)
	}
	if source, _ := catalog.Source("person", "address"); source != "forms/address.yaml" {
		t.Fatalf("unexpected source %q", source)
	}
	if _, ok := catalog.Payload("person", "missing"); ok {
		t.Fatalf("expected missing definition to be absent")
	}
}

func TestLoadFS_DuplicateDefinition(t *testing.T) {
	fsys := fstest.MapFS{
		"a.json": {Data: []byte(jsonPayload)},
		"b.yaml": {Data: []byte(yamlPayload)},
	}
	_, err := LoadFS(fsys)
	if err == nil || !strings.Contains(err.Error(), `duplicate definition "person/profile"`) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestLoadFS_NilFS(t *testing.T) {
	catalog, err := LoadFS(nil)
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if len(catalog.Keys()) != 0 {
		t.Fatalf("expected empty catalog")
	}
}

func TestDefaultLabeler(t *testing.T) {
	cases := map[string]string{
		"birth_date": "Birth Date",
		"birthDate":  "Birth Date",
		"line2":      "Line 2",
		"EMAIL":      "Email",
		"":           "",
	}
	for in, want := range cases {
		if got := DefaultLabeler(in); got != want {
			t.Errorf("DefaultLabeler(%q) = %q, want %q", in, got, want)
		}
	}
}
