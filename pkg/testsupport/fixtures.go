package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-eavform/pkg/model"
)

// ProfileDefinition returns a definition touching every built-in kind plus
// one unsupported attribute. Each call returns a fresh copy.
func ProfileDefinition() model.Definition {
	minAge, maxAge := 0.0, 150.0
	minName := 2.0
	return model.Definition{
		Type: "person",
		Code: "profile",
		Attributes: []model.Attribute{
			{ID: "attr-name", Code: "name", Name: "Name", PersistentType: model.PersistentTypeText, Required: true, Min: &minName, Seq: 0},
			{ID: "attr-email", Code: "email", Name: "Email", PersistentType: model.PersistentTypeText, Regex: `^[^@\s]+@[^@\s]+$`, ValidationMessage: "Enter a valid email", Seq: 1},
			{ID: "attr-tags", Code: "tags", Name: "Tags", PersistentType: model.PersistentTypeText, Multiple: true, Seq: 2},
			{ID: "attr-bio", Code: "bio", Name: "Biography", PersistentType: model.PersistentTypeText, FaceType: model.FaceTextarea, Seq: 3},
			{ID: "attr-secret", Code: "secret", Name: "Secret", PersistentType: model.PersistentTypeText, FaceType: model.FacePassword, Confidential: true, Seq: 4},
			{ID: "attr-active", Code: "active", Name: "Active", PersistentType: model.PersistentTypeBoolean, Seq: 5},
			{ID: "attr-age", Code: "age", Name: "Age", PersistentType: model.PersistentTypeLong, Min: &minAge, Max: &maxAge, Seq: 6},
			{ID: "attr-born", Code: "born", Name: "Born", PersistentType: model.PersistentTypeDate, Seq: 7},
			{ID: "attr-country", Code: "country", Name: "Country", PersistentType: model.PersistentTypeEnumeration, Seq: 8, Options: []model.Option{
				{Value: "nl", Label: "Netherlands"},
				{Value: "pt", Label: "Portugal"},
			}},
			{ID: "attr-avatar", Code: "avatar", Name: "Avatar", PersistentType: model.PersistentTypeAttachment, Seq: 9},
			{ID: "attr-blob", Code: "blob", Name: "Blob", PersistentType: model.PersistentTypeByteArray, Seq: 10},
		},
	}
}

// ProfileValues returns stored values for ProfileDefinition owned by owner.
// The secret is already masked, the way a backend returns it.
func ProfileValues(owner string) []model.Value {
	return []model.Value{
		{ID: "v-name", AttributeCode: "name", OwnerID: owner, Payload: "Alice"},
		{ID: "v-tags-1", AttributeCode: "tags", OwnerID: owner, Seq: 1, Payload: "b"},
		{ID: "v-tags-0", AttributeCode: "tags", OwnerID: owner, Seq: 0, Payload: "a"},
		{ID: "v-secret", AttributeCode: "secret", OwnerID: owner, Payload: model.ConfidentialSentinel, Confidential: true},
		{ID: "v-active", AttributeCode: "active", OwnerID: owner, Payload: true},
		{ID: "v-country", AttributeCode: "country", OwnerID: owner, Payload: "pt"},
	}
}

// MustLoadDefinition reads a JSON definition fixture.
func MustLoadDefinition(t *testing.T, path string) model.Definition {
	t.Helper()

	def, err := LoadDefinition(path)
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	return def
}

// LoadDefinition reads a JSON definition fixture, returning an error for
// callers managing setup outside of *testing.T.
func LoadDefinition(path string) (model.Definition, error) {
	if path == "" {
		return model.Definition{}, errors.New("testsupport: definition path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Definition{}, fmt.Errorf("testsupport: read definition: %w", err)
	}
	var out model.Definition
	if err := json.Unmarshal(data, &out); err != nil {
		return model.Definition{}, fmt.Errorf("testsupport: unmarshal definition: %w", err)
	}
	return out, nil
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	return out, buf.String()
}
