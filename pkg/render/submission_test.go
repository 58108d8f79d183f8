package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-eavform/pkg/model"
	"github.com/goliatone/go-eavform/pkg/render"
)

func TestMergeHiddenFields(t *testing.T) {
	def := model.Definition{Type: "person", Code: "profile"}

	merged := render.MergeHiddenFields(
		render.RecordFields(def, "o1"),
		[]render.HiddenField{
			render.CSRFToken("_csrf", "token123"),
			render.VersionField("version", int64(4)),
			render.Hidden("  ", "skip"),
			render.Hidden("_owner", "o2"),
		},
	)

	want := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "_definition", Value: "person/profile"},
		{Name: "_owner", Value: "o2"},
		{Name: "version", Value: "4"},
	}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordFieldsWithoutOwner(t *testing.T) {
	got := render.RecordFields(model.Definition{Type: "person", Code: "new"}, "")
	want := []render.HiddenField{{Name: render.HiddenDefinition, Value: "person/new"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("record fields mismatch (-want +got):\n%s", diff)
	}
	if render.MergeHiddenFields() != nil {
		t.Fatalf("expected nil for no fields")
	}
}
