package form_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-eavform/pkg/form"
	"github.com/goliatone/go-eavform/pkg/model"
	"github.com/goliatone/go-eavform/pkg/testsupport"
)

func tagsDefinition() model.Definition {
	return model.Definition{
		Type: "person",
		Code: "tags",
		Attributes: []model.Attribute{
			{Code: "name", PersistentType: model.PersistentTypeText},
			{Code: "tags", PersistentType: model.PersistentTypeText, Multiple: true},
		},
	}
}

func TestInstance_GroupsAndOrdersBySeq(t *testing.T) {
	inst := form.New(tagsDefinition(), form.WithOwner(" o1 "), form.WithValues([]model.Value{
		{ID: "t2", AttributeCode: "tags", Seq: 2, Payload: "c"},
		{ID: "n", AttributeCode: "name", Payload: "Ann"},
		{ID: "t0", AttributeCode: "tags", Seq: 0, Payload: "a"},
		{ID: "x", AttributeCode: "legacy", Payload: "old"},
		{ID: "t1", AttributeCode: "tags", Seq: 1, Payload: "b"},
	}))

	want := []model.Value{
		{ID: "n", AttributeCode: "name", OwnerID: "o1", Payload: "Ann"},
		{ID: "t0", AttributeCode: "tags", OwnerID: "o1", Seq: 0, Payload: "a"},
		{ID: "t1", AttributeCode: "tags", OwnerID: "o1", Seq: 1, Payload: "b"},
		{ID: "t2", AttributeCode: "tags", OwnerID: "o1", Seq: 2, Payload: "c"},
		{ID: "x", AttributeCode: "legacy", OwnerID: "o1", Payload: "old"},
	}
	if diff := cmp.Diff(want, inst.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if inst.OwnerID() != "o1" {
		t.Fatalf("expected trimmed owner, got %q", inst.OwnerID())
	}
}

func TestInstance_SetValuesRoundTrip(t *testing.T) {
	inst := form.New(testsupport.ProfileDefinition(), form.WithValues(testsupport.ProfileValues("o1")))
	again := inst.SetValues(inst.Values())
	if diff := cmp.Diff(inst.Values(), again.Values()); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestInstance_SetValuesRenumbersGaps(t *testing.T) {
	inst := form.New(tagsDefinition()).SetValues([]model.Value{
		{AttributeCode: "tags", Seq: 7, Payload: "late"},
		{AttributeCode: "tags", Seq: 3, Payload: "early"},
		{AttributeCode: "tags", Seq: 3, Payload: "tie"},
	})
	got := inst.ValuesFor("tags")
	want := []model.Value{
		{AttributeCode: "tags", Seq: 0, Payload: "early"},
		{AttributeCode: "tags", Seq: 1, Payload: "tie"},
		{AttributeCode: "tags", Seq: 2, Payload: "late"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestInstance_SingleValuedKeepsOne(t *testing.T) {
	inst := form.New(tagsDefinition()).SetValues([]model.Value{
		{AttributeCode: "name", Seq: 1, Payload: "second"},
		{AttributeCode: "name", Seq: 0, Payload: "first"},
	})
	value, ok := inst.SingleValue("name")
	if !ok || value.Payload != "first" {
		t.Fatalf("expected first value, got %+v", value)
	}
	if len(inst.ValuesFor("name")) != 1 {
		t.Fatalf("expected one value for a single-valued attribute")
	}
}

func TestInstance_CopyOnWrite(t *testing.T) {
	base := form.New(tagsDefinition(), form.WithValues([]model.Value{{AttributeCode: "name", Payload: "Ann"}}))
	next := base.SetValues(nil).WithOwner("o2")

	if !base.HasValue("name") || base.OwnerID() != "" {
		t.Fatalf("receiver was mutated")
	}
	if next.HasValue("name") || next.OwnerID() != "o2" {
		t.Fatalf("expected cleared copy bound to o2")
	}

	ro := model.Attribute{Code: "tags", Name: "Labels", Readonly: true, Multiple: false, Confidential: true}
	edited := base.SetAttribute(ro)
	attr, _ := edited.Attribute("tags")
	if !attr.Readonly || attr.Name != "Labels" || !attr.Multiple || attr.Confidential {
		t.Fatalf("unexpected override %+v", attr)
	}
	original, _ := base.Attribute("tags")
	if original.Readonly {
		t.Fatalf("override leaked into the receiver")
	}
	if diff := cmp.Diff(tagsDefinition(), edited.Definition()); diff != "" {
		t.Fatalf("definition changed (-want +got):\n%s", diff)
	}
	if edited.SetAttribute(model.Attribute{Code: "missing"}) != edited {
		t.Fatalf("unknown codes must return the receiver")
	}
}

func TestInstance_PropertiesJoinMultiple(t *testing.T) {
	inst := form.New(tagsDefinition(), form.WithValues([]model.Value{
		{AttributeCode: "tags", Seq: 0, Payload: "a"},
		{AttributeCode: "tags", Seq: 1, Payload: "b"},
	}))
	if diff := cmp.Diff(map[string]any{"tags": "a,b"}, inst.Properties()); diff != "" {
		t.Fatalf("properties mismatch (-want +got):\n%s", diff)
	}

	back, err := form.New(tagsDefinition()).SetProperties(map[string]any{"tags": "a,b"})
	if err != nil {
		t.Fatalf("set properties: %v", err)
	}
	if diff := cmp.Diff(inst.Values(), back.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestInstance_PropertiesSkipMaskedSecrets(t *testing.T) {
	inst := form.New(testsupport.ProfileDefinition(), form.WithValues(testsupport.ProfileValues("o1")))
	want := map[string]any{
		"name":    "Alice",
		"tags":    "a,b",
		"active":  true,
		"country": "pt",
	}
	if diff := cmp.Diff(want, inst.Properties()); diff != "" {
		t.Fatalf("properties mismatch (-want +got):\n%s", diff)
	}
}

func TestInstance_PropertiesKeepSentinelTextOnPlainAttributes(t *testing.T) {
	inst := form.New(tagsDefinition(), form.WithValues([]model.Value{
		{AttributeCode: "name", Payload: model.ConfidentialSentinel},
		{AttributeCode: "tags", Payload: "a"},
		{AttributeCode: "tags", Seq: 1, Payload: model.ConfidentialSentinel},
	}))
	want := map[string]any{"name": "*****", "tags": "a,*****"}
	if diff := cmp.Diff(want, inst.Properties()); diff != "" {
		t.Fatalf("properties mismatch (-want +got):\n%s", diff)
	}
}

func TestInstance_PropertiesRoundTrip(t *testing.T) {
	def := model.Definition{Code: "flat", Attributes: []model.Attribute{
		{Code: "name", PersistentType: model.PersistentTypeText},
		{Code: "age", PersistentType: model.PersistentTypeLong},
		{Code: "active", PersistentType: model.PersistentTypeBoolean},
	}}
	props := map[string]any{"name": "Ann", "age": int64(3), "active": false}
	inst, err := form.New(def).SetProperties(props)
	if err != nil {
		t.Fatalf("set properties: %v", err)
	}
	again, err := inst.SetProperties(inst.Properties())
	if err != nil {
		t.Fatalf("set properties: %v", err)
	}
	if diff := cmp.Diff(props, again.Properties()); diff != "" {
		t.Fatalf("properties mismatch (-want +got):\n%s", diff)
	}
}

func TestInstance_SetPropertiesKinds(t *testing.T) {
	inst := form.New(tagsDefinition())

	fromSlice, err := inst.SetProperties(map[string]any{"tags": []any{"x", nil, float64(2)}, "extra": "e"})
	if err != nil {
		t.Fatalf("set properties: %v", err)
	}
	want := []model.Value{
		{AttributeCode: "tags", Seq: 0, Payload: "x"},
		{AttributeCode: "tags", Seq: 1, Payload: float64(2)},
		{AttributeCode: "extra", Payload: "e"},
	}
	if diff := cmp.Diff(want, fromSlice.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	_, err = inst.SetProperties(map[string]any{"tags": 42})
	var kindErr *form.ValueKindError
	if !errors.As(err, &kindErr) || kindErr.Code != "tags" {
		t.Fatalf("expected ValueKindError for tags, got %v", err)
	}
}
