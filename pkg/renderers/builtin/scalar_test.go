package builtin

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-eavform/pkg/model"
	"github.com/goliatone/go-eavform/pkg/render"
)

func TestText_MultipleReusesIdentitiesByPosition(t *testing.T) {
	attr := model.Attribute{Code: "tags", PersistentType: model.PersistentTypeText, Multiple: true}
	existing := []model.Value{
		{ID: "a", AttributeCode: "tags", OwnerID: "o1", Seq: 0, Payload: "x"},
		{ID: "b", AttributeCode: "tags", OwnerID: "o1", Seq: 1, Payload: "y"},
	}

	got, controlled := NewText().ToWireValues(render.Edit{Input: "x\n\n  \nz\r\nw"}, existing, attr)
	if !controlled {
		t.Fatalf("expected text edit to control the attribute")
	}

	want := []model.Value{
		{ID: "a", AttributeCode: "tags", OwnerID: "o1", Seq: 0, Payload: "x"},
		{ID: "b", AttributeCode: "tags", OwnerID: "o1", Seq: 1, Payload: "z"},
		{AttributeCode: "tags", Seq: 2, Payload: "w"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("wire values mismatch (-want +got):\n%s", diff)
	}
}

func TestText_ViewValueJoinsLinesAndFallsBackToDefault(t *testing.T) {
	renderer := NewText()
	multi := model.Attribute{Code: "tags", PersistentType: model.PersistentTypeText, Multiple: true}
	values := []model.Value{
		{AttributeCode: "tags", Seq: 0, Payload: "one"},
		{AttributeCode: "tags", Seq: 1, Payload: "two"},
	}
	if got := renderer.ToViewValue(values, multi, false); got != "one\ntwo" {
		t.Fatalf("expected joined buffer, got %#v", got)
	}

	single := model.Attribute{Code: "name", PersistentType: model.PersistentTypeText, DefaultValue: "anon"}
	if got := renderer.ToViewValue(nil, single, true); got != "anon" {
		t.Fatalf("expected default value, got %#v", got)
	}
	if got := renderer.ToViewValue(nil, single, false); got != "" {
		t.Fatalf("expected empty input without defaults, got %#v", got)
	}
}

func TestText_BlankSingleInputClearsValue(t *testing.T) {
	attr := model.Attribute{Code: "name", PersistentType: model.PersistentTypeText}
	existing := []model.Value{{ID: "a", AttributeCode: "name", Payload: "old"}}

	got, controlled := NewText().ToWireValues(render.Edit{Input: "   "}, existing, attr)
	if !controlled {
		t.Fatalf("expected blank input to control the attribute")
	}
	if len(got) != 0 {
		t.Fatalf("expected no values, got %+v", got)
	}
}

func TestText_ConfidentialFlow(t *testing.T) {
	attr := model.Attribute{Code: "pin", PersistentType: model.PersistentTypeText, Confidential: true}
	existing := []model.Value{{ID: "v1", AttributeCode: "pin", Payload: model.ConfidentialSentinel, Confidential: true}}
	renderer := NewText()

	if values, controlled := renderer.ToWireValues(render.Edit{Input: "", State: render.ConfidentialMasked}, existing, attr); controlled || values != nil {
		t.Fatalf("masked secret must stay untouched, got %+v (controlled=%v)", values, controlled)
	}
	if _, controlled := renderer.ToWireValues(render.Edit{Input: render.MaskToken, State: render.ConfidentialEditing}, existing, attr); controlled {
		t.Fatalf("mask token must not be written")
	}

	got, controlled := renderer.ToWireValues(render.Edit{Input: "1234", State: render.ConfidentialEditing}, existing, attr)
	if !controlled {
		t.Fatalf("editing state must control the attribute")
	}
	want := []model.Value{{ID: "v1", AttributeCode: "pin", Payload: "1234"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("wire values mismatch (-want +got):\n%s", diff)
	}

	if input := renderer.ToViewValue(existing, attr, true); input != "" {
		t.Fatalf("sentinel must not reach the input, got %#v", input)
	}
}

func TestText_MaskedView(t *testing.T) {
	attr := model.Attribute{Code: "pin", Name: "PIN", PersistentType: model.PersistentTypeText, Confidential: true, Required: true}
	view := NewText().View(render.ViewContext{Attribute: attr, Input: "", State: render.ConfidentialMasked})

	if !view.Masked || !view.Disabled {
		t.Fatalf("expected masked disabled view, got %+v", view)
	}
	if view.Display != render.MaskToken {
		t.Fatalf("expected mask token display, got %q", view.Display)
	}
	if view.Required {
		t.Fatalf("masked secret must not be marked required")
	}
}

func TestText_RulesReportLengthAndPattern(t *testing.T) {
	minLen := 3.0
	attr := model.Attribute{Code: "code", PersistentType: model.PersistentTypeText, Required: true, Min: &minLen, Regex: "^[a-z]+$"}

	got := NewText().Rules(attr, false, nil).Validate("A1")
	want := []render.Violation{
		{Rule: render.RuleMin, Key: render.MsgMinLength, Args: []any{"3"}},
		{Rule: render.RuleRegex, Key: render.MsgRegex},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}

	required := NewText().Rules(attr, false, nil).Validate("")
	if len(required) != 1 || required[0].Rule != render.RuleRequired {
		t.Fatalf("expected required violation, got %+v", required)
	}
}

func TestInteger_ParsesPayloadAndRejectsGarbage(t *testing.T) {
	attr := model.Attribute{Code: "age", PersistentType: model.PersistentTypeLong}
	renderer := NewInteger()

	got, _ := renderer.ToWireValues(render.Edit{Input: " 42 "}, nil, attr)
	want := []model.Value{{AttributeCode: "age", Payload: int64(42)}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("wire values mismatch (-want +got):\n%s", diff)
	}

	violations := renderer.Rules(attr, false, nil).Validate("4x")
	if len(violations) != 1 || violations[0].Rule != render.RuleFormat {
		t.Fatalf("expected format violation, got %+v", violations)
	}
	if input := renderer.ToViewValue([]model.Value{{AttributeCode: "age", Payload: float64(7)}}, attr, false); input != "7" {
		t.Fatalf("expected decoded JSON number to render as 7, got %#v", input)
	}
}

func TestDecimal_Bounds(t *testing.T) {
	lo, hi := 0.5, 10.0
	attr := model.Attribute{Code: "ratio", PersistentType: model.PersistentTypeDouble, Min: &lo, Max: &hi}

	got := NewDecimal().Rules(attr, false, nil).Validate("12.5")
	want := []render.Violation{{Rule: render.RuleMax, Key: render.MsgMaxValue, Args: []any{"10"}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}
}

func TestDate_NormalisesAndFormatsTime(t *testing.T) {
	attr := model.Attribute{Code: "born", PersistentType: model.PersistentTypeDate}
	renderer := NewDate()

	got, _ := renderer.ToWireValues(render.Edit{Input: "2024-01-05"}, nil, attr)
	if len(got) != 1 || got[0].Payload != "2024-01-05" {
		t.Fatalf("unexpected date payload %+v", got)
	}

	stored := []model.Value{{AttributeCode: "born", Payload: time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)}}
	if input := renderer.ToViewValue(stored, attr, false); input != "2024-01-05" {
		t.Fatalf("expected formatted date, got %#v", input)
	}
	if violations := renderer.Rules(attr, false, nil).Validate("05/01/2024"); len(violations) != 1 {
		t.Fatalf("expected format violation, got %+v", violations)
	}
}

func TestDateTime_AcceptsBrowserLayout(t *testing.T) {
	attr := model.Attribute{Code: "at", PersistentType: model.PersistentTypeDateTime}
	got, _ := NewDateTime().ToWireValues(render.Edit{Input: "2024-01-05T10:30"}, nil, attr)
	if len(got) != 1 || got[0].Payload != "2024-01-05T10:30:00Z" {
		t.Fatalf("unexpected datetime payload %+v", got)
	}
}

func TestUUID_Canonicalises(t *testing.T) {
	attr := model.Attribute{Code: "ref", PersistentType: model.PersistentTypeUUID}
	got, _ := NewUUID().ToWireValues(render.Edit{Input: "6BA7B810-9DAD-11D1-80B4-00C04FD430C8"}, nil, attr)
	if len(got) != 1 || got[0].Payload != "6ba7b810-9dad-11d1-80b4-00c04fd430c8" {
		t.Fatalf("unexpected uuid payload %+v", got)
	}
	if violations := NewUUID().Rules(attr, false, nil).Validate("not-a-uuid"); len(violations) != 1 {
		t.Fatalf("expected format violation, got %+v", violations)
	}
}
