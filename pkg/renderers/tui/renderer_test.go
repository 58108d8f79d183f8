package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-eavform/pkg/form"
	"github.com/goliatone/go-eavform/pkg/model"
	"github.com/goliatone/go-eavform/pkg/orchestrator"
	"github.com/goliatone/go-eavform/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	passwords    []string
	infoMessages []string
	selects      []SelectConfig
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
	passPos      int
	err          error
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selects = append(s.selects, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	s.selects = append(s.selects, cfg)
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func TestEdit_ProfileSession(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Bob", "bad", "bob@example.com", "40", "1990-02-03", "f1"},
		textAreas: []string{"x\ny", "hello"},
		confirm:   []bool{true, false},
		passwords: []string{"pw"},
		selectIdx: []int{1},
	}
	inst := form.New(testsupport.ProfileDefinition(), form.WithOwner("o1"), form.WithValues(testsupport.ProfileValues("o1")))
	o := orchestrator.New(inst)

	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := r.Edit(context.Background(), o); err != nil {
		t.Fatalf("edit: %v", err)
	}

	want := []model.Value{
		{ID: "v-name", AttributeCode: "name", OwnerID: "o1", Payload: "Bob"},
		{AttributeCode: "email", OwnerID: "o1", Payload: "bob@example.com"},
		{ID: "v-tags-0", AttributeCode: "tags", OwnerID: "o1", Payload: "x"},
		{ID: "v-tags-1", AttributeCode: "tags", OwnerID: "o1", Seq: 1, Payload: "y"},
		{AttributeCode: "bio", OwnerID: "o1", Payload: "hello"},
		{ID: "v-secret", AttributeCode: "secret", OwnerID: "o1", Payload: "pw"},
		{ID: "v-active", AttributeCode: "active", OwnerID: "o1", Payload: false},
		{AttributeCode: "age", OwnerID: "o1", Payload: int64(40)},
		{AttributeCode: "born", OwnerID: "o1", Payload: "1990-02-03"},
		{ID: "v-country", AttributeCode: "country", OwnerID: "o1", Payload: "nl"},
		{AttributeCode: "avatar", OwnerID: "o1", Payload: "f1"},
	}
	if diff := cmp.Diff(want, o.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	wantInfo := []string{
		"Invalid Email: Enter a valid email",
		"Blob: Unsupported attribute type byte-array",
	}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}

	if len(driver.selects) != 1 {
		t.Fatalf("expected one select prompt, got %d", len(driver.selects))
	}
	country := driver.selects[0]
	if diff := cmp.Diff([]string{noneOption, "Netherlands", "Portugal"}, country.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if country.DefaultIndex != 2 {
		t.Fatalf("expected current country preselected, got %d", country.DefaultIndex)
	}
}

func TestEdit_DeclinedSecretIsUntouched(t *testing.T) {
	def := model.Definition{Type: "person", Code: "secret", Attributes: []model.Attribute{
		{Code: "secret", Name: "Secret", PersistentType: model.PersistentTypeText, FaceType: model.FacePassword, Confidential: true},
	}}
	inst := form.New(def, form.WithValues([]model.Value{{ID: "s1", AttributeCode: "secret", Payload: model.ConfidentialSentinel}}))
	o := orchestrator.New(inst)
	driver := &stubDriver{confirm: []bool{false}}

	r, _ := New(WithPromptDriver(driver))
	if err := r.Edit(context.Background(), o); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if got := o.Values(); len(got) != 0 {
		t.Fatalf("expected untouched secret to send nothing, got %v", got)
	}
	if driver.passPos != 0 {
		t.Fatalf("expected no password prompt")
	}
}

func TestEdit_RequiredSecretReasksOnBlank(t *testing.T) {
	def := model.Definition{Type: "person", Code: "secret", Attributes: []model.Attribute{
		{Code: "secret", Name: "Secret", PersistentType: model.PersistentTypeText, FaceType: model.FacePassword, Confidential: true, Required: true},
	}}
	inst := form.New(def, form.WithValues([]model.Value{{ID: "s1", AttributeCode: "secret", Payload: model.ConfidentialSentinel}}))
	o := orchestrator.New(inst)
	driver := &stubDriver{confirm: []bool{true}, passwords: []string{"", "n3w"}}

	r, _ := New(WithPromptDriver(driver))
	if err := r.Edit(context.Background(), o); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if driver.passPos != 2 || len(driver.infoMessages) != 1 {
		t.Fatalf("expected blank secret to be asked again, prompts=%d info=%v", driver.passPos, driver.infoMessages)
	}
	want := []model.Value{{ID: "s1", AttributeCode: "secret", Payload: "n3w"}}
	if diff := cmp.Diff(want, o.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestEdit_ReadonlyIsPrinted(t *testing.T) {
	def := model.Definition{Type: "person", Code: "ro", Attributes: []model.Attribute{
		{Code: "name", Name: "Name", PersistentType: model.PersistentTypeText, Readonly: true},
	}}
	inst := form.New(def, form.WithValues([]model.Value{{AttributeCode: "name", Payload: "Alice"}}))
	driver := &stubDriver{}

	r, _ := New(WithPromptDriver(driver))
	if err := r.Edit(context.Background(), orchestrator.New(inst)); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if diff := cmp.Diff([]string{"Name: Alice (read-only)"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestEdit_MultiSelect(t *testing.T) {
	def := model.Definition{Type: "person", Code: "langs", Attributes: []model.Attribute{
		{Code: "langs", Name: "Languages", PersistentType: model.PersistentTypeEnumeration, Multiple: true, Options: []model.Option{
			{Value: "go", Label: "Go"},
			{Value: "rs", Label: "Rust"},
			{Value: "zig", Label: "Zig"},
		}},
	}}
	driver := &stubDriver{multiIdx: [][]int{{0, 2}}}
	o := orchestrator.New(form.New(def))

	r, _ := New(WithPromptDriver(driver))
	if err := r.Edit(context.Background(), o); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if diff := cmp.Diff([]string{"Go", "Rust", "Zig"}, driver.selects[0].Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	want := []model.Value{
		{AttributeCode: "langs", Payload: "go"},
		{AttributeCode: "langs", Seq: 1, Payload: "zig"},
	}
	if diff := cmp.Diff(want, o.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestEdit_AbortPropagates(t *testing.T) {
	def := model.Definition{Type: "person", Code: "x", Attributes: []model.Attribute{
		{Code: "name", PersistentType: model.PersistentTypeText},
	}}
	driver := &stubDriver{err: ErrAborted}

	r, _ := New(WithPromptDriver(driver))
	err := r.Edit(context.Background(), orchestrator.New(form.New(def)))
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestEdit_NotAvailable(t *testing.T) {
	driver := &stubDriver{}
	r, _ := New(WithPromptDriver(driver))

	err := r.Edit(context.Background(), orchestrator.New(nil))
	if !errors.Is(err, ErrNotAvailable) {
		t.Fatalf("expected ErrNotAvailable, got %v", err)
	}
	if diff := cmp.Diff([]string{orchestrator.NotAvailableMessage}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_OutputFormats(t *testing.T) {
	def := model.Definition{Type: "person", Code: "x", Attributes: []model.Attribute{
		{Code: "name", Name: "Name", PersistentType: model.PersistentTypeText},
		{Code: "tags", Name: "Tags", PersistentType: model.PersistentTypeText, Multiple: true},
	}}

	cases := []struct {
		format OutputFormat
		want   string
	}{
		{OutputFormatPrettyText, "name: Ann\ntags: a,b\n"},
		{OutputFormatFormURLEncoded, "name=Ann&tags=a%2Cb"},
	}
	for _, tc := range cases {
		t.Run(string(tc.format), func(t *testing.T) {
			driver := &stubDriver{inputs: []string{"Ann"}, textAreas: []string{"a\nb"}}
			r, _ := New(WithPromptDriver(driver), WithOutputFormat(tc.format))
			out, err := r.Render(context.Background(), orchestrator.New(form.New(def)))
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if string(out) != tc.want {
				t.Fatalf("unexpected output %q", out)
			}
		})
	}
}

func TestRender_JSONValues(t *testing.T) {
	def := model.Definition{Type: "person", Code: "x", Attributes: []model.Attribute{
		{Code: "name", Name: "Name", PersistentType: model.PersistentTypeText},
	}}
	driver := &stubDriver{inputs: []string{"Ann"}}
	r, _ := New(WithPromptDriver(driver))
	if r.ContentType() != "application/json" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}

	out, err := r.Render(context.Background(), orchestrator.New(form.New(def)))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var got []map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0]["payload"] != "Ann" {
		t.Fatalf("unexpected values %s", out)
	}
}

func TestNew_DefaultsToSurveyDriver(t *testing.T) {
	var buf bytes.Buffer
	r, err := New(WithOutput(&buf))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := r.driver.(*surveyDriver); !ok {
		t.Fatalf("expected survey driver, got %T", r.driver)
	}
	if r.Name() != "tui" {
		t.Fatalf("unexpected name %q", r.Name())
	}
}
