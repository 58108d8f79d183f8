package orchestrator

import (
	"errors"
	"fmt"

	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-eavform/pkg/form"
	"github.com/goliatone/go-eavform/pkg/model"
	"github.com/goliatone/go-eavform/pkg/render"
	"github.com/goliatone/go-eavform/pkg/renderers/builtin"
)

var (
	// ErrUnknownAttribute is returned for codes missing from the form.
	ErrUnknownAttribute = errors.New("orchestrator: unknown attribute")
	// ErrUnsupported is returned when editing an attribute without renderer.
	ErrUnsupported = errors.New("orchestrator: attribute kind not supported")
	// ErrReadonly is returned when editing a read-only attribute.
	ErrReadonly = errors.New("orchestrator: attribute is read-only")
	// ErrMasked is returned when writing to a masked confidential attribute
	// that was not opened with RequestEdit.
	ErrMasked = errors.New("orchestrator: confidential attribute is masked")
	// ErrNotConfidential is returned by RequestEdit and CancelEdit for plain
	// attributes.
	ErrNotConfidential = errors.New("orchestrator: attribute is not confidential")
)

// NotAvailableMessage is shown when the orchestrator has no form.
const NotAvailableMessage = "This form is not available"

// Status tracks one attribute through a render pass.
type Status int

const (
	StatusPending Status = iota
	StatusRendered
	StatusValid
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusRendered:
		return "rendered"
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	default:
		return "pending"
	}
}

// Unit is the editable unit produced for one attribute.
type Unit struct {
	Code      string
	Attribute model.Attribute
	Status    Status
	Supported bool
	View      render.View
}

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects the renderer registry. The built-in registry is used
// otherwise.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithAttributeSettings supplies overrides as a JSON array. A payload that
// fails to parse is ignored and the definition's own settings apply.
func WithAttributeSettings(raw string) Option {
	return func(o *Orchestrator) {
		settings, err := ParseAttributeSettings(raw)
		if err != nil {
			if logger.IsVerbose() {
				logger.Verbose("orchestrator: ignoring attribute settings:", err)
			}
			return
		}
		o.settings = append(o.settings, settings...)
	}
}

// WithSettings supplies already decoded overrides.
func WithSettings(settings []AttributeSetting) Option {
	cloned := cloneSettings(settings)
	return func(o *Orchestrator) {
		o.settings = append(o.settings, cloned...)
	}
}

// WithUseDefaults fills empty attributes with their default value on the
// first render. Typically set for entities that do not exist yet.
func WithUseDefaults(use bool) Option {
	return func(o *Orchestrator) {
		o.useDefaults = use
	}
}

// WithLocalizer sets how validation violations become messages.
func WithLocalizer(localizer render.Localizer) Option {
	return func(o *Orchestrator) {
		o.localizer = localizer
	}
}

type unit struct {
	attr     model.Attribute
	binding  render.Binding
	resolved bool
	input    render.Input
	state    render.ConfidentialState
	status   Status
	local    []string
	server   []string
}

func (u *unit) messages() []string {
	return render.MergeFormErrors(u.local, u.server...)
}

func (u *unit) editable() bool {
	return u.resolved && !u.attr.Readonly
}

// Orchestrator drives one edit session over a form instance: it resolves a
// renderer per attribute, holds the edited inputs, validates them and turns
// them back into values. It is owned by a single session and is not safe for
// concurrent use.
type Orchestrator struct {
	instance    *form.Instance
	registry    *render.Registry
	settings    []AttributeSetting
	useDefaults bool
	localizer   render.Localizer
	units       []*unit
	index       map[string]*unit
	formErrors  []string
	focus       string
}

// New constructs an Orchestrator for instance. A nil instance yields an
// orchestrator that only renders the "not available" placeholder.
func New(instance *form.Instance, options ...Option) *Orchestrator {
	o := &Orchestrator{
		instance: instance,
		index:    make(map[string]*unit),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.registry == nil {
		o.registry = builtin.NewDefaultRegistry()
	}
	if o.instance != nil {
		o.applySettings()
		o.reset(o.useDefaults)
	}
	return o
}

// Available reports whether a form definition backs the orchestrator.
func (o *Orchestrator) Available() bool {
	return o.instance != nil
}

// Instance returns the working instance, overrides applied.
func (o *Orchestrator) Instance() *form.Instance {
	return o.instance
}

// Render produces one unit per attribute in definition order. Overrides are
// merged into the working instance before renderers are resolved, so rules
// always reflect them.
func (o *Orchestrator) Render() []Unit {
	if !o.Available() {
		return []Unit{{
			Status: StatusRendered,
			View: render.View{
				Widget:   render.WidgetUnsupported,
				Display:  NotAvailableMessage,
				Readonly: true,
				Disabled: true,
			},
		}}
	}

	o.applySettings()
	o.rebind()

	out := make([]Unit, 0, len(o.units))
	for _, u := range o.units {
		if u.status == StatusPending {
			u.status = StatusRendered
		}
		out = append(out, Unit{
			Code:      u.attr.Code,
			Attribute: u.attr,
			Status:    u.status,
			Supported: u.resolved,
			View:      o.view(u),
		})
	}
	return out
}

// Input returns the current input of code.
func (o *Orchestrator) Input(code string) (render.Input, bool) {
	u, ok := o.index[code]
	if !ok {
		return nil, false
	}
	return u.input, true
}

// State returns the confidential state of code.
func (o *Orchestrator) State(code string) render.ConfidentialState {
	if u, ok := o.index[code]; ok {
		return u.state
	}
	return render.ConfidentialEmpty
}

// SetInput records the user's input for code. Server errors attached to the
// attribute are cleared; the attribute is re-validated on the next IsValid.
func (o *Orchestrator) SetInput(code string, input render.Input) error {
	u, err := o.editableUnit(code)
	if err != nil {
		return err
	}
	if u.attr.Confidential && !u.state.Controls() {
		return fmt.Errorf("%w: %s", ErrMasked, code)
	}
	u.input = input
	u.server = nil
	u.local = nil
	u.status = StatusRendered
	return nil
}

// RequestEdit opens a masked confidential attribute for editing. The input
// starts empty; the stored secret is never shown.
func (o *Orchestrator) RequestEdit(code string) error {
	u, err := o.editableUnit(code)
	if err != nil {
		return err
	}
	if !u.attr.Confidential {
		return fmt.Errorf("%w: %s", ErrNotConfidential, code)
	}
	if u.state == render.ConfidentialMasked {
		u.state = u.state.RequestEdit()
		u.input = ""
	}
	return nil
}

// CancelEdit abandons a confidential edit and masks the attribute again.
func (o *Orchestrator) CancelEdit(code string) error {
	u, ok := o.index[code]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAttribute, code)
	}
	if !u.attr.Confidential {
		return fmt.Errorf("%w: %s", ErrNotConfidential, code)
	}
	if u.state == render.ConfidentialEditing {
		u.state = u.state.Cancel()
		u.input = ""
		u.local = nil
		u.status = StatusRendered
	}
	return nil
}

// IsValid validates every attribute, without stopping at the first failure,
// and reports whether all of them passed. The first invalid attribute in
// render order becomes the focus target.
func (o *Orchestrator) IsValid() bool {
	if !o.Available() {
		return false
	}
	o.focus = ""
	valid := true
	for _, u := range o.units {
		if o.validate(u) {
			continue
		}
		valid = false
		if o.focus == "" {
			o.focus = u.attr.Code
		}
	}
	return valid
}

// Check validates a single attribute and returns its messages, nil when the
// attribute is valid.
func (o *Orchestrator) Check(code string) []string {
	u, ok := o.index[code]
	if !ok {
		return nil
	}
	o.validate(u)
	return u.messages()
}

func (o *Orchestrator) validate(u *unit) bool {
	u.local = nil
	if u.editable() && u.state.Controls() {
		// An opened secret is replaced by the input, blank included.
		kept := o.instance.HasValue(u.attr.Code) && u.state != render.ConfidentialEditing
		rules := u.binding.Renderer.Rules(u.attr, kept, u.binding.Manager)
		u.local = o.localizer.Messages(rules.Validate(u.input))
	}
	if len(u.local) > 0 || len(u.server) > 0 {
		u.status = StatusInvalid
		return false
	}
	u.status = StatusValid
	return true
}

// Focus returns the code of the first invalid attribute after IsValid or
// ApplyErrors, empty when there is none.
func (o *Orchestrator) Focus() string {
	return o.focus
}

// Errors returns the messages shown under each invalid attribute.
func (o *Orchestrator) Errors() map[string][]string {
	out := make(map[string][]string)
	for _, u := range o.units {
		if messages := u.messages(); len(messages) > 0 {
			out[u.attr.Code] = messages
		}
	}
	return out
}

// FormErrors returns server messages that could not be attached to an
// attribute.
func (o *Orchestrator) FormErrors() []string {
	return append([]string(nil), o.formErrors...)
}

// Statuses reports the status of every attribute by code.
func (o *Orchestrator) Statuses() map[string]Status {
	out := make(map[string]Status, len(o.units))
	for _, u := range o.units {
		out[u.attr.Code] = u.status
	}
	return out
}

// Values collects the outgoing values of every editable attribute in render
// order. Read-only attributes, attributes without renderer and masked
// secrets are left out.
func (o *Orchestrator) Values() []model.Value {
	values, _ := o.collect()
	return values
}

// Controlled lists the codes whose stored values Values replaces. A code can
// be controlled and still send nothing when the user cleared it.
func (o *Orchestrator) Controlled() []string {
	_, codes := o.collect()
	return codes
}

func (o *Orchestrator) collect() ([]model.Value, []string) {
	if !o.Available() {
		return nil, nil
	}
	owner := o.instance.OwnerID()
	out := make([]model.Value, 0)
	var codes []string
	for _, u := range o.units {
		if !u.editable() {
			continue
		}
		edit := render.Edit{Input: u.input, State: u.state}
		values, controlled := u.binding.Renderer.ToWireValues(edit, o.instance.ValuesFor(u.attr.Code), u.attr)
		if !controlled {
			continue
		}
		codes = append(codes, u.attr.Code)
		for _, value := range values {
			if value.OwnerID == "" {
				value.OwnerID = owner
			}
			out = append(out, value)
		}
	}
	return out, codes
}

// Properties returns the properties view of the values Values would send.
func (o *Orchestrator) Properties() map[string]any {
	if !o.Available() {
		return map[string]any{}
	}
	return o.instance.SetValues(o.Values()).Properties()
}

// ApplyErrors routes server-reported errors to their attributes. Errors for
// another owner are dropped; codes that match no attribute are kept as form
// errors.
func (o *Orchestrator) ApplyErrors(errs []render.FieldError) {
	if !o.Available() || len(errs) == 0 {
		return
	}
	mapping := render.RouteErrors(o.instance.Definition(), o.instance.OwnerID(), errs)
	for _, u := range o.units {
		messages, ok := mapping.Fields[u.attr.Code]
		if !ok {
			continue
		}
		u.server = render.MergeFormErrors(u.server, messages...)
		u.status = StatusInvalid
	}
	o.formErrors = render.MergeFormErrors(o.formErrors, mapping.Form...)
	o.focus = ""
	for _, u := range o.units {
		if u.status == StatusInvalid {
			o.focus = u.attr.Code
			break
		}
	}
}

// ApplyErrorPayload routes a path-keyed server payload, see
// render.MapErrorPayload.
func (o *Orchestrator) ApplyErrorPayload(payload map[string][]string) {
	if !o.Available() {
		return
	}
	o.ApplyErrors(render.MapErrorPayload(o.instance.Definition(), payload))
}

// Commit adopts the values confirmed by the backend after a successful save
// and returns the new instance. Inputs, errors and confidential states are
// recomputed from the confirmed values.
func (o *Orchestrator) Commit(confirmed []model.Value) *form.Instance {
	if !o.Available() {
		return nil
	}
	o.instance = o.instance.SetValues(confirmed)
	o.formErrors = nil
	o.focus = ""
	o.reset(false)
	return o.instance
}

func (o *Orchestrator) applySettings() {
	if len(o.settings) == 0 {
		return
	}
	for _, attr := range o.instance.Attributes() {
		base, _ := o.instance.Definition().Attribute(attr.Code)
		merged := base
		matched := false
		for _, setting := range o.settings {
			if setting.Matches(base) {
				merged = setting.Apply(merged)
				matched = true
			}
		}
		if matched {
			o.instance = o.instance.SetAttribute(merged)
		}
	}
}

// reset rebuilds every unit from the instance's current values.
func (o *Orchestrator) reset(useDefaults bool) {
	o.units = o.units[:0]
	o.index = make(map[string]*unit)
	for _, attr := range o.instance.Attributes() {
		u := &unit{attr: attr}
		o.bind(u)
		if u.resolved {
			values := o.instance.ValuesFor(attr.Code)
			u.input = u.binding.Renderer.ToViewValue(values, u.attr, useDefaults)
		}
		if attr.Confidential {
			u.state = render.InitialConfidentialState(o.instance.HasValue(attr.Code))
			u.input = ""
		}
		o.units = append(o.units, u)
		if _, exists := o.index[attr.Code]; !exists {
			o.index[attr.Code] = u
		}
	}
}

// rebind refreshes descriptors and bindings after overrides changed the
// working instance, keeping inputs and states.
func (o *Orchestrator) rebind() {
	for _, u := range o.units {
		if attr, ok := o.instance.Attribute(u.attr.Code); ok {
			u.attr = attr
		}
		o.bind(u)
	}
}

func (o *Orchestrator) bind(u *unit) {
	binding, ok := o.registry.Resolve(u.attr)
	u.binding = binding
	u.resolved = ok
	if !ok {
		if logger.IsVerbose() {
			logger.Verbose("orchestrator: no renderer for", u.attr.Code, u.attr.PersistentType, u.attr.Face())
		}
		return
	}
	renderer := binding.Renderer
	if (u.attr.Multiple && !renderer.SupportsMultiple()) || (u.attr.Confidential && !renderer.SupportsConfidential()) {
		if logger.IsVerbose() {
			logger.Verbose("orchestrator: renderer cannot edit", u.attr.Code, "safely, forcing read-only")
		}
		u.attr.Readonly = true
	}
}

func (o *Orchestrator) editableUnit(code string) (*unit, error) {
	u, ok := o.index[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAttribute, code)
	}
	if !u.resolved {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, code)
	}
	if u.attr.Readonly {
		return nil, fmt.Errorf("%w: %s", ErrReadonly, code)
	}
	return u, nil
}

func (o *Orchestrator) view(u *unit) render.View {
	if !u.resolved {
		view := render.UnsupportedView(u.attr)
		view.Errors = u.messages()
		return view
	}
	return u.binding.Renderer.View(render.ViewContext{
		Attribute: u.attr,
		Input:     u.input,
		State:     u.state,
		Manager:   u.binding.Manager,
		Errors:    u.messages(),
	})
}
