package form

import (
	"sort"
	"strings"

	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-eavform/pkg/model"
)

// PropertySeparator joins multi-valued attributes in the properties view.
// Values that contain the separator do not survive a properties round-trip.
const PropertySeparator = ","

// Instance pairs a Definition with the values of one owner. It is immutable:
// every setter returns a new Instance and leaves the receiver untouched, so
// one Instance can back any number of read-only views.
type Instance struct {
	definition model.Definition
	attributes []model.Attribute
	index      map[string]int
	values     map[string][]model.Value
	extra      []string
	ownerID    string
	seed       []model.Value
}

// Option configures a new Instance.
type Option func(*Instance)

// WithOwner sets the owner identifier of the instance.
func WithOwner(id string) Option {
	return func(i *Instance) {
		i.ownerID = strings.TrimSpace(id)
	}
}

// WithValues seeds the instance with a flat list of values, grouped the same
// way SetValues groups them.
func WithValues(values []model.Value) Option {
	return func(i *Instance) {
		i.seed = append(i.seed[:0:0], values...)
	}
}

// New builds an Instance for def. The definition's attribute slice is copied
// once and shared by every instance derived from the result.
func New(def model.Definition, options ...Option) *Instance {
	inst := &Instance{
		definition: def,
		attributes: append([]model.Attribute(nil), def.Attributes...),
		values:     make(map[string][]model.Value),
	}
	inst.index = indexAttributes(inst.attributes)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(inst)
	}
	if len(inst.seed) > 0 {
		inst.values, inst.extra = inst.group(inst.seed)
		inst.seed = nil
	}
	return inst
}

// Definition returns the definition the instance was created from. Overrides
// applied through SetAttribute are not reflected here.
func (i *Instance) Definition() model.Definition {
	return i.definition
}

// OwnerID returns the owner identifier, empty when the instance belongs to an
// entity that does not exist yet.
func (i *Instance) OwnerID() string {
	return i.ownerID
}

// WithOwner returns a copy of the instance bound to another owner.
func (i *Instance) WithOwner(id string) *Instance {
	next := i.clone()
	next.ownerID = strings.TrimSpace(id)
	return next
}

// Attributes returns the working attribute list in render order, with any
// SetAttribute overrides applied.
func (i *Instance) Attributes() []model.Attribute {
	return append([]model.Attribute(nil), i.attributes...)
}

// Attribute looks up the working descriptor for code.
func (i *Instance) Attribute(code string) (model.Attribute, bool) {
	idx, ok := i.index[code]
	if !ok {
		return model.Attribute{}, false
	}
	return i.attributes[idx], true
}

// SetAttribute returns a copy of the instance whose working view holds attr
// in place of the descriptor with the same code. Multiple and Confidential
// are fixed by the definition and are carried over from the current
// descriptor. Unknown codes leave the view unchanged.
func (i *Instance) SetAttribute(attr model.Attribute) *Instance {
	idx, ok := i.index[attr.Code]
	if !ok {
		return i
	}
	current := i.attributes[idx]
	attr = attr.Clone()
	attr.Multiple = current.Multiple
	attr.Confidential = current.Confidential

	next := i.clone()
	next.attributes = append([]model.Attribute(nil), i.attributes...)
	next.attributes[idx] = attr
	return next
}

// Values returns every value in attribute order, then seq order. Values of
// codes missing from the definition follow, in order of first appearance.
func (i *Instance) Values() []model.Value {
	out := make([]model.Value, 0)
	for _, attr := range i.attributes {
		out = append(out, i.values[attr.Code]...)
	}
	for _, code := range i.extra {
		out = append(out, i.values[code]...)
	}
	return out
}

// ValuesFor returns the ordered values of one attribute, never nil.
func (i *Instance) ValuesFor(code string) []model.Value {
	return append([]model.Value{}, i.values[code]...)
}

// SingleValue returns the first value of code.
func (i *Instance) SingleValue(code string) (model.Value, bool) {
	values := i.values[code]
	if len(values) == 0 {
		return model.Value{}, false
	}
	return values[0], true
}

// HasValue reports whether code holds at least one value, masked or not.
func (i *Instance) HasValue(code string) bool {
	return len(i.values[code]) > 0
}

// SetValues rebuilds the grouped value map from a flat list and returns a new
// Instance. Within an attribute, values are ordered by Seq with ties kept in
// input order, then renumbered from zero.
func (i *Instance) SetValues(values []model.Value) *Instance {
	next := i.clone()
	next.values, next.extra = next.group(values)
	return next
}

func (i *Instance) group(values []model.Value) (map[string][]model.Value, []string) {
	grouped := make(map[string][]model.Value)
	var extra []string
	for _, value := range values {
		code := value.AttributeCode
		if _, seen := grouped[code]; !seen {
			if _, known := i.index[code]; !known {
				extra = append(extra, code)
			}
		}
		if value.OwnerID == "" {
			value.OwnerID = i.ownerID
		}
		grouped[code] = append(grouped[code], value)
	}

	for code, group := range grouped {
		sort.SliceStable(group, func(a, b int) bool {
			return group[a].Seq < group[b].Seq
		})
		if attr, ok := i.Attribute(code); ok && !attr.Multiple && len(group) > 1 {
			if logger.IsVerbose() {
				logger.Verbose("form: dropping", len(group)-1, "extra values of single-valued attribute", code)
			}
			group = group[:1]
		}
		for idx := range group {
			group[idx].Seq = idx
		}
		grouped[code] = group
	}
	return grouped, extra
}

func (i *Instance) clone() *Instance {
	next := *i
	return &next
}

func indexAttributes(attrs []model.Attribute) map[string]int {
	index := make(map[string]int, len(attrs))
	for idx, attr := range attrs {
		if _, exists := index[attr.Code]; exists {
			continue
		}
		index[attr.Code] = idx
	}
	return index
}
