package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-eavform/pkg/model"
)

var (
	// ErrDuplicateBinding is returned when a (persistent type, face) pair is
	// registered twice.
	ErrDuplicateBinding = errors.New("render: binding already registered")
	// ErrNilRenderer is returned when Register receives a nil renderer.
	ErrNilRenderer = errors.New("render: renderer is required")
)

// Binding is the result of a registry lookup.
type Binding struct {
	PersistentType model.PersistentType
	FaceType       string
	Renderer       Renderer
	Manager        Manager
}

type bindingKey struct {
	persistentType model.PersistentType
	face           string
}

func (k bindingKey) String() string {
	if k.face == model.FaceDefault {
		return string(k.persistentType)
	}
	return string(k.persistentType) + "/" + k.face
}

// Registry maps (persistent type, face type) pairs to renderers. It is meant
// to be populated once at startup and read afterwards; the lock only keeps
// late registrations from racing readers.
type Registry struct {
	mu       sync.RWMutex
	bindings map[bindingKey]Binding
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		bindings: make(map[bindingKey]Binding),
	}
}

// Register binds renderer (and an optional manager) to a kind. Use
// model.FaceDefault as face for the persistent type's default presentation.
func (r *Registry) Register(persistentType model.PersistentType, face string, renderer Renderer, manager Manager) error {
	if renderer == nil {
		return ErrNilRenderer
	}
	key := newBindingKey(persistentType, face)
	if key.persistentType == "" {
		return fmt.Errorf("render: persistent type is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bindings[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateBinding, key)
	}
	r.bindings[key] = Binding{
		PersistentType: key.persistentType,
		FaceType:       key.face,
		Renderer:       renderer,
		Manager:        manager,
	}
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(persistentType model.PersistentType, face string, renderer Renderer, manager Manager) {
	if err := r.Register(persistentType, face, renderer, manager); err != nil {
		panic(err)
	}
}

// Resolve finds the binding for attr: the exact (type, face) pair first,
// then the type's default face. The boolean is false when the kind is not
// supported at all.
func (r *Registry) Resolve(attr model.Attribute) (Binding, bool) {
	if r == nil {
		return Binding{}, false
	}
	key := newBindingKey(attr.PersistentType, attr.Face())

	r.mu.RLock()
	defer r.mu.RUnlock()

	if binding, ok := r.bindings[key]; ok {
		return binding, true
	}
	if key.face != model.FaceDefault {
		if binding, ok := r.bindings[bindingKey{persistentType: key.persistentType}]; ok {
			return binding, true
		}
	}
	return Binding{}, false
}

// Has reports whether an exact binding exists.
func (r *Registry) Has(persistentType model.PersistentType, face string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.bindings[newBindingKey(persistentType, face)]
	return ok
}

// Kinds lists registered bindings as "type" or "type/face", sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.bindings))
	for key := range r.bindings {
		kinds = append(kinds, key.String())
	}
	sort.Strings(kinds)
	return kinds
}

func newBindingKey(persistentType model.PersistentType, face string) bindingKey {
	ptype := model.PersistentType(strings.ToLower(strings.TrimSpace(string(persistentType))))
	face = strings.ToLower(strings.TrimSpace(face))
	if face == string(ptype) {
		face = model.FaceDefault
	}
	return bindingKey{persistentType: ptype, face: face}
}
