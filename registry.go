package enumfields

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// A Registry maps references to Types.
//
// A Registry is populated at startup, typically from init functions,
// so that Fields can refer to a Type by name,
// for instance in serialized migration metadata.
//
// A Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*namespace
	logger  *slog.Logger
}

// A namespace is one segment of a qualified name.
// It may hold a Type, nested namespaces, or both.
type namespace struct {
	typ      *Type
	children map[string]*namespace
}

func newNamespace() *namespace { return &namespace{children: make(map[string]*namespace)} }

// NewRegistry constructs an empty Registry.
func NewRegistry(opts ...RegistryOptFn) *Registry {
	r := &Registry{
		modules: make(map[string]*namespace),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// DefaultRegistry is the Registry used by the package-level functions.
var DefaultRegistry = NewRegistry()

// Register adds t to the DefaultRegistry.
func Register(t *Type) error { return DefaultRegistry.Register(t) }

// MustRegister adds t to the DefaultRegistry, panicking on error, and returns t.
func MustRegister(t *Type) *Type { return DefaultRegistry.MustRegister(t) }

// Resolve resolves components using the DefaultRegistry.
func Resolve(components ...string) (*Type, error) { return DefaultRegistry.Resolve(components...) }

// Register adds t under its Module and QualName.
//
// If a different Type is already registered under the same path, Register returns ErrBadConfig.
// Registering the same *Type twice is a no-op.
func (r *Registry) Register(t *Type) error { return r.RegisterAll(t) }

// RegisterAll adds every Type in types, or none of them:
// each path is checked against the Registry and the rest of types before any is added.
func (r *Registry) RegisterAll(types ...*Type) error {
	segs := make([][]string, len(types))
	seen := make(map[string]*Type, len(types))
	for i, t := range types {
		if t == nil {
			return fmt.Errorf("%w: cannot register nil Type", ErrBadConfig)
		}

		segs[i] = strings.Split(t.QualName, ".")
		for _, seg := range segs[i] {
			if seg == "" {
				return fmt.Errorf("%w: %q has an empty segment", ErrBadConfig, t.QualName)
			}
		}

		if other, ok := seen[t.Path()]; ok && other != t {
			return fmt.Errorf("%w: %s declared twice", ErrBadConfig, t.Path())
		}

		seen[t.Path()] = t
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range types {
		if ns := r.find(t.Module, segs[i]); ns != nil && ns.typ != nil && ns.typ != t {
			return fmt.Errorf("%w: %s already registered", ErrBadConfig, t.Path())
		}
	}

	for i, t := range types {
		mod, ok := r.modules[t.Module]
		if !ok {
			mod = newNamespace()
			r.modules[t.Module] = mod
		}

		ns := mod
		for _, seg := range segs[i] {
			child, ok := ns.children[seg]
			if !ok {
				child = newNamespace()
				ns.children[seg] = child
			}

			ns = child
		}

		ns.typ = t
		r.logger.Debug("registered enum", "path", t.Path(), "members", t.Len())
	}

	return nil
}

// find walks module and segs without creating namespaces. The caller holds mu.
func (r *Registry) find(module string, segs []string) *namespace {
	ns, ok := r.modules[module]
	if !ok {
		return nil
	}

	for _, seg := range segs {
		if ns, ok = ns.children[seg]; !ok {
			return nil
		}
	}

	return ns
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(t *Type) *Type {
	if err := r.Register(t); err != nil {
		panic(err)
	}

	return t
}

// Resolve finds the Type referenced by components.
//
// A single component is a dotted path, e.g. "app.colors.Color":
// everything before the last dot names the module, the last segment names the Type.
//
// Two components are a module and a qualified name, e.g. {"app.colors", "Palette.Color"};
// each segment of the qualified name is resolved in turn.
//
// Any other number of components returns ErrBadReference.
// A segment that does not resolve returns ErrNotExist.
func (r *Registry) Resolve(components ...string) (*Type, error) {
	switch len(components) {
	case 1:
		path := components[0]
		i := strings.LastIndexByte(path, '.')
		if i <= 0 || i == len(path)-1 {
			return nil, fmt.Errorf("%w: %q is not a dotted path", ErrBadReference, path)
		}

		return r.lookup(path[:i], path[i+1:])

	case 2:
		return r.lookup(components[0], components[1])

	default:
		return nil, fmt.Errorf("%w: expected 1 or 2 components, got %d", ErrBadReference, len(components))
	}
}

func (r *Registry) lookup(module, qualName string) (*Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ns, ok := r.modules[module]
	if !ok {
		return nil, fmt.Errorf("%w: module %q", ErrNotExist, module)
	}

	for _, seg := range strings.Split(qualName, ".") {
		child, ok := ns.children[seg]
		if !ok {
			return nil, fmt.Errorf("%w: module %q has no attribute %q", ErrNotExist, module, seg)
		}

		ns = child
	}

	if ns.typ == nil {
		return nil, fmt.Errorf("%w: %s.%s is not an enum", ErrNotExist, module, qualName)
	}

	return ns.typ, nil
}

// Types returns every registered Type, ordered by path.
func (r *Registry) Types() []*Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Type
	var walk func(ns *namespace)
	walk = func(ns *namespace) {
		if ns.typ != nil {
			out = append(out, ns.typ)
		}

		for _, child := range ns.children {
			walk(child)
		}
	}

	for _, mod := range r.modules {
		walk(mod)
	}

	sortTypes(out)

	return out
}

// resolveRef turns the forms a Field accepts for its enum into a Type.
func (r *Registry) resolveRef(ref any) (*Type, error) {
	switch v := ref.(type) {
	case *Type:
		if v == nil {
			return nil, fmt.Errorf("%w: nil Type", ErrBadReference)
		}

		return v, nil
	case string:
		return r.Resolve(v)
	case []string:
		return r.Resolve(v...)
	case [2]string:
		return r.Resolve(v[:]...)
	default:
		return nil, fmt.Errorf("%w: unsupported reference %T", ErrBadReference, ref)
	}
}

func sortTypes(types []*Type) {
	sort.Slice(types, func(i, j int) bool { return types[i].Path() < types[j].Path() })
}
