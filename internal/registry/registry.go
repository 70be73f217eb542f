package registry

import (
	"fmt"
	"log/slog"

	"github.com/vk/scriptui/internal/codec"
	"github.com/vk/scriptui/internal/config"
	"github.com/vk/scriptui/internal/wrapgen"
	lua "github.com/yuin/gopher-lua"
)

// Module is the interface that all binding modules implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the handlers, hooks, overrides, codecs and definitions of
// a single application instance.
type Registry struct {
	Codecs            *codec.Registry
	HandlerRegistry   map[string]any
	HookRegistry      map[string]wrapgen.Hook
	OverrideRegistry  map[string]lua.LGFunction
	ConstantRegistry  map[string]map[string]any
	TypeRegistry      map[string]*config.TypeDefinition
	NamespaceRegistry map[string]*config.NamespaceDefinition
	ManifestRegistry  []config.Source
	compiled          map[string]lua.LGFunction
}

// New creates a Registry whose codec registry already knows the built-in
// and gui value types.
func New() *Registry {
	codecs := codec.NewRegistry()
	codec.RegisterBuiltins(codecs)
	codec.RegisterGUI(codecs)
	return &Registry{
		Codecs:            codecs,
		HandlerRegistry:   make(map[string]any),
		HookRegistry:      make(map[string]wrapgen.Hook),
		OverrideRegistry:  make(map[string]lua.LGFunction),
		ConstantRegistry:  make(map[string]map[string]any),
		TypeRegistry:      make(map[string]*config.TypeDefinition),
		NamespaceRegistry: make(map[string]*config.NamespaceDefinition),
	}
}

// RegisterHandler registers the Go function bound by a descriptor.
func (r *Registry) RegisterHandler(name string, fn any) {
	if _, exists := r.HandlerRegistry[name]; exists {
		panic(fmt.Sprintf("handler with name '%s' already registered", name))
	}
	slog.Debug("Registering handler.", "name", name)
	r.HandlerRegistry[name] = fn
}

// RegisterHook registers the decoder of a custom argument directive.
func (r *Registry) RegisterHook(name string, hook wrapgen.Hook) {
	if _, exists := r.HookRegistry[name]; exists {
		panic(fmt.Sprintf("hook with name '%s' already registered", name))
	}
	slog.Debug("Registering hook.", "name", name, "type", hook.GoType)
	r.HookRegistry[name] = hook
}

// RegisterOverride registers a hand-written wrapper.
func (r *Registry) RegisterOverride(name string, fn lua.LGFunction) {
	if _, exists := r.OverrideRegistry[name]; exists {
		panic(fmt.Sprintf("override with name '%s' already registered", name))
	}
	slog.Debug("Registering override.", "name", name)
	r.OverrideRegistry[name] = fn
}

// RegisterConstant adds a Go value to a script namespace table.
func (r *Registry) RegisterConstant(namespace, name string, v any) {
	ns, ok := r.ConstantRegistry[namespace]
	if !ok {
		ns = make(map[string]any)
		r.ConstantRegistry[namespace] = ns
	}
	if _, exists := ns[name]; exists {
		panic(fmt.Sprintf("constant '%s.%s' already registered", namespace, name))
	}
	ns[name] = v
}

// RegisterCodec adds a module-specific codec.
func (r *Registry) RegisterCodec(c codec.Codec) {
	slog.Debug("Registering codec.", "name", c.Name())
	r.Codecs.Register(c)
}

// RegisterManifest adds an embedded manifest to be loaded at startup.
func (r *Registry) RegisterManifest(name string, data []byte) {
	slog.Debug("Registering manifest.", "name", name)
	r.ManifestRegistry = append(r.ManifestRegistry, config.Source{Name: name, Data: data})
}

// PopulateDefinitionsFromModel copies loaded definitions into the registry.
// Redefining a type or namespace is an error.
func (r *Registry) PopulateDefinitionsFromModel(model *config.Model) error {
	for name, def := range model.Types {
		if prev, ok := r.TypeRegistry[name]; ok {
			return fmt.Errorf("type %q is defined in both %s and %s", name, prev.Source, def.Source)
		}
		r.TypeRegistry[name] = def
	}
	for name, def := range model.Namespaces {
		if prev, ok := r.NamespaceRegistry[name]; ok {
			return fmt.Errorf("namespace %q is defined in both %s and %s", name, prev.Source, def.Source)
		}
		r.NamespaceRegistry[name] = def
	}
	r.compiled = nil
	return nil
}
