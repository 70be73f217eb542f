package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/scriptui/internal/ctxlog"
	"github.com/vk/scriptui/internal/wrapgen"
	lua "github.com/yuin/gopher-lua"
)

// ValidateRegistry performs a strict parity check between manifests and Go
// code. Every descriptor must bind a registered handler or override whose
// signature matches its declared types, and every registered handler must be
// bound by some descriptor. The generated wrappers are kept for Install.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	gen := wrapgen.NewGenerator(r.Codecs, r.HookRegistry, r.OverrideRegistry)
	compiled := make(map[string]lua.LGFunction)
	usedHandlers := make(map[string]bool)
	usedOverrides := make(map[string]bool)

	for _, typeName := range sortedKeys(r.TypeRegistry) {
		def := r.TypeRegistry[typeName]
		for _, d := range append(append([]wrapgen.Descriptor{}, def.Methods...), def.Fields...) {
			key := descriptorKey(d)
			if _, dup := compiled[key]; dup {
				errs = append(errs, fmt.Sprintf("type '%s': operation '%s' is declared twice", typeName, d.Operation()))
				continue
			}
			var fn any
			if d.Override != "" {
				usedOverrides[d.Override] = true
			} else {
				name := d.HandlerName()
				h, ok := r.HandlerRegistry[name]
				if !ok {
					errs = append(errs, fmt.Sprintf("type '%s': manifest binds '%s' to handler '%s' which is not registered", typeName, d.Operation(), name))
					continue
				}
				usedHandlers[name] = true
				fn = h
			}
			wrapper, err := gen.Generate(d, fn)
			if err != nil {
				errs = append(errs, fmt.Sprintf("type '%s': %v", typeName, err))
				continue
			}
			compiled[key] = wrapper
		}
	}

	for _, name := range sortedKeys(r.HandlerRegistry) {
		if !usedHandlers[name] {
			errs = append(errs, fmt.Sprintf("handler '%s' is registered in Go but no manifest binds it", name))
		}
	}
	for _, name := range sortedKeys(r.OverrideRegistry) {
		if !usedOverrides[name] {
			logger.Warn("Override is registered but no manifest uses it.", "override", name)
		}
	}
	errs = append(errs, r.validateNamespaces()...)

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	r.compiled = compiled
	logger.Debug("Registry validated.", "types", len(r.TypeRegistry), "operations", len(compiled))
	return nil
}

// validateNamespaces rejects constants that would overwrite a free function
// installed into the same script table.
func (r *Registry) validateNamespaces() []string {
	functions := make(map[string]map[string]bool)
	for _, def := range r.TypeRegistry {
		for _, d := range def.Methods {
			if d.Kind != wrapgen.KindFree {
				continue
			}
			if functions[d.Receiver] == nil {
				functions[d.Receiver] = make(map[string]bool)
			}
			functions[d.Receiver][d.Name] = true
		}
	}

	var errs []string
	check := func(ns, name string) {
		if functions[ns][name] {
			errs = append(errs, fmt.Sprintf("namespace '%s': constant '%s' collides with a function of the same name", ns, name))
		}
	}
	for _, ns := range sortedKeys(r.NamespaceRegistry) {
		for _, name := range r.NamespaceRegistry[ns].ConstantNames() {
			check(ns, name)
		}
	}
	for _, ns := range sortedKeys(r.ConstantRegistry) {
		for _, name := range sortedKeys(r.ConstantRegistry[ns]) {
			check(ns, name)
			if def, ok := r.NamespaceRegistry[ns]; ok {
				if _, dup := def.Constants[name]; dup {
					errs = append(errs, fmt.Sprintf("namespace '%s': constant '%s' is defined in both Go and %s", ns, name, def.Source))
				}
			}
		}
	}
	return errs
}

// descriptorKey names the script slot a descriptor fills. Free functions
// live in namespace tables, everything else in metatables.
func descriptorKey(d wrapgen.Descriptor) string {
	if d.Kind == wrapgen.KindFree {
		return "f:" + d.Operation()
	}
	return d.Operation()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
