// This file translates the HCL schema structs into the format-agnostic
// binding model defined in the config package.

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/scriptui/internal/codec"
	"github.com/vk/scriptui/internal/config"
	"github.com/vk/scriptui/internal/ctxlog"
	"github.com/vk/scriptui/internal/schema"
	"github.com/vk/scriptui/internal/wrapgen"
	"github.com/zclconf/go-cty/cty"
)

// translateType converts a type block. Method blocks come first, in order,
// followed by the wrap lines.
func translateType(ctx context.Context, t *schema.TypeBlock, source string) (*config.TypeDefinition, error) {
	logger := ctxlog.FromContext(ctx)
	def := &config.TypeDefinition{
		Name:        t.Name,
		Description: t.Description,
		Namespace:   t.Namespace,
		Source:      source,
	}
	if def.Namespace == "" {
		def.Namespace = t.Name
	}

	for _, m := range t.Methods {
		d, err := translateMethod(m, t.Name)
		if err != nil {
			return nil, err
		}
		for i, a := range d.Args {
			if a.Type.Name == "any" {
				logger.Warn("Argument accepts any value; it is passed through unconverted.", "type", t.Name, "method", d.Name, "argument", i+1)
			}
		}
		def.Methods = append(def.Methods, placeFree(d, def.Namespace))
	}

	lines, err := wrapgen.ParseLines(t.Name, t.Wrap)
	if err != nil {
		return nil, err
	}
	for _, d := range lines {
		def.Methods = append(def.Methods, placeFree(d, def.Namespace))
	}

	for _, f := range t.Fields {
		ret, err := codec.TypeFromExpr(f.Type)
		if err != nil {
			return nil, fmt.Errorf("type %q, field %q: %w", t.Name, f.Name, err)
		}
		d := wrapgen.Descriptor{
			Kind:     wrapgen.KindMethod,
			Receiver: t.Name,
			Name:     f.Name,
			Handler:  f.Handler,
			Returns:  []codec.TypeRef{ret},
		}
		if err := d.Validate(); err != nil {
			return nil, err
		}
		def.Fields = append(def.Fields, d)
	}

	logger.Debug("Translated type definition.", "type", def.Name, "methods", len(def.Methods), "fields", len(def.Fields))
	return def, nil
}

// placeFree moves a free function into the type's namespace.
func placeFree(d wrapgen.Descriptor, namespace string) wrapgen.Descriptor {
	if d.Kind == wrapgen.KindFree {
		d.Receiver = namespace
	}
	return d
}

func translateMethod(m *schema.MethodBlock, owner string) (wrapgen.Descriptor, error) {
	d := wrapgen.Descriptor{
		Receiver: owner,
		Name:     m.Name,
		Handler:  m.Handler,
		Override: m.Override,
	}
	fail := func(err error) (wrapgen.Descriptor, error) {
		return wrapgen.Descriptor{}, fmt.Errorf("type %q, method %q: %w", owner, m.Name, err)
	}

	kind, err := wrapgen.ParseKind(m.Kind)
	if err != nil {
		return fail(err)
	}
	d.Kind = kind

	for i, a := range m.Args {
		ref, err := codec.TypeFromExpr(a.Type)
		if err != nil {
			return fail(fmt.Errorf("argument %d: %w", i+1, err))
		}
		arg := wrapgen.Arg{Type: ref}
		if a.Directive != "" {
			dir, hook, err := wrapgen.ParseDirective(a.Directive)
			if err != nil {
				return fail(fmt.Errorf("argument %d: %w", i+1, err))
			}
			arg.Directive, arg.Hook = dir, hook
		}
		if a.Hook != "" {
			arg.Directive, arg.Hook = wrapgen.DirCustom, a.Hook
		}
		d.Args = append(d.Args, arg)
	}

	rets, err := returnTypes(m.Returns)
	if err != nil {
		return fail(err)
	}
	d.Returns = rets

	if err := d.Validate(); err != nil {
		return wrapgen.Descriptor{}, err
	}
	return d, nil
}

// translateNamespace evaluates the constants object of a namespace block.
func translateNamespace(ctx context.Context, ns *schema.NamespaceBlock, source string) (*config.NamespaceDefinition, error) {
	def := &config.NamespaceDefinition{
		Name:        ns.Name,
		Description: ns.Description,
		Constants:   make(map[string]cty.Value),
		Source:      source,
	}
	if ns.Constants == nil {
		return def, nil
	}
	val, diags := ns.Constants.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("namespace %q: invalid constants: %w", ns.Name, diags)
	}
	if val.IsNull() {
		return def, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("namespace %q: constants must be an object, got %s", ns.Name, val.Type().FriendlyName())
	}
	for name, v := range val.AsValueMap() {
		def.Constants[name] = v
	}
	ctxlog.FromContext(ctx).Debug("Translated namespace.", "namespace", def.Name, "constants", len(def.Constants))
	return def, nil
}

// isNullExpr reports whether expr is absent. gohcl fills missing optional
// expression attributes with a static null.
func isNullExpr(expr hcl.Expression) bool {
	if expr == nil {
		return true
	}
	if len(expr.Variables()) > 0 {
		return false
	}
	v, diags := expr.Value(nil)
	return !diags.HasErrors() && v.IsNull()
}
