package codec

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// TypeRef is a parsed type expression such as `vec2`, `optional(align)` or
// `union(string, rich_text)`.
type TypeRef struct {
	Name   string
	Params []TypeRef
}

func (t TypeRef) String() string {
	if len(t.Params) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s(%s)", t.Name, strings.Join(parts, ", "))
}

// Named is a shorthand for a TypeRef without parameters.
func Named(name string) TypeRef { return TypeRef{Name: name} }

// ParseType parses a type expression from source text.
func ParseType(src string) (TypeRef, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(strings.TrimSpace(src)), "type", hcl.InitialPos)
	if diags.HasErrors() {
		return TypeRef{}, fmt.Errorf("invalid type expression %q: %w", src, diags)
	}
	return TypeFromExpr(expr)
}

// TypeFromExpr converts an HCL type expression into a TypeRef.
func TypeFromExpr(expr hcl.Expression) (TypeRef, error) {
	if expr == nil {
		return Named("any"), nil
	}

	switch v := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		switch v.Name {
		case "optional":
			if len(v.Args) != 1 {
				return TypeRef{}, fmt.Errorf("optional() requires exactly one argument, got %d", len(v.Args))
			}
		case "union":
			if len(v.Args) < 2 {
				return TypeRef{}, fmt.Errorf("union() requires at least two arguments, got %d", len(v.Args))
			}
		default:
			return TypeRef{}, fmt.Errorf("unknown type constructor %q", v.Name)
		}
		ref := TypeRef{Name: v.Name}
		for _, arg := range v.Args {
			inner, err := TypeFromExpr(arg)
			if err != nil {
				return TypeRef{}, fmt.Errorf("in %s(): %w", v.Name, err)
			}
			ref.Params = append(ref.Params, inner)
		}
		return ref, nil

	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return TypeRef{}, fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		return Named(v.Traversal.RootName()), nil

	default:
		return TypeRef{}, fmt.Errorf("unsupported expression for type definition: %T", v)
	}
}
