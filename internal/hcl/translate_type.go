// This file parses the `returns` tuple of a method block into type
// references.

package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/scriptui/internal/codec"
)

// returnTypes converts `returns = [vec2, optional(response)]`. Each element
// is a type expression, not a value, so the tuple is walked syntactically.
func returnTypes(expr hcl.Expression) ([]codec.TypeRef, error) {
	if isNullExpr(expr) {
		return nil, nil
	}
	elems, diags := hcl.ExprList(expr)
	if diags.HasErrors() {
		return nil, fmt.Errorf("returns must be a list of types: %w", diags)
	}
	refs := make([]codec.TypeRef, 0, len(elems))
	for i, e := range elems {
		ref, err := codec.TypeFromExpr(e)
		if err != nil {
			return nil, fmt.Errorf("return %d: %w", i+1, err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
