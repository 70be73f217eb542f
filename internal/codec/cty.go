package codec

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// FromCty converts a known cty value (typically a manifest constant) into a
// script value. Objects and maps become string-keyed tables; lists, sets and
// tuples become sequences.
func FromCty(L *lua.LState, v cty.Value) (lua.LValue, error) {
	if v.IsNull() {
		return lua.LNil, nil
	}
	if !v.IsKnown() {
		return nil, fmt.Errorf("cannot convert unknown value of type %s", v.Type().FriendlyName())
	}
	v, _ = v.Unmark()

	t := v.Type()
	if t.IsSetType() {
		list, err := convert.Convert(v, cty.List(t.ElementType()))
		if err != nil {
			return nil, err
		}
		v, t = list, list.Type()
	}
	switch {
	case t == cty.String:
		return lua.LString(v.AsString()), nil
	case t == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, err
		}
		return lua.LNumber(f), nil
	case t == cty.Bool:
		return lua.LBool(v.True()), nil
	case t.IsObjectType() || t.IsMapType():
		tb := L.NewTable()
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			lv, err := FromCty(L, ev)
			if err != nil {
				return nil, fmt.Errorf("attribute %q: %w", k.AsString(), err)
			}
			tb.RawSetString(k.AsString(), lv)
		}
		return tb, nil
	case t.IsListType() || t.IsTupleType():
		tb := L.NewTable()
		i := 0
		for it := v.ElementIterator(); it.Next(); {
			i++
			_, ev := it.Element()
			lv, err := FromCty(L, ev)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			tb.RawSetInt(i, lv)
		}
		return tb, nil
	}
	return nil, fmt.Errorf("unsupported cty type %s", t.FriendlyName())
}
