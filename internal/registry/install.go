package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/scriptui/internal/codec"
	"github.com/vk/scriptui/internal/ctxlog"
	"github.com/vk/scriptui/internal/wrapgen"
	lua "github.com/yuin/gopher-lua"
)

// Install builds the global table named global in L: free functions and
// constants go into sub-tables per namespace, methods into the metatable
// of their receiver type. Methods named like metamethods (__tostring,
// __eq, ...) are set on the metatable itself.
func (r *Registry) Install(ctx context.Context, L *lua.LState, global string) error {
	logger := ctxlog.FromContext(ctx)
	if r.compiled == nil {
		if err := r.ValidateRegistry(ctx); err != nil {
			return err
		}
	}

	root := L.NewTable()
	sub := func(name string) *lua.LTable {
		if tb, ok := root.RawGetString(name).(*lua.LTable); ok {
			return tb
		}
		tb := L.NewTable()
		root.RawSetString(name, tb)
		return tb
	}

	for _, typeName := range sortedKeys(r.TypeRegistry) {
		def := r.TypeRegistry[typeName]
		mt := codec.Metatable(L, typeName)
		methods := L.NewTable()
		for _, d := range def.Methods {
			fn := L.NewFunction(r.compiled[descriptorKey(d)])
			switch {
			case d.Kind == wrapgen.KindFree:
				sub(d.Receiver).RawSetString(d.Name, fn)
			case strings.HasPrefix(d.Name, "__"):
				mt.RawSetString(d.Name, fn)
			default:
				methods.RawSetString(d.Name, fn)
			}
		}
		if len(def.Fields) == 0 {
			mt.RawSetString("__index", methods)
		} else {
			getters := make(map[string]*lua.LFunction, len(def.Fields))
			for _, d := range def.Fields {
				getters[d.Name] = L.NewFunction(r.compiled[descriptorKey(d)])
			}
			mt.RawSetString("__index", L.NewFunction(indexer(methods, getters)))
		}
		logger.Debug("Installed type.", "type", typeName, "methods", len(def.Methods), "fields", len(def.Fields))
	}

	for _, name := range sortedKeys(r.NamespaceRegistry) {
		ns := r.NamespaceRegistry[name]
		tb := sub(name)
		for _, key := range ns.ConstantNames() {
			lv, err := codec.FromCty(L, ns.Constants[key])
			if err != nil {
				return fmt.Errorf("namespace %q, constant %q: %w", name, key, err)
			}
			tb.RawSetString(key, lv)
		}
	}
	for _, name := range sortedKeys(r.ConstantRegistry) {
		tb := sub(name)
		for _, key := range sortedKeys(r.ConstantRegistry[name]) {
			lv, err := codec.ToLua(L, r.ConstantRegistry[name][key])
			if err != nil {
				return fmt.Errorf("namespace %q, constant %q: %w", name, key, err)
			}
			tb.RawSetString(key, lv)
		}
	}

	L.SetGlobal(global, root)
	logger.Info("Script namespace installed.", "global", global, "types", len(r.TypeRegistry), "namespaces", countKeys(root))
	return nil
}

// indexer serves methods first and then field getters, which receive the
// indexed value as their receiver.
func indexer(methods *lua.LTable, getters map[string]*lua.LFunction) lua.LGFunction {
	return func(L *lua.LState) int {
		key, ok := L.Get(2).(lua.LString)
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		if m := methods.RawGetString(string(key)); m != lua.LNil {
			L.Push(m)
			return 1
		}
		getter, ok := getters[string(key)]
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(getter)
		L.Push(L.Get(1))
		L.Call(1, 1)
		return 1
	}
}

func countKeys(tb *lua.LTable) int {
	n := 0
	tb.ForEach(func(lua.LValue, lua.LValue) { n++ })
	return n
}
