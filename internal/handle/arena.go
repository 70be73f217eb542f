// Package handle brackets the script visibility of borrowed host objects.
//
// A host object is only reachable from script code through a handle: a
// userdata holding a (slot, generation) reference into an Arena. The slot is
// revoked when the scope that created it exits, however it exits, so a
// handle kept by script code past its scope resolves to an error instead of
// a dangling object.
package handle

import (
	"log/slog"
	"reflect"

	"github.com/vk/scriptui/internal/codec"
	lua "github.com/yuin/gopher-lua"
)

// Ref is the value stored in a handle userdata.
type Ref struct {
	Index      int
	Generation uint64
	Type       string
}

type slot struct {
	generation uint64
	live       bool
	obj        any
	typeName   string
	mutable    bool
	ud         *lua.LUserData
}

// Arena owns the slots of all handles of one script state. It is not safe
// for concurrent use.
type Arena struct {
	logger *slog.Logger
	slots  []slot
	free   []int
	byObj  map[any]int
	fatal  error
}

func NewArena(logger *slog.Logger) *Arena {
	if logger == nil {
		logger = slog.Default()
	}
	return &Arena{logger: logger, byObj: make(map[any]int)}
}

// Enter makes obj visible to script code as a handle of the named type for
// the duration of fn. The handle is revoked when fn returns or panics.
func (a *Arena) Enter(L *lua.LState, typeName string, obj any, mutable bool, fn func(ud *lua.LUserData) error) error {
	if a.fatal != nil {
		return a.fatal
	}
	key, tracked := identity(obj)
	if tracked {
		if idx, busy := a.byObj[key]; busy {
			return &BorrowConflictError{Type: typeName, HeldAs: a.slots[idx].typeName}
		}
	}

	idx := a.alloc()
	s := &a.slots[idx]
	s.live = true
	s.obj = obj
	s.typeName = typeName
	s.mutable = mutable
	ref := Ref{Index: idx, Generation: s.generation, Type: typeName}

	ud := L.NewUserData()
	ud.Value = ref
	ud.Metatable = codec.Metatable(L, typeName)
	s.ud = ud
	if tracked {
		a.byObj[key] = idx
	}
	a.logger.Debug("Scope entered.", "type", typeName, "slot", idx, "generation", ref.Generation)

	defer a.revoke(ref, key, tracked)
	return fn(ud)
}

func (a *Arena) alloc() int {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		return idx
	}
	a.slots = append(a.slots, slot{})
	return len(a.slots) - 1
}

func (a *Arena) revoke(ref Ref, key any, tracked bool) {
	s := &a.slots[ref.Index]
	if !s.live || s.generation != ref.Generation {
		err := &TeardownError{Type: ref.Type, Index: ref.Index, Want: ref.Generation, Got: s.generation}
		a.fatal = err
		a.logger.Error("Handle teardown failed.", "error", err)
		panic(err)
	}
	s.generation++
	s.live = false
	s.obj = nil
	s.ud = nil
	if tracked {
		delete(a.byObj, key)
	}
	a.free = append(a.free, ref.Index)
	a.logger.Debug("Scope exited.", "type", ref.Type, "slot", ref.Index)
}

// Resolve returns the object behind a handle.
func (a *Arena) Resolve(lv lua.LValue, typeName string, wantMutable bool) (any, error) {
	ud, ok := lv.(*lua.LUserData)
	if !ok {
		return nil, codec.Mismatch(lv, typeName)
	}
	ref, ok := ud.Value.(Ref)
	if !ok {
		return nil, codec.Mismatch(lv, typeName)
	}
	if ref.Type != typeName {
		return nil, &codec.ConversionError{From: ref.Type, To: typeName}
	}
	if a.fatal != nil {
		return nil, a.fatal
	}
	if ref.Index >= len(a.slots) {
		return nil, &ScopeViolationError{Type: ref.Type, Index: ref.Index, Generation: ref.Generation}
	}
	s := &a.slots[ref.Index]
	if !s.live || s.generation != ref.Generation {
		return nil, &ScopeViolationError{Type: ref.Type, Index: ref.Index, Generation: ref.Generation}
	}
	if wantMutable && !s.mutable {
		return nil, &MutabilityError{Type: ref.Type}
	}
	return s.obj, nil
}

// Lookup returns the live handle of obj, if it has one.
func (a *Arena) Lookup(obj any) (*lua.LUserData, bool) {
	key, tracked := identity(obj)
	if !tracked {
		return nil, false
	}
	idx, ok := a.byObj[key]
	if !ok {
		return nil, false
	}
	return a.slots[idx].ud, true
}

// Live is the number of handles currently in scope.
func (a *Arena) Live() int {
	return len(a.slots) - len(a.free)
}

// Err returns the teardown failure that poisoned the arena, if any.
func (a *Arena) Err() error { return a.fatal }

// identity keys exclusive borrows by pointer identity. Values that are not
// pointers are never tracked.
func identity(obj any) (any, bool) {
	if obj == nil {
		return nil, false
	}
	if reflect.TypeOf(obj).Kind() != reflect.Pointer {
		return nil, false
	}
	return obj, true
}
