package relay

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// RegistryField is the key of the relay table in the Lua registry.
const RegistryField = "scriptui.relay"

// Key identifies one stored entry.
type Key uint64

func (k Key) String() string { return fmt.Sprintf("relay#%d", uint64(k)) }

// KeyError is returned by Take for a key that is unknown or already taken.
type KeyError struct {
	Key Key
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("relay key %s is unknown or was already taken", e.Key)
}

// LeakError is returned by Balance when entries were stored but never taken.
type LeakError struct {
	Baseline    int
	Outstanding []Key
}

func (e *LeakError) Error() string {
	keys := make([]string, len(e.Outstanding))
	for i, k := range e.Outstanding {
		keys[i] = k.String()
	}
	return fmt.Sprintf("relay store leaked %d entries (baseline %d): %s",
		len(e.Outstanding)-e.Baseline, e.Baseline, strings.Join(keys, ", "))
}

// Store is the relay for one script state.
type Store struct {
	L      *lua.LState
	logger *slog.Logger
	table  *lua.LTable
	next   Key
	count  int
}

// New returns the relay of L, creating its registry table on first use.
func New(L *lua.LState, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	reg := L.G.Registry
	tb, ok := reg.RawGetString(RegistryField).(*lua.LTable)
	if !ok {
		tb = L.NewTable()
		reg.RawSetString(RegistryField, tb)
	}
	s := &Store{L: L, logger: logger, table: tb}
	tb.ForEach(func(k, _ lua.LValue) {
		s.count++
		if n, ok := k.(lua.LNumber); ok && Key(n) > s.next {
			s.next = Key(n)
		}
	})
	return s
}

// Put stores values and returns the key to take them back with.
func (s *Store) Put(values []lua.LValue) Key {
	s.next++
	key := s.next

	entry := s.L.NewTable()
	for i, v := range values {
		if v == nil {
			v = lua.LNil
		}
		entry.RawSetInt(i+1, v)
	}
	entry.RawSetString("n", lua.LNumber(len(values)))
	s.table.RawSet(lua.LNumber(key), entry)
	s.count++

	s.logger.Debug("Relay stored values.", "key", key.String(), "count", len(values))
	return key
}

// Take returns the values stored under key and removes the entry.
func (s *Store) Take(key Key) ([]lua.LValue, error) {
	entry, ok := s.table.RawGet(lua.LNumber(key)).(*lua.LTable)
	if !ok {
		return nil, &KeyError{Key: key}
	}
	s.table.RawSet(lua.LNumber(key), lua.LNil)
	s.count--

	n := int(lua.LVAsNumber(entry.RawGetString("n")))
	values := make([]lua.LValue, n)
	for i := 0; i < n; i++ {
		values[i] = entry.RawGetInt(i + 1)
	}
	s.logger.Debug("Relay took values.", "key", key.String(), "count", n)
	return values, nil
}

// Len is the number of entries not yet taken.
func (s *Store) Len() int { return s.count }

// Outstanding lists the keys not yet taken, in ascending order.
func (s *Store) Outstanding() []Key {
	var keys []Key
	s.table.ForEach(func(k, _ lua.LValue) {
		if n, ok := k.(lua.LNumber); ok {
			keys = append(keys, Key(n))
		}
	})
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Balance returns a *LeakError if the store holds more than baseline
// entries.
func (s *Store) Balance(baseline int) error {
	if s.count <= baseline {
		return nil
	}
	return &LeakError{Baseline: baseline, Outstanding: s.Outstanding()}
}

// Drain takes every outstanding entry. Used to recover after a leak has
// been reported.
func (s *Store) Drain() int {
	keys := s.Outstanding()
	for _, k := range keys {
		_, _ = s.Take(k)
	}
	return len(keys)
}
