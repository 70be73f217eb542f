// Package relay moves values out of a scope that is about to close.
//
// # Purpose
//
// A script callback runs inside a scope that owns borrowed host objects. Its
// return values must survive the scope's teardown, but must not be held by
// Go code that outlives the script state. The relay parks them in a table in
// the Lua registry, where the garbage collector can see them, and hands back
// a single-use Key.
//
// # Protocol
//
//   - Put stores the values and returns a fresh Key.
//   - Take fetches the values and deletes the entry. A second Take of the
//     same Key, or a Take of an unknown Key, is a *KeyError.
//   - Balance checks that every Put was matched by a Take. The engine calls
//     it after every frame; a *LeakError lists the outstanding keys.
//
// The store is not safe for concurrent use; it lives on the script thread.
package relay
