// Package wrapgen turns method descriptors into Lua functions.
//
// A descriptor says how one host operation is called from script code: its
// calling kind, its argument types with their passing directives, and its
// return types. Descriptors come from a compact line grammar,
//
//	kind ; name [; args [; rets]] [; override=<name>]
//
// for example
//
//	m ; label ; union(string, rich_text, widget_text, galley) ; response
//	mm ; mark_changed
//	f ; new ; number, number ; vec2
//	m ; text_edit_singleline ; table custom=text_buffer ; response
//
// or from HCL manifests. The Generator checks each descriptor against the Go
// handler it binds with reflection, once, at startup; a mismatch is a
// *DescriptorError and never reaches a running script.
//
// Kinds:
//
//	f   free function, no receiver
//	m   method borrowing the receiver
//	mm  method borrowing the receiver mutably
//	ms  method consuming the receiver
//
// Directives (default move):
//
//	move         pass the decoded value
//	ref          pass a pointer into the script value's storage
//	clone        pass a deep copy (via a Clone method when the type has one)
//	custom=hook  decode with a named hook
package wrapgen
