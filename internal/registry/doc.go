// Package registry provides the central "glue" for the binding modules.
//
// The Registry stores mappings between the string identifiers used in
// manifests (e.g., "vec2.length") and the compiled Go handlers, hooks and
// overrides that implement them. It also holds the parsed, format-agnostic
// type and namespace definitions from the manifests themselves.
//
// During startup the registry is populated and then validated, so that the
// Go code and the manifests are known to agree before a script runs. Install
// then builds the script namespace inside a Lua state.
package registry
