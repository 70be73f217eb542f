// Package config defines the format-agnostic binding model: the host types
// script code can see, the operations bound on them, and the constant
// namespaces, along with the Loader interface that produces it.
//
// The `config.Model` is the single source of truth for the `registry`
// package. Concrete loaders, such as the HCL one, live in separate packages.
package config
