// Package bridge implements the container show protocol: builders for
// windows and panels that script code configures and then shows, running a
// callback inside a scoped ui handle and relaying its results out.
//
// A show call flattens to
//
//	visible, response, callback results...
//
// where visible is false, and no callback runs, when the container is closed
// or collapsed. Nested scopes (ui:horizontal, ui:collapsing, ...) use the
// same protocol with their own handles.
package bridge
