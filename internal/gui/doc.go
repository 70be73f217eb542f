// Package gui is a small immediate-mode GUI library: the host API the script
// bindings expose. Each frame the caller runs its UI code against a Context;
// widgets report interaction through Response values and the drawn frame can
// be rendered to terminal text with Render.
//
// Input is simulated: clicks, hovers, closes, toggles and edits are queued on
// the Context and consumed by the next frame.
package gui
