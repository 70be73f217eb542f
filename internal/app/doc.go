// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the frame loops that drive a script,
// decoupled from any specific entrypoint like a CLI.
package app
