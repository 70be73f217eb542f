// Package testutil provides a script host harness for the binding module
// tests.
package testutil
