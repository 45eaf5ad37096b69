//go:build !debug

// Package debug provides assertions for contract violations inside the trap
// path. They are enabled with the debug build tag and compile to no-ops
// otherwise, in which case a violated contract is undefined behaviour.
package debug

// Guard more complex assertions (i.e. anything that could panic) with `if
// debug.Enabled{...}`, otherwise they can't be removed in release builds.
const Enabled = false

// Assert panics with message if b is false.
func Assert(b bool, message string) {}

// Assertf panics with the formatted message if b is false. The arguments are
// still evaluated in release builds, so keep them cheap.
func Assertf(b bool, format string, args ...any) {}
