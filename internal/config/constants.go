// Package config carries process-wide build/runtime toggles, the way
// the teacher's own internal/config does (IsTestMode/IsLSPMode) rather
// than threading a configuration struct through every call (spec
// "Debug-resolve guard" design note: "a build-time toggle").
package config

// DebugResolveGuard enables the interpreter's debug-resolve guard: on
// every Item lookup, re-search the local/current stacks by name and
// assert the result matches the cached slot from the Item's
// ResolvedSlot cell. Expensive; intended for development builds and for
// porting/validating the lifetime checker, never for production use
// (spec §9 "Debug-resolve guard").
var DebugResolveGuard = false

// IsTestMode mirrors the teacher's config.IsTestMode. Nothing in this
// module reads it, so setting it does not change generated thread or
// channel ids or any other output.
var IsTestMode = false
