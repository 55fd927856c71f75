// Package internal contains the implementation packages for makegen.
//
// # Package Organization
//
//   - params: the parameter table and the string/integer value variant
//   - config: loading the optional config file and resolving overrides
//   - discovery: enumerating function and test target directories
//   - render: composing the five sections of the build script
//   - emit: writing the script to stdout or atomically to a file
//   - services: the resolve, discover, render pipeline behind the commands
//   - errors: typed errors naming the offending parameter or path
//   - logging: structured logging over log/slog
//   - watcher: debounced filesystem notifications for watch mode
//   - version: build information
//
// # Data Flow
//
// A run resolves a Configuration, discovers two target lists and renders
// them into one text. Nothing is written until rendering has succeeded, so a
// failing run never leaves a partial script behind.
package internal
