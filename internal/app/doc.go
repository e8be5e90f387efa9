// Package app contains the core application logic. It loads the resource
// manifest, builds the dependency graph, resolves the requested selection,
// and reports the result, decoupled from any specific entrypoint.
package app
