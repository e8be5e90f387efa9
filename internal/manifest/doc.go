// Package manifest holds the catalogue of graph members a selection runs
// against: models, tests, seeds, sources, exposures and friends, each with
// its dependency list and selection-relevant metadata. The manifest is a
// read-only snapshot; the selector only looks members up by id.
package manifest
