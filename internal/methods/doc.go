// Package methods provides the selection-method registry: named matchers
// that reduce a candidate id set to the subset matching a pattern value.
// The selector looks methods up by name and treats them as opaque; an
// unrecognized name is a recoverable, user-facing condition.
package methods
