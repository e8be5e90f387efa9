package nodeid

import "k8s.io/apimachinery/pkg/util/sets"

// Set is a set of identifiers. The selection evaluator leans on the
// apimachinery set algebra (union, intersection, difference, superset
// checks) rather than re-implementing it over raw maps.
type Set = sets.Set[ID]

// NewSet creates a Set from a list of identifiers.
func NewSet(ids ...ID) Set {
	return sets.New[ID](ids...)
}

// Sorted returns the members of s as a sorted slice, for deterministic
// output and error messages.
func Sorted(s Set) []ID {
	return sets.List(s)
}
